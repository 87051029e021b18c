package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/invoice-insights/internal/common"
	"github.com/joseph-ayodele/invoice-insights/internal/exporter"
	"github.com/joseph-ayodele/invoice-insights/internal/extract"
	"github.com/joseph-ayodele/invoice-insights/internal/normalize"
	"github.com/joseph-ayodele/invoice-insights/internal/repository"
	"github.com/joseph-ayodele/invoice-insights/internal/stats"
)

const recognizedBlock = `[
  {"Ngày tạo đơn": "ngày 5 tháng 3 năm 2024", "Tên khách hàng": "Thu Bàn"},
  {"Tên mặt hàng": "Nấm Bào Ngư", "Đơn vị tính": "kg", "Số lượng": "2", "Đơn giá": "35", "Thành tiền": "70"}
]`

// stubRecognizer answers with canned text, or an error per filename.
type stubRecognizer struct {
	text string
	err  error
}

func (s stubRecognizer) Recognize(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

func newTestServer(t *testing.T, rec stubRecognizer) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &common.Config{
		Server: common.ServerConfig{Addr: ":0", ShutdownTimeout: time.Second},
		Data: common.DataConfig{
			Dir:       dir,
			RawLog:    filepath.Join(dir, "text.txt"),
			TablePath: filepath.Join(dir, "output.xlsx"),
			UploadDir: filepath.Join(dir, "uploads"),
			CacheDir:  filepath.Join(dir, "cache"),
			DBPath:    filepath.Join(dir, "test.db"),
		},
	}
	if err := EnsureDirs(cfg); err != nil {
		t.Fatal(err)
	}

	db, err := repository.Open(context.Background(), cfg.Data.DBPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	runner := NewRunner(
		cfg.Data.RawLog,
		cfg.Data.TablePath,
		extract.NewExtractor(normalize.New(nil), nil),
		exporter.NewExporter(nil),
		repository.NewRunRepository(db, nil),
	)
	return New(cfg, runner, rec, stats.NewService(cfg.Data.TablePath, nil), nil)
}

func uploadRequest(t *testing.T, filenames ...string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range filenames {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte("not really a jpeg")); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/process-images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestProcessImagesPublishesTable(t *testing.T) {
	srv := newTestServer(t, stubRecognizer{text: recognizedBlock})
	router := srv.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "invoice1.jpg"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Results []struct {
			Filename    string `json:"filename"`
			Result      string `json:"result"`
			Error       string `json:"error"`
			ExcelStatus string `json:"excel_status"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || len(resp.Results) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Results[0].Error != "" || resp.Results[0].ExcelStatus == "" {
		t.Errorf("result = %+v, want success with excel status", resp.Results[0])
	}

	// The published table is now readable through the data endpoint.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/excel-data", nil))
	var data struct {
		Success bool                `json:"success"`
		Data    []map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if !data.Success || len(data.Data) != 1 {
		t.Fatalf("excel-data = %+v", data)
	}
	if got := data.Data[0]["Tên khách hàng"]; got != "Thu Bồn" {
		t.Errorf("customer in table = %q, want Thu Bồn", got)
	}
}

func TestProcessImagesRecognitionFailureKeepsBatchGoing(t *testing.T) {
	// All files fail recognition; the handler must still answer 200 with
	// per-file errors and no table.
	srv := newTestServer(t, stubRecognizer{err: context.DeadlineExceeded})
	router := srv.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "a.jpg", "b.jpg"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Results []struct {
			Error string `json:"error"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
	for i, r := range resp.Results {
		if r.Error == "" {
			t.Errorf("result %d has no error", i)
		}
	}
}

func TestDataEndpointsNotReady(t *testing.T) {
	srv := newTestServer(t, stubRecognizer{})
	router := srv.Router()

	for _, path := range []string{"/excel-data", "/dashboard-data"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, w.Code)
		}
		var resp struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Success || resp.Message == "" {
			t.Errorf("%s = %+v, want not-ready failure envelope", path, resp)
		}
	}
}

func TestDashboardDataAfterUpload(t *testing.T) {
	srv := newTestServer(t, stubRecognizer{text: recognizedBlock})
	router := srv.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "invoice1.jpg"))
	if w.Code != http.StatusOK {
		t.Fatal(w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard-data", nil))
	var resp struct {
		Success bool            `json:"success"`
		Data    stats.Dashboard `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Fatalf("dashboard-data = %s", w.Body.String())
	}
	if resp.Data.TotalOrders != 1 || resp.Data.TotalRevenue != 70000 {
		t.Errorf("dashboard = %+v, want 1 order / 70000 revenue", resp.Data)
	}
}
