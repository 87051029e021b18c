package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/invoice-insights/constants"
	"github.com/joseph-ayodele/invoice-insights/internal/common"
	"github.com/joseph-ayodele/invoice-insights/internal/recognize"
	"github.com/joseph-ayodele/invoice-insights/internal/repository"
)

// fileResult is the per-file outcome of an upload batch.
type fileResult struct {
	Filename    string `json:"filename"`
	Result      string `json:"result,omitempty"`
	Error       string `json:"error,omitempty"`
	ExcelStatus string `json:"excel_status,omitempty"`
}

// handleProcessImages accepts a multipart batch of invoice photos, runs
// each through the recognition collaborator and appends the raw output
// to the text log. A per-file failure is recorded and the batch keeps
// going. When the batch is done one extraction run republishes the
// order table.
func (s *Server) handleProcessImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		failMsg(c, http.StatusBadRequest, "multipart form required")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		failMsg(c, http.StatusBadRequest, "no files uploaded")
		return
	}

	ctx := c.Request.Context()
	batchID := s.runner.BeginBatch(ctx)
	results := make([]fileResult, 0, len(files))

	for _, fh := range files {
		name := filepath.Base(fh.Filename)
		dst := filepath.Join(s.cfg.Data.UploadDir, name)
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			s.logger.Error("upload.save_failed", "filename", name, "error", err)
			results = append(results, fileResult{Filename: name, Error: "could not store upload"})
			s.runner.RecordRecognition(ctx, batchID, name, repository.RecognitionFailed, "store upload failed", 0)
			continue
		}

		text, err := s.recognizeOne(c, dst)
		if err != nil {
			s.logger.Warn("recognize.item_failed", "filename", name, "error", err)
			results = append(results, fileResult{Filename: name, Error: err.Error()})
			s.runner.RecordRecognition(ctx, batchID, name, repository.RecognitionFailed, err.Error(), 0)
			// Keep the failure marker in the log too, as an audit trail.
			_ = s.runner.Append(fmt.Sprintf("ERROR: %v", err))
			continue
		}

		if err := s.runner.Append(text); err != nil {
			s.logger.Error("rawlog.append_failed", "filename", name, "error", err)
			results = append(results, fileResult{Filename: name, Error: "could not record result"})
			s.runner.RecordRecognition(ctx, batchID, name, repository.RecognitionFailed, "append raw log failed", len(text))
			continue
		}
		results = append(results, fileResult{Filename: name, Result: text})
		s.runner.RecordRecognition(ctx, batchID, name, repository.RecognitionOK, "", len(text))
	}

	res, err := s.runner.Run(ctx, batchID)
	if err != nil && !errors.Is(err, common.ErrNotReady) {
		s.logger.Error("extract.run_failed", "error", err)
		failMsg(c, http.StatusInternalServerError, "extraction failed after upload")
		return
	}
	if err == nil && len(res.Rows) > 0 {
		for i := range results {
			if results[i].Result != "" {
				results[i].ExcelStatus = "order table updated"
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": results})
}

// recognizeOne prepares one image and calls the collaborator.
func (s *Server) recognizeOne(c *gin.Context, path string) (string, error) {
	prepared, err := recognize.PrepareImage(path, s.cfg.Data.CacheDir, s.cfg.Recognizer.MaxEdge)
	if err != nil {
		// Recognition may still work on the raw photo.
		s.logger.Warn("prepare.image_failed", "path", path, "error", err)
		prepared = path
	}
	return s.recognizer.Recognize(c.Request.Context(), prepared)
}

// handleExcelData returns the published order table as JSON records
// keyed by the table's column headers.
func (s *Server) handleExcelData(c *gin.Context) {
	rows, err := s.runner.TableRows()
	if err != nil {
		if errors.Is(err, common.ErrNotReady) {
			failMsg(c, http.StatusOK, "order table has not been generated yet")
			return
		}
		s.logger.Error("table.read_failed", "error", err)
		failMsg(c, http.StatusInternalServerError, "could not read order table")
		return
	}

	records := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		rec := make(map[string]string, len(constants.Columns))
		for i, col := range constants.Columns {
			rec[col] = r[i]
		}
		records = append(records, rec)
	}
	okData(c, records)
}

// handleDashboardData recomputes the six summary views from the
// published table.
func (s *Server) handleDashboardData(c *gin.Context) {
	d, err := s.stats.Dashboard()
	if err != nil {
		if errors.Is(err, common.ErrNotReady) {
			failMsg(c, http.StatusOK, "order table has not been generated yet")
			return
		}
		s.logger.Error("stats.failed", "error", err)
		failMsg(c, http.StatusInternalServerError, "could not compute dashboard")
		return
	}
	okData(c, d)
}

// EnsureDirs creates the writable directories the handlers rely on.
// The daemon calls it once before serving.
func EnsureDirs(cfg *common.Config) error {
	for _, dir := range []string{cfg.Data.Dir, cfg.Data.UploadDir, cfg.Data.CacheDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return nil
}
