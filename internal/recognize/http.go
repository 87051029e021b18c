package recognize

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// HTTPRecognizer calls a model server over HTTP. The request carries the
// prompt and the image as a data URL; the response is expected to be
// {"text": "..."} with the raw model output.
type HTTPRecognizer struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewHTTPRecognizer builds a client for the model endpoint at url.
func NewHTTPRecognizer(url string, timeout time.Duration, logger *slog.Logger) *HTTPRecognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HTTPRecognizer{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type recognizeRequest struct {
	Prompt string `json:"prompt"`
	Image  string `json:"image"` // data URL
}

type recognizeResponse struct {
	Text string `json:"text"`
}

// Recognize sends the image to the model server and returns its raw
// text output.
func (r *HTTPRecognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	if r.url == "" {
		return "", fmt.Errorf("recognizer url not configured")
	}

	reqID := uuid.New().String()
	start := time.Now()

	dataURL, err := readAsDataURL(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	bs, err := json.Marshal(recognizeRequest{Prompt: Prompt, Image: dataURL})
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(bs))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	r.logger.Info("recognize.http.request",
		"req_id", reqID,
		"image", filepath.Base(imagePath),
		"content_length", len(bs),
	)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("recognize.http.send_error", "req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			r.logger.Warn("recognize.http.body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	r.logger.Info("recognize.http.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}

	var out recognizeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Text, nil
}

func readAsDataURL(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	mt := mime.TypeByExtension("." + ext)
	if mt == "" {
		switch ext {
		case "jpg", "jpeg":
			mt = "image/jpeg"
		case "png":
			mt = "image/png"
		default:
			mt = "application/octet-stream"
		}
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}
