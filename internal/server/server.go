// Package server exposes the HTTP boundary: image upload feeding the
// recognition collaborator, the order table as JSON, and the dashboard
// statistics. Responses are structured success/failure envelopes with a
// human-readable message; internal errors never cross the boundary raw.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-insights/internal/common"
	"github.com/joseph-ayodele/invoice-insights/internal/recognize"
	"github.com/joseph-ayodele/invoice-insights/internal/stats"
)

// Server holds the wired handlers.
type Server struct {
	cfg        *common.Config
	runner     *Runner
	recognizer recognize.Recognizer
	stats      *stats.Service
	logger     *slog.Logger
}

// New builds the Server.
func New(cfg *common.Config, runner *Runner, rec recognize.Recognizer, st *stats.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:        cfg,
		runner:     runner,
		recognizer: rec,
		stats:      st,
		logger:     logger,
	}
}

// Router assembles the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.POST("/process-images", s.handleProcessImages)
	r.GET("/excel-data", s.handleExcelData)
	r.GET("/dashboard-data", s.handleDashboardData)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// requestLog tags every request with an ID and logs its outcome.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.New().String()
		c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), reqID))
		c.Header("X-Request-Id", reqID)

		c.Next()

		s.logger.Info("http.request",
			"req_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}

// envelope helpers

func okData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func failMsg(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "message": msg})
}
