// invoicesd is the invoice-insights daemon: it accepts invoice photo
// uploads, forwards them to the recognition model, extracts normalized
// order rows from the model output, publishes the order table and
// serves the dashboard statistics.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/invoice-insights/internal/common"
	"github.com/joseph-ayodele/invoice-insights/internal/exporter"
	"github.com/joseph-ayodele/invoice-insights/internal/extract"
	"github.com/joseph-ayodele/invoice-insights/internal/normalize"
	"github.com/joseph-ayodele/invoice-insights/internal/recognize"
	"github.com/joseph-ayodele/invoice-insights/internal/repository"
	"github.com/joseph-ayodele/invoice-insights/internal/server"
	"github.com/joseph-ayodele/invoice-insights/internal/stats"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// .env is optional; env vars win either way.
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("config invalid", "error", err)
		os.Exit(1)
	}
	if err := server.EnsureDirs(cfg); err != nil {
		logger.Error("data dirs", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.Data.DBPath, logger)
	if err != nil {
		logger.Error("open bookkeeping db", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := repository.HealthCheck(ctx, db, 3*time.Second); err != nil {
		logger.Error("db health failed", "error", err)
		os.Exit(1)
	}
	logger.Info("db health ok", "path", cfg.Data.DBPath)

	corrections := normalize.DefaultCorrections()
	if cfg.Extract.CorrectionsPath != "" {
		corrections, err = normalize.LoadCorrections(cfg.Extract.CorrectionsPath)
		if err != nil {
			logger.Error("load corrections", "path", cfg.Extract.CorrectionsPath, "error", err)
			os.Exit(1)
		}
		logger.Info("corrections loaded", "path", cfg.Extract.CorrectionsPath)
	}

	norm := normalize.New(corrections, normalize.WithPriceThreshold(cfg.Extract.PriceThreshold))
	runner := server.NewRunner(
		cfg.Data.RawLog,
		cfg.Data.TablePath,
		extract.NewExtractor(norm, logger),
		exporter.NewExporter(logger),
		repository.NewRunRepository(db, logger),
	)
	statsSvc := stats.NewService(cfg.Data.TablePath, logger)
	rec := recognize.NewHTTPRecognizer(cfg.Recognizer.URL, cfg.Recognizer.Timeout, logger)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(cfg, runner, rec, statsSvc, logger).Router(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}
