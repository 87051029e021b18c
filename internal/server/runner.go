package server

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-insights/internal/common"
	"github.com/joseph-ayodele/invoice-insights/internal/exporter"
	"github.com/joseph-ayodele/invoice-insights/internal/extract"
	"github.com/joseph-ayodele/invoice-insights/internal/repository"
)

// Runner executes extraction runs over the accumulated raw text log and
// publishes the order table. Runs are serialized: the table is a shared
// resource and readers must only ever see a fully published version.
type Runner struct {
	rawLog    string
	tablePath string
	extractor *extract.Extractor
	exporter  *exporter.Exporter
	runs      repository.RunRepository

	mu sync.Mutex
}

// NewRunner wires the extraction pipeline.
func NewRunner(rawLog, tablePath string, ex *extract.Extractor, xp *exporter.Exporter, runs repository.RunRepository) *Runner {
	return &Runner{
		rawLog:    rawLog,
		tablePath: tablePath,
		extractor: ex,
		exporter:  xp,
		runs:      runs,
	}
}

// BeginBatch opens a bookkeeping record for an upload batch. A failure
// here is swallowed: bookkeeping must never block the pipeline.
func (r *Runner) BeginBatch(ctx context.Context) uuid.UUID {
	id, err := r.runs.BeginRun(ctx)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// RecordRecognition logs one per-file recognition outcome against the
// batch. Best effort, same as BeginBatch.
func (r *Runner) RecordRecognition(ctx context.Context, batchID uuid.UUID, filename, status, errMsg string, rawBytes int) {
	if batchID == uuid.Nil {
		return
	}
	_ = r.runs.RecordRecognition(ctx, batchID, filename, status, errMsg, rawBytes)
}

// Append appends one recognition result (or its error marker) to the
// raw text log. The log is append-only; extraction always re-reads the
// whole file so later correction-table fixes apply to old batches too.
func (r *Runner) Append(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.rawLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open raw log: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err := fmt.Fprintf(f, "%s\n\n", text); err != nil {
		return fmt.Errorf("append raw log: %w", err)
	}
	return nil
}

// Run reads the raw log, extracts rows and publishes the table, then
// closes the batch bookkeeping.
func (r *Runner) Run(ctx context.Context, batchID uuid.UUID) (extract.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, runErr := r.run()
	if batchID != uuid.Nil {
		_ = r.runs.FinishRun(ctx, batchID, res.BlocksFound, res.BlocksFailed, len(res.Rows), res.Orders, runErr)
	}
	return res, runErr
}

func (r *Runner) run() (extract.Result, error) {
	raw, err := os.ReadFile(r.rawLog)
	if err != nil {
		if os.IsNotExist(err) {
			return extract.Result{}, common.ErrNotReady
		}
		return extract.Result{}, fmt.Errorf("read raw log: %w", err)
	}

	res := r.extractor.Extract(string(raw))
	if err := r.exporter.Write(r.tablePath, res.Rows); err != nil {
		return res, fmt.Errorf("publish table: %w", err)
	}
	return res, nil
}

// TableRows loads the published table for the data endpoint.
func (r *Runner) TableRows() ([][]string, error) {
	if _, err := os.Stat(r.tablePath); os.IsNotExist(err) {
		return nil, common.ErrNotReady
	}
	return exporter.Read(r.tablePath)
}
