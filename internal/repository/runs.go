package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	RunStatusRunning = "RUNNING"
	RunStatusOK      = "OK"
	RunStatusFailed  = "FAILED"
)

// Recognition statuses.
const (
	RecognitionOK     = "OK"
	RecognitionFailed = "FAILED"
)

// RunRepository persists extraction-run bookkeeping.
type RunRepository interface {
	BeginRun(ctx context.Context) (uuid.UUID, error)
	FinishRun(ctx context.Context, id uuid.UUID, blocksFound, blocksFailed, rowsEmitted, orders int, runErr error) error
	RecordRecognition(ctx context.Context, runID uuid.UUID, filename, status, errMsg string, rawBytes int) error
}

type runRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRunRepository builds the sqlite-backed RunRepository.
func NewRunRepository(db *sql.DB, logger *slog.Logger) RunRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &runRepo{db: db, logger: logger}
}

func (r *runRepo) BeginRun(ctx context.Context) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO extract_runs (id, started_at, status) VALUES (?, ?, ?)`,
		id.String(), time.Now().UTC(), RunStatusRunning,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

func (r *runRepo) FinishRun(ctx context.Context, id uuid.UUID, blocksFound, blocksFailed, rowsEmitted, orders int, runErr error) error {
	status := RunStatusOK
	errMsg := ""
	if runErr != nil {
		status = RunStatusFailed
		errMsg = runErr.Error()
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE extract_runs
		 SET finished_at = ?, blocks_found = ?, blocks_failed = ?,
		     rows_emitted = ?, orders_seen = ?, status = ?, error_message = ?
		 WHERE id = ?`,
		time.Now().UTC(), blocksFound, blocksFailed, rowsEmitted, orders, status, errMsg, id.String(),
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

func (r *runRepo) RecordRecognition(ctx context.Context, runID uuid.UUID, filename, status, errMsg string, rawBytes int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recognition_results (id, run_id, filename, status, error_message, raw_bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), runID.String(), filename, status, errMsg, rawBytes, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record recognition: %w", err)
	}
	return nil
}
