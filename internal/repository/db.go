// Package repository records extraction runs and per-file recognition
// outcomes in a local sqlite database, so failed batches can be audited
// after the fact. The order table itself lives in the published XLSX;
// this store is bookkeeping only.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS extract_runs (
	id            TEXT PRIMARY KEY,
	started_at    TIMESTAMP NOT NULL,
	finished_at   TIMESTAMP,
	blocks_found  INTEGER NOT NULL DEFAULT 0,
	blocks_failed INTEGER NOT NULL DEFAULT 0,
	rows_emitted  INTEGER NOT NULL DEFAULT 0,
	orders_seen   INTEGER NOT NULL DEFAULT 0,
	status        TEXT NOT NULL,
	error_message TEXT
);

CREATE TABLE IF NOT EXISTS recognition_results (
	id            TEXT PRIMARY KEY,
	run_id        TEXT NOT NULL REFERENCES extract_runs(id),
	filename      TEXT NOT NULL,
	status        TEXT NOT NULL,
	error_message TEXT,
	raw_bytes     INTEGER NOT NULL DEFAULT 0,
	created_at    TIMESTAMP NOT NULL
);
`

// Open opens (creating if needed) the bookkeeping database and applies
// the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("repository.open", "path", path)

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single connection: modernc sqlite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

// HealthCheck pings the database with a timeout.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return db.PingContext(ctx)
}
