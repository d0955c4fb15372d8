package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"sonicwave/internal/pipeline"
)

const schemaVersion = 1

// Batch is one recorded batch run.
type Batch struct {
	ID           int64
	StartedAt    time.Time
	FinishedAt   time.Time
	TargetFormat string
	Succeeded    int
	Failed       int
}

// FileRecord is one file's outcome inside a recorded batch.
type FileRecord struct {
	SourceName string
	OutputName string
	OK         bool
	Kind       string
	Message    string
}

// Store persists batch records in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path reports the database file location.
func (s *Store) Path() string { return s.path }

// RecordBatch writes one batch and its per-file outcomes, returning the new
// batch id.
func (s *Store) RecordBatch(ctx context.Context, started, finished time.Time, targetFormat string, result pipeline.BatchResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch record: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO batches (started_at, finished_at, target_format, succeeded, failed)
         VALUES (?, ?, ?, ?, ?)`,
		started.UTC().Format(time.RFC3339Nano),
		finished.UTC().Format(time.RFC3339Nano),
		targetFormat,
		len(result.Successes),
		len(result.Failures),
	)
	if err != nil {
		return 0, fmt.Errorf("insert batch: %w", err)
	}
	batchID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("batch id: %w", err)
	}

	insertFile := func(r pipeline.Result) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO batch_files (batch_id, source_name, output_name, ok, kind, message)
             VALUES (?, ?, ?, ?, ?, ?)`,
			batchID, r.SourceName, r.OutputName, boolInt(r.OK), string(r.Kind), r.Message,
		)
		return err
	}
	for _, r := range result.Successes {
		if err := insertFile(r); err != nil {
			return 0, fmt.Errorf("insert success record: %w", err)
		}
	}
	for _, r := range result.Failures {
		if err := insertFile(r); err != nil {
			return 0, fmt.Errorf("insert failure record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch record: %w", err)
	}
	return batchID, nil
}

// Recent returns up to limit batches, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Batch, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, target_format, succeeded, failed
         FROM batches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var b Batch
		var startedAt, finishedAt string
		if err := rows.Scan(&b.ID, &startedAt, &finishedAt, &b.TargetFormat, &b.Succeeded, &b.Failed); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		if b.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if b.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// Files returns the per-file outcomes of one batch in insertion order.
func (s *Store) Files(ctx context.Context, batchID int64) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_name, output_name, ok, kind, message
         FROM batch_files WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query batch files: %w", err)
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var r FileRecord
		var ok int
		if err := rows.Scan(&r.SourceName, &r.OutputName, &ok, &r.Kind, &r.Message); err != nil {
			return nil, fmt.Errorf("scan batch file: %w", err)
		}
		r.OK = ok != 0
		records = append(records, r)
	}
	return records, rows.Err()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
