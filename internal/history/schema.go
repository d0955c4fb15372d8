package history

import (
	"context"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_info (
    version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS batches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    target_format TEXT NOT NULL,
    succeeded INTEGER NOT NULL,
    failed INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS batch_files (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    batch_id INTEGER NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
    source_name TEXT NOT NULL,
    output_name TEXT,
    ok INTEGER NOT NULL,
    kind TEXT,
    message TEXT
);

CREATE INDEX IF NOT EXISTS idx_batch_files_batch ON batch_files(batch_id);
`

// ensureSchema creates tables and resets them on version mismatch. History is
// an audit trail, so dropping stale data beats carrying migrations.
func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var version int
	err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_info LIMIT 1`).Scan(&version)
	switch {
	case err == nil && version == schemaVersion:
		return nil
	case err == nil:
		if _, err := s.db.ExecContext(ctx, `
            DROP TABLE IF EXISTS batch_files;
            DROP TABLE IF EXISTS batches;
            DELETE FROM schema_info;
        `); err != nil {
			return fmt.Errorf("reset stale schema: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("recreate schema: %w", err)
		}
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_info (version) VALUES (?)`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}
