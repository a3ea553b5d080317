package store

import (
	"context"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS reconcile_runs (
	id                  UUID PRIMARY KEY,
	started_at          TIMESTAMPTZ NOT NULL,
	finished_at         TIMESTAMPTZ NOT NULL,
	status              TEXT NOT NULL,
	error               TEXT NOT NULL DEFAULT '',
	base_path           TEXT NOT NULL DEFAULT '',
	search_path         TEXT NOT NULL DEFAULT '',
	base_rows           INTEGER NOT NULL DEFAULT 0,
	search_rows         INTEGER NOT NULL DEFAULT 0,
	matched             INTEGER NOT NULL DEFAULT 0,
	unmatched           INTEGER NOT NULL DEFAULT 0,
	duplicate_groups    INTEGER NOT NULL DEFAULT 0,
	duplicate_rows      INTEGER NOT NULL DEFAULT 0,
	date_parse_failures INTEGER NOT NULL DEFAULT 0,
	load_warnings       INTEGER NOT NULL DEFAULT 0,
	final_rows          INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS reconcile_runs_started_at_idx
	ON reconcile_runs (started_at DESC);

CREATE TABLE IF NOT EXISTS reconcile_output_rows (
	run_id            UUID NOT NULL REFERENCES reconcile_runs (id) ON DELETE CASCADE,
	position          INTEGER NOT NULL,
	kind              TEXT NOT NULL,
	citation          TEXT NOT NULL,
	resolution_number TEXT,
	prior_resolution  TEXT,
	resolution_date   DATE,
	type_code         TEXT,
	total_amount      NUMERIC,
	row_data          JSONB NOT NULL,
	PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS reconcile_output_rows_citation_idx
	ON reconcile_output_rows (citation);
`

// EnsureSchema creates the history tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create history schema: %w", err)
	}
	return nil
}
