package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/JonMunkholm/resolutions/internal/core"
	"github.com/JonMunkholm/resolutions/internal/core/tables"
	"github.com/JonMunkholm/resolutions/internal/reconcile"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// OutputRow is one archived record of a run's final table.
type OutputRow struct {
	Position         int               `json:"position"`
	Kind             string            `json:"kind"`
	Citation         string            `json:"citation"`
	ResolutionNumber string            `json:"resolution_number"`
	PriorResolution  string            `json:"prior_resolution"`
	ResolutionDate   string            `json:"resolution_date,omitempty"`
	TypeCode         string            `json:"type_code"`
	TotalAmount      string            `json:"total_amount,omitempty"`
	Data             map[string]string `json:"data"`
}

// RunDetail is a run with its archived output.
type RunDetail struct {
	Summary reconcile.Summary `json:"summary"`
	Rows    []OutputRow       `json:"rows"`
}

var outputColumns = []string{
	"run_id", "position", "kind", "citation", "resolution_number",
	"prior_resolution", "resolution_date", "type_code", "total_amount", "row_data",
}

// RecordRun stores the summary of res and, for successful runs, its final
// table. Everything is written in one transaction.
func (s *Store) RecordRun(ctx context.Context, res *reconcile.Result) error {
	sum := res.Summary

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO reconcile_runs (
			id, started_at, finished_at, status, error, base_path, search_path,
			base_rows, search_rows, matched, unmatched, duplicate_groups,
			duplicate_rows, date_parse_failures, load_warnings, final_rows
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		core.ToPgUUID(sum.RunID), sum.StartedAt, sum.FinishedAt, sum.Status, sum.Error,
		sum.BasePath, sum.SearchPath,
		sum.BaseRows, sum.SearchRows, sum.Matched, sum.Unmatched, sum.DuplicateGroups,
		sum.DuplicateRows, sum.DateParseFailures, sum.LoadWarnings, sum.FinalRows,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", sum.RunID, err)
	}

	if len(res.Records) > 0 {
		columns := res.Final.Columns
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"reconcile_output_rows"},
			outputColumns,
			pgx.CopyFromSlice(len(res.Records), func(i int) ([]any, error) {
				return outputValues(sum.RunID, i, res.Records[i], columns, res.Dates)
			}),
		)
		if err != nil {
			return fmt.Errorf("copy output rows for run %s: %w", sum.RunID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit run %s: %w", sum.RunID, err)
	}
	return nil
}

// outputValues converts one output record to the reconcile_output_rows
// column order. Dates are parsed with the run's parser. Cells that do not
// parse as a date or number are stored as NULL in the typed columns;
// row_data always keeps the raw text.
func outputValues(runID uuid.UUID, position int, rec reconcile.OutputRecord, columns []string, dates core.DateParser) ([]any, error) {
	data := make(map[string]string, len(columns))
	for i, col := range columns {
		data[col] = rec.Row.Cell(i)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	get := func(name string) string {
		for i, col := range columns {
			if core.HeaderKey(col) == core.HeaderKey(name) {
				return rec.Row.Cell(i)
			}
		}
		return ""
	}

	return []any{
		core.ToPgUUID(runID),
		int32(position),
		string(rec.Kind),
		rec.Citation,
		core.ToPgText(get(tables.ColResolutionNumber)),
		core.ToPgText(get(tables.ColPriorResolution)),
		dates.Parse(get(tables.ColResolutionDate)),
		core.ToPgText(get(tables.ColResolutionTypeCode)),
		core.ToPgNumeric(get(tables.ColTotalAmount)),
		raw,
	}, nil
}

const runColumns = `
	id, started_at, finished_at, status, error, base_path, search_path,
	base_rows, search_rows, matched, unmatched, duplicate_groups,
	duplicate_rows, date_parse_failures, load_warnings, final_rows`

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]reconcile.Summary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx,
		`SELECT`+runColumns+` FROM reconcile_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (reconcile.Summary, error) {
		return scanSummary(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run and its archived output rows.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*RunDetail, error) {
	sum, err := scanSummary(s.pool.QueryRow(ctx,
		`SELECT`+runColumns+` FROM reconcile_runs WHERE id = $1`, core.ToPgUUID(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT position, kind, citation,
			COALESCE(resolution_number, ''), COALESCE(prior_resolution, ''),
			resolution_date, COALESCE(type_code, ''),
			COALESCE(total_amount::text, ''), row_data
		FROM reconcile_output_rows
		WHERE run_id = $1
		ORDER BY position`, core.ToPgUUID(id))
	if err != nil {
		return nil, fmt.Errorf("get run %s rows: %w", id, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (OutputRow, error) {
		var (
			r    OutputRow
			date pgtype.Date
			raw  []byte
		)
		if err := row.Scan(&r.Position, &r.Kind, &r.Citation, &r.ResolutionNumber,
			&r.PriorResolution, &date, &r.TypeCode, &r.TotalAmount, &raw); err != nil {
			return r, err
		}
		if date.Valid {
			r.ResolutionDate = date.Time.Format("2006-01-02")
		}
		if err := json.Unmarshal(raw, &r.Data); err != nil {
			return r, err
		}
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("get run %s rows: %w", id, err)
	}

	return &RunDetail{Summary: sum, Rows: out}, nil
}

func scanSummary(row pgx.Row) (reconcile.Summary, error) {
	var (
		s  reconcile.Summary
		id pgtype.UUID
	)
	err := row.Scan(&id, &s.StartedAt, &s.FinishedAt, &s.Status, &s.Error,
		&s.BasePath, &s.SearchPath,
		&s.BaseRows, &s.SearchRows, &s.Matched, &s.Unmatched, &s.DuplicateGroups,
		&s.DuplicateRows, &s.DateParseFailures, &s.LoadWarnings, &s.FinalRows)
	if err != nil {
		return s, err
	}
	s.RunID = uuid.UUID(id.Bytes)
	return s, nil
}
