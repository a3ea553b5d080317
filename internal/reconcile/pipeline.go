package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/JonMunkholm/resolutions/internal/config"
	"github.com/JonMunkholm/resolutions/internal/core"
	"github.com/JonMunkholm/resolutions/internal/core/tables"
	"github.com/JonMunkholm/resolutions/internal/logging"
	"github.com/JonMunkholm/resolutions/internal/sheet"
	"github.com/google/uuid"
)

// Run statuses stored with history.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Options tunes a run.
type Options struct {
	DedupDateColumn string
	DateParser      core.DateParser
	TypeCodes       TypeCodes
}

// DefaultOptions ranks duplicates by resolution date, reads day-first dates
// and writes the registry type codes.
func DefaultOptions() Options {
	return Options{
		DedupDateColumn: tables.ColResolutionDate,
		DateParser:      core.DefaultDateParser,
		TypeCodes:       DefaultTypeCodes,
	}
}

// OptionsFromConfig builds Options from the reconcile settings.
func OptionsFromConfig(c config.ReconcileConfig) Options {
	return Options{
		DedupDateColumn: c.DedupDateColumn,
		DateParser:      core.DateParser{DayFirst: c.DateDayFirst},
		TypeCodes: TypeCodes{
			Original:    c.OriginalTypeCode,
			Superseding: c.SupersedingTypeCode,
		},
	}
}

// Summary counts what a run did.
type Summary struct {
	RunID      uuid.UUID `json:"run_id"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	BasePath   string    `json:"base_path,omitempty"`
	SearchPath string    `json:"search_path,omitempty"`

	BaseRows          int `json:"base_rows"`
	SearchRows        int `json:"search_rows"`
	Matched           int `json:"matched"`
	Unmatched         int `json:"unmatched"`
	DuplicateGroups   int `json:"duplicate_groups"`
	DuplicateRows     int `json:"duplicate_rows"`
	DateParseFailures int `json:"date_parse_failures"`
	LoadWarnings      int `json:"load_warnings"`
	FinalRows         int `json:"final_rows"`
}

// Duration is the wall time of the run.
func (s Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// LogValue implements slog.LogValuer.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID.String()),
		slog.String("status", s.Status),
		slog.Int("base_rows", s.BaseRows),
		slog.Int("search_rows", s.SearchRows),
		slog.Int("matched", s.Matched),
		slog.Int("unmatched", s.Unmatched),
		slog.Int("duplicate_groups", s.DuplicateGroups),
		slog.Int("duplicate_rows", s.DuplicateRows),
		slog.Int("date_parse_failures", s.DateParseFailures),
		slog.Int("load_warnings", s.LoadWarnings),
		slog.Int("final_rows", s.FinalRows),
		slog.Duration("duration", s.Duration()),
	)
}

// Input is a loaded pair of tables.
type Input struct {
	Base   *core.Table
	Search *core.Table
}

// Result holds every table a run produces.
type Result struct {
	Summary    Summary
	Final      *core.Table
	Unmatched  *core.Table
	Duplicates *core.Table
	Records    []OutputRecord
	DateErrors []core.DateParseError
	// Dates is the parser the run ranked dates with.
	Dates core.DateParser
}

// Recorder persists run history. Implementations must not modify the result.
type Recorder interface {
	RecordRun(ctx context.Context, res *Result) error
}

// Reconcile runs dedup, match and transform over in-memory tables. The
// summary's counts are filled; identity and timing are left to the caller.
func Reconcile(in Input, opts Options) (*Result, error) {
	bl, err := NewBaseLayout(in.Base, opts.DedupDateColumn)
	if err != nil {
		return nil, core.AtStage(core.StageDedup, err)
	}
	sl, err := NewSearchLayout(in.Search)
	if err != nil {
		return nil, core.AtStage(core.StageMatch, err)
	}
	if opts.TypeCodes == (TypeCodes{}) {
		opts.TypeCodes = DefaultTypeCodes
	}

	keys := SearchKeys(in.Search.Rows, sl)
	dedup := ResolveDuplicates(in.Base.Rows, keys, bl, opts.DateParser)
	match := Match(in.Search.Rows, dedup.Resolved, in.Base.Rows, sl, bl)
	records := Transform(match.Pairs, sl, bl, opts.TypeCodes)

	res := &Result{
		Final:      &core.Table{Key: "final", Columns: in.Base.Columns, Rows: Rows(records)},
		Unmatched:  &core.Table{Key: "unmatched", Columns: in.Search.Columns, Rows: match.Unmatched},
		Duplicates: &core.Table{Key: "duplicates", Columns: in.Base.Columns, Rows: dedup.Duplicates},
		Records:    records,
		DateErrors: dedup.DateErrors,
		Dates:      opts.DateParser,
	}
	res.Summary = Summary{
		BaseRows:          in.Base.Len(),
		SearchRows:        in.Search.Len(),
		Matched:           len(match.Pairs),
		Unmatched:         len(match.Unmatched),
		DuplicateGroups:   dedup.Groups,
		DuplicateRows:     len(dedup.Duplicates),
		DateParseFailures: len(dedup.DateErrors),
		FinalRows:         len(records),
	}
	return res, nil
}

// Execute reconciles in and stamps the result with a fresh run ID and
// timing. It is the entry point for callers that loaded the tables
// themselves.
func Execute(ctx context.Context, in Input, opts Options) (*Result, error) {
	started := time.Now()
	runID := uuid.New()
	ctx = logging.ContextWithRunID(ctx, runID.String())

	res, err := Reconcile(in, opts)
	if err != nil {
		return nil, err
	}
	logDateErrors(ctx, res.DateErrors)

	res.Summary.RunID = runID
	res.Summary.Status = StatusSucceeded
	res.Summary.StartedAt = started
	res.Summary.FinishedAt = time.Now()
	return res, nil
}

// Run loads both inputs from paths, reconciles them, writes the outputs and
// records the run when rec is non-nil.
//
// The final table is always written. The unmatched and duplicates tables
// are written only when non-empty. A load failure aborts before any output
// is written; a write failure leaves earlier outputs on disk. A recording
// failure is logged and does not fail the run.
func Run(ctx context.Context, paths config.PathsConfig, opts Options, rec Recorder) (*Result, error) {
	started := time.Now()
	runID := uuid.New()
	ctx = logging.ContextWithRunID(ctx, runID.String())
	logger := logging.FromContext(ctx)

	stamp := func(s *Summary, status string) {
		s.RunID = runID
		s.Status = status
		s.StartedAt = started
		s.FinishedAt = time.Now()
		s.BasePath = paths.Base
		s.SearchPath = paths.Search
	}
	fail := func(err error) (*Result, error) {
		failed := &Result{Summary: Summary{Error: err.Error()}}
		stamp(&failed.Summary, StatusFailed)
		Record(ctx, rec, failed)
		logger.Error("run failed", "stage", core.StageOf(err), "error", err)
		return nil, err
	}

	in, warnings, err := loadInputs(paths)
	if err != nil {
		return fail(core.AtStage(core.StageLoad, err))
	}
	logger.Info("inputs loaded",
		"base", in.Base.String(),
		"search", in.Search.String(),
		"warnings", len(warnings),
	)
	for _, w := range warnings {
		logger.Debug("cell validation", "error", w.Error())
	}

	res, err := Reconcile(in, opts)
	if err != nil {
		return fail(err)
	}
	logDateErrors(ctx, res.DateErrors)
	logger.Info("reconciled",
		"matched", res.Summary.Matched,
		"unmatched", res.Summary.Unmatched,
		"duplicate_groups", res.Summary.DuplicateGroups,
	)

	if err := Emit(ctx, paths, res); err != nil {
		return fail(err)
	}

	res.Summary.LoadWarnings = len(warnings)
	stamp(&res.Summary, StatusSucceeded)

	Record(ctx, rec, res)
	logger.Info("run complete", "summary", res.Summary)
	return res, nil
}

// loadInputs reads the base and search tables named in paths.
func loadInputs(paths config.PathsConfig) (Input, []core.ValidationError, error) {
	baseDef, err := core.Lookup(tables.BaseKey)
	if err != nil {
		return Input{}, nil, err
	}
	searchDef, err := core.Lookup(tables.SearchKey)
	if err != nil {
		return Input{}, nil, err
	}

	base, baseReport, err := sheet.Load(paths.Base, baseDef)
	if err != nil {
		return Input{}, nil, err
	}
	search, searchReport, err := sheet.Load(paths.Search, searchDef)
	if err != nil {
		return Input{}, nil, err
	}

	warnings := append(baseReport.Warnings, searchReport.Warnings...)
	return Input{Base: base, Search: search}, warnings, nil
}

// Emit writes the outputs of res to paths.
func Emit(ctx context.Context, paths config.PathsConfig, res *Result) error {
	logger := logging.FromContext(ctx)

	outputs := []struct {
		name     string
		path     string
		table    *core.Table
		optional bool
	}{
		{"final", paths.Output, res.Final, false},
		{"unmatched", paths.Unmatched, res.Unmatched, true},
		{"duplicates", paths.Duplicates, res.Duplicates, true},
	}
	for _, o := range outputs {
		if o.optional && o.table.Len() == 0 {
			continue
		}
		if err := sheet.Write(o.path, o.name, o.table); err != nil {
			return core.AtStage(core.StageWrite, err)
		}
		logger.Info("output written", "output", o.name, "path", o.path, "rows", o.table.Len())
	}
	return nil
}

// Record hands res to rec. Failures are logged and not returned.
func Record(ctx context.Context, rec Recorder, res *Result) {
	if rec == nil {
		return
	}
	if err := rec.RecordRun(ctx, res); err != nil {
		logging.FromContext(ctx).Warn("run history not recorded",
			"error", core.AtStage(core.StageRecord, err))
	}
}

func logDateErrors(ctx context.Context, errs []core.DateParseError) {
	if len(errs) == 0 {
		return
	}
	logger := logging.FromContext(ctx)
	for _, de := range errs {
		logger.Debug("date not parsed", "error", de.Error())
	}
}
