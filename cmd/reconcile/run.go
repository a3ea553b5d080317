package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/JonMunkholm/resolutions/internal/config"
	"github.com/JonMunkholm/resolutions/internal/core"
	"github.com/JonMunkholm/resolutions/internal/logging"
	"github.com/JonMunkholm/resolutions/internal/reconcile"
	"github.com/spf13/cobra"
)

var runFlags struct {
	base, search, output, unmatched, duplicates string
	dedupColumn                                 string
	noHistory                                   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconcile one base file against one search file",
	Long: `Reads the base registry and the search list, collapses duplicate
registry entries, and writes:

  final       two rows per matched citation (original and superseding)
  unmatched   citations not present in the base (only when non-empty)
  duplicates  every row of a duplicated citation (only when non-empty)

Flags override the *_PATH environment variables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := cfg.Paths
		override(cmd, "base", &paths.Base, runFlags.base)
		override(cmd, "search", &paths.Search, runFlags.search)
		override(cmd, "output", &paths.Output, runFlags.output)
		override(cmd, "unmatched", &paths.Unmatched, runFlags.unmatched)
		override(cmd, "duplicates", &paths.Duplicates, runFlags.duplicates)

		rc := cfg.Reconcile
		override(cmd, "dedup-date-column", &rc.DedupDateColumn, runFlags.dedupColumn)

		check := *cfg
		check.Paths, check.Reconcile = paths, rc
		if err := check.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}

		return runBatch(cmd.Context(), cmd.OutOrStdout(), paths, rc, !runFlags.noHistory)
	},
}

// runBatch reconciles the files in paths and prints the summary to w.
func runBatch(ctx context.Context, w io.Writer, paths config.PathsConfig, rc config.ReconcileConfig, history bool) error {
	var rec reconcile.Recorder
	if history {
		var closeHistory func()
		rec, closeHistory = runRecorder(ctx)
		defer closeHistory()
	}

	res, err := reconcile.Run(ctx, paths, reconcile.OptionsFromConfig(rc), rec)
	if err != nil {
		return err
	}
	return printSummary(w, res.Summary)
}

// runRecorder opens the history store for one run. A store that cannot be
// opened is logged and the run goes ahead unrecorded.
func runRecorder(ctx context.Context) (reconcile.Recorder, func()) {
	st, err := openHistory(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("run history unavailable, continuing without it",
			"stage", core.StageRecord, "error", err)
		return nil, func() {}
	}
	if st == nil {
		return nil, func() {}
	}
	return st, st.Close
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.base, "base", "", "base registry file (.xlsx or .csv)")
	f.StringVar(&runFlags.search, "search", "", "search list file (.xlsx or .csv)")
	f.StringVar(&runFlags.output, "output", "", "final output file")
	f.StringVar(&runFlags.unmatched, "unmatched", "", "unmatched citations output file")
	f.StringVar(&runFlags.duplicates, "duplicates", "", "duplicate registry rows output file")
	f.StringVar(&runFlags.dedupColumn, "dedup-date-column", "", "base column ranked when collapsing duplicates")
	f.BoolVar(&runFlags.noHistory, "no-history", false, "do not record this run even if DATABASE_URL is set")
}

// override sets *dst to value when the named flag was given.
func override(cmd *cobra.Command, flag string, dst *string, value string) {
	if cmd.Flags().Changed(flag) {
		*dst = value
	}
}

func printSummary(w io.Writer, s reconcile.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		label string
		value any
	}{
		{"run", s.RunID},
		{"base rows", s.BaseRows},
		{"search rows", s.SearchRows},
		{"matched", s.Matched},
		{"unmatched", s.Unmatched},
		{"duplicate groups", s.DuplicateGroups},
		{"duplicate rows", s.DuplicateRows},
		{"date parse failures", s.DateParseFailures},
		{"load warnings", s.LoadWarnings},
		{"final rows", s.FinalRows},
		{"duration", s.Duration().Round(time.Millisecond)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%v\n", r.label, r.value)
	}
	return tw.Flush()
}
