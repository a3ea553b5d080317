package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs recorded in the history database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openHistory(ctx)
		if err != nil {
			return err
		}
		if st == nil {
			return errors.New("run history is disabled: set DATABASE_URL to enable it")
		}
		defer st.Close()

		runs, err := st.ListRuns(ctx, historyLimit)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "RUN\tSTARTED\tSTATUS\tMATCHED\tUNMATCHED\tDUPLICATES\tFINAL\tBASE")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
				r.RunID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.Status,
				r.Matched, r.Unmatched, r.DuplicateGroups, r.FinalRows, r.BasePath)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show")
}
