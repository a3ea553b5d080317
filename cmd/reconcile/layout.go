package main

import (
	"fmt"

	"github.com/JonMunkholm/resolutions/internal/core"
	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the columns expected in the base and search files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, def := range core.All() {
			fmt.Fprintf(w, "%s (%s)\n%s\n", def.Info.Key, def.Info.Label, core.DescribeSpecs(def.FieldSpecs))
		}
		return nil
	},
}
