// Command reconcile pairs citations with their registry resolutions and
// writes the original/superseding records.
//
//	reconcile run        one batch from files (paths from env or flags)
//	reconcile serve      HTTP upload surface
//	reconcile history    recent runs from the history database
//	reconcile layout     expected input columns
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/resolutions/internal/config"
	"github.com/JonMunkholm/resolutions/internal/core"
	_ "github.com/JonMunkholm/resolutions/internal/core/tables" // Register base and search
	"github.com/JonMunkholm/resolutions/internal/logging"
	"github.com/JonMunkholm/resolutions/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "reconcile",
	Short:         "Reconcile traffic-violation resolutions against a citation list",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Overload lets the .env file win over the inherited environment.
		if err := godotenv.Overload(envFile); err != nil && cmd.Flags().Changed("env-file") {
			return fmt.Errorf("config load: %w", err)
		}

		loaded, err := config.Load()
		if err != nil {
			return core.AtStage(core.StageConfig, err)
		}
		cfg = loaded

		logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
		slog.Debug("configuration loaded", "config", cfg.String(), "tables", core.TableCount())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(runCmd, serveCmd, historyCmd, layoutCmd)
}

// openHistory connects to the history database when one is configured.
// It returns nil when history is disabled.
func openHistory(ctx context.Context) (*store.Store, error) {
	if !cfg.Database.Enabled() {
		return nil, nil
	}
	return store.Open(ctx, cfg.Database)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "stage", core.StageOf(err), "error", err)
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		os.Exit(1)
	}
}
