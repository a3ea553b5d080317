package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/resolutions/internal/core"
	"github.com/JonMunkholm/resolutions/internal/reconcile"
	"github.com/JonMunkholm/resolutions/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload page and reconciliation API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var history web.History
		st, err := openHistory(ctx)
		switch {
		case err != nil:
			slog.Warn("run history unavailable, serving without it",
				"stage", core.StageRecord, "error", err)
		case st != nil:
			defer st.Close()
			history = st
		}

		server := web.NewServer(cfg.Server, reconcile.OptionsFromConfig(cfg.Reconcile), history)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
			return err
		}
		return nil
	},
}
