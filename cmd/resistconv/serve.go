package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/resistconv/internal/api"
	"github.com/dgallion1/resistconv/internal/stats"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := a.serve(ctx); err != nil {
				a.log.Error("server error", "error", err)
				return &exitError{code: exitFailure, err: err}
			}
			return nil
		},
	}
}

// serve runs the HTTP API until ctx is cancelled, then shuts it down gracefully.
func (a *app) serve(ctx context.Context) error {
	srv := api.NewServer(stats.NewWindow(a.cfg.StatsWindow), a.log, a.cfg)

	httpServer := &http.Server{
		Addr:         a.cfg.BindAddress,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("starting resistconv", "addr", a.cfg.BindAddress, "input", a.cfg.InputPath)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
