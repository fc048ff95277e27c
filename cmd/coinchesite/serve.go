package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httphandler "github.com/nebuludik/coinchesite/internal/adapter/driving/http"
	webhandler "github.com/nebuludik/coinchesite/internal/adapter/driving/web"
)

var serveListenAddr string

// serveCmd runs the HTTP server hosting the /setup trigger.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the deployment form, the local preview and the API",
	Long: `Start the HTTP server.

GET /setup shows what a deployment will change; submitting the form runs it
and renders the report. With the SQLite store the stored site is previewed at
/ and /<slug>/, with the dark theme injected into every page.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "", "listen address (overrides COINCHE_LISTEN_ADDR)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := slog.Default()

	// Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := wire(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := d.close(); closeErr != nil {
			logger.Error("error closing store", "error", closeErr)
		}
	}()

	addr := d.cfg.ListenAddr
	if serveListenAddr != "" {
		addr = serveListenAddr
	}

	apiHandler := httphandler.NewHandler(d.store, d.service, logger)
	webHandler := webhandler.NewHandler(d.service, d.store, d.site, logger)
	handler := httphandler.NewServeMux(apiHandler, logger, func(mux *http.ServeMux) {
		webhandler.RegisterRoutes(mux, webHandler)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// A deployment makes a few dozen store calls, each bounded by the store timeout.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", addr, "preview", d.site != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	// Graceful shutdown; an in-flight deployment gets the same window to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
