package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bookresolver/internal/handlers"
	"github.com/lehigh-university-libraries/bookresolver/internal/storage"
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		port    string
		logSize int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the lookup HTTP API",
		Long: `Starts the bookresolver HTTP API on the specified port.

GET or POST /api/lookup returns canonical records for a query,
/api/lookup/images returns the cover images, and /api/lookups lists the
most recent lookups this process has served (see --log-size).`,
		Example: `  # Start server on default port 8888
  bookresolver serve

  # Start server on custom port
  bookresolver serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := opts.parser()
			if err != nil {
				return err
			}
			handler := handlers.New(opts.resolver(), parser, opts.cfg.Schema, logSize)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/lookup", handler.HandleLookup)
			mux.HandleFunc("/api/lookup/images", handler.HandleLookupImages)
			mux.HandleFunc("/api/lookups", handler.HandleLookups)
			mux.HandleFunc("/api/lookups/", handler.HandleLookupDetail)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Bookresolver API available", "addr", addr, "url", "http://localhost"+addr, "schema", opts.cfg.Schema)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().IntVar(&logSize, "log-size", storage.DefaultLimit, "Number of recent lookups kept in /api/lookups")

	return cmd
}
