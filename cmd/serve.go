package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/booktab/internal/handlers"
	"github.com/lehigh-university-libraries/booktab/internal/models"
	"github.com/lehigh-university-libraries/booktab/internal/settings"
)

func newServeCmd(flags *storeFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog HTTP API",
		Long: `Serves the catalog over HTTP:

  GET    /api/books?q=          search, streamed as JSON
  POST   /api/import            replace the catalog (multipart field "file")
  GET    /api/export?format=    download as csv, tsv or parquet
  GET    /api/settings[/KEY]    read settings
  PUT    /api/settings/KEY      set {"value": "..."}
  DELETE /api/settings/KEY      reset`,
		Example: `  # Start server on default port 8888
  booktab serve

  # Start server on custom port with an in-memory catalog
  booktab serve --port 3000 --store memory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			unbind := a.settings.Bind(settings.TerminalLocation, func(value string) {
				slog.Info("Terminal location changed", "location", models.LibraryID(value))
			})
			defer unbind()

			handler := handlers.New(a.catalog, a.settings, a.cfg)

			addr := a.cfg.Server.Addr()
			server := &http.Server{
				Addr:    addr,
				Handler: handler.Routes(),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Booktab API available",
					"addr", addr,
					"url", "http://localhost"+addr,
					"books", a.catalog.Len(),
					"location", a.settings.Get(settings.TerminalLocation))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
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

	cmd.Flags().IntVarP(&port, "port", "p", 8888, "Port to listen on (default from SERVER_PORT)")

	return cmd
}

