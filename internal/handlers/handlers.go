// Package handlers exposes the catalog over HTTP.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"

	"github.com/lehigh-university-libraries/booktab/internal/catalog"
	"github.com/lehigh-university-libraries/booktab/internal/config"
	"github.com/lehigh-university-libraries/booktab/internal/logging"
	"github.com/lehigh-university-libraries/booktab/internal/settings"
)

type Handler struct {
	catalog  *catalog.Service
	settings *settings.Store
	cfg      *config.Config
}

func New(books *catalog.Service, prefs *settings.Store, cfg *config.Config) *Handler {
	return &Handler{
		catalog:  books,
		settings: prefs,
		cfg:      cfg,
	}
}

// Routes returns the API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/books", h.HandleSearch)
		r.Post("/import", h.HandleImport)
		r.Get("/export", h.HandleExport)

		r.Get("/settings", h.HandleListSettings)
		r.Get("/settings/{key}", h.HandleGetSetting)
		r.Put("/settings/{key}", h.HandleSetSetting)
		r.Delete("/settings/{key}", h.HandleResetSetting)
		r.Post("/settings/{key}/autodetect", h.HandleAutodetectSetting)
	})

	return r
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.FromContext(r.Context()).Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, message string, code int) {
	logging.FromContext(r.Context()).Error(message, "status", code)
	h.writeJSON(w, r, code, map[string]string{"error": message})
}
