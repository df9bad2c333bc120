package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/lehigh-university-libraries/booktab/internal/catalog"
	"github.com/lehigh-university-libraries/booktab/internal/models"
	"github.com/lehigh-university-libraries/booktab/internal/settings"
)

type settingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (h *Handler) HandleListSettings(w http.ResponseWriter, r *http.Request) {
	keys := h.settings.Keys()
	list := make([]settingResponse, len(keys))
	for i, key := range keys {
		list[i] = settingResponse{Key: key, Value: h.settings.Get(key)}
	}
	h.writeJSON(w, r, http.StatusOK, list)
}

func (h *Handler) HandleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	h.writeJSON(w, r, http.StatusOK, settingResponse{Key: key, Value: h.settings.Get(key)})
}

func (h *Handler) HandleSetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var request struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if key == settings.TerminalLocation {
		if id := models.LibraryID(request.Value); id == models.LibraryNone || !id.Valid() {
			h.writeError(w, r, "Invalid terminal location. Must be 'library', 'expo' or 'reading-room'", http.StatusBadRequest)
			return
		}
	}

	if err := h.settings.Set(key, request.Value); err != nil {
		h.writeError(w, r, "Failed to save setting: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, r, http.StatusOK, settingResponse{Key: key, Value: h.settings.Get(key)})
}

func (h *Handler) HandleResetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := h.settings.Reset(key); err != nil {
		h.writeError(w, r, "Failed to reset setting: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, r, http.StatusOK, settingResponse{Key: key, Value: h.settings.Get(key)})
}

// HandleAutodetectSetting drops any explicit value of key and detects it
// again from the current catalog.
func (h *Handler) HandleAutodetectSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if _, err := h.catalog.Autodetect(key); err != nil {
		if errors.Is(err, catalog.ErrNoDetection) {
			h.writeError(w, r, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeError(w, r, "Failed to detect setting: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, r, http.StatusOK, settingResponse{Key: key, Value: h.settings.Get(key)})
}
