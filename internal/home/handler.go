// internal/home/handler.go
package home

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"raindoor/pkg/credentials"
)

// Handler reports whether a shop has completed installation. The embedded
// admin UI calls this before offering the export action.
type Handler struct {
	store credentials.Store
}

func NewHandler(store credentials.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.status)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")
	connected := false
	if shop != "" {
		if _, err := h.store.Get(r.Context(), shop); err == nil {
			connected = true
		} else if !errors.Is(err, credentials.ErrNotFound) {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"connected": connected, "shop": shop})
}
