package handler

import (
	"net/http"

	"github.com/aeromap/aeromap/internal/api/response"
	"github.com/aeromap/aeromap/internal/api/store"
)

// MapHandler serves the rendered interactive map.
type MapHandler struct {
	store *store.Store
}

// NewMapHandler creates a new MapHandler.
func NewMapHandler(store *store.Store) *MapHandler {
	return &MapHandler{store: store}
}

// Serve handles GET / - the rendered Leaflet map from the latest run.
func (h *MapHandler) Serve(w http.ResponseWriter, r *http.Request) {
	result := h.store.Result()
	if result == nil || result.Document == nil {
		response.ServiceUnavailable(w, r, "no map has been rendered yet")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.Document.HTML))
}
