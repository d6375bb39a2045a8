package handler

import (
	"net/http"

	"github.com/aeromap/aeromap/internal/aerosol"
	"github.com/aeromap/aeromap/internal/api/response"
	"github.com/aeromap/aeromap/internal/api/store"
)

// AerosolHandler serves the aerosol optical depth grid.
type AerosolHandler struct {
	store *store.Store
}

// NewAerosolHandler creates a new AerosolHandler.
func NewAerosolHandler(store *store.Store) *AerosolHandler {
	return &AerosolHandler{store: store}
}

type aerosolList struct {
	Items []aerosol.Sample `json:"items"`
	Count int              `json:"count"`
	RunID string           `json:"runId"`
}

// List handles GET /api/v1/aerosol - AOD samples from the latest run.
func (h *AerosolHandler) List(w http.ResponseWriter, r *http.Request) {
	result := h.store.Result()
	if result == nil {
		response.ServiceUnavailable(w, r, "no pipeline run has completed yet")
		return
	}
	response.JSON(w, r, http.StatusOK, aerosolList{
		Items: result.Aerosol,
		Count: len(result.Aerosol),
		RunID: result.RunID,
	})
}
