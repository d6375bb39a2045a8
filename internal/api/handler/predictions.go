package handler

import (
	"net/http"

	"github.com/aeromap/aeromap/internal/api/response"
	"github.com/aeromap/aeromap/internal/api/store"
	"github.com/aeromap/aeromap/internal/predict"
)

// PredictionHandler serves next-day AQI predictions.
type PredictionHandler struct {
	store *store.Store
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(store *store.Store) *PredictionHandler {
	return &PredictionHandler{store: store}
}

type predictionList struct {
	Items   []predict.Prediction `json:"items"`
	Count   int                  `json:"count"`
	Trained bool                 `json:"trained"`
	RunID   string               `json:"runId"`
}

// List handles GET /api/v1/predictions - tomorrow's predicted AQI grid.
func (h *PredictionHandler) List(w http.ResponseWriter, r *http.Request) {
	result := h.store.Result()
	if result == nil {
		response.ServiceUnavailable(w, r, "no pipeline run has completed yet")
		return
	}
	trained := result.WeeklyModel.Trained()
	response.JSON(w, r, http.StatusOK, predictionList{
		Items:   result.Predictions,
		Count:   len(result.Predictions),
		Trained: trained,
		RunID:   result.RunID,
	})
}
