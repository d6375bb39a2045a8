package handler

import (
	"net/http"
	"strconv"

	"github.com/aeromap/aeromap/internal/airquality"
	"github.com/aeromap/aeromap/internal/api/response"
	"github.com/aeromap/aeromap/internal/api/store"
)

const (
	defaultNearestLimit = 5
	maxNearestLimit     = 50
)

// ObservationHandler serves current air quality observations.
type ObservationHandler struct {
	store *store.Store
}

// NewObservationHandler creates a new ObservationHandler.
func NewObservationHandler(store *store.Store) *ObservationHandler {
	return &ObservationHandler{store: store}
}

type observationList struct {
	Items    []airquality.Observation `json:"items"`
	Count    int                      `json:"count"`
	Fallback bool                     `json:"fallback"`
	RunID    string                   `json:"runId"`
}

// List handles GET /api/v1/observations - all observations from the latest run.
func (h *ObservationHandler) List(w http.ResponseWriter, r *http.Request) {
	result := h.store.Result()
	if result == nil {
		response.ServiceUnavailable(w, r, "no pipeline run has completed yet")
		return
	}
	response.JSON(w, r, http.StatusOK, observationList{
		Items:    result.Observations,
		Count:    len(result.Observations),
		Fallback: result.FetchStats.Fallback,
		RunID:    result.RunID,
	})
}

// Nearest handles GET /api/v1/observations/nearest?lat=&lon=&limit=.
func (h *ObservationHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	result := h.store.Result()
	if result == nil {
		response.ServiceUnavailable(w, r, "no pipeline run has completed yet")
		return
	}

	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		response.BadRequest(w, r, "lat must be a valid number")
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		response.BadRequest(w, r, "lon must be a valid number")
		return
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		response.BadRequest(w, r, "lat/lon out of range")
		return
	}

	limit := defaultNearestLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxNearestLimit {
			response.BadRequest(w, r, "limit must be between 1 and 50")
			return
		}
	}

	nearest := h.store.NearestObservations(lat, lon, limit)
	items := make([]airquality.Observation, 0, len(nearest))
	for _, o := range nearest {
		items = append(items, *o)
	}
	response.JSON(w, r, http.StatusOK, observationList{
		Items: items,
		Count: len(items),
		RunID: result.RunID,
	})
}
