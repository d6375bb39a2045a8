// Package handler provides HTTP handlers for the aeromap API.
package handler

import (
	"net/http"
	"time"

	"github.com/aeromap/aeromap/internal/api/models"
	"github.com/aeromap/aeromap/internal/api/response"
	"github.com/aeromap/aeromap/internal/api/store"
	"github.com/aeromap/aeromap/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	store     *store.Store
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, store *store.Store, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		store:     store,
		registry:  registry,
	}
}

// HealthCheck handles GET /api/v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /api/v1/ops/ready - readiness check. The
// service is ready once the first pipeline run has produced a result.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.store.Result() == nil {
		response.ServiceUnavailable(w, r, "no pipeline run has completed yet")
		return
	}
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
	})
}

// SystemStatus handles GET /api/v1/ops/status - provider and pipeline status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:    models.HealthStatusOK,
		Time:      time.Now().UTC(),
		Providers: []*resilience.ProviderHealth{},
	}
	if h.registry != nil {
		status.Providers = h.registry.AllHealth()
		for _, p := range status.Providers {
			if !p.Healthy() {
				status.Status = models.HealthStatusDegraded
			}
		}
	}
	if result := h.store.Result(); result != nil {
		status.LastRunID = result.RunID
		status.MapPath = result.MapPath
	}
	response.JSON(w, r, http.StatusOK, status)
}
