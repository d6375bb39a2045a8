package models

import (
	"time"

	"github.com/aeromap/aeromap/internal/provider/resilience"
)

// Health status values.
const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)

// Health is the liveness response body.
type Health struct {
	Status  string                 `json:"status"`
	Time    time.Time              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SystemStatus reports subsystem and upstream provider health.
type SystemStatus struct {
	Status    string                      `json:"status"`
	Time      time.Time                   `json:"time"`
	LastRunID string                      `json:"lastRunId,omitempty"`
	MapPath   string                      `json:"mapPath,omitempty"`
	Providers []*resilience.ProviderHealth `json:"providers"`
}
