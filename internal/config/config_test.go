package config_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeromap/aeromap/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AIRNOW_API_KEY", "")

	cfg, err := config.Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, config.DefaultAirNowAPIKey, cfg.AirNowAPIKey)
	assert.Equal(t, 10, cfg.FetchConcurrency)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "air_quality_map.html", cfg.MapOutput)
	assert.Equal(t, "8080", cfg.Port)
	assert.Len(t, cfg.Coordinates, 25)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("AIRNOW_API_KEY", "real-key")
	t.Setenv("AIRNOW_BASE_URL", "http://localhost:9999/aq")
	t.Setenv("FETCH_CONCURRENCY", "4")
	t.Setenv("FETCH_TIMEOUT", "2s")
	t.Setenv("MAP_OUTPUT", "/tmp/map.html")
	t.Setenv("APP_PORT", "9090")

	cfg, err := config.Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "real-key", cfg.AirNowAPIKey)
	assert.Equal(t, "http://localhost:9999/aq", cfg.AirNowBaseURL)
	assert.Equal(t, 4, cfg.FetchConcurrency)
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "/tmp/map.html", cfg.MapOutput)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("FETCH_CONCURRENCY", "lots")

	_, err := config.Load(zerolog.Nop())
	require.Error(t, err)

	t.Setenv("FETCH_CONCURRENCY", "10")
	t.Setenv("FETCH_TIMEOUT", "soon")

	_, err = config.Load(zerolog.Nop())
	require.Error(t, err)
}

func TestDefaultCoordinates_WithinContinentalUS(t *testing.T) {
	for _, p := range config.DefaultCoordinates() {
		assert.GreaterOrEqual(t, p.Lat, 24.0)
		assert.LessOrEqual(t, p.Lat, 49.5)
		assert.GreaterOrEqual(t, p.Lon, -125.0)
		assert.LessOrEqual(t, p.Lon, -66.5)
	}
}
