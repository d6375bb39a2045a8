// Package config loads AeroMap configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/aeromap/aeromap/internal/geo"
)

// DefaultAirNowAPIKey is the historical demo key shipped with the project.
// A real deployment must set AIRNOW_API_KEY; Load logs a warning when this
// fallback is used.
const DefaultAirNowAPIKey = "19F42E70-7F2F-4F4E-98DA-BA7572BE37AD"

// Config holds all runtime configuration for the pipeline and the API server.
type Config struct {
	// AirNowAPIKey authenticates requests to the AirNow observation endpoint.
	AirNowAPIKey string

	// AirNowBaseURL overrides the AirNow endpoint (tests, proxies).
	AirNowBaseURL string

	// CMRBaseURL overrides the NASA CMR granule search endpoint.
	CMRBaseURL string

	// NetrcPath is the netrc file holding Earthdata login credentials.
	NetrcPath string

	// FetchConcurrency is the worker count for the observation fetcher.
	FetchConcurrency int

	// FetchTimeout is the per-request timeout for observation fetches.
	FetchTimeout time.Duration

	// MapOutput is the path the rendered map document is written to.
	MapOutput string

	// Port is the listen port for the API server.
	Port string

	// Coordinates are the monitoring points queried by the fetcher.
	Coordinates []geo.Point
}

// Load reads configuration from the environment with sensible defaults.
// A local .env file is honored when present.
func Load(log zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg := &Config{
		AirNowAPIKey:  os.Getenv("AIRNOW_API_KEY"),
		AirNowBaseURL: os.Getenv("AIRNOW_BASE_URL"),
		CMRBaseURL:    os.Getenv("EARTHDATA_CMR_URL"),
		NetrcPath:     os.Getenv("NETRC_PATH"),
		MapOutput:     getenvDefault("MAP_OUTPUT", "air_quality_map.html"),
		Port:          getenvDefault("APP_PORT", "8080"),
		Coordinates:   DefaultCoordinates(),
	}

	if cfg.AirNowAPIKey == "" {
		cfg.AirNowAPIKey = DefaultAirNowAPIKey
		log.Warn().Msg("AIRNOW_API_KEY not set - using bundled demo key")
	}

	concurrency, err := getenvInt("FETCH_CONCURRENCY", 10)
	if err != nil {
		return nil, err
	}
	cfg.FetchConcurrency = concurrency

	timeoutStr := getenvDefault("FETCH_TIMEOUT", "5s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
	}
	cfg.FetchTimeout = timeout

	return cfg, nil
}

// DefaultCoordinates returns the ~25 representative U.S. monitoring points.
// With the 500-mile search radius these cover the continental United States.
func DefaultCoordinates() []geo.Point {
	return []geo.Point{
		{Lat: 47.61, Lon: -122.33}, // Seattle
		{Lat: 34.05, Lon: -118.24}, // Los Angeles
		{Lat: 36.16, Lon: -115.15}, // Las Vegas
		{Lat: 37.77, Lon: -122.42}, // San Francisco
		{Lat: 40.76, Lon: -111.89}, // Salt Lake City
		{Lat: 39.74, Lon: -104.99}, // Denver
		{Lat: 41.88, Lon: -87.63},  // Chicago
		{Lat: 29.76, Lon: -95.37},  // Houston
		{Lat: 32.78, Lon: -96.80},  // Dallas
		{Lat: 38.63, Lon: -90.20},  // St. Louis
		{Lat: 40.71, Lon: -74.00},  // New York
		{Lat: 42.36, Lon: -71.06},  // Boston
		{Lat: 39.95, Lon: -75.16},  // Philadelphia
		{Lat: 33.75, Lon: -84.39},  // Atlanta
		{Lat: 25.76, Lon: -80.19},  // Miami
		{Lat: 38.90, Lon: -77.04},  // Washington DC
		{Lat: 45.52, Lon: -122.68}, // Portland
		{Lat: 44.95, Lon: -93.09},  // St. Paul
		{Lat: 43.04, Lon: -87.90},  // Milwaukee
		{Lat: 30.33, Lon: -81.65},  // Jacksonville
		{Lat: 29.42, Lon: -98.49},  // San Antonio
		{Lat: 35.22, Lon: -80.84},  // Charlotte
		{Lat: 46.87, Lon: -96.78},  // Fargo
		{Lat: 35.15, Lon: -90.05},  // Memphis
		{Lat: 33.45, Lon: -112.07}, // Phoenix
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
