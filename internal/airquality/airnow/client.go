// Package airnow provides a client for the AirNow current-observation API.
package airnow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aeromap/aeromap/internal/airquality"
	"github.com/aeromap/aeromap/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the AirNow current-observation endpoint.
	DefaultBaseURL = "https://www.airnowapi.org/aq/observation/latLong/current/"

	// DefaultSearchRadiusMiles is the search radius sent with each query.
	DefaultSearchRadiusMiles = 500

	// ProviderName identifies this provider.
	ProviderName = "airnow"
)

// ClientConfig holds configuration for the AirNow client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// APIKey authenticates requests.
	APIKey string

	// SearchRadiusMiles is the per-query search radius
	// (defaults to DefaultSearchRadiusMiles).
	SearchRadiusMiles int

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client is created with retries disabled;
	// a failed query is treated as empty by the caller, never retried.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 5s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an AirNow API client.
type Client struct {
	baseURL    string
	apiKey     string
	radius     int
	httpClient HTTPDoer
}

// NewClient creates a new AirNow client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	radius := cfg.SearchRadiusMiles
	if radius == 0 {
		radius = DefaultSearchRadiusMiles
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 5 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:    ProviderName,
			Timeout: timeout,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/",
		apiKey:     cfg.APIKey,
		radius:     radius,
		httpClient: httpClient,
	}
}

// API response types (from the AirNow API).

// categoryField tolerates the two shapes the API emits: a nested object
// {"Number":1,"Name":"Good"} or a flat string "Good".
type categoryField struct {
	Name string
}

func (c *categoryField) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.Name)
	}
	var obj struct {
		Name string `json:"Name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	c.Name = obj.Name
	return nil
}

type observationData struct {
	Latitude      *float64      `json:"Latitude"`
	Longitude     *float64      `json:"Longitude"`
	ParameterName string        `json:"ParameterName"`
	Parameter     string        `json:"Parameter"`
	AQI           *float64      `json:"AQI"`
	Category      categoryField `json:"Category"`
	ReportingArea string        `json:"ReportingArea"`
	StateCode     string        `json:"StateCode"`
	DateObserved  string        `json:"DateObserved"`
}

// FetchObservations retrieves current observations within the search radius
// of the given coordinate. Rows missing latitude, longitude or AQI are
// dropped.
func (c *Client) FetchObservations(ctx context.Context, lat, lon float64) ([]airquality.Observation, error) {
	q := url.Values{}
	q.Set("format", "application/json")
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("distance", strconv.Itoa(c.radius))
	q.Set("API_KEY", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch observations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from observation endpoint", resp.StatusCode)
	}

	var rows []observationData
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode observation response: %w", err)
	}

	observations := make([]airquality.Observation, 0, len(rows))
	for i := range rows {
		if o := toObservation(&rows[i]); o != nil {
			observations = append(observations, *o)
		}
	}
	return observations, nil
}

// toObservation converts an API row to a domain Observation.
// Returns nil when a required field is missing.
func toObservation(row *observationData) *airquality.Observation {
	if row.Latitude == nil || row.Longitude == nil || row.AQI == nil {
		return nil
	}

	parameter := row.ParameterName
	if parameter == "" {
		parameter = row.Parameter
	}

	return &airquality.Observation{
		Lat:           *row.Latitude,
		Lon:           *row.Longitude,
		Parameter:     parameter,
		AQI:           *row.AQI,
		Category:      row.Category.Name,
		Color:         airquality.CategoryColor(row.Category.Name),
		ReportingArea: row.ReportingArea,
		StateCode:     row.StateCode,
		ObservedAt:    row.DateObserved,
	}
}
