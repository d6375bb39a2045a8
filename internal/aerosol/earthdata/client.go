// Package earthdata provides a NASA Earthdata client for MERRA-2 aerosol
// granules. Granules are located through the CMR search API and read via
// the archive's OPeNDAP ASCII interface.
package earthdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aeromap/aeromap/internal/aerosol"
	"github.com/aeromap/aeromap/internal/provider/resilience"
)

const (
	// DefaultCMRBaseURL is the CMR granule search endpoint.
	DefaultCMRBaseURL = "https://cmr.earthdata.nasa.gov/search"

	// DefaultShortName is the MERRA-2 hourly aerosol diagnostics collection.
	DefaultShortName = "M2T1NXAER"

	// DefaultVariable is the total aerosol extinction AOT 550nm variable.
	DefaultVariable = "TOTEXTTAU"

	// URSHost is the Earthdata login host authenticated against.
	URSHost = "urs.earthdata.nasa.gov"

	// ProviderName identifies this provider.
	ProviderName = "earthdata"
)

// The MERRA-2 single-level grid dimensions.
const (
	gridLatSize = 361
	gridLonSize = 576
)

// Fill values at or beyond this magnitude are dropped.
const fillThreshold = 1e14

// Client errors. Each one triggers the loader's synthetic fallback.
var (
	ErrNoCredentials = errors.New("no earthdata credentials in netrc")
	ErrNoGranules    = errors.New("no granules found")
	ErrNoOpendapLink = errors.New("granule has no opendap link")
)

// ClientConfig holds configuration for the Earthdata client.
type ClientConfig struct {
	// CMRBaseURL overrides the CMR search endpoint.
	CMRBaseURL string

	// ShortName is the collection to search (default DefaultShortName).
	ShortName string

	// Variable is the gridded variable to extract (default DefaultVariable).
	Variable string

	// TemporalStart and TemporalEnd bound the granule search window.
	// Defaults: the fixed 2-day reference window 2024-09-01..2024-09-03.
	TemporalStart time.Time
	TemporalEnd   time.Time

	// NetrcPath is the netrc file with URS credentials
	// (default: ~/.netrc).
	NetrcPath string

	// SearchClient is the HTTP client used for CMR searches. If nil, a
	// resilient client is created.
	SearchClient HTTPDoer

	// DownloadClient is the HTTP client used for the authenticated
	// OPeNDAP read. If nil, a redirect-aware client is created; URS
	// bounces the request through its login host, so the Authorization
	// header must be re-applied there.
	DownloadClient *http.Client

	// Timeout for archive requests (default: 30s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client reads aerosol granules from the NASA Earthdata archive.
type Client struct {
	cmrBaseURL    string
	shortName     string
	variable      string
	temporalStart time.Time
	temporalEnd   time.Time
	netrcPath     string
	searchClient  HTTPDoer
	download      *http.Client
	credentials   *credentials
}

type credentials struct {
	login    string
	password string
}

// NewClient creates a new Earthdata client.
func NewClient(cfg ClientConfig) *Client {
	cmrBaseURL := cfg.CMRBaseURL
	if cmrBaseURL == "" {
		cmrBaseURL = DefaultCMRBaseURL
	}

	shortName := cfg.ShortName
	if shortName == "" {
		shortName = DefaultShortName
	}

	variable := cfg.Variable
	if variable == "" {
		variable = DefaultVariable
	}

	temporalStart := cfg.TemporalStart
	temporalEnd := cfg.TemporalEnd
	if temporalStart.IsZero() {
		temporalStart = time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	}
	if temporalEnd.IsZero() {
		temporalEnd = temporalStart.AddDate(0, 0, 2)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	searchClient := cfg.SearchClient
	if searchClient == nil {
		searchClient = resilience.NewClient(resilience.ClientConfig{
			Name:    ProviderName,
			Timeout: timeout,
		})
	}

	c := &Client{
		cmrBaseURL:    strings.TrimSuffix(cmrBaseURL, "/"),
		shortName:     shortName,
		variable:      variable,
		temporalStart: temporalStart,
		temporalEnd:   temporalEnd,
		netrcPath:     cfg.NetrcPath,
		searchClient:  searchClient,
		download:      cfg.DownloadClient,
	}

	if c.download == nil {
		jar, _ := cookiejar.New(nil)
		c.download = &http.Client{
			Timeout: timeout,
			Jar:     jar,
			CheckRedirect: func(req *http.Request, _ []*http.Request) error {
				if req.URL.Host == URSHost && c.credentials != nil {
					req.SetBasicAuth(c.credentials.login, c.credentials.password)
				}
				return nil
			},
		}
	}

	return c
}

// CMR response types.

type granuleSearchResponse struct {
	Feed struct {
		Entry []granuleEntry `json:"entry"`
	} `json:"feed"`
}

type granuleEntry struct {
	Title string        `json:"title"`
	Links []granuleLink `json:"links"`
}

type granuleLink struct {
	Rel   string `json:"rel"`
	Title string `json:"title"`
	Href  string `json:"href"`
}

// FetchGrid downloads exactly one granule for the configured window and
// returns the first time slice of the AOD variable flattened into point
// rows. Any failure is returned to the caller, which substitutes the
// synthetic dataset.
func (c *Client) FetchGrid(ctx context.Context) ([]aerosol.Sample, error) {
	creds, err := loadNetrc(c.netrcPath)
	if err != nil {
		return nil, err
	}
	c.credentials = creds

	opendapURL, err := c.searchGranule(ctx)
	if err != nil {
		return nil, err
	}

	return c.fetchSubset(ctx, opendapURL)
}

// searchGranule queries CMR for one granule and returns its OPeNDAP URL.
func (c *Client) searchGranule(ctx context.Context) (string, error) {
	q := url.Values{}
	q.Set("short_name", c.shortName)
	q.Set("temporal", c.temporalStart.Format(time.RFC3339)+","+c.temporalEnd.Format(time.RFC3339))
	q.Set("page_size", "1")

	searchURL := c.cmrBaseURL + "/granules.json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create search request: %w", err)
	}

	resp, err := c.searchClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search granules: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from granule search", resp.StatusCode)
	}

	var result granuleSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode granule search response: %w", err)
	}

	if len(result.Feed.Entry) == 0 {
		return "", ErrNoGranules
	}

	for _, link := range result.Feed.Entry[0].Links {
		if strings.Contains(strings.ToUpper(link.Title), "OPENDAP") ||
			strings.HasSuffix(link.Rel, "/service#") {
			return link.Href, nil
		}
	}
	return "", ErrNoOpendapLink
}

// fetchSubset reads the first time slice of the variable plus both axes
// through the OPeNDAP ASCII interface.
func (c *Client) fetchSubset(ctx context.Context, opendapURL string) ([]aerosol.Sample, error) {
	subset := fmt.Sprintf("%s[0:0][0:%d][0:%d],lat,lon",
		c.variable, gridLatSize-1, gridLonSize-1)
	subsetURL := strings.TrimSuffix(opendapURL, "/") + ".ascii?" + subset

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, subsetURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create subset request: %w", err)
	}
	req.SetBasicAuth(c.credentials.login, c.credentials.password)

	resp, err := c.download.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch subset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from opendap endpoint", resp.StatusCode)
	}

	return parseASCIIGrid(resp.Body, c.variable)
}

// loadNetrc reads URS credentials from the netrc file.
func loadNetrc(path string) (*credentials, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, ErrNoCredentials
		}
		path = filepath.Join(home, ".netrc")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrNoCredentials
	}

	var machine string
	entries := map[string]*credentials{}
	fields := strings.Fields(string(data))
	for i := 0; i+1 < len(fields); i++ {
		switch fields[i] {
		case "machine":
			machine = fields[i+1]
			entries[machine] = &credentials{}
			i++
		case "login":
			if c, ok := entries[machine]; ok {
				c.login = fields[i+1]
			}
			i++
		case "password":
			if c, ok := entries[machine]; ok {
				c.password = fields[i+1]
			}
			i++
		}
	}

	creds, ok := entries[URSHost]
	if !ok || creds.login == "" || creds.password == "" {
		return nil, ErrNoCredentials
	}
	return creds, nil
}

// parseASCIIGrid parses a DAP ASCII response holding one time slice of
// the gridded variable plus the lat and lon axes.
func parseASCIIGrid(body io.Reader, variable string) ([]aerosol.Sample, error) {
	var (
		lats, lons []float64
		grid       [][]float64
		section    string
	)

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read subset response: %w", err)
	}
	content := string(raw)

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Section headers name the structure member, e.g.
		// "TOTEXTTAU.TOTEXTTAU[1][361][576]" or "TOTEXTTAU.lat".
		if !strings.Contains(line, ",") {
			section = sectionName(line, variable)
			continue
		}

		switch section {
		case "lat":
			lats = append(lats, parseRow(line)...)
		case "lon":
			lons = append(lons, parseRow(line)...)
		case "grid":
			grid = append(grid, parseRow(line))
		}
	}

	if len(lats) == 0 || len(lons) == 0 {
		return nil, fmt.Errorf("parse subset: missing coordinate axes")
	}
	if len(grid) != len(lats) {
		return nil, fmt.Errorf("parse subset: %d grid rows for %d latitudes", len(grid), len(lats))
	}

	samples := make([]aerosol.Sample, 0, len(lats)*len(lons))
	for i, row := range grid {
		if len(row) != len(lons) {
			return nil, fmt.Errorf("parse subset: row %d has %d values for %d longitudes", i, len(row), len(lons))
		}
		for j, v := range row {
			if v >= fillThreshold || v <= -fillThreshold {
				continue
			}
			samples = append(samples, aerosol.Sample{Lat: lats[i], Lon: lons[j], AOD: v})
		}
	}
	return samples, nil
}

func sectionName(header, variable string) string {
	base := header
	if idx := strings.IndexByte(base, '['); idx >= 0 {
		base = base[:idx]
	}
	if idx := strings.LastIndexByte(base, '.'); idx >= 0 {
		base = base[idx+1:]
	}
	switch base {
	case "lat":
		return "lat"
	case "lon":
		return "lon"
	case variable:
		return "grid"
	default:
		return ""
	}
}

// parseRow reads the comma-separated values of one data line, skipping the
// leading index prefix ("[0][12], ...") when present.
func parseRow(line string) []float64 {
	parts := strings.Split(line, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "[") {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
