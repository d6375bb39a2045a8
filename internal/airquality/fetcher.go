package airquality

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aeromap/aeromap/internal/geo"
)

// Provider fetches raw observations around a single coordinate.
type Provider interface {
	FetchObservations(ctx context.Context, lat, lon float64) ([]Observation, error)
}

// FetcherConfig holds configuration for the concurrent observation fetcher.
type FetcherConfig struct {
	// Provider is the observation data provider.
	Provider Provider

	// Logger for fetch operations.
	Logger zerolog.Logger

	// Coordinates are the monitoring points to query.
	Coordinates []geo.Point

	// Concurrency is the worker pool size (default 10).
	Concurrency int

	// Timeout is the per-coordinate request timeout (default 5s).
	Timeout time.Duration

	// MinRows is the usable-row threshold below which the whole result
	// set is replaced by the synthetic dataset (default 10).
	MinRows int

	// MockSize is the size of the synthetic fallback set (default 1000).
	MockSize int
}

// Fetcher queries all configured coordinates concurrently and merges the
// results into one normalized observation set.
type Fetcher struct {
	provider    Provider
	logger      zerolog.Logger
	coordinates []geo.Point
	concurrency int
	timeout     time.Duration
	minRows     int
	mockSize    int
}

// FetchStats summarizes one fetch pass.
type FetchStats struct {
	Requested int  `json:"requested"`
	Succeeded int  `json:"succeeded"`
	Failed    int  `json:"failed"`
	RawRows   int  `json:"rawRows"`
	Rows      int  `json:"rows"`
	Fallback  bool `json:"fallback"`
}

// NewFetcher creates a new observation fetcher.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	minRows := cfg.MinRows
	if minRows <= 0 {
		minRows = 10
	}

	mockSize := cfg.MockSize
	if mockSize <= 0 {
		mockSize = MockSize
	}

	return &Fetcher{
		provider:    cfg.Provider,
		logger:      cfg.Logger,
		coordinates: cfg.Coordinates,
		concurrency: concurrency,
		timeout:     timeout,
		minRows:     minRows,
		mockSize:    mockSize,
	}
}

type coordResult struct {
	point geo.Point
	rows  []Observation
	err   error
}

// Fetch queries every coordinate through the worker pool and returns the
// flattened, deduplicated observation set. No fallback policy is applied
// here; see ResolveWithFallback. Results carry no ordering guarantee among
// coordinates. A failed coordinate contributes zero rows.
func (f *Fetcher) Fetch(ctx context.Context) ([]Observation, FetchStats) {
	stats := FetchStats{Requested: len(f.coordinates)}

	if f.provider == nil || len(f.coordinates) == 0 {
		return nil, stats
	}

	jobs := make(chan geo.Point, len(f.coordinates))
	results := make(chan coordResult, len(f.coordinates))

	var wg sync.WaitGroup
	for i := 0; i < f.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.fetchWorker(ctx, jobs, results)
		}()
	}

	for _, p := range f.coordinates {
		jobs <- p
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []Observation
	for r := range results {
		if r.err != nil {
			stats.Failed++
			f.logger.Warn().
				Err(r.err).
				Float64("lat", r.point.Lat).
				Float64("lon", r.point.Lon).
				Msg("observation fetch failed")
			continue
		}
		stats.Succeeded++
		stats.RawRows += len(r.rows)
		all = append(all, r.rows...)
	}

	all = Dedupe(all)
	stats.Rows = len(all)

	f.logger.Info().
		Int("succeeded", stats.Succeeded).
		Int("failed", stats.Failed).
		Int("rows", stats.Rows).
		Msg("observation fetch completed")

	return all, stats
}

func (f *Fetcher) fetchWorker(ctx context.Context, jobs <-chan geo.Point, results chan<- coordResult) {
	for point := range jobs {
		select {
		case <-ctx.Done():
			results <- coordResult{point: point, err: ctx.Err()}
		default:
			pointCtx, cancel := context.WithTimeout(ctx, f.timeout)
			rows, err := f.provider.FetchObservations(pointCtx, point.Lat, point.Lon)
			cancel()
			results <- coordResult{point: point, rows: rows, err: err}
		}
	}
}

// ResolveWithFallback applies the minimum-rows policy: when fewer usable
// rows were fetched than the threshold (including the all-failed case), the
// entire result set is discarded and replaced with the deterministic
// synthetic dataset.
func (f *Fetcher) ResolveWithFallback(observations []Observation, stats FetchStats) ([]Observation, FetchStats) {
	if len(observations) >= f.minRows {
		return observations, stats
	}

	f.logger.Warn().
		Int("rows", len(observations)).
		Int("min_rows", f.minRows).
		Msg("not enough observation data - using synthetic dataset")

	stats.Fallback = true
	mock := MockObservations(f.mockSize)
	stats.Rows = len(mock)
	return mock, stats
}

// FetchCurrent is the full fetch-and-resolve pass used by the pipeline.
func (f *Fetcher) FetchCurrent(ctx context.Context) ([]Observation, FetchStats) {
	observations, stats := f.Fetch(ctx)
	return f.ResolveWithFallback(observations, stats)
}
