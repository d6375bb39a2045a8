// Package history produces the trailing week of daily AQI samples used as
// training data.
package history

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Mock dataset parameters.
const (
	MockSeed      = 42
	MockLocations = 700

	mockAQIMean   = 70
	mockAQIStddev = 25
)

// AQI samples outside this range are clipped.
const (
	MinAQI = 10
	MaxAQI = 300
)

// Sample is one daily AQI reading at a location.
type Sample struct {
	Date time.Time `json:"date"`
	Lat  float64   `json:"latitude"`
	Lon  float64   `json:"longitude"`
	AQI  float64   `json:"aqi"`
}

// Options controls a weekly fetch.
type Options struct {
	// UseMock selects the synthetic generator. The real acquisition path
	// is structurally unimplemented and always degrades to mock; the flag
	// exists so call sites document which path they intend.
	UseMock bool

	// ForceRefresh is reserved for a future caching layer and currently
	// alters nothing.
	ForceRefresh bool

	// Now anchors the 7-day window. Zero means time.Now.
	Now time.Time
}

// Fetcher produces weekly AQI sample sets.
type Fetcher struct {
	logger zerolog.Logger
}

// NewFetcher creates a new historical fetcher.
func NewFetcher(logger zerolog.Logger) *Fetcher {
	return &Fetcher{logger: logger}
}

// FetchPastWeek returns one sample per (day, location) pair for the window
// from seven days ago through today. Calls with the same anchor date yield
// identical output.
func (f *Fetcher) FetchPastWeek(ctx context.Context, opts Options) []Sample {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	if !opts.UseMock {
		// Real AirNow historical acquisition is not implemented; the
		// policy is to degrade to the seeded generator.
		f.logger.Info().Msg("historical AQI acquisition unimplemented - using mock generator")
	}

	samples := mockWeek(now)
	f.logger.Info().
		Int("samples", len(samples)).
		Bool("force_refresh", opts.ForceRefresh).
		Msg("weekly AQI data ready")
	return samples
}

// mockWeek generates the seeded synthetic week: a fixed set of locations,
// each with one normally distributed AQI value per day, clipped to the
// valid range.
func mockWeek(now time.Time) []Sample {
	rng := rand.New(rand.NewSource(MockSeed))

	lats := make([]float64, MockLocations)
	lons := make([]float64, MockLocations)
	for i := range lats {
		lats[i] = 25 + rng.Float64()*(49-25)
	}
	for i := range lons {
		lons[i] = -124 + rng.Float64()*(-67-(-124))
	}

	normal := distuv.Normal{Mu: mockAQIMean, Sigma: mockAQIStddev, Src: rng}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -7)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var samples []Sample
	for !day.After(end) {
		for i := 0; i < MockLocations; i++ {
			samples = append(samples, Sample{
				Date: day,
				Lat:  lats[i],
				Lon:  lons[i],
				AQI:  clip(normal.Rand(), MinAQI, MaxAQI),
			})
		}
		day = day.AddDate(0, 0, 1)
	}
	return samples
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
