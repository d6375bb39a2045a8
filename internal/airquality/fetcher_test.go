package airquality_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeromap/aeromap/internal/airquality"
	"github.com/aeromap/aeromap/internal/geo"
)

// stubProvider serves canned rows per coordinate and fails everywhere else.
type stubProvider struct {
	rows  map[geo.Point][]airquality.Observation
	calls atomic.Int32
}

func (p *stubProvider) FetchObservations(_ context.Context, lat, lon float64) ([]airquality.Observation, error) {
	p.calls.Add(1)
	rows, ok := p.rows[geo.Point{Lat: lat, Lon: lon}]
	if !ok {
		return nil, errors.New("upstream unavailable")
	}
	return rows, nil
}

func testPoints(n int) []geo.Point {
	points := make([]geo.Point, n)
	for i := range points {
		points[i] = geo.Point{Lat: 30 + float64(i), Lon: -120 + float64(i)}
	}
	return points
}

func TestFetcher_PartialFailuresKeepRealData(t *testing.T) {
	points := testPoints(25)

	// 8 of 25 coordinates succeed with distinct rows totaling 12 usable
	// rows, above the fallback threshold.
	provider := &stubProvider{rows: make(map[geo.Point][]airquality.Observation)}
	for i := 0; i < 8; i++ {
		p := points[i]
		rows := []airquality.Observation{
			{Lat: p.Lat, Lon: p.Lon, Parameter: "PM2.5", AQI: float64(20 + i)},
		}
		if i < 4 {
			rows = append(rows, airquality.Observation{Lat: p.Lat, Lon: p.Lon, Parameter: "NO2", AQI: float64(10 + i)})
		}
		provider.rows[p] = rows
	}

	fetcher := airquality.NewFetcher(airquality.FetcherConfig{
		Provider:    provider,
		Logger:      zerolog.Nop(),
		Coordinates: points,
		Concurrency: 10,
	})

	observations, stats := fetcher.FetchCurrent(context.Background())

	assert.False(t, stats.Fallback)
	assert.Len(t, observations, 12)
	assert.Equal(t, 25, stats.Requested)
	assert.Equal(t, 8, stats.Succeeded)
	assert.Equal(t, 17, stats.Failed)
	assert.Equal(t, 12, stats.Rows)
	assert.Equal(t, int32(25), provider.calls.Load())
}

func TestFetcher_AllFailuresFallBackToMock(t *testing.T) {
	provider := &stubProvider{rows: make(map[geo.Point][]airquality.Observation)}

	fetcher := airquality.NewFetcher(airquality.FetcherConfig{
		Provider:    provider,
		Logger:      zerolog.Nop(),
		Coordinates: testPoints(25),
	})

	first, stats := fetcher.FetchCurrent(context.Background())
	require.True(t, stats.Fallback)
	require.Len(t, first, airquality.MockSize)
	assert.Equal(t, 25, stats.Failed)

	// The synthetic set is seeded, so a second failing pass yields the
	// exact same rows.
	second, _ := fetcher.FetchCurrent(context.Background())
	assert.Equal(t, first, second)
}

func TestFetcher_BelowThresholdFallsBack(t *testing.T) {
	points := testPoints(5)
	provider := &stubProvider{rows: map[geo.Point][]airquality.Observation{
		points[0]: {
			{Lat: points[0].Lat, Lon: points[0].Lon, Parameter: "PM2.5", AQI: 42},
		},
	}}

	fetcher := airquality.NewFetcher(airquality.FetcherConfig{
		Provider:    provider,
		Logger:      zerolog.Nop(),
		Coordinates: points,
	})

	observations, stats := fetcher.FetchCurrent(context.Background())
	assert.True(t, stats.Fallback)
	assert.Len(t, observations, airquality.MockSize)
}

func TestFetcher_DedupesAcrossCoordinates(t *testing.T) {
	points := testPoints(12)

	// Every coordinate returns the same station row plus one unique row,
	// mimicking overlapping 500-mile search radii.
	provider := &stubProvider{rows: make(map[geo.Point][]airquality.Observation)}
	for i, p := range points {
		provider.rows[p] = []airquality.Observation{
			{Lat: 39.74, Lon: -104.99, Parameter: "PM2.5", AQI: 60},
			{Lat: p.Lat, Lon: p.Lon, Parameter: fmt.Sprintf("param-%d", i), AQI: 20},
		}
	}

	fetcher := airquality.NewFetcher(airquality.FetcherConfig{
		Provider:    provider,
		Logger:      zerolog.Nop(),
		Coordinates: points,
	})

	observations, stats := fetcher.FetchCurrent(context.Background())

	assert.False(t, stats.Fallback)
	assert.Len(t, observations, 13)
	assert.Equal(t, 24, stats.RawRows)
	assert.Equal(t, 13, stats.Rows)
}

func TestFetcher_NilProvider(t *testing.T) {
	fetcher := airquality.NewFetcher(airquality.FetcherConfig{
		Logger:      zerolog.Nop(),
		Coordinates: testPoints(3),
	})

	observations, stats := fetcher.Fetch(context.Background())
	assert.Nil(t, observations)
	assert.Equal(t, 3, stats.Requested)
	assert.Zero(t, stats.Succeeded)
}
