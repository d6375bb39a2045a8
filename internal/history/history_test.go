package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeromap/aeromap/internal/history"
)

func TestFetchPastWeek_Deterministic(t *testing.T) {
	fetcher := history.NewFetcher(zerolog.Nop())
	now := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)

	first := fetcher.FetchPastWeek(context.Background(), history.Options{UseMock: true, Now: now})
	second := fetcher.FetchPastWeek(context.Background(), history.Options{UseMock: true, Now: now})

	assert.Equal(t, first, second)
}

func TestFetchPastWeek_WindowShape(t *testing.T) {
	fetcher := history.NewFetcher(zerolog.Nop())
	now := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)

	samples := fetcher.FetchPastWeek(context.Background(), history.Options{UseMock: true, Now: now})

	// Eight daily slices (seven days ago through today), one row per
	// location per day.
	require.Len(t, samples, 8*history.MockLocations)

	days := make(map[time.Time]int)
	for _, s := range samples {
		days[s.Date]++
	}
	require.Len(t, days, 8)

	start := time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	for day, count := range days {
		assert.Equal(t, history.MockLocations, count)
		assert.False(t, day.Before(start), "day %v before window start", day)
		assert.False(t, day.After(end), "day %v after window end", day)
	}
}

func TestFetchPastWeek_ValuesInRange(t *testing.T) {
	fetcher := history.NewFetcher(zerolog.Nop())
	now := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	for _, s := range fetcher.FetchPastWeek(context.Background(), history.Options{UseMock: true, Now: now}) {
		assert.GreaterOrEqual(t, s.AQI, float64(history.MinAQI))
		assert.LessOrEqual(t, s.AQI, float64(history.MaxAQI))
		assert.GreaterOrEqual(t, s.Lat, 25.0)
		assert.LessOrEqual(t, s.Lat, 49.0)
		assert.GreaterOrEqual(t, s.Lon, -124.0)
		assert.LessOrEqual(t, s.Lon, -67.0)
	}
}

func TestFetchPastWeek_RealPathDegradesToMock(t *testing.T) {
	fetcher := history.NewFetcher(zerolog.Nop())
	now := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	mock := fetcher.FetchPastWeek(context.Background(), history.Options{UseMock: true, Now: now})
	real := fetcher.FetchPastWeek(context.Background(), history.Options{UseMock: false, Now: now})

	assert.Equal(t, mock, real)
}
