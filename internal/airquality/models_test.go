package airquality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeromap/aeromap/internal/airquality"
)

func TestCategoryColor(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"Good", "green"},
		{"Moderate", "yellow"},
		{"Unhealthy for Sensitive Groups", "orange"},
		{"Unhealthy", "red"},
		{"Very Unhealthy", "purple"},
		{"Hazardous", "maroon"},
		{"  Good  ", "green"},
		{"Unknown Category", "gray"},
		{"", "gray"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, airquality.CategoryColor(tt.category))
		})
	}
}

func TestDedupe_FirstWins(t *testing.T) {
	observations := []airquality.Observation{
		{Lat: 40.71, Lon: -74.00, Parameter: "PM2.5", AQI: 42, ReportingArea: "NYC"},
		{Lat: 40.71, Lon: -74.00, Parameter: "PM2.5", AQI: 99, ReportingArea: "Jersey City"},
		{Lat: 40.71, Lon: -74.00, Parameter: "NO2", AQI: 30},
		{Lat: 34.05, Lon: -118.24, Parameter: "PM2.5", AQI: 55},
	}

	deduped := airquality.Dedupe(observations)
	require.Len(t, deduped, 3)

	// Duplicate (lat, lon, parameter) keeps the first row.
	assert.Equal(t, 42.0, deduped[0].AQI)
	assert.Equal(t, "NYC", deduped[0].ReportingArea)
}

func TestDedupe_Empty(t *testing.T) {
	assert.Empty(t, airquality.Dedupe(nil))
}

func TestMockObservations_Deterministic(t *testing.T) {
	first := airquality.MockObservations(airquality.MockSize)
	second := airquality.MockObservations(airquality.MockSize)

	require.Len(t, first, 1000)
	assert.Equal(t, first, second)
}

func TestMockObservations_WithinBounds(t *testing.T) {
	for _, o := range airquality.MockObservations(200) {
		assert.GreaterOrEqual(t, o.Lat, 24.0)
		assert.LessOrEqual(t, o.Lat, 49.0)
		assert.GreaterOrEqual(t, o.Lon, -125.0)
		assert.LessOrEqual(t, o.Lon, -67.0)
		assert.GreaterOrEqual(t, o.AQI, 5.0)
		assert.LessOrEqual(t, o.AQI, 150.0)
		assert.Equal(t, airquality.CategoryColor(o.Category), o.Color)
	}
}
