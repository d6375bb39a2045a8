package predict_test

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeromap/aeromap/internal/history"
	"github.com/aeromap/aeromap/internal/predict"
)

// weekOf builds daily samples on a 5-column location grid with AQI defined
// by f. Locations are laid out so latitude and longitude vary independently.
func weekOf(locations int, days int, f func(loc, day int) float64) []history.Sample {
	base := time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)
	var samples []history.Sample
	for d := 0; d < days; d++ {
		for l := 0; l < locations; l++ {
			samples = append(samples, history.Sample{
				Date: base.AddDate(0, 0, d),
				Lat:  30 + float64(l%5),
				Lon:  -110 + float64(l/5),
				AQI:  f(l, d),
			})
		}
	}
	return samples
}

// variedAQI is a deterministic mix that keeps the lag columns independent.
func variedAQI(loc, day int) float64 {
	return float64(30 + (loc*31+day*17)%97)
}

func TestModel_UntrainedZeroValue(t *testing.T) {
	var m predict.Model
	assert.False(t, m.Trained())

	var nilModel *predict.Model
	assert.False(t, nilModel.Trained())
}

func TestTrainPointModel_TooFewRows(t *testing.T) {
	samples := weekOf(3, 3, variedAQI)[:9]

	result := predict.TrainPointModel(zerolog.Nop(), samples)

	assert.False(t, result.Model.Trained())
	assert.Empty(t, result.Features)
	assert.Empty(t, result.Targets)
	assert.Zero(t, result.TrainRows)
}

func TestTrainPointModel_FitsLinearSurface(t *testing.T) {
	// AQI depends linearly on latitude, so the fit should be near exact.
	samples := weekOf(20, 8, func(loc, _ int) float64 {
		return 40 + 2*float64(loc%5)
	})

	result := predict.TrainPointModel(zerolog.Nop(), samples)

	require.True(t, result.Model.Trained())
	assert.Len(t, result.Features, len(samples))
	assert.Len(t, result.Targets, len(samples))
	assert.Greater(t, result.TrainRows, 0)
	assert.InDelta(t, 1.0, result.R2, 0.01)
}

func TestTrainPointModel_Deterministic(t *testing.T) {
	samples := weekOf(15, 8, variedAQI)

	first := predict.TrainPointModel(zerolog.Nop(), samples)
	second := predict.TrainPointModel(zerolog.Nop(), samples)

	assert.Equal(t, first.Model, second.Model)
	assert.Equal(t, first.R2, second.R2)
}

func TestTrainWeeklyModel_TooFewRows(t *testing.T) {
	samples := weekOf(10, 10, variedAQI)[:99]

	model := predict.TrainWeeklyModel(zerolog.Nop(), samples)
	assert.False(t, model.Trained())
}

func TestTrainWeeklyModel_TooFewLaggedRows(t *testing.T) {
	// 100 raw rows but only 2 days per location, so no complete lag rows.
	samples := weekOf(50, 2, variedAQI)

	model := predict.TrainWeeklyModel(zerolog.Nop(), samples)
	assert.False(t, model.Trained())
}

func TestTrainWeeklyModel_TrainsOnVariedHistory(t *testing.T) {
	samples := weekOf(20, 8, variedAQI)

	model := predict.TrainWeeklyModel(zerolog.Nop(), samples)
	require.True(t, model.Trained())
	require.Len(t, model.Coeffs, 3)

	got := model.Predict([]float64{70, 65, 80})
	assert.False(t, math.IsNaN(got))
	assert.False(t, math.IsInf(got, 0))
}

func TestPredictTomorrow_UntrainedModelYieldsMock(t *testing.T) {
	samples := weekOf(20, 8, variedAQI)

	predictions := predict.PredictTomorrow(zerolog.Nop(), &predict.Model{}, samples)
	require.Len(t, predictions, predict.ForecastMockSize)

	// The synthetic forecast is seeded.
	again := predict.PredictTomorrow(zerolog.Nop(), &predict.Model{}, samples)
	assert.Equal(t, predictions, again)
}

func TestPredictTomorrow_ClipsToValidRange(t *testing.T) {
	samples := weekOf(20, 8, func(loc, day int) float64 {
		return float64(220 + (loc*13+day*29)%130)
	})

	model := predict.TrainWeeklyModel(zerolog.Nop(), samples)
	require.True(t, model.Trained())

	for _, p := range predict.PredictTomorrow(zerolog.Nop(), model, samples) {
		assert.GreaterOrEqual(t, p.AQI, float64(history.MinAQI))
		assert.LessOrEqual(t, p.AQI, float64(history.MaxAQI))
		assert.False(t, math.IsNaN(p.AQI))
	}
}

func TestPredictTomorrow_OnePredictionPerLocation(t *testing.T) {
	samples := weekOf(25, 8, variedAQI)

	model := predict.TrainWeeklyModel(zerolog.Nop(), samples)
	require.True(t, model.Trained())

	predictions := predict.PredictTomorrow(zerolog.Nop(), model, samples)
	assert.Len(t, predictions, 25)

	seen := make(map[[2]float64]bool)
	for _, p := range predictions {
		key := [2]float64{p.Lat, p.Lon}
		assert.False(t, seen[key], "duplicate prediction for %v", key)
		seen[key] = true
	}
}

func TestMockPredictions_WithinRange(t *testing.T) {
	for _, p := range predict.MockPredictions(500) {
		assert.GreaterOrEqual(t, p.AQI, float64(history.MinAQI))
		assert.LessOrEqual(t, p.AQI, float64(history.MaxAQI))
		assert.GreaterOrEqual(t, p.Lat, 25.0)
		assert.LessOrEqual(t, p.Lat, 49.0)
	}
}
