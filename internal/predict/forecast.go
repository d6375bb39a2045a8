package predict

import (
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aeromap/aeromap/internal/history"
)

const (
	forecastMinRows = 50

	// Synthetic forecast parameters.
	ForecastMockSeed = 10
	ForecastMockSize = 3000

	mockForecastMean   = 75
	mockForecastStddev = 20
)

// Prediction is a next-day AQI forecast at a location.
type Prediction struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
	AQI float64 `json:"aqiPred"`
}

// PredictTomorrow produces next-day forecasts from the weekly model and the
// historical sample set. With an untrained model or too little history the
// result is the seeded synthetic forecast instead; locations with fewer
// than three samples are excluded from real predictions. All outputs are
// clipped to the valid AQI range.
func PredictTomorrow(logger zerolog.Logger, model *Model, samples []history.Sample) []Prediction {
	if !model.Trained() || len(samples) < forecastMinRows {
		logger.Info().Msg("weekly model unavailable - generating synthetic forecast")
		return MockPredictions(ForecastMockSize)
	}

	groups := groupByLocation(samples)

	predictions := make([]Prediction, 0, len(groups))
	for _, k := range sortedKeys(groups) {
		group := groups[k]
		n := len(group)
		if n < lagCount {
			continue
		}
		features := []float64{group[n-1].AQI, group[n-2].AQI, group[n-3].AQI}
		predictions = append(predictions, Prediction{
			Lat: k.lat,
			Lon: k.lon,
			AQI: clip(model.Predict(features), history.MinAQI, history.MaxAQI),
		})
	}

	logger.Info().Int("predictions", len(predictions)).Msg("next-day AQI forecast generated")
	return predictions
}

// MockPredictions generates the deterministic synthetic forecast set.
func MockPredictions(n int) []Prediction {
	rng := rand.New(rand.NewSource(ForecastMockSeed))
	normal := distuv.Normal{Mu: mockForecastMean, Sigma: mockForecastStddev, Src: rng}

	out := make([]Prediction, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Prediction{
			Lat: 25 + rng.Float64()*(49-25),
			Lon: -124 + rng.Float64()*(-67-(-124)),
			AQI: clip(normal.Rand(), history.MinAQI, history.MaxAQI),
		})
	}
	return out
}
