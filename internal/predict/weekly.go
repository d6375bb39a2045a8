package predict

import (
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/aeromap/aeromap/internal/history"
)

const (
	weeklyMinRows   = 100
	weeklyMinLagged = 50
	lagCount        = 3
)

// TrainWeeklyModel fits next-day AQI from the previous three days' values
// per location. Inputs below the raw-row threshold, or with too few
// complete lag rows, yield an untrained model without error.
func TrainWeeklyModel(logger zerolog.Logger, samples []history.Sample) *Model {
	logger.Info().Msg("training weekly AQI model")

	if len(samples) < weeklyMinRows {
		logger.Warn().
			Int("rows", len(samples)).
			Msg("not enough historical data - returning untrained model")
		return &Model{}
	}

	features, targets := lagFeatures(samples)
	if len(targets) < weeklyMinLagged {
		logger.Warn().
			Int("lagged_rows", len(targets)).
			Msg("insufficient lagged data - returning untrained model")
		return &Model{}
	}

	model, err := fit(features, targets)
	if err != nil {
		logger.Warn().Err(err).Msg("weekly model fit failed - returning untrained model")
		return &Model{}
	}

	estimates := make([]float64, len(features))
	for i, row := range features {
		estimates[i] = model.Predict(row)
	}
	r2 := stat.RSquaredFrom(estimates, targets, nil)

	logger.Info().
		Float64("r2", r2).
		Int("rows", len(targets)).
		Msg("weekly model trained")

	return model
}

// lagFeatures builds per-location lag rows: for each day with three prior
// samples at the same location, the feature vector is (t-1, t-2, t-3) and
// the target is the day's AQI. Rows with incomplete lag history are dropped.
func lagFeatures(samples []history.Sample) ([][]float64, []float64) {
	groups := groupByLocation(samples)

	var (
		features [][]float64
		targets  []float64
	)
	for _, k := range sortedKeys(groups) {
		group := groups[k]
		for t := lagCount; t < len(group); t++ {
			features = append(features, []float64{
				group[t-1].AQI,
				group[t-2].AQI,
				group[t-3].AQI,
			})
			targets = append(targets, group[t].AQI)
		}
	}
	return features, targets
}
