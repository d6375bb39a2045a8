package predict

import (
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/aeromap/aeromap/internal/history"
)

const (
	pointMinRows = 10
	splitSeed    = 42
	testFraction = 0.2
)

// PointResult holds the point model with its feature matrix, targets and
// held-out R². An untrained model with empty placeholders is a valid
// degenerate result.
type PointResult struct {
	Model     *Model
	Features  [][]float64
	Targets   []float64
	R2        float64
	TrainRows int
}

// TrainPointModel fits a regression from normalized coordinates to AQI
// using an 80/20 split with a fixed seed, reporting R² on the held-out
// split. Inputs below the row threshold yield an untrained model and empty
// placeholders without error.
func TrainPointModel(logger zerolog.Logger, samples []history.Sample) PointResult {
	logger.Info().Msg("training AQI point model")

	if len(samples) < pointMinRows {
		logger.Warn().
			Int("rows", len(samples)).
			Msg("not enough AQI data - returning untrained model")
		return PointResult{Model: &Model{}, Features: [][]float64{}, Targets: []float64{}}
	}

	n := len(samples)
	lats := make([]float64, n)
	lons := make([]float64, n)
	for i, s := range samples {
		lats[i] = s.Lat
		lons[i] = s.Lon
	}

	latMean, latStd := stat.MeanStdDev(lats, nil)
	lonMean, lonStd := stat.MeanStdDev(lons, nil)
	if latStd == 0 {
		latStd = 1
	}
	if lonStd == 0 {
		lonStd = 1
	}

	features := make([][]float64, n)
	targets := make([]float64, n)
	for i, s := range samples {
		features[i] = []float64{(s.Lat - latMean) / latStd, (s.Lon - lonMean) / lonStd}
		targets[i] = clip(s.AQI, 0, 500)
	}

	perm := rand.New(rand.NewSource(splitSeed)).Perm(n)
	nTest := int(float64(n) * testFraction)
	if nTest < 1 {
		nTest = 1
	}

	trainX := make([][]float64, 0, n-nTest)
	trainY := make([]float64, 0, n-nTest)
	testX := make([][]float64, 0, nTest)
	testY := make([]float64, 0, nTest)
	for i, idx := range perm {
		if i < nTest {
			testX = append(testX, features[idx])
			testY = append(testY, targets[idx])
		} else {
			trainX = append(trainX, features[idx])
			trainY = append(trainY, targets[idx])
		}
	}

	model, err := fit(trainX, trainY)
	if err != nil {
		logger.Warn().Err(err).Msg("point model fit failed - returning untrained model")
		return PointResult{Model: &Model{}, Features: [][]float64{}, Targets: []float64{}}
	}

	estimates := make([]float64, len(testX))
	for i, row := range testX {
		estimates[i] = model.Predict(row)
	}
	r2 := stat.RSquaredFrom(estimates, testY, nil)

	logger.Info().
		Float64("r2", r2).
		Int("train_rows", len(trainX)).
		Msg("point model trained")

	return PointResult{
		Model:     model,
		Features:  features,
		Targets:   targets,
		R2:        r2,
		TrainRows: len(trainX),
	}
}
