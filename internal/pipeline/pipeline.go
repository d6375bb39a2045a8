// Package pipeline sequences the fetch, training, forecast and render
// stages of one AeroMap run.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aeromap/aeromap/internal/aerosol"
	"github.com/aeromap/aeromap/internal/airquality"
	"github.com/aeromap/aeromap/internal/history"
	"github.com/aeromap/aeromap/internal/mapview"
	"github.com/aeromap/aeromap/internal/predict"
)

// RunnerConfig holds the stage components. Any component may be nil; its
// stage is then skipped with a logged warning and later stages still run
// on partial data.
type RunnerConfig struct {
	Logger zerolog.Logger

	History    *history.Fetcher
	Aerosol    *aerosol.Loader
	AirQuality *airquality.Fetcher

	Map mapview.Config

	// OutputPath is where the rendered document is written. Empty skips
	// the write (the document is still built).
	OutputPath string

	// ForceRefresh is passed through to the historical fetcher; it is
	// currently inert there.
	ForceRefresh bool
}

// Result is the in-memory outcome of one run.
type Result struct {
	RunID        string
	Observations []airquality.Observation
	FetchStats   airquality.FetchStats
	Aerosol      []aerosol.Sample
	History      []history.Sample
	PointModel   predict.PointResult
	WeeklyModel  *predict.Model
	Predictions  []predict.Prediction
	Document     *mapview.Document
	MapPath      string
}

// Runner executes the pipeline.
type Runner struct {
	cfg RunnerConfig
}

// NewRunner creates a pipeline runner.
func NewRunner(cfg RunnerConfig) *Runner {
	return &Runner{cfg: cfg}
}

// Run executes one full pipeline pass. Every stage failure short of map
// rendering is absorbed: the stage's output is left empty and the run
// continues. A map build failure is the only fatal condition and is
// returned as the run error.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	runID := "run_" + uuid.New().String()[:8]
	log := r.cfg.Logger.With().Str("run_id", runID).Logger()

	result := &Result{RunID: runID}

	log.Info().Msg("starting pipeline run")

	if r.cfg.History != nil {
		result.History = r.cfg.History.FetchPastWeek(ctx, history.Options{
			UseMock:      true,
			ForceRefresh: r.cfg.ForceRefresh,
		})
	} else {
		log.Warn().Msg("historical fetcher not configured - skipping")
	}

	if r.cfg.Aerosol != nil {
		result.Aerosol = r.cfg.Aerosol.Load(ctx)
	} else {
		log.Warn().Msg("aerosol loader not configured - skipping")
	}

	if r.cfg.AirQuality != nil {
		result.Observations, result.FetchStats = r.cfg.AirQuality.FetchCurrent(ctx)
	} else {
		log.Warn().Msg("observation fetcher not configured - skipping")
	}

	result.PointModel = predict.TrainPointModel(log, result.History)

	result.WeeklyModel = predict.TrainWeeklyModel(log, result.History)
	result.Predictions = predict.PredictTomorrow(log, result.WeeklyModel, result.History)

	log.Info().
		Int("observations", len(result.Observations)).
		Int("aerosol_samples", len(result.Aerosol)).
		Int("history_samples", len(result.History)).
		Int("predictions", len(result.Predictions)).
		Msg("pipeline data ready")

	document, err := mapview.Build(r.cfg.Map, result.Observations, result.Aerosol, result.Predictions)
	if err != nil {
		log.Error().Err(err).Msg("map build failed")
		return nil, err
	}
	result.Document = document

	if r.cfg.OutputPath != "" {
		if err := document.WriteFile(r.cfg.OutputPath); err != nil {
			log.Error().Err(err).Msg("map write failed")
			return nil, err
		}
		result.MapPath = r.cfg.OutputPath
	}

	log.Info().
		Strs("layers", document.Layers).
		Str("output", result.MapPath).
		Msg("pipeline run completed")

	return result, nil
}
