package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeromap/aeromap/internal/history"
	"github.com/aeromap/aeromap/internal/mapview"
	"github.com/aeromap/aeromap/internal/pipeline"
	"github.com/aeromap/aeromap/internal/predict"
)

func TestRunner_AllComponentsNil(t *testing.T) {
	// Every stage absent: the run still completes, the models degrade to
	// their untrained forms and the forecast is synthetic.
	runner := pipeline.NewRunner(pipeline.RunnerConfig{Logger: zerolog.Nop()})

	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Empty(t, result.Observations)
	assert.Empty(t, result.Aerosol)
	assert.Empty(t, result.History)
	assert.False(t, result.PointModel.Model.Trained())
	assert.False(t, result.WeeklyModel.Trained())
	assert.Len(t, result.Predictions, predict.ForecastMockSize)
	assert.NotNil(t, result.Document)
	assert.Empty(t, result.MapPath)
}

func TestRunner_HistoryDrivesModels(t *testing.T) {
	runner := pipeline.NewRunner(pipeline.RunnerConfig{
		Logger:  zerolog.Nop(),
		History: history.NewFetcher(zerolog.Nop()),
	})

	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.History, 8*history.MockLocations)
	assert.True(t, result.PointModel.Model.Trained())
	assert.True(t, result.WeeklyModel.Trained())
	assert.Len(t, result.Predictions, history.MockLocations)
}

func TestRunner_WritesMapDocument(t *testing.T) {
	out := filepath.Join(t.TempDir(), "air_quality_map.html")

	runner := pipeline.NewRunner(pipeline.RunnerConfig{
		Logger:     zerolog.Nop(),
		History:    history.NewFetcher(zerolog.Nop()),
		OutputPath: out,
	})

	result, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, out, result.MapPath)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, result.Document.HTML, string(data))
}

func TestRunner_MapBuildFailureIsFatal(t *testing.T) {
	runner := pipeline.NewRunner(pipeline.RunnerConfig{
		Logger: zerolog.Nop(),
		Map:    mapview.Config{Mode: mapview.LayerMode("bogus")},
	})

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown layer mode")
}

func TestRunner_RunIDsAreUnique(t *testing.T) {
	runner := pipeline.NewRunner(pipeline.RunnerConfig{Logger: zerolog.Nop()})

	first, err := runner.Run(context.Background())
	require.NoError(t, err)
	second, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
}
