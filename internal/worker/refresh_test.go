package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeromap/aeromap/internal/api/store"
	"github.com/aeromap/aeromap/internal/mapview"
	"github.com/aeromap/aeromap/internal/pipeline"
	"github.com/aeromap/aeromap/internal/worker"
)

func newJob(t *testing.T, mapMode mapview.LayerMode) (*worker.RefreshJob, *store.Store) {
	t.Helper()

	runner := pipeline.NewRunner(pipeline.RunnerConfig{
		Logger: zerolog.Nop(),
		Map:    mapview.Config{Mode: mapMode},
	})
	st := store.New()

	return worker.NewRefreshJob(worker.RefreshJobConfig{
		Runner: runner,
		Store:  st,
		Logger: zerolog.Nop(),
	}), st
}

func TestRefreshJob_RunOncePublishesResult(t *testing.T) {
	job, st := newJob(t, mapview.LayerBoth)

	require.Nil(t, st.Result())

	job.RunOnce(context.Background())

	result := st.Result()
	require.NotNil(t, result)
	assert.NotEmpty(t, result.RunID)
	require.NotNil(t, result.Document)

	metrics := job.Metrics()
	assert.Equal(t, int64(1), metrics.TotalRuns)
	assert.Equal(t, int64(1), metrics.SuccessfulRuns)
	assert.Equal(t, int64(0), metrics.FailedRuns)
	assert.False(t, metrics.LastRunAt.IsZero())
}

func TestRefreshJob_FailedRunKeepsPreviousResult(t *testing.T) {
	job, st := newJob(t, mapview.LayerBoth)

	job.RunOnce(context.Background())
	first := st.Result()
	require.NotNil(t, first)

	// Point the same store at a runner that always fails.
	failing := worker.NewRefreshJob(worker.RefreshJobConfig{
		Runner: pipeline.NewRunner(pipeline.RunnerConfig{
			Logger: zerolog.Nop(),
			Map:    mapview.Config{Mode: "bogus"},
		}),
		Store:  st,
		Logger: zerolog.Nop(),
	})

	failing.RunOnce(context.Background())

	assert.Same(t, first, st.Result())

	metrics := failing.Metrics()
	assert.Equal(t, int64(1), metrics.TotalRuns)
	assert.Equal(t, int64(0), metrics.SuccessfulRuns)
	assert.Equal(t, int64(1), metrics.FailedRuns)
}

func TestRefreshJob_StartStopsOnContextCancel(t *testing.T) {
	job, _ := newJob(t, mapview.LayerBoth)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh job did not stop after context cancellation")
	}
}

func TestRefreshJob_DefaultInterval(t *testing.T) {
	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Logger: zerolog.Nop(),
	})
	require.NotNil(t, job)

	// A zero-value metrics snapshot before any run.
	metrics := job.Metrics()
	assert.Equal(t, int64(0), metrics.TotalRuns)
	assert.True(t, metrics.LastRunAt.IsZero())
}
