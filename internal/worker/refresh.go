// Package worker provides background job processing for aeromap.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aeromap/aeromap/internal/api/store"
	"github.com/aeromap/aeromap/internal/pipeline"
)

// DefaultInterval is the default time between scheduled pipeline runs.
const DefaultInterval = 1 * time.Hour

// RefreshJob re-runs the data pipeline on a fixed interval and publishes
// each successful result to the store. A failed run keeps the previous
// result in place.
type RefreshJob struct {
	runner   *pipeline.Runner
	store    *store.Store
	logger   zerolog.Logger
	interval time.Duration

	metrics RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	TotalRuns      int64
	SuccessfulRuns int64
	FailedRuns     int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Runner   *pipeline.Runner
	Store    *store.Store
	Logger   zerolog.Logger
	Interval time.Duration
}

// NewRefreshJob creates a new refresh job.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &RefreshJob{
		runner:   cfg.Runner,
		store:    cfg.Store,
		logger:   cfg.Logger,
		interval: interval,
	}
}

// Start blocks running the refresh loop until ctx is cancelled. The first
// run happens after one full interval; callers wanting data at startup run
// the pipeline once themselves before starting the loop.
func (j *RefreshJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info().
		Dur("interval", j.interval).
		Msg("refresh job started")

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("refresh job stopped")
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single pipeline run and records its outcome.
func (j *RefreshJob) RunOnce(ctx context.Context) {
	start := time.Now()

	result, err := j.runner.Run(ctx)
	duration := time.Since(start)

	j.metrics.mu.Lock()
	j.metrics.TotalRuns++
	j.metrics.LastRunAt = start
	j.metrics.LastRunDuration = duration
	if err != nil {
		j.metrics.FailedRuns++
	} else {
		j.metrics.SuccessfulRuns++
	}
	j.metrics.mu.Unlock()

	if err != nil {
		j.logger.Error().
			Err(err).
			Dur("duration", duration).
			Msg("scheduled pipeline run failed")
		return
	}

	j.store.SetResult(result)

	j.logger.Info().
		Str("run_id", result.RunID).
		Dur("duration", duration).
		Msg("scheduled pipeline run completed")
}

// Metrics returns a snapshot of the job statistics.
func (j *RefreshJob) Metrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()
	return RefreshMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		SuccessfulRuns:  j.metrics.SuccessfulRuns,
		FailedRuns:      j.metrics.FailedRuns,
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
	}
}
