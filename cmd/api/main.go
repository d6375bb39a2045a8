// Package main provides the entrypoint for the aeromap API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aeromap/aeromap/internal/aerosol"
	"github.com/aeromap/aeromap/internal/aerosol/earthdata"
	"github.com/aeromap/aeromap/internal/airquality"
	"github.com/aeromap/aeromap/internal/airquality/airnow"
	"github.com/aeromap/aeromap/internal/api"
	"github.com/aeromap/aeromap/internal/api/middleware"
	"github.com/aeromap/aeromap/internal/api/store"
	"github.com/aeromap/aeromap/internal/config"
	"github.com/aeromap/aeromap/internal/history"
	"github.com/aeromap/aeromap/internal/mapview"
	"github.com/aeromap/aeromap/internal/pipeline"
	"github.com/aeromap/aeromap/internal/provider/resilience"
	"github.com/aeromap/aeromap/internal/telemetry"
	"github.com/aeromap/aeromap/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "aeromap-api"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting aeromap API")

	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal().Err(err).Msg("configuration error")
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	registry := resilience.NewRegistry()
	runner := pipeline.NewRunner(pipeline.RunnerConfig{
		Logger:     log,
		History:    history.NewFetcher(log),
		Aerosol:    newAerosolLoader(log, cfg, registry),
		AirQuality: newObservationFetcher(log, cfg, registry),
		Map:        mapview.DefaultConfig(),
	})

	resultStore := store.New()

	// First run happens before the server accepts traffic so readiness
	// flips as soon as we listen.
	result, err := runner.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("initial pipeline run failed")
	}
	resultStore.SetResult(result)

	refreshInterval := worker.DefaultInterval
	if raw := os.Getenv("REFRESH_INTERVAL"); raw != "" {
		refreshInterval, err = time.ParseDuration(raw)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REFRESH_INTERVAL")
		}
	}

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Runner:   runner,
		Store:    resultStore,
		Logger:   log,
		Interval: refreshInterval,
	})
	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()
	go refreshJob.Start(refreshCtx)

	router := api.NewRouter(api.RouterConfig{
		Version:   Version,
		BuildTime: BuildTime,
		Logger:    log,
		Metrics:   metrics,
		Store:     resultStore,
		Registry:  registry,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	stopRefresh()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func newObservationFetcher(log zerolog.Logger, cfg *config.Config, registry *resilience.Registry) *airquality.Fetcher {
	client := resilience.NewClient(resilience.ClientConfig{
		Name:    airnow.ProviderName,
		Timeout: cfg.FetchTimeout,
	})
	registry.Register(airnow.ProviderName, client)

	return airquality.NewFetcher(airquality.FetcherConfig{
		Provider: airnow.NewClient(airnow.ClientConfig{
			BaseURL:    cfg.AirNowBaseURL,
			APIKey:     cfg.AirNowAPIKey,
			HTTPClient: client,
			Timeout:    cfg.FetchTimeout,
		}),
		Logger:      log,
		Coordinates: cfg.Coordinates,
		Concurrency: cfg.FetchConcurrency,
		Timeout:     cfg.FetchTimeout,
	})
}

func newAerosolLoader(log zerolog.Logger, cfg *config.Config, registry *resilience.Registry) *aerosol.Loader {
	client := resilience.NewClient(resilience.ClientConfig{
		Name: earthdata.ProviderName,
	})
	registry.Register(earthdata.ProviderName, client)

	return aerosol.NewLoader(aerosol.LoaderConfig{
		Client: earthdata.NewClient(earthdata.ClientConfig{
			CMRBaseURL:   cfg.CMRBaseURL,
			NetrcPath:    cfg.NetrcPath,
			SearchClient: client,
		}),
		Logger: log,
	})
}
