// Package main provides the aeromap batch pipeline entrypoint.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aeromap/aeromap/internal/aerosol"
	"github.com/aeromap/aeromap/internal/aerosol/earthdata"
	"github.com/aeromap/aeromap/internal/airquality"
	"github.com/aeromap/aeromap/internal/airquality/airnow"
	"github.com/aeromap/aeromap/internal/config"
	"github.com/aeromap/aeromap/internal/history"
	"github.com/aeromap/aeromap/internal/mapview"
	"github.com/aeromap/aeromap/internal/pipeline"
	"github.com/aeromap/aeromap/internal/provider/resilience"
)

// Version is set at compile time via ldflags.
var Version = "dev"

var (
	forceRefresh bool
	layers       string
	outputPath   string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "aeromap",
	Short: "Render a US air quality map from live and synthetic data",
	Long: `aeromap fetches current AQI observations, an aerosol optical depth
grid and a week of historical AQI, trains next-day prediction models and
renders everything as an interactive Leaflet map.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().BoolVar(&forceRefresh, "force-refresh", false, "Bypass cached historical data")
	rootCmd.Flags().StringVar(&layers, "layers", "both", "Marker layers to render (both, current, predicted)")
	rootCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Output HTML path (default from MAP_OUTPUT)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Str("service", "aeromap").
		Str("version", Version).
		Logger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Error().Err(err).Msg("configuration error")
		return err
	}

	mode, err := parseLayerMode(layers)
	if err != nil {
		log.Error().Err(err).Msg("invalid --layers value")
		return err
	}

	out := outputPath
	if out == "" {
		out = cfg.MapOutput
	}

	mapCfg := mapview.DefaultConfig()
	mapCfg.Mode = mode

	registry := resilience.NewRegistry()
	runner := pipeline.NewRunner(pipeline.RunnerConfig{
		Logger:       log,
		History:      history.NewFetcher(log),
		Aerosol:      newAerosolLoader(log, cfg, registry),
		AirQuality:   newObservationFetcher(log, cfg, registry),
		Map:          mapCfg,
		OutputPath:   out,
		ForceRefresh: forceRefresh,
	})

	result, err := runner.Run(cmd.Context())
	if err != nil {
		log.Error().Err(err).Msg("pipeline run failed")
		return err
	}

	log.Info().
		Str("run_id", result.RunID).
		Str("map", result.MapPath).
		Msg("pipeline run complete")
	return nil
}

func parseLayerMode(s string) (mapview.LayerMode, error) {
	switch s {
	case "both":
		return mapview.LayerBoth, nil
	case "current":
		return mapview.LayerCurrent, nil
	case "predicted":
		return mapview.LayerPredicted, nil
	default:
		return "", fmt.Errorf("unknown layer mode %q (want both, current or predicted)", s)
	}
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
