// Package aerosol loads satellite aerosol optical depth data.
package aerosol

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aeromap/aeromap/internal/geo"
)

// Sample is one aerosol optical depth reading at a grid point.
type Sample struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
	AOD float64 `json:"aod"`
}

// GranuleClient retrieves one granule's AOD grid from a satellite archive.
type GranuleClient interface {
	FetchGrid(ctx context.Context) ([]Sample, error)
}

// Crop filters samples to the given bounding box.
func Crop(samples []Sample, box geo.BoundingBox) []Sample {
	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if box.Contains(s.Lat, s.Lon) {
			out = append(out, s)
		}
	}
	return out
}

// LoaderConfig holds configuration for the aerosol loader.
type LoaderConfig struct {
	// Client is the archive client. May be nil, in which case the loader
	// always serves the synthetic dataset.
	Client GranuleClient

	// Logger for load operations.
	Logger zerolog.Logger

	// Box is the crop region (default: continental US).
	Box geo.BoundingBox

	// MockSize is the size of the synthetic fallback set (default 3000).
	MockSize int
}

// Loader fetches the AOD grid with a synthetic fallback. It never fails:
// any archive error, including the client being absent entirely, degrades
// to the deterministic mock dataset.
type Loader struct {
	client   GranuleClient
	logger   zerolog.Logger
	box      geo.BoundingBox
	mockSize int
}

// NewLoader creates a new aerosol loader.
func NewLoader(cfg LoaderConfig) *Loader {
	box := cfg.Box
	if box == (geo.BoundingBox{}) {
		box = geo.ContinentalUS()
	}

	mockSize := cfg.MockSize
	if mockSize <= 0 {
		mockSize = MockSize
	}

	return &Loader{
		client:   cfg.Client,
		logger:   cfg.Logger,
		box:      box,
		mockSize: mockSize,
	}
}

// Load returns the cropped AOD sample set. Both the real and the mock path
// are cropped to the configured bounding box before returning.
func (l *Loader) Load(ctx context.Context) []Sample {
	samples, err := l.fetch(ctx)
	if err != nil {
		l.logger.Warn().Err(err).Msg("aerosol archive unavailable - using synthetic dataset")
		samples = MockSamples(l.mockSize)
	} else {
		l.logger.Info().Int("samples", len(samples)).Msg("aerosol grid retrieved")
	}
	return Crop(samples, l.box)
}

func (l *Loader) fetch(ctx context.Context) ([]Sample, error) {
	if l.client == nil {
		return nil, ErrUnavailable
	}
	return l.client.FetchGrid(ctx)
}
