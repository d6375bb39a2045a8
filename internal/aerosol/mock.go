package aerosol

import (
	"errors"

	"golang.org/x/exp/rand"
)

// ErrUnavailable is returned when no archive client is configured.
var ErrUnavailable = errors.New("aerosol archive client unavailable")

// Mock dataset parameters.
const (
	MockSeed = 1
	MockSize = 3000
)

// MockSamples generates a deterministic synthetic AOD grid of n points
// uniform over the continental bounding box, AOD uniform in [0,1).
func MockSamples(n int) []Sample {
	rng := rand.New(rand.NewSource(MockSeed))

	out := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Sample{
			Lat: 24 + rng.Float64()*(49.5-24),
			Lon: -125 + rng.Float64()*(-66.5-(-125)),
			AOD: rng.Float64(),
		})
	}
	return out
}
