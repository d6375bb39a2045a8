package airquality

import (
	"golang.org/x/exp/rand"
)

// Mock dataset parameters. The fixed seed makes the fallback dataset
// reproducible across runs.
const (
	MockSeed = 42
	MockSize = 1000
)

var mockParameters = []string{"PM2.5", "NO2"}

var mockCategories = []string{"Good", "Moderate", "Unhealthy"}

// MockObservations generates a deterministic synthetic observation set of n
// points drawn uniformly over the continental bounding box.
func MockObservations(n int) []Observation {
	rng := rand.New(rand.NewSource(MockSeed))

	out := make([]Observation, 0, n)
	for i := 0; i < n; i++ {
		category := mockCategories[rng.Intn(len(mockCategories))]
		out = append(out, Observation{
			Lat:        24 + rng.Float64()*(49-24),
			Lon:        -125 + rng.Float64()*(-67-(-125)),
			Parameter:  mockParameters[rng.Intn(len(mockParameters))],
			AQI:        float64(5 + rng.Intn(146)),
			Category:   category,
			Color:      CategoryColor(category),
			ObservedAt: "2025-10-04T12:00",
		})
	}
	return out
}
