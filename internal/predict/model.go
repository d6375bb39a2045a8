// Package predict fits the AQI regression models and produces next-day
// point forecasts.
package predict

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/aeromap/aeromap/internal/history"
)

// ErrNoData is returned when a fit is attempted on an empty matrix.
var ErrNoData = errors.New("no rows to fit")

// Model is a fitted linear regression. The zero value is a valid untrained
// model; callers treat it as a degenerate result rather than an error.
type Model struct {
	Intercept float64   `json:"intercept"`
	Coeffs    []float64 `json:"coeffs"`

	trained bool
}

// Trained reports whether the model has been fitted.
func (m *Model) Trained() bool {
	return m != nil && m.trained
}

// Predict evaluates the regression at the given feature vector.
func (m *Model) Predict(features []float64) float64 {
	v := m.Intercept
	for i, c := range m.Coeffs {
		if i < len(features) {
			v += c * features[i]
		}
	}
	return v
}

// fit performs ordinary least squares with an intercept column, solved by
// QR decomposition.
func fit(features [][]float64, targets []float64) (*Model, error) {
	n := len(features)
	if n == 0 || len(targets) != n {
		return nil, ErrNoData
	}
	p := len(features[0])

	a := mat.NewDense(n, p+1, nil)
	for i, row := range features {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(n, targets)

	var qr mat.QR
	qr.Factorize(a)

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, b); err != nil {
		return nil, fmt.Errorf("solve least squares: %w", err)
	}

	coeffs := make([]float64, p)
	for j := 0; j < p; j++ {
		coeffs[j] = beta.At(j+1, 0)
	}
	return &Model{Intercept: beta.At(0, 0), Coeffs: coeffs, trained: true}, nil
}

// locKey groups samples by exact coordinates.
type locKey struct {
	lat, lon float64
}

// groupByLocation buckets samples per coordinate, each bucket sorted by date.
func groupByLocation(samples []history.Sample) map[locKey][]history.Sample {
	groups := make(map[locKey][]history.Sample)
	for _, s := range samples {
		k := locKey{lat: s.Lat, lon: s.Lon}
		groups[k] = append(groups[k], s)
	}
	for k := range groups {
		group := groups[k]
		sort.Slice(group, func(i, j int) bool { return group[i].Date.Before(group[j].Date) })
		groups[k] = group
	}
	return groups
}

// sortedKeys returns group keys in deterministic order.
func sortedKeys(groups map[locKey][]history.Sample) []locKey {
	keys := make([]locKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].lat != keys[j].lat {
			return keys[i].lat < keys[j].lat
		}
		return keys[i].lon < keys[j].lon
	})
	return keys
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
