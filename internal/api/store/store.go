// Package store holds the latest pipeline result for the API layer.
package store

import (
	"sync"

	"github.com/aeromap/aeromap/internal/airquality"
	"github.com/aeromap/aeromap/internal/pipeline"
	"github.com/aeromap/aeromap/pkg/geoindex"
)

// Store holds the latest pipeline result and a spatial index over its
// observations for nearest-point lookups.
type Store struct {
	mu     sync.RWMutex
	result *pipeline.Result
	index  *geoindex.Index
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// SetResult replaces the stored result and rebuilds the spatial index.
func (s *Store) SetResult(result *pipeline.Result) {
	index := geoindex.New()
	if result != nil {
		for i := range result.Observations {
			o := &result.Observations[i]
			index.Insert(o.Lat, o.Lon, o)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	s.index = index
}

// Result returns the latest pipeline result, or nil before the first run.
func (s *Store) Result() *pipeline.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// NearestObservations returns up to k observations closest to the given
// coordinate.
func (s *Store) NearestObservations(lat, lon float64, k int) []*airquality.Observation {
	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()

	if index == nil {
		return nil
	}

	entries := index.Nearest(lat, lon, k)
	observations := make([]*airquality.Observation, 0, len(entries))
	for _, e := range entries {
		if o, ok := e.Value.(*airquality.Observation); ok {
			observations = append(observations, o)
		}
	}
	return observations
}
