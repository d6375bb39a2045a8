// Package geoindex provides an R-Tree backed spatial index over
// geographic points.
package geoindex

import (
	"sync"

	"github.com/dhconnelly/rtreego"
)

const (
	tolerance   = 0.01
	minChildren = 25
	maxChildren = 50
	dimensions  = 2
)

// Entry is a point with an attached value.
type Entry struct {
	Lat   float64
	Lon   float64
	Value any

	rect *rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *Entry) Bounds() *rtreego.Rect {
	return e.rect
}

// Index is a thread-safe spatial index.
type Index struct {
	mu   sync.RWMutex
	tree *rtreego.Rtree
	size int
}

// New creates an empty index.
func New() *Index {
	return &Index{tree: rtreego.NewTree(dimensions, minChildren, maxChildren)}
}

// Insert adds an entry to the index.
func (x *Index) Insert(lat, lon float64, value any) {
	rect := rtreego.Point{lat, lon}.ToRect(tolerance)

	x.mu.Lock()
	defer x.mu.Unlock()
	x.tree.Insert(&Entry{Lat: lat, Lon: lon, Value: value, rect: rect})
	x.size++
}

// Nearest returns up to k entries closest to the given coordinate.
func (x *Index) Nearest(lat, lon float64, k int) []*Entry {
	x.mu.RLock()
	defer x.mu.RUnlock()

	results := x.tree.NearestNeighbors(k, rtreego.Point{lat, lon})
	entries := make([]*Entry, 0, len(results))
	for _, r := range results {
		if e, ok := r.(*Entry); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// Size returns the number of indexed entries.
func (x *Index) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.size
}
