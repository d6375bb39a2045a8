// Package geo provides shared geographic primitives.
package geo

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// BoundingBox is a latitude/longitude rectangle.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// ContinentalUS returns the bounding box used to crop data to the
// continental United States.
func ContinentalUS() BoundingBox {
	return BoundingBox{
		MinLat: 24,
		MaxLat: 49.5,
		MinLon: -125,
		MaxLon: -66.5,
	}
}

// Contains reports whether the given coordinate lies inside the box
// (bounds inclusive).
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}
