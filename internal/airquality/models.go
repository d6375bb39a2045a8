// Package airquality fetches and normalizes current AQI observations.
package airquality

import (
	"strings"
)

// Observation is a single normalized air quality reading.
type Observation struct {
	Lat           float64 `json:"latitude"`
	Lon           float64 `json:"longitude"`
	Parameter     string  `json:"parameter"`
	AQI           float64 `json:"aqi"`
	Category      string  `json:"category"`
	Color         string  `json:"color"`
	ReportingArea string  `json:"reportingArea,omitempty"`
	StateCode     string  `json:"stateCode,omitempty"`
	ObservedAt    string  `json:"observedAt,omitempty"`
}

// CategoryColor maps an AQI category label to its display color.
// Unrecognized categories fall back to gray.
func CategoryColor(category string) string {
	switch strings.TrimSpace(category) {
	case "Good":
		return "green"
	case "Moderate":
		return "yellow"
	case "Unhealthy for Sensitive Groups":
		return "orange"
	case "Unhealthy":
		return "red"
	case "Very Unhealthy":
		return "purple"
	case "Hazardous":
		return "maroon"
	default:
		return "gray"
	}
}

// Dedupe removes duplicate observations, keyed on (lat, lon, parameter).
// The first occurrence wins.
func Dedupe(observations []Observation) []Observation {
	type key struct {
		lat, lon  float64
		parameter string
	}

	seen := make(map[key]struct{}, len(observations))
	out := make([]Observation, 0, len(observations))
	for _, o := range observations {
		k := key{lat: o.Lat, lon: o.Lon, parameter: o.Parameter}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, o)
	}
	return out
}
