// Package mapview renders the interactive Leaflet map document.
package mapview

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/aeromap/aeromap/internal/aerosol"
	"github.com/aeromap/aeromap/internal/airquality"
	"github.com/aeromap/aeromap/internal/geo"
	"github.com/aeromap/aeromap/internal/predict"
)

// LayerMode selects which AQI marker layers are rendered. The aerosol heat
// layer is independent of the mode.
type LayerMode string

const (
	LayerBoth      LayerMode = "both"
	LayerCurrent   LayerMode = "current"
	LayerPredicted LayerMode = "predicted"
)

// Layer names as shown in the layer control.
const (
	LayerNameCurrent   = "Current AQI Levels"
	LayerNameAerosol   = "Aerosol Optical Depth"
	LayerNamePredicted = "Predicted AQI (Tomorrow)"
)

// Config holds map rendering configuration.
type Config struct {
	// Center is the initial map center (default: continental US centroid).
	Center geo.Point

	// Zoom is the initial zoom level (default 5).
	Zoom int

	// Mode selects the marker layers (default LayerBoth).
	Mode LayerMode

	// Title is the document title.
	Title string
}

// DefaultConfig returns the continental US map configuration.
func DefaultConfig() Config {
	return Config{
		Center: geo.Point{Lat: 39.5, Lon: -98.35},
		Zoom:   5,
		Mode:   LayerBoth,
		Title:  "AeroMap - Air Quality",
	}
}

// ColorForAQI maps an AQI value to its display bucket color.
func ColorForAQI(aqi float64) string {
	switch {
	case aqi <= 50:
		return "green"
	case aqi <= 100:
		return "yellow"
	case aqi <= 150:
		return "orange"
	case aqi <= 200:
		return "red"
	case aqi <= 300:
		return "purple"
	default:
		return "maroon"
	}
}

// Document is a rendered map with the names of its layers.
type Document struct {
	HTML   string
	Layers []string
}

// WriteFile writes the document to disk.
func (d *Document) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(d.HTML), 0o644); err != nil {
		return fmt.Errorf("write map document: %w", err)
	}
	return nil
}

type markerPoint struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Color string  `json:"color"`
	Popup string  `json:"popup"`
}

type layerData struct {
	Name        string
	Heat        bool
	Points      template.JS
	FillOpacity float64
}

type documentData struct {
	Title     string
	CenterLat float64
	CenterLon float64
	Zoom      int
	Layers    []layerData
}

// Build composes the selected non-empty inputs into one map document. An
// absent or empty input silently omits its layer; an unknown layer mode is
// the renderer's only error besides template failure.
func Build(cfg Config, observations []airquality.Observation, aod []aerosol.Sample, predictions []predict.Prediction) (*Document, error) {
	if cfg.Mode == "" {
		cfg.Mode = LayerBoth
	}
	switch cfg.Mode {
	case LayerBoth, LayerCurrent, LayerPredicted:
	default:
		return nil, fmt.Errorf("unknown layer mode %q", cfg.Mode)
	}
	if cfg.Zoom == 0 {
		cfg.Zoom = 5
	}
	if cfg.Center == (geo.Point{}) {
		cfg.Center = geo.Point{Lat: 39.5, Lon: -98.35}
	}

	data := documentData{
		Title:     cfg.Title,
		CenterLat: cfg.Center.Lat,
		CenterLon: cfg.Center.Lon,
		Zoom:      cfg.Zoom,
	}

	if len(observations) > 0 && (cfg.Mode == LayerBoth || cfg.Mode == LayerCurrent) {
		layer, err := observationLayer(observations)
		if err != nil {
			return nil, err
		}
		data.Layers = append(data.Layers, layer)
	}

	if len(aod) > 0 {
		layer, err := heatLayer(aod)
		if err != nil {
			return nil, err
		}
		data.Layers = append(data.Layers, layer)
	}

	if len(predictions) > 0 && (cfg.Mode == LayerBoth || cfg.Mode == LayerPredicted) {
		layer, err := predictionLayer(predictions)
		if err != nil {
			return nil, err
		}
		data.Layers = append(data.Layers, layer)
	}

	var sb strings.Builder
	if err := mapTemplate.Execute(&sb, data); err != nil {
		return nil, fmt.Errorf("render map document: %w", err)
	}

	layers := make([]string, 0, len(data.Layers))
	for _, l := range data.Layers {
		layers = append(layers, l.Name)
	}
	return &Document{HTML: sb.String(), Layers: layers}, nil
}

func observationLayer(observations []airquality.Observation) (layerData, error) {
	points := make([]markerPoint, 0, len(observations))
	for _, o := range observations {
		label := o.ReportingArea
		if label == "" {
			label = fmt.Sprintf("(%.2f, %.2f)", o.Lat, o.Lon)
		}
		points = append(points, markerPoint{
			Lat:   o.Lat,
			Lon:   o.Lon,
			Color: ColorForAQI(o.AQI),
			Popup: fmt.Sprintf("<b>%s</b><br>AQI: %.0f<br>Parameter: %s", label, o.AQI, o.Parameter),
		})
	}
	return markerLayer(LayerNameCurrent, points, 0.85)
}

func predictionLayer(predictions []predict.Prediction) (layerData, error) {
	points := make([]markerPoint, 0, len(predictions))
	for _, p := range predictions {
		points = append(points, markerPoint{
			Lat:   p.Lat,
			Lon:   p.Lon,
			Color: ColorForAQI(p.AQI),
			Popup: fmt.Sprintf("<b>Predicted AQI:</b> %.1f", p.AQI),
		})
	}
	return markerLayer(LayerNamePredicted, points, 0.75)
}

func markerLayer(name string, points []markerPoint, fillOpacity float64) (layerData, error) {
	encoded, err := json.Marshal(points)
	if err != nil {
		return layerData{}, fmt.Errorf("encode %s layer: %w", name, err)
	}
	return layerData{
		Name:        name,
		Points:      template.JS(encoded),
		FillOpacity: fillOpacity,
	}, nil
}

func heatLayer(aod []aerosol.Sample) (layerData, error) {
	points := make([][3]float64, 0, len(aod))
	for _, s := range aod {
		points = append(points, [3]float64{s.Lat, s.Lon, s.AOD})
	}
	encoded, err := json.Marshal(points)
	if err != nil {
		return layerData{}, fmt.Errorf("encode %s layer: %w", LayerNameAerosol, err)
	}
	return layerData{
		Name:   LayerNameAerosol,
		Heat:   true,
		Points: template.JS(encoded),
	}, nil
}
