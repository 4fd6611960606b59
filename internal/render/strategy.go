// Package render turns a layer's samples into map overlay primitives.
// Five interchangeable strategies trade fidelity against performance:
// three vector heatmaps (rect, circle, voronoi) and two rasterizers over
// regular sample grids (SVG and PNG).
package render

import (
	"fmt"

	"github.com/probmap/layers-backend-go/internal/colormap"
	"github.com/probmap/layers-backend-go/internal/models"
)

// Strategy renders a layer into a fresh overlay. Only samples whose
// probability falls inside the layer's value range (widened by epsilon)
// are rendered; out-of-range samples are omitted entirely.
type Strategy interface {
	Render(layer *models.Layer) (*Overlay, error)
}

// VectorStrategy additionally supports an in-place, color-only refresh of
// an existing overlay. Raster strategies never implement it; they repaint
// fully on any value-affecting change.
type VectorStrategy interface {
	Strategy
	Update(layer *models.Layer, overlay *Overlay) error
}

// ForMode returns the strategy for a render mode. The switch covers every
// mode; an unknown value is an error, never a silent fallthrough.
func ForMode(mode models.RenderMode) (Strategy, error) {
	switch mode {
	case models.RenderModeRect:
		return RectHeatmap{}, nil
	case models.RenderModeCircle:
		return CircleHeatmap{}, nil
	case models.RenderModeVoronoi:
		return VoronoiHeatmap{}, nil
	case models.RenderModeVectorRaster:
		return VectorRaster{}, nil
	case models.RenderModeBitmapRaster:
		return BitmapRaster{}, nil
	}
	return nil, fmt.Errorf("unhandled render mode %v", mode)
}

// fillColor maps one probability to its export hex color for the layer
func fillColor(layer *models.Layer, p float64) string {
	sat := colormap.SaturationFor(p, layer.MaxAbsProbability())
	lightness := colormap.LightnessPositive
	if p < 0 {
		lightness = colormap.LightnessNegative
	}
	return colormap.HSLToHex(layer.Hue, sat, lightness)
}

// featureProperties builds the exported property set for one sample
func featureProperties(layer *models.Layer, p float64) map[string]interface{} {
	return map[string]interface{}{
		"value":        p,
		"layer":        layer.Name,
		"fill":         fillColor(layer, p),
		"fill-opacity": float64(layer.Opacity) / 100,
	}
}

// refreshProperties recolors an existing feature collection in place from
// the layer's current hue and opacity. Geometry and values are untouched.
func refreshProperties(layer *models.Layer, overlay *Overlay) error {
	if overlay.Collection == nil {
		return fmt.Errorf("overlay for layer %d has no vector payload", layer.ID)
	}
	for i := range overlay.Collection.Features {
		props := overlay.Collection.Features[i].Properties
		value, ok := props["value"].(float64)
		if !ok {
			return fmt.Errorf("overlay feature %d is missing its value", i)
		}
		props["fill"] = fillColor(layer, value)
		props["fill-opacity"] = float64(layer.Opacity) / 100
	}
	return nil
}
