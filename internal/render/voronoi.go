package render

import (
	"log"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"github.com/probmap/layers-backend-go/internal/geojson"
	"github.com/probmap/layers-backend-go/internal/models"
	"github.com/probmap/layers-backend-go/internal/spatial"
	"github.com/probmap/layers-backend-go/internal/voronoi"
)

// VoronoiHeatmap paints one Voronoi cell polygon per in-range sample,
// tessellated over the bounding box of the rendered samples. A sample
// whose cell cannot be resolved is skipped and logged; the rest of the
// layer still renders.
type VoronoiHeatmap struct{}

// Render implements Strategy
func (VoronoiHeatmap) Render(layer *models.Layer) (*Overlay, error) {
	overlay := &Overlay{
		LayerID:    layer.ID,
		Mode:       models.RenderModeVoronoi,
		Bounds:     layerBounds(layer),
		Collection: geojson.NewFeatureCollection(),
	}

	samples := layer.RenderedSamples()
	if len(samples) == 0 {
		return overlay, nil
	}

	sites := make([]r2.Point, len(samples))
	for i, s := range samples {
		sites[i] = r2.Point{X: s.Lon(), Y: s.Lat()}
	}

	cells := voronoi.Tessellate(sites, siteBounds(sites, layer.Radius))

	for i, s := range samples {
		cell, ok := cells[i]
		if !ok {
			log.Printf("[VoronoiHeatmap] layer %d: no cell for sample at (%.6f, %.6f), skipping",
				layer.ID, s.Lat(), s.Lon())
			continue
		}
		ring := make([][2]float64, len(cell))
		for j, v := range cell {
			ring[j] = [2]float64{v.Y, v.X}
		}
		overlay.Collection.Features = append(overlay.Collection.Features, geojson.Feature{
			Type:       "Feature",
			Geometry:   geojson.NewPolygon(ring),
			Properties: featureProperties(layer, s.Probability),
		})
	}
	return overlay, nil
}

// Update implements VectorStrategy with a color-only refresh
func (VoronoiHeatmap) Update(layer *models.Layer, overlay *Overlay) error {
	return refreshProperties(layer, overlay)
}

// siteBounds returns the bounding box of the sites, padded to a non-zero
// extent so degenerate inputs (single site, one row or column) still clip
// to a usable cell.
func siteBounds(sites []r2.Point, radiusMeters float64) r2.Rect {
	minX, maxX := sites[0].X, sites[0].X
	minY, maxY := sites[0].Y, sites[0].Y
	for _, p := range sites[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	pad := radiusMeters / spatial.MetersPerDegreeLat
	if pad <= 0 {
		pad = 1e-6
	}
	if maxX-minX <= 0 {
		minX, maxX = minX-pad, maxX+pad
	}
	if maxY-minY <= 0 {
		minY, maxY = minY-pad, maxY+pad
	}

	return r2.Rect{X: r1.Interval{Lo: minX, Hi: maxX}, Y: r1.Interval{Lo: minY, Hi: maxY}}
}
