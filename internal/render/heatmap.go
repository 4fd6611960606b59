package render

import (
	"math"

	"github.com/probmap/layers-backend-go/internal/geojson"
	"github.com/probmap/layers-backend-go/internal/models"
	"github.com/probmap/layers-backend-go/internal/spatial"
)

// RectHeatmap paints one axis-aligned rectangle per in-range sample,
// centered on the sample. Half-extents are the layer radius converted to
// degrees: radius/111111 in latitude and radius/(111111*cos(refLat)) in
// longitude, where refLat is the latitude of the layer's first sample.
// Using one reference latitude for the whole layer is a deliberate global
// approximation.
type RectHeatmap struct{}

// Render implements Strategy
func (RectHeatmap) Render(layer *models.Layer) (*Overlay, error) {
	overlay := &Overlay{
		LayerID:    layer.ID,
		Mode:       models.RenderModeRect,
		Bounds:     layerBounds(layer),
		Collection: geojson.NewFeatureCollection(),
	}
	if len(layer.Samples) == 0 {
		return overlay, nil
	}

	refLat := layer.Samples[0].Lat()
	halfLat := layer.Radius / spatial.MetersPerDegreeLat
	halfLon := layer.Radius / (spatial.MetersPerDegreeLat * math.Cos(refLat*math.Pi/180))

	for _, s := range layer.RenderedSamples() {
		lat, lon := s.Lat(), s.Lon()
		ring := [][2]float64{
			{lat - halfLat, lon - halfLon},
			{lat - halfLat, lon + halfLon},
			{lat + halfLat, lon + halfLon},
			{lat + halfLat, lon - halfLon},
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
func (RectHeatmap) Update(layer *models.Layer, overlay *Overlay) error {
	return refreshProperties(layer, overlay)
}

// CircleHeatmap paints one circle per in-range sample with the layer
// radius in real-world meters, carried as a feature property instead of
// being converted to degrees. The asymmetry with RectHeatmap is
// intentional.
type CircleHeatmap struct{}

// Render implements Strategy
func (CircleHeatmap) Render(layer *models.Layer) (*Overlay, error) {
	overlay := &Overlay{
		LayerID:    layer.ID,
		Mode:       models.RenderModeCircle,
		Bounds:     layerBounds(layer),
		Collection: geojson.NewFeatureCollection(),
	}

	for _, s := range layer.RenderedSamples() {
		props := featureProperties(layer, s.Probability)
		props["radius"] = layer.Radius
		overlay.Collection.Features = append(overlay.Collection.Features, geojson.Feature{
			Type:       "Feature",
			Geometry:   geojson.NewPoint(s.Lat(), s.Lon()),
			Properties: props,
		})
	}
	return overlay, nil
}

// Update implements VectorStrategy with a color-only refresh
func (CircleHeatmap) Update(layer *models.Layer, overlay *Overlay) error {
	return refreshProperties(layer, overlay)
}

// layerBounds returns the layer's data-derived bounding box
func layerBounds(layer *models.Layer) Bounds {
	return Bounds{
		{layer.LatMinMax[0], layer.LonMinMax[0]},
		{layer.LatMinMax[1], layer.LonMinMax[1]},
	}
}
