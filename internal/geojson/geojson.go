// Package geojson declares the RFC 7946 feature structures produced by
// the vector render strategies and the entity exporter. Coordinates are
// [lon, lat] per the standard.
package geojson

// FeatureCollection is a collection of geographic features
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single geographic feature with geometry and properties
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry is the geometry of a feature
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// NewFeatureCollection returns an empty feature collection
func NewFeatureCollection() *FeatureCollection {
	return &FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
}

// NewPoint builds a Point geometry from lat/lon
func NewPoint(lat, lon float64) Geometry {
	return Geometry{Type: "Point", Coordinates: []float64{lon, lat}}
}

// NewLineString builds a LineString geometry from [lat, lon] pairs
func NewLineString(latlngs [][2]float64) Geometry {
	coords := make([][]float64, len(latlngs))
	for i, ll := range latlngs {
		coords[i] = []float64{ll[1], ll[0]}
	}
	return Geometry{Type: "LineString", Coordinates: coords}
}

// NewPolygon builds a Polygon geometry from an outer ring and optional
// holes, all as [lat, lon] pairs. Rings are closed if needed.
func NewPolygon(ring [][2]float64, holes ...[][2]float64) Geometry {
	rings := make([][][]float64, 0, 1+len(holes))
	rings = append(rings, closeRing(ring))
	for _, h := range holes {
		rings = append(rings, closeRing(h))
	}
	return Geometry{Type: "Polygon", Coordinates: rings}
}

func closeRing(ring [][2]float64) [][]float64 {
	coords := make([][]float64, 0, len(ring)+1)
	for _, ll := range ring {
		coords = append(coords, []float64{ll[1], ll[0]})
	}
	if len(coords) > 0 {
		first := coords[0]
		last := coords[len(coords)-1]
		if first[0] != last[0] || first[1] != last[1] {
			coords = append(coords, []float64{first[0], first[1]})
		}
	}
	return coords
}
