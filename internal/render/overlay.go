package render

import (
	"github.com/probmap/layers-backend-go/internal/geojson"
	"github.com/probmap/layers-backend-go/internal/models"
)

// Bounds is a geographic bounding box as [[minLat, minLon], [maxLat, maxLon]]
type Bounds [2][2]float64

// Overlay is the map-attachable product of a render pass. Vector modes
// fill Collection; the raster modes carry an image payload positioned by
// Bounds. An overlay belongs to exactly one layer and is replaced, never
// patched, on any geometry-affecting change.
type Overlay struct {
	LayerID int64
	Mode    models.RenderMode
	Bounds  Bounds

	// Collection holds the vector primitives (rect, circle, voronoi modes)
	Collection *geojson.FeatureCollection

	// SVG holds the scalable raster payload (vector_raster mode)
	SVG []byte

	// PNG holds the bitmap raster payload (bitmap_raster mode)
	PNG []byte
}
