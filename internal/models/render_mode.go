package models

import (
	"encoding/json"
	"fmt"
)

// RenderMode selects the visual strategy used to paint a layer's samples
type RenderMode int

const (
	// RenderModeRect paints one axis-aligned rectangle per sample
	RenderModeRect RenderMode = iota
	// RenderModeCircle paints one metric-radius circle per sample
	RenderModeCircle
	// RenderModeVoronoi paints one Voronoi cell polygon per sample
	RenderModeVoronoi
	// RenderModeVectorRaster composes a scalable vector image over a regular grid
	RenderModeVectorRaster
	// RenderModeBitmapRaster paints a fixed-resolution bitmap over a regular grid
	RenderModeBitmapRaster
)

var renderModeNames = map[RenderMode]string{
	RenderModeRect:         "rect",
	RenderModeCircle:       "circle",
	RenderModeVoronoi:      "voronoi",
	RenderModeVectorRaster: "vector_raster",
	RenderModeBitmapRaster: "bitmap_raster",
}

// String returns the wire name of the render mode
func (m RenderMode) String() string {
	if name, ok := renderModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(m))
}

// IsRaster reports whether the mode requires a regular width x height sample grid
func (m RenderMode) IsRaster() bool {
	return m == RenderModeVectorRaster || m == RenderModeBitmapRaster
}

// ParseRenderMode parses a wire name into a RenderMode
func ParseRenderMode(name string) (RenderMode, error) {
	for mode, n := range renderModeNames {
		if n == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown render mode %q", name)
}

// MarshalJSON implements json.Marshaler
func (m RenderMode) MarshalJSON() ([]byte, error) {
	name, ok := renderModeNames[m]
	if !ok {
		return nil, fmt.Errorf("unknown render mode %d", int(m))
	}
	return json.Marshal(name)
}

// UnmarshalJSON implements json.Unmarshaler
func (m *RenderMode) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	mode, err := ParseRenderMode(name)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
