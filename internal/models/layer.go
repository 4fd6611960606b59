package models

import "math"

// ValueEpsilon absorbs slider rounding when comparing probabilities
// against a layer's value range.
const ValueEpsilon = 1e-9

// Layer is a named, orderable collection of samples with shared styling
// and render mode. The sample set is fixed at creation; ValueMinMax,
// LatMinMax and LonMinMax are derived once from the samples and never
// change afterwards.
type Layer struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Samples     []Sample   `json:"markers"`
	Hue         int        `json:"hue"`     // [0, 359]
	Opacity     int        `json:"opacity"` // [0, 100]
	RenderMode  RenderMode `json:"render_mode"`
	Radius      float64    `json:"radius"` // meters
	ValueRange  [2]float64 `json:"value_range"`
	ValueMinMax [2]float64 `json:"markers_val_min_max"`
	LatMinMax   [2]float64 `json:"markers_lat_min_max"`
	LonMinMax   [2]float64 `json:"markers_lng_min_max"`
	Visible     bool       `json:"visible"`

	// Width and Height describe the regular grid shape of raster layers.
	// Zero for layers imported without grid metadata.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// InRange reports whether a probability falls inside the layer's value
// range, widened by ValueEpsilon on both ends. Out-of-range samples stay
// in the layer but are excluded from rendering.
func (l *Layer) InRange(p float64) bool {
	return p >= l.ValueRange[0]-ValueEpsilon && p <= l.ValueRange[1]+ValueEpsilon
}

// RenderedSamples returns the samples that fall inside the value range,
// preserving import order.
func (l *Layer) RenderedSamples() []Sample {
	out := make([]Sample, 0, len(l.Samples))
	for _, s := range l.Samples {
		if l.InRange(s.Probability) {
			out = append(out, s)
		}
	}
	return out
}

// MaxAbsProbability returns the layer's maximum-magnitude probability,
// the reference for saturation mapping.
func (l *Layer) MaxAbsProbability() float64 {
	return math.Max(math.Abs(l.ValueMinMax[0]), math.Abs(l.ValueMinMax[1]))
}

// IsGrid reports whether the sample set forms the regular width x height
// grid required by the raster render modes.
func (l *Layer) IsGrid() bool {
	return l.Width > 0 && l.Height > 0 && l.Width*l.Height == len(l.Samples)
}
