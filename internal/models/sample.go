package models

import "math"

// Sample represents a single probability observation inside a layer.
// Position is [lat, lon] to match the exchanged marker shape.
// Samples are immutable after import.
type Sample struct {
	Position    [2]float64 `json:"position"`
	Probability float64    `json:"probability"`
	Radius      float64    `json:"radius"`
}

// Lat returns the latitude of the sample
func (s Sample) Lat() float64 { return s.Position[0] }

// Lon returns the longitude of the sample
func (s Sample) Lon() float64 { return s.Position[1] }

// Valid reports whether the sample carries finite, in-range coordinates
// and a finite probability. Malformed samples are dropped at import.
func (s Sample) Valid() bool {
	lat, lon := s.Position[0], s.Position[1]
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return false
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < -180 || lon > 180 {
		return false
	}
	if math.IsNaN(s.Probability) || math.IsInf(s.Probability, 0) {
		return false
	}
	return true
}
