package models

import (
	"encoding/json"
	"fmt"
)

// Origin records whether an entity was drawn locally or imported from an
// external source.
type Origin int

const (
	// OriginInternal marks entities drawn inside the application
	OriginInternal Origin = iota
	// OriginExternal marks entities imported from an external source
	OriginExternal
)

var originNames = map[Origin]string{
	OriginInternal: "internal",
	OriginExternal: "external",
}

// String returns the wire name of the origin
func (o Origin) String() string {
	if name, ok := originNames[o]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(o))
}

// ParseOrigin parses a wire name into an Origin
func ParseOrigin(name string) (Origin, error) {
	for o, n := range originNames {
		if n == name {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown origin %q", name)
}

// MarshalJSON implements json.Marshaler
func (o Origin) MarshalJSON() ([]byte, error) {
	name, ok := originNames[o]
	if !ok {
		return nil, fmt.Errorf("unknown origin %d", int(o))
	}
	return json.Marshal(name)
}

// UnmarshalJSON implements json.Unmarshaler
func (o *Origin) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseOrigin(name)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Geometry is the closed set of shapes a dynamic entity can carry.
// Switch sites over Geometry list every variant explicitly and treat
// anything else as an error.
type Geometry interface {
	isGeometry()
	// ShapeName returns the wire name of the geometry kind
	ShapeName() string
}

// PointGeometry is a single marker position
type PointGeometry struct {
	LatLng [2]float64 // [lat, lon]
}

// LineGeometry is an ordered polyline
type LineGeometry struct {
	LatLngs [][2]float64
}

// PolygonGeometry is a closed ring with optional holes
type PolygonGeometry struct {
	Ring  [][2]float64
	Holes [][][2]float64
}

func (PointGeometry) isGeometry()   {}
func (LineGeometry) isGeometry()    {}
func (PolygonGeometry) isGeometry() {}

// ShapeName returns "marker"
func (PointGeometry) ShapeName() string { return "marker" }

// ShapeName returns "polyline"
func (LineGeometry) ShapeName() string { return "polyline" }

// ShapeName returns "polygon"
func (PolygonGeometry) ShapeName() string { return "polygon" }

// DynamicEntity is a user-drawn or externally sourced point / line /
// polygon overlay, independent of probability layers. IDs are globally
// unique across all three geometry kinds.
type DynamicEntity struct {
	ID             string
	Name           string
	Geometry       Geometry
	Classification string // location type name
	Color          string
	Uncertainty    float64 // standard deviation, meters, >= 0
	Origin         Origin
}

// entityJSON is the exchanged wire shape of a dynamic entity
type entityJSON struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	LatLng       *[2]float64    `json:"latlng,omitempty"`
	LatLngs      [][2]float64   `json:"latlngs,omitempty"`
	Holes        [][][2]float64 `json:"holes,omitempty"`
	Shape        string         `json:"shape"`
	LocationType string         `json:"location_type"`
	Color        string         `json:"color"`
	StdDev       float64        `json:"std_dev"`
	Origin       Origin         `json:"origin"`
}

// MarshalJSON implements json.Marshaler using the exchanged entity shape
func (e DynamicEntity) MarshalJSON() ([]byte, error) {
	out := entityJSON{
		ID:           e.ID,
		Name:         e.Name,
		LocationType: e.Classification,
		Color:        e.Color,
		StdDev:       e.Uncertainty,
		Origin:       e.Origin,
	}
	switch g := e.Geometry.(type) {
	case PointGeometry:
		latlng := g.LatLng
		out.LatLng = &latlng
		out.Shape = g.ShapeName()
	case LineGeometry:
		out.LatLngs = g.LatLngs
		out.Shape = g.ShapeName()
	case PolygonGeometry:
		out.LatLngs = g.Ring
		out.Holes = g.Holes
		out.Shape = g.ShapeName()
	default:
		return nil, fmt.Errorf("entity %s has unsupported geometry %T", e.ID, e.Geometry)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler using the exchanged entity shape
func (e *DynamicEntity) UnmarshalJSON(data []byte) error {
	var in entityJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	e.ID = in.ID
	e.Name = in.Name
	e.Classification = in.LocationType
	e.Color = in.Color
	e.Uncertainty = in.StdDev
	e.Origin = in.Origin

	switch in.Shape {
	case "marker":
		if in.LatLng == nil {
			return fmt.Errorf("marker entity %s is missing latlng", in.ID)
		}
		e.Geometry = PointGeometry{LatLng: *in.LatLng}
	case "polyline":
		e.Geometry = LineGeometry{LatLngs: in.LatLngs}
	case "polygon":
		e.Geometry = PolygonGeometry{Ring: in.LatLngs, Holes: in.Holes}
	default:
		return fmt.Errorf("entity %s has unknown shape %q", in.ID, in.Shape)
	}
	return nil
}
