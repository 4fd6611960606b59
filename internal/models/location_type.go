package models

// Reserved location type names. These rows always exist and can never be
// deleted.
const (
	LocationTypeUnknown   = "UNKNOWN"
	LocationTypeOrigin    = "ORIGIN"
	LocationTypeVertiport = "VERTIPORT"
)

// LocationType is a named classification applied to dynamic entities.
// Filter holds the OSM filter expression used when importing matching
// features from external sources.
type LocationType struct {
	Name        string  `json:"location_type"`
	Filter      string  `json:"filter"`
	Color       string  `json:"color"`
	Uncertainty float64 `json:"uncertainty"` // default standard deviation, meters
}

// Reserved reports whether the name is one of the built-in,
// non-deletable location types.
func ReservedLocationType(name string) bool {
	switch name {
	case LocationTypeUnknown, LocationTypeOrigin, LocationTypeVertiport:
		return true
	}
	return false
}

// DefaultLocationTypes returns the reserved rows seeded into every
// project.
func DefaultLocationTypes() []LocationType {
	return []LocationType{
		{Name: LocationTypeUnknown, Filter: "", Color: "#808080", Uncertainty: 50},
		{Name: LocationTypeOrigin, Filter: "", Color: "#ff0000", Uncertainty: 10},
		{Name: LocationTypeVertiport, Filter: "", Color: "#0000ff", Uncertainty: 10},
	}
}
