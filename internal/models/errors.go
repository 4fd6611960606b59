package models

import "errors"

// Sentinel errors shared across the engine packages.
var (
	// ErrLayerNotFound is returned when a layer id does not exist
	ErrLayerNotFound = errors.New("layer not found")

	// ErrInvalidLayerShape is returned when a raster render mode is
	// requested for a layer whose samples do not form a regular
	// width x height grid
	ErrInvalidLayerShape = errors.New("invalid layer shape: samples do not form a width x height grid")

	// ErrInvalidValueRange is returned when a requested value range
	// falls outside the layer's data-derived bounds
	ErrInvalidValueRange = errors.New("value range outside layer bounds")

	// ErrEntityNotFound is returned when an entity id does not exist
	ErrEntityNotFound = errors.New("entity not found")

	// ErrLocationTypeNotFound is returned when a location type name does not exist
	ErrLocationTypeNotFound = errors.New("location type not found")

	// ErrReservedLocationType is returned when deleting a reserved location type
	ErrReservedLocationType = errors.New("location type is reserved")

	// ErrDuplicateLocationType is returned when a create or rename would
	// collide with an existing location type name
	ErrDuplicateLocationType = errors.New("location type already exists")
)
