package entity

import (
	"github.com/probmap/layers-backend-go/internal/models"
)

// TypeRegistry holds the location type table. Names are unique; the
// UNKNOWN, ORIGIN and VERTIPORT rows are reserved and cannot be deleted.
type TypeRegistry struct {
	types map[string]*models.LocationType
	order []string

	// set by the entity registry so deletes cascade and renames
	// re-label in place
	onDelete func(name string)
	onRename func(oldName, newName string)
}

// NewTypeRegistry returns a registry seeded with the reserved rows
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{types: make(map[string]*models.LocationType)}
	for _, lt := range models.DefaultLocationTypes() {
		stored := lt
		r.types[lt.Name] = &stored
		r.order = append(r.order, lt.Name)
	}
	return r
}

// Get returns a location type by name
func (r *TypeRegistry) Get(name string) (*models.LocationType, error) {
	lt, ok := r.types[name]
	if !ok {
		return nil, models.ErrLocationTypeNotFound
	}
	return lt, nil
}

// List returns all location types in creation order
func (r *TypeRegistry) List() []*models.LocationType {
	out := make([]*models.LocationType, 0, len(r.types))
	for _, name := range r.order {
		out = append(out, r.types[name])
	}
	return out
}

// Add registers a new location type. Duplicate names are rejected.
func (r *TypeRegistry) Add(lt models.LocationType) error {
	if _, exists := r.types[lt.Name]; exists {
		return models.ErrDuplicateLocationType
	}
	stored := lt
	r.types[lt.Name] = &stored
	r.order = append(r.order, lt.Name)
	return nil
}

// Update replaces the filter, color and default uncertainty of an
// existing location type. The name is immutable here; use Rename.
func (r *TypeRegistry) Update(name string, filter, color string, uncertainty float64) error {
	lt, err := r.Get(name)
	if err != nil {
		return err
	}
	lt.Filter = filter
	lt.Color = color
	lt.Uncertainty = uncertainty
	return nil
}

// Delete removes a location type. Reserved rows are rejected. Deleting
// cascades: every entity carrying the classification is removed.
func (r *TypeRegistry) Delete(name string) error {
	if models.ReservedLocationType(name) {
		return models.ErrReservedLocationType
	}
	if _, ok := r.types[name]; !ok {
		return models.ErrLocationTypeNotFound
	}
	delete(r.types, name)
	for i, other := range r.order {
		if other == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.onDelete != nil {
		r.onDelete(name)
	}
	return nil
}

// Rename changes a location type's name and re-labels matching entities
// in place, geometry unchanged. A duplicate target name is rejected with
// no mutation; the result reports whether the rename happened.
func (r *TypeRegistry) Rename(oldName, newName string) bool {
	if oldName == newName {
		return false
	}
	lt, ok := r.types[oldName]
	if !ok {
		return false
	}
	if _, exists := r.types[newName]; exists {
		return false
	}
	if models.ReservedLocationType(oldName) {
		return false
	}

	delete(r.types, oldName)
	lt.Name = newName
	r.types[newName] = lt
	for i, other := range r.order {
		if other == oldName {
			r.order[i] = newName
			break
		}
	}
	if r.onRename != nil {
		r.onRename(oldName, newName)
	}
	return true
}
