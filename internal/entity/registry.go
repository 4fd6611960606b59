// Package entity tracks the interactively drawn or imported point, line
// and polygon entities, their semantic classification, and the
// click-driven type-assignment mode.
package entity

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/probmap/layers-backend-go/internal/models"
)

// Registry is the dynamic entity layer: every marker, polyline and
// polygon lives here under a globally unique id, regardless of kind.
type Registry struct {
	entities map[string]*models.DynamicEntity
	order    []string

	types  *TypeRegistry
	assign *Assignment
}

// NewRegistry builds an empty entity layer wired to a location type
// registry. Deleting a location type cascades into this registry.
func NewRegistry(types *TypeRegistry) *Registry {
	r := &Registry{
		entities: make(map[string]*models.DynamicEntity),
		types:    types,
		assign:   newAssignment(),
	}
	types.onDelete = r.removeByClassification
	types.onRename = r.relabelClassification
	return r
}

// Types returns the location type registry backing this layer
func (r *Registry) Types() *TypeRegistry { return r.types }

// Add registers a drawn or imported entity. A missing id is generated;
// a missing classification defaults to UNKNOWN. Returns the stored
// entity.
func (r *Registry) Add(e models.DynamicEntity) (*models.DynamicEntity, error) {
	if e.Geometry == nil {
		return nil, fmt.Errorf("entity has no geometry")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if _, exists := r.entities[e.ID]; exists {
		return nil, fmt.Errorf("entity id %s already exists", e.ID)
	}
	if e.Classification == "" {
		e.Classification = models.LocationTypeUnknown
	}
	if e.Uncertainty < 0 {
		return nil, fmt.Errorf("entity %s has negative uncertainty", e.ID)
	}

	stored := e
	r.entities[stored.ID] = &stored
	r.order = append(r.order, stored.ID)

	// Entities created while type assignment is armed become
	// click-eligible immediately.
	r.assign.register(&stored)
	return &stored, nil
}

// Get returns an entity by id
func (r *Registry) Get(id string) (*models.DynamicEntity, error) {
	e, ok := r.entities[id]
	if !ok {
		return nil, models.ErrEntityNotFound
	}
	return e, nil
}

// List returns all entities in creation order
func (r *Registry) List() []*models.DynamicEntity {
	out := make([]*models.DynamicEntity, 0, len(r.entities))
	for _, id := range r.order {
		out = append(out, r.entities[id])
	}
	return out
}

// Remove deletes an entity and releases its click handler so nothing
// dangles after deletion.
func (r *Registry) Remove(id string) error {
	if _, ok := r.entities[id]; !ok {
		return models.ErrEntityNotFound
	}
	delete(r.entities, id)
	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.assign.unregister(id)
	return nil
}

// Clear removes every entity
func (r *Registry) Clear() {
	r.entities = make(map[string]*models.DynamicEntity)
	r.order = nil
	r.assign.Disarm()
}

// CommitColor sets an entity's color
func (r *Registry) CommitColor(id, color string) error {
	e, err := r.Get(id)
	if err != nil {
		return err
	}
	e.Color = color
	return nil
}

// CommitClassification sets an entity's classification. The name must
// exist in the location type registry.
func (r *Registry) CommitClassification(id, classification string) error {
	e, err := r.Get(id)
	if err != nil {
		return err
	}
	if _, err := r.types.Get(classification); err != nil {
		return err
	}
	e.Classification = classification
	return nil
}

// CommitUncertainty sets an entity's uncertainty (standard deviation)
func (r *Registry) CommitUncertainty(id string, uncertainty float64) error {
	if uncertainty < 0 {
		return fmt.Errorf("uncertainty must be >= 0, got %g", uncertainty)
	}
	e, err := r.Get(id)
	if err != nil {
		return err
	}
	e.Uncertainty = uncertainty
	return nil
}

// removeByClassification cascades a location type deletion: every entity
// carrying the classification is removed.
func (r *Registry) removeByClassification(classification string) {
	removed := 0
	for _, id := range append([]string(nil), r.order...) {
		if r.entities[id].Classification == classification {
			if err := r.Remove(id); err == nil {
				removed++
			}
		}
	}
	if removed > 0 {
		log.Printf("[EntityLayer] removed %d entities after deleting location type %q", removed, classification)
	}
}

// relabelClassification re-labels matching entities in place, geometry
// unchanged.
func (r *Registry) relabelClassification(oldName, newName string) {
	for _, e := range r.entities {
		if e.Classification == oldName {
			e.Classification = newName
		}
	}
}
