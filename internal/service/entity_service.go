package service

import (
	"fmt"
	"sync"

	"github.com/probmap/layers-backend-go/internal/entity"
	"github.com/probmap/layers-backend-go/internal/geojson"
	"github.com/probmap/layers-backend-go/internal/models"
	"github.com/probmap/layers-backend-go/internal/repository"
	"github.com/probmap/layers-backend-go/internal/spatial"
)

// EntityService handles business logic for dynamic entities and their
// location types. The in-memory registry is authoritative; the
// repositories mirror it so a restart restores the same state.
type EntityService struct {
	mu       sync.Mutex
	registry *entity.Registry
	entities *repository.EntityRepository
	types    *repository.LocationTypeRepository
}

// NewEntityService creates a new entity service
func NewEntityService(registry *entity.Registry, entities *repository.EntityRepository, types *repository.LocationTypeRepository) *EntityService {
	return &EntityService{registry: registry, entities: entities, types: types}
}

// Load seeds the reserved location types and restores persisted types
// and entities into the registry.
func (s *EntityService) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.types.Seed(); err != nil {
		return err
	}

	stored, err := s.types.LoadAll()
	if err != nil {
		return err
	}
	reg := s.registry.Types()
	for _, lt := range stored {
		if _, err := reg.Get(lt.Name); err == nil {
			// Reserved rows exist already; carry over stored edits.
			if err := reg.Update(lt.Name, lt.Filter, lt.Color, lt.Uncertainty); err != nil {
				return err
			}
			continue
		}
		if err := reg.Add(lt); err != nil {
			return fmt.Errorf("failed to restore location type %s: %w", lt.Name, err)
		}
	}

	entities, err := s.entities.LoadAll()
	if err != nil {
		return err
	}
	for _, e := range entities {
		if _, err := s.registry.Add(*e); err != nil {
			return fmt.Errorf("failed to restore entity %s: %w", e.ID, err)
		}
	}
	return nil
}

// Add registers a drawn or imported entity and persists it
func (s *EntityService) Add(e models.DynamicEntity) (*models.DynamicEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.registry.Add(e)
	if err != nil {
		return nil, err
	}
	if err := s.entities.Save(stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Get returns an entity by id
func (s *EntityService) Get(id string) (*models.DynamicEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Get(id)
}

// List returns all entities in creation order
func (s *EntityService) List() []*models.DynamicEntity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.List()
}

// Remove deletes an entity
func (s *EntityService) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Remove(id); err != nil {
		return err
	}
	return s.entities.Delete(id)
}

// Clear removes every entity (project clear)
func (s *EntityService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.registry.Clear()
	return s.entities.DeleteAll()
}

// CommitColor sets an entity's color
func (s *EntityService) CommitColor(id, color string) error {
	return s.commit(id, func() error { return s.registry.CommitColor(id, color) })
}

// CommitClassification sets an entity's classification
func (s *EntityService) CommitClassification(id, classification string) error {
	return s.commit(id, func() error { return s.registry.CommitClassification(id, classification) })
}

// CommitUncertainty sets an entity's uncertainty (standard deviation)
func (s *EntityService) CommitUncertainty(id string, uncertainty float64) error {
	return s.commit(id, func() error { return s.registry.CommitUncertainty(id, uncertainty) })
}

// ArmTypeAssignment arms the click-driven type assignment mode
func (s *EntityService) ArmTypeAssignment(t entity.TypeAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.ArmTypeAssignment(t)
}

// DisarmTypeAssignment returns the assignment mode to idle
func (s *EntityService) DisarmTypeAssignment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.DisarmTypeAssignment()
}

// Armed returns the active assignment tuple, or nil when idle
func (s *EntityService) Armed() *entity.TypeAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Assignment().Armed()
}

// Click routes a click on an entity. A commit while armed is persisted;
// the mode stays armed either way.
func (s *EntityService) Click(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	committed, err := s.registry.Click(id)
	if err != nil || !committed {
		return committed, err
	}
	e, err := s.registry.Get(id)
	if err != nil {
		return true, err
	}
	return true, s.entities.Save(e)
}

// ListTypes returns all location types in creation order
func (s *EntityService) ListTypes() []*models.LocationType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Types().List()
}

// AddType registers a new location type
func (s *EntityService) AddType(lt models.LocationType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Types().Add(lt); err != nil {
		return err
	}
	return s.types.Save(&lt)
}

// UpdateType replaces the filter, color and default uncertainty of a
// location type.
func (s *EntityService) UpdateType(name, filter, color string, uncertainty float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Types().Update(name, filter, color, uncertainty); err != nil {
		return err
	}
	lt, err := s.registry.Types().Get(name)
	if err != nil {
		return err
	}
	return s.types.Save(lt)
}

// DeleteType removes a location type. The delete cascades: every entity
// carrying the classification goes with it, in memory and on disk.
func (s *EntityService) DeleteType(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Types().Delete(name); err != nil {
		return err
	}
	return s.types.Delete(name)
}

// RenameType changes a location type's name, re-labeling its entities
// in place. Reports whether the rename happened; a duplicate or
// reserved name leaves everything untouched.
func (s *EntityService) RenameType(oldName, newName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registry.Types().Rename(oldName, newName) {
		return false, nil
	}
	return true, s.types.Rename(oldName, newName)
}

// ExportGeoJSON renders every entity into one RFC 7946 feature
// collection, markers as points, polylines as line strings and polygons
// as closed rings with their holes.
func (s *EntityService) ExportGeoJSON() (*geojson.FeatureCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fc := geojson.NewFeatureCollection()
	for _, e := range s.registry.List() {
		var geom geojson.Geometry
		switch g := e.Geometry.(type) {
		case models.PointGeometry:
			geom = geojson.NewPoint(g.LatLng[0], g.LatLng[1])
		case models.LineGeometry:
			geom = geojson.NewLineString(g.LatLngs)
		case models.PolygonGeometry:
			geom = geojson.NewPolygon(g.Ring, g.Holes...)
		default:
			return nil, fmt.Errorf("entity %s has unsupported geometry %T", e.ID, e.Geometry)
		}
		fc.Features = append(fc.Features, geojson.Feature{
			Type:     "Feature",
			Geometry: geom,
			Properties: map[string]interface{}{
				"id":            e.ID,
				"name":          e.Name,
				"location_type": e.Classification,
				"color":         e.Color,
				"std_dev":       e.Uncertainty,
				"origin":        e.Origin.String(),
			},
		})
	}
	return fc, nil
}

// EntityMeasurements carries the derived geometry metrics of one entity
type EntityMeasurements struct {
	Shape            string  `json:"shape"`
	LengthMeters     float64 `json:"length_m,omitempty"`
	PerimeterMeters  float64 `json:"perimeter_m,omitempty"`
	AreaSquareMeters float64 `json:"area_m2,omitempty"`
}

// Measure computes length, perimeter and area for an entity's geometry.
// Markers measure zero everywhere.
func (s *EntityService) Measure(id string) (*EntityMeasurements, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}

	m := &EntityMeasurements{Shape: e.Geometry.ShapeName()}
	switch g := e.Geometry.(type) {
	case models.PointGeometry:
	case models.LineGeometry:
		m.LengthMeters = spatial.PathLength(toPoints(g.LatLngs))
	case models.PolygonGeometry:
		ring := toPoints(g.Ring)
		if len(ring) > 0 {
			closed := append(ring, ring[0])
			m.PerimeterMeters = spatial.PathLength(closed)
		}
		m.AreaSquareMeters = spatial.PolygonArea(ring)
	default:
		return nil, fmt.Errorf("entity %s has unsupported geometry %T", e.ID, e.Geometry)
	}
	return m, nil
}

func toPoints(latlngs [][2]float64) []spatial.Point {
	points := make([]spatial.Point, len(latlngs))
	for i, ll := range latlngs {
		points[i] = spatial.Point{Lat: ll[0], Lon: ll[1]}
	}
	return points
}

func (s *EntityService) commit(id string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(); err != nil {
		return err
	}
	e, err := s.registry.Get(id)
	if err != nil {
		return err
	}
	return s.entities.Save(e)
}
