package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/probmap/layers-backend-go/internal/models"
)

// EntityRepository handles database operations for dynamic entities
type EntityRepository struct {
	db *sql.DB
}

// NewEntityRepository creates a new entity repository
func NewEntityRepository(db *sql.DB) *EntityRepository {
	return &EntityRepository{db: db}
}

// entityCoordinates is the stored geometry payload
type entityCoordinates struct {
	LatLng  *[2]float64    `json:"latlng,omitempty"`
	LatLngs [][2]float64   `json:"latlngs,omitempty"`
	Holes   [][][2]float64 `json:"holes,omitempty"`
}

// Save upserts an entity row
func (r *EntityRepository) Save(e *models.DynamicEntity) error {
	var coords entityCoordinates
	switch g := e.Geometry.(type) {
	case models.PointGeometry:
		latlng := g.LatLng
		coords.LatLng = &latlng
	case models.LineGeometry:
		coords.LatLngs = g.LatLngs
	case models.PolygonGeometry:
		coords.LatLngs = g.Ring
		coords.Holes = g.Holes
	default:
		return fmt.Errorf("entity %s has unsupported geometry %T", e.ID, e.Geometry)
	}

	payload, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("failed to marshal coordinates for entity %s: %w", e.ID, err)
	}

	query := `
		INSERT OR REPLACE INTO entities (
			id, name, shape, coordinates, location_type, color, std_dev, origin
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		e.ID, e.Name, e.Geometry.ShapeName(), string(payload),
		e.Classification, e.Color, e.Uncertainty, e.Origin.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save entity %s: %w", e.ID, err)
	}
	return nil
}

// Delete removes an entity row
func (r *EntityRepository) Delete(id string) error {
	if _, err := r.db.Exec("DELETE FROM entities WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete entity %s: %w", id, err)
	}
	return nil
}

// DeleteByLocationType removes every entity carrying a classification
func (r *EntityRepository) DeleteByLocationType(locationType string) error {
	if _, err := r.db.Exec("DELETE FROM entities WHERE location_type = ?", locationType); err != nil {
		return fmt.Errorf("failed to delete entities of type %s: %w", locationType, err)
	}
	return nil
}

// DeleteAll clears the entity table
func (r *EntityRepository) DeleteAll() error {
	if _, err := r.db.Exec("DELETE FROM entities"); err != nil {
		return fmt.Errorf("failed to clear entities: %w", err)
	}
	return nil
}

// LoadAll returns every stored entity in creation order
func (r *EntityRepository) LoadAll() ([]*models.DynamicEntity, error) {
	query := `
		SELECT id, name, shape, coordinates, location_type, color, std_dev, origin
		FROM entities
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	defer rows.Close()

	var entities []*models.DynamicEntity
	for rows.Next() {
		var e models.DynamicEntity
		var shape, payload, origin string
		if err := rows.Scan(&e.ID, &e.Name, &shape, &payload, &e.Classification,
			&e.Color, &e.Uncertainty, &origin); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}

		var coords entityCoordinates
		if err := json.Unmarshal([]byte(payload), &coords); err != nil {
			return nil, fmt.Errorf("failed to unmarshal coordinates of entity %s: %w", e.ID, err)
		}
		switch shape {
		case "marker":
			if coords.LatLng == nil {
				return nil, fmt.Errorf("marker entity %s is missing latlng", e.ID)
			}
			e.Geometry = models.PointGeometry{LatLng: *coords.LatLng}
		case "polyline":
			e.Geometry = models.LineGeometry{LatLngs: coords.LatLngs}
		case "polygon":
			e.Geometry = models.PolygonGeometry{Ring: coords.LatLngs, Holes: coords.Holes}
		default:
			return nil, fmt.Errorf("entity %s has unknown shape %q", e.ID, shape)
		}

		parsedOrigin, err := models.ParseOrigin(origin)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", e.ID, err)
		}
		e.Origin = parsedOrigin

		entities = append(entities, &e)
	}
	return entities, rows.Err()
}
