package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/probmap/layers-backend-go/internal/database"
	"github.com/probmap/layers-backend-go/internal/models"
)

// LayerRepository handles database operations for probability layers
type LayerRepository struct {
	db *sql.DB
}

// NewLayerRepository creates a new layer repository
func NewLayerRepository(db *sql.DB) *LayerRepository {
	return &LayerRepository{db: db}
}

// Save upserts a layer at a z-order position. The sample set is stored
// as the exchanged markers JSON.
func (r *LayerRepository) Save(l *models.Layer, position int) error {
	markers, err := json.Marshal(l.Samples)
	if err != nil {
		return fmt.Errorf("failed to marshal markers for layer %d: %w", l.ID, err)
	}

	query := `
		INSERT OR REPLACE INTO layers (
			id, name, markers, hue, opacity, render_mode, radius,
			value_min, value_max, val_min, val_max,
			lat_min, lat_max, lng_min, lng_max,
			width, height, visible, position, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`
	_, err = r.db.Exec(query,
		l.ID, l.Name, string(markers), l.Hue, l.Opacity, l.RenderMode.String(), l.Radius,
		l.ValueRange[0], l.ValueRange[1], l.ValueMinMax[0], l.ValueMinMax[1],
		l.LatMinMax[0], l.LatMinMax[1], l.LonMinMax[0], l.LonMinMax[1],
		l.Width, l.Height, boolToInt(l.Visible), position,
	)
	if err != nil {
		return fmt.Errorf("failed to save layer %d: %w", l.ID, err)
	}
	return nil
}

// SavePositions persists the z-order of the whole stack in one transaction
func (r *LayerRepository) SavePositions(layers []*models.Layer) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare("UPDATE layers SET position = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?")
		if err != nil {
			return fmt.Errorf("failed to prepare position update: %w", err)
		}
		defer stmt.Close()

		for i, l := range layers {
			if _, err := stmt.Exec(i, l.ID); err != nil {
				return fmt.Errorf("failed to update position of layer %d: %w", l.ID, err)
			}
		}
		return nil
	})
}

// Delete removes a layer row
func (r *LayerRepository) Delete(id int64) error {
	if _, err := r.db.Exec("DELETE FROM layers WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete layer %d: %w", id, err)
	}
	return nil
}

// DeleteAll clears the layer table (project clear)
func (r *LayerRepository) DeleteAll() error {
	if _, err := r.db.Exec("DELETE FROM layers"); err != nil {
		return fmt.Errorf("failed to clear layers: %w", err)
	}
	return nil
}

// LoadAll returns every stored layer in z-order, index 0 topmost
func (r *LayerRepository) LoadAll() ([]*models.Layer, error) {
	query := `
		SELECT id, name, markers, hue, opacity, render_mode, radius,
			value_min, value_max, val_min, val_max,
			lat_min, lat_max, lng_min, lng_max,
			width, height, visible
		FROM layers
		ORDER BY position
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query layers: %w", err)
	}
	defer rows.Close()

	var layers []*models.Layer
	for rows.Next() {
		var l models.Layer
		var markers, renderMode string
		var visible int
		err := rows.Scan(
			&l.ID, &l.Name, &markers, &l.Hue, &l.Opacity, &renderMode, &l.Radius,
			&l.ValueRange[0], &l.ValueRange[1], &l.ValueMinMax[0], &l.ValueMinMax[1],
			&l.LatMinMax[0], &l.LatMinMax[1], &l.LonMinMax[0], &l.LonMinMax[1],
			&l.Width, &l.Height, &visible,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan layer: %w", err)
		}

		if err := json.Unmarshal([]byte(markers), &l.Samples); err != nil {
			return nil, fmt.Errorf("failed to unmarshal markers of layer %d: %w", l.ID, err)
		}
		mode, err := models.ParseRenderMode(renderMode)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", l.ID, err)
		}
		l.RenderMode = mode
		l.Visible = visible != 0

		layers = append(layers, &l)
	}
	return layers, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
