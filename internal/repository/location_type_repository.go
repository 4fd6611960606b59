package repository

import (
	"database/sql"
	"fmt"

	"github.com/probmap/layers-backend-go/internal/database"
	"github.com/probmap/layers-backend-go/internal/models"
)

// LocationTypeRepository handles database operations for location types
type LocationTypeRepository struct {
	db *sql.DB
}

// NewLocationTypeRepository creates a new location type repository
func NewLocationTypeRepository(db *sql.DB) *LocationTypeRepository {
	return &LocationTypeRepository{db: db}
}

// Seed inserts the reserved rows if they are missing
func (r *LocationTypeRepository) Seed() error {
	for _, lt := range models.DefaultLocationTypes() {
		query := `
			INSERT OR IGNORE INTO location_types (location_type, filter, color, uncertainty)
			VALUES (?, ?, ?, ?)
		`
		if _, err := r.db.Exec(query, lt.Name, lt.Filter, lt.Color, lt.Uncertainty); err != nil {
			return fmt.Errorf("failed to seed location type %s: %w", lt.Name, err)
		}
	}
	return nil
}

// Save upserts a location type row
func (r *LocationTypeRepository) Save(lt *models.LocationType) error {
	query := `
		INSERT OR REPLACE INTO location_types (location_type, filter, color, uncertainty)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, lt.Name, lt.Filter, lt.Color, lt.Uncertainty); err != nil {
		return fmt.Errorf("failed to save location type %s: %w", lt.Name, err)
	}
	return nil
}

// Delete removes a location type and every entity classified by it in
// one transaction. The entity delete is explicit so the cascade does
// not depend on the connection's foreign_keys pragma.
func (r *LocationTypeRepository) Delete(name string) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM entities WHERE location_type = ?", name); err != nil {
			return fmt.Errorf("failed to delete entities of type %s: %w", name, err)
		}
		if _, err := tx.Exec("DELETE FROM location_types WHERE location_type = ?", name); err != nil {
			return fmt.Errorf("failed to delete location type %s: %w", name, err)
		}
		return nil
	})
}

// Rename relabels a location type and its entities in one transaction
func (r *LocationTypeRepository) Rename(oldName, newName string) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("UPDATE location_types SET location_type = ? WHERE location_type = ?",
			newName, oldName); err != nil {
			return fmt.Errorf("failed to rename location type %s: %w", oldName, err)
		}
		if _, err := tx.Exec("UPDATE entities SET location_type = ? WHERE location_type = ?",
			newName, oldName); err != nil {
			return fmt.Errorf("failed to relabel entities of type %s: %w", oldName, err)
		}
		return nil
	})
}

// LoadAll returns every stored location type, reserved rows first
func (r *LocationTypeRepository) LoadAll() ([]models.LocationType, error) {
	query := `
		SELECT location_type, filter, color, uncertainty
		FROM location_types
		ORDER BY rowid
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query location types: %w", err)
	}
	defer rows.Close()

	var types []models.LocationType
	for rows.Next() {
		var lt models.LocationType
		if err := rows.Scan(&lt.Name, &lt.Filter, &lt.Color, &lt.Uncertainty); err != nil {
			return nil, fmt.Errorf("failed to scan location type: %w", err)
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}
