package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered schema history. Append only.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_layers",
		SQL: `
			CREATE TABLE IF NOT EXISTS layers (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL,
				markers TEXT NOT NULL,
				hue INTEGER NOT NULL,
				opacity INTEGER NOT NULL,
				render_mode TEXT NOT NULL,
				radius REAL NOT NULL,
				value_min REAL NOT NULL,
				value_max REAL NOT NULL,
				val_min REAL NOT NULL,
				val_max REAL NOT NULL,
				lat_min REAL NOT NULL,
				lat_max REAL NOT NULL,
				lng_min REAL NOT NULL,
				lng_max REAL NOT NULL,
				width INTEGER NOT NULL DEFAULT 0,
				height INTEGER NOT NULL DEFAULT 0,
				visible INTEGER NOT NULL DEFAULT 1,
				position INTEGER NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`,
	},
	{
		Version: 2,
		Name:    "create_location_types",
		SQL: `
			CREATE TABLE IF NOT EXISTS location_types (
				location_type TEXT PRIMARY KEY,
				filter TEXT NOT NULL DEFAULT '',
				color TEXT NOT NULL DEFAULT '',
				uncertainty REAL NOT NULL DEFAULT 0
			)
		`,
	},
	{
		Version: 3,
		Name:    "create_entities",
		SQL: `
			CREATE TABLE IF NOT EXISTS entities (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL DEFAULT '',
				shape TEXT NOT NULL,
				coordinates TEXT NOT NULL,
				location_type TEXT NOT NULL REFERENCES location_types(location_type)
					ON DELETE CASCADE ON UPDATE CASCADE,
				color TEXT NOT NULL DEFAULT '',
				std_dev REAL NOT NULL DEFAULT 0,
				origin TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`,
	},
}

// Migrate applies every pending migration in version order
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return err
		}
		log.Printf("[Database] applied migration %d (%s)", m.Version, m.Name)
	}
	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, nil
}

func applyMigration(db *sql.DB, m Migration) error {
	return Transaction(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(m.SQL); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		return nil
	})
}
