package migrations

import (
	"database/sql"
	"fmt"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "Add index on shortcut override update time",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_shortcut_overrides_updated ON shortcut_overrides(updated_at DESC);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_shortcut_overrides_updated;
		`,
	},
	{
		Version: 2,
		Name:    "Add shortcut change log",
		Up: `
			CREATE TABLE IF NOT EXISTS shortcut_changes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				action_name TEXT NOT NULL,
				shortcuts TEXT,
				changed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_shortcut_changes_action ON shortcut_changes(action_name, changed_at DESC);
		`,
		Down: `
			DROP TABLE IF EXISTS shortcut_changes;
		`,
	},
}

// InitSchema creates the base tables
func InitSchema(db *sql.DB) error {
	schema := `
	-- Per-action effective shortcut overrides (JSON array of shortcuts)
	CREATE TABLE IF NOT EXISTS shortcut_overrides (
		action_name TEXT PRIMARY KEY,
		shortcuts TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return err
	}

	return nil
}

// Run applies every migration newer than the recorded schema version
func Run(db *sql.DB) error {
	// Initialize schema first to ensure all tables exist
	if err := InitSchema(db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := GetCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	for _, migration := range AllMigrations {
		if migration.Version <= currentVersion {
			continue
		}

		if _, err := db.Exec(migration.Up); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}

		_, err = db.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version,
			migration.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// GetCurrentVersion returns the latest applied migration version
func GetCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow(`
		SELECT COALESCE(MAX(version), 0)
		FROM schema_migrations
	`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return version, nil
}
