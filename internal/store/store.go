// Package store persists per-action shortcut overrides in SQLite and serves
// them, merged with the default definitions, as a keyboard-actions source.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/keyactions/internal/keybinds"
	"github.com/studiowebux/keyactions/internal/migrations"
)

// Store keeps shortcut overrides keyed by action name
type Store struct {
	db       *sql.DB
	defaults []keybinds.Definition

	// serializes writes so the change log matches the override table
	mu sync.Mutex
}

// Open opens (and creates if needed) the database at dbPath.
// defaults is the action set overrides are applied to; nil means the
// built-in defaults.
func Open(dbPath string, defaults []keybinds.Definition) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open shortcuts database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to shortcuts database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if defaults == nil {
		defaults = keybinds.DefaultDefinitions()
	}

	return &Store{db: db, defaults: defaults}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) known(name string) bool {
	for _, def := range s.defaults {
		if def.ActionName == name {
			return true
		}
	}
	return false
}

// SetShortcuts stores the effective shortcuts for an action.
// An empty list is stored as an explicit "no shortcuts" override.
func (s *Store) SetShortcuts(ctx context.Context, name string, shortcuts []string) error {
	if !s.known(name) {
		return fmt.Errorf("%w: '%s'", keybinds.ErrUnknownAction, name)
	}
	for _, shortcut := range shortcuts {
		if err := keybinds.ValidateShortcut(shortcut); err != nil {
			return fmt.Errorf("invalid shortcut %q: %w", shortcut, err)
		}
	}
	if shortcuts == nil {
		shortcuts = []string{}
	}

	data, err := json.Marshal(shortcuts)
	if err != nil {
		return fmt.Errorf("failed to marshal shortcuts: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO shortcut_overrides (action_name, shortcuts, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(action_name) DO UPDATE SET shortcuts = excluded.shortcuts, updated_at = CURRENT_TIMESTAMP
	`, name, string(data))
	if err != nil {
		return fmt.Errorf("failed to save shortcuts: %w", err)
	}

	return s.logChange(ctx, name, sql.NullString{String: string(data), Valid: true})
}

// ResetShortcuts removes the override so the action falls back to its defaults
func (s *Store) ResetShortcuts(ctx context.Context, name string) error {
	if !s.known(name) {
		return fmt.Errorf("%w: '%s'", keybinds.ErrUnknownAction, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM shortcut_overrides WHERE action_name = ?", name); err != nil {
		return fmt.Errorf("failed to reset shortcuts: %w", err)
	}

	return s.logChange(ctx, name, sql.NullString{})
}

func (s *Store) logChange(ctx context.Context, name string, shortcuts sql.NullString) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO shortcut_changes (action_name, shortcuts) VALUES (?, ?)",
		name, shortcuts,
	)
	if err != nil {
		return fmt.Errorf("failed to record shortcut change: %w", err)
	}
	return nil
}

// Overrides returns every stored override
func (s *Store) Overrides(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT action_name, shortcuts FROM shortcut_overrides")
	if err != nil {
		return nil, fmt.Errorf("failed to query overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string][]string)
	for rows.Next() {
		var name, data string
		if err := rows.Scan(&name, &data); err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}

		var shortcuts []string
		if err := json.Unmarshal([]byte(data), &shortcuts); err != nil {
			return nil, fmt.Errorf("corrupt override for '%s': %w", name, err)
		}
		overrides[name] = shortcuts
	}

	return overrides, rows.Err()
}

// ChangeCount returns how many changes have been recorded for an action
func (s *Store) ChangeCount(ctx context.Context, name string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM shortcut_changes WHERE action_name = ?", name,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count shortcut changes: %w", err)
	}
	return count, nil
}

// FetchActions returns the defaults with the stored overrides applied.
// Overrides for actions no longer in the defaults are skipped.
func (s *Store) FetchActions(ctx context.Context) ([]keybinds.Definition, error) {
	overrides, err := s.Overrides(ctx)
	if err != nil {
		return nil, err
	}

	defs := make([]keybinds.Definition, 0, len(s.defaults))
	for _, def := range s.defaults {
		effective := def.EffectiveShortcuts
		if shortcuts, ok := overrides[def.ActionName]; ok {
			effective = shortcuts
		}

		defs = append(defs, keybinds.Definition{
			ActionName:         def.ActionName,
			DefaultShortcuts:   append([]string{}, def.DefaultShortcuts...),
			EffectiveShortcuts: append([]string{}, effective...),
			Description:        def.Description,
		})
	}

	return defs, nil
}
