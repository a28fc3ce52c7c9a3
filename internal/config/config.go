package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/studiowebux/keyactions/internal/keybinds"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// DefaultServerPort is the port `keyactions serve` listens on
	DefaultServerPort = 8787
)

var (
	// ConfigDir is the global configuration directory (~/.keyactions)
	ConfigDir string

	// DatabasePath is the SQLite database holding shortcut overrides
	DatabasePath string

	// KeybindsFile is the global shortcut overrides file
	KeybindsFile string

	// LogFile receives logs while the TUI owns the terminal
	LogFile string
)

// Initialize sets up the configuration directory and paths
// It creates ~/.keyactions/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	return InitializeIn(filepath.Join(homeDir, ".keyactions"))
}

// InitializeIn sets up the configuration rooted at dir
func InitializeIn(dir string) error {
	ConfigDir = dir
	DatabasePath = filepath.Join(ConfigDir, "keyactions.db")
	KeybindsFile = filepath.Join(ConfigDir, keybinds.ConfigFileName)
	LogFile = filepath.Join(ConfigDir, "keyactions.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	return nil
}

// LocalConfigExists checks if there's a keybinds.json in the current directory
func LocalConfigExists() bool {
	_, err := os.Stat(keybinds.ConfigFileName)
	return err == nil
}

// GetKeybindsFilePath returns the overrides file path (local or global)
func GetKeybindsFilePath() string {
	if LocalConfigExists() {
		return keybinds.ConfigFileName
	}
	return KeybindsFile
}
