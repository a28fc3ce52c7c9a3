package keybinds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the overrides file in the config directory
const ConfigFileName = "keybinds.json"

// Config represents the user's shortcut overrides.
// Shortcuts maps an action name to a comma separated list of shortcuts;
// an empty value leaves the action without shortcuts.
type Config struct {
	Version   string            `json:"version" yaml:"version"`
	Shortcuts map[string]string `json:"shortcuts,omitempty" yaml:"shortcuts,omitempty"`
}

// LoadConfig loads overrides from a JSON, JSONC or YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("invalid %s format: %w", filepath.Base(path), err)
		}
	default:
		// Comments and trailing commas are allowed in every JSON flavour
		if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
			return nil, fmt.Errorf("invalid %s format: %w", filepath.Base(path), err)
		}
	}

	return &config, nil
}

// SaveConfig writes config as YAML or indented JSON depending on the extension
func SaveConfig(config *Config, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ParseShortcutList splits a comma separated shortcut list
func ParseShortcutList(value string) []string {
	shortcuts := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			shortcuts = append(shortcuts, part)
		}
	}
	return shortcuts
}

// ApplyConfig returns a copy of defs with the configured effective shortcuts.
// Overrides for actions missing from defs fail with ErrUnknownAction.
func ApplyConfig(defs []Definition, config *Config) ([]Definition, error) {
	out := make([]Definition, len(defs))
	index := make(map[string]int, len(defs))
	for i, def := range defs {
		out[i] = Definition{
			ActionName:         def.ActionName,
			DefaultShortcuts:   cloneStrings(def.DefaultShortcuts),
			EffectiveShortcuts: cloneStrings(def.EffectiveShortcuts),
			Description:        def.Description,
		}
		index[def.ActionName] = i
	}

	if config == nil {
		return out, nil
	}

	// Sorted so the reported error is stable
	names := make([]string, 0, len(config.Shortcuts))
	for name := range config.Shortcuts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: '%s' in keybinds config", ErrUnknownAction, name)
		}
		out[i].EffectiveShortcuts = ParseShortcutList(config.Shortcuts[name])
	}

	return out, nil
}

// LoadOrDefault returns the default definitions with the overrides from
// configPath applied. A missing file is not an error.
func LoadOrDefault(configPath string) ([]Definition, error) {
	defs := DefaultDefinitions()

	if configPath == "" {
		return defs, nil
	}
	if _, err := os.Stat(configPath); err != nil {
		return defs, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load keybinds config: %w", err)
	}

	defs, err = ApplyConfig(defs, config)
	if err != nil {
		return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
	}

	return defs, nil
}

// ExportDefaults exports the default shortcuts as a config
func ExportDefaults() *Config {
	return ExportDefinitions(DefaultDefinitions())
}

// ExportDefinitions exports the effective shortcuts of defs as a config
func ExportDefinitions(defs []Definition) *Config {
	config := &Config{
		Version:   "1.0",
		Shortcuts: make(map[string]string, len(defs)),
	}
	for _, def := range defs {
		config.Shortcuts[def.ActionName] = strings.Join(def.EffectiveShortcuts, ",")
	}
	return config
}

// CreateExampleConfig writes the default shortcuts to path so users can edit them
func CreateExampleConfig(path string) error {
	return SaveConfig(ExportDefaults(), path)
}
