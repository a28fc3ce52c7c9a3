package keybinds

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		expected map[string]string
		wantErr  bool
	}{
		{
			name:     "json",
			file:     "keybinds.json",
			content:  `{"version": "1.0", "shortcuts": {"JumpToNote": "ctrl+g"}}`,
			expected: map[string]string{"JumpToNote": "ctrl+g"},
		},
		{
			name: "jsonc with comments and trailing comma",
			file: "keybinds.jsonc",
			content: `{
				// personal overrides
				"version": "1.0",
				"shortcuts": {
					"JumpToNote": "ctrl+g", /* vim-ish */
					"ShowHelp": "",
				},
			}`,
			expected: map[string]string{"JumpToNote": "ctrl+g", "ShowHelp": ""},
		},
		{
			name:     "yaml",
			file:     "keybinds.yaml",
			content:  "version: \"1.0\"\nshortcuts:\n  ZoomIn: ctrl+up,F9\n",
			expected: map[string]string{"ZoomIn": "ctrl+up,F9"},
		},
		{
			name:    "invalid json",
			file:    "broken.json",
			content: `{"shortcuts": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			config, err := LoadConfig(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(config.Shortcuts, tt.expected) {
				t.Errorf("Shortcuts = %v, want %v", config.Shortcuts, tt.expected)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig() error = %v, want ErrNotExist", err)
	}
}

func TestParseShortcutList(t *testing.T) {
	tests := []struct {
		value    string
		expected []string
	}{
		{"", []string{}},
		{"ctrl+s", []string{"ctrl+s"}},
		{"F5, CommandOrControl+R", []string{"F5", "CommandOrControl+R"}},
		{" , F1 ,", []string{"F1"}},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := ParseShortcutList(tt.value)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseShortcutList(%q) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestApplyConfig(t *testing.T) {
	defs := []Definition{
		{ActionName: "Save", DefaultShortcuts: []string{"ctrl+s"}, EffectiveShortcuts: []string{"ctrl+s"}},
		{ActionName: "Open", DefaultShortcuts: []string{"ctrl+o"}, EffectiveShortcuts: []string{"ctrl+o"}},
	}

	got, err := ApplyConfig(defs, &Config{Shortcuts: map[string]string{
		"Save": "F2,ctrl+shift+s",
		"Open": "",
	}})
	if err != nil {
		t.Fatalf("ApplyConfig() error = %v", err)
	}

	if !reflect.DeepEqual(got[0].EffectiveShortcuts, []string{"F2", "ctrl+shift+s"}) {
		t.Errorf("Save effective = %v", got[0].EffectiveShortcuts)
	}
	if len(got[1].EffectiveShortcuts) != 0 {
		t.Errorf("Open effective = %v, want none", got[1].EffectiveShortcuts)
	}
	if !reflect.DeepEqual(got[0].DefaultShortcuts, []string{"ctrl+s"}) {
		t.Errorf("defaults changed: %v", got[0].DefaultShortcuts)
	}
	if !reflect.DeepEqual(defs[0].EffectiveShortcuts, []string{"ctrl+s"}) {
		t.Error("ApplyConfig mutated its input")
	}
}

func TestApplyConfig_UnknownAction(t *testing.T) {
	_, err := ApplyConfig(DefaultDefinitions(), &Config{Shortcuts: map[string]string{"Nope": "F2"}})
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("ApplyConfig() error = %v, want ErrUnknownAction", err)
	}
}

func TestApplyConfig_NilConfig(t *testing.T) {
	defs := DefaultDefinitions()
	got, err := ApplyConfig(defs, nil)
	if err != nil {
		t.Fatalf("ApplyConfig() error = %v", err)
	}
	if !reflect.DeepEqual(got, defs) {
		t.Error("nil config should return the definitions unchanged")
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	defs, err := LoadOrDefault(filepath.Join(dir, "absent.json"))
	if err != nil {
		t.Fatalf("LoadOrDefault() missing file error = %v", err)
	}
	if len(defs) != len(DefaultDefinitions()) {
		t.Errorf("got %d definitions, want defaults", len(defs))
	}

	path := writeFile(t, dir, "keybinds.json", `{"shortcuts": {"ShowHelp": "F2"}}`)
	defs, err = LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	for _, def := range defs {
		if def.ActionName == ActionShowHelp && !reflect.DeepEqual(def.EffectiveShortcuts, []string{"F2"}) {
			t.Errorf("ShowHelp effective = %v, want [F2]", def.EffectiveShortcuts)
		}
	}

	bad := writeFile(t, dir, "bad.json", `{"shortcuts": {"Nope": "F2"}}`)
	if _, err := LoadOrDefault(bad); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("LoadOrDefault() error = %v, want ErrUnknownAction", err)
	}
}

func TestExportDefaultsRoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "keybinds"+ext)
			if err := CreateExampleConfig(path); err != nil {
				t.Fatalf("CreateExampleConfig() error = %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}

			defs, err := ApplyConfig(DefaultDefinitions(), config)
			if err != nil {
				t.Fatalf("ApplyConfig() error = %v", err)
			}
			if !reflect.DeepEqual(defs, DefaultDefinitions()) {
				t.Error("exported defaults do not reproduce the default definitions")
			}
		})
	}
}
