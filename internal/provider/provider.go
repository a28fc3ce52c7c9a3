// Package provider implements the sources the keyboard action catalog can
// be loaded from.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/studiowebux/keyactions/internal/keybinds"
	"github.com/studiowebux/keyactions/internal/version"
	"github.com/tidwall/jsonc"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// ActionsPath is the provider endpoint serving the action definitions
	ActionsPath = "/api/keyboard-actions"

	fetchTimeout = 5 * time.Second
)

// HTTPSource fetches definitions from a keyboard-actions server
type HTTPSource struct {
	BaseURL   string
	UserAgent string
	Version   string // Client version, compared with the server's
	Client    *http.Client
	Logger    *zap.Logger
}

// NewHTTPSource creates a source for the server at baseURL
func NewHTTPSource(baseURL, clientVersion string) *HTTPSource {
	return &HTTPSource{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: "keyactions/" + clientVersion,
		Version:   clientVersion,
		Client: &http.Client{
			Timeout: fetchTimeout,
		},
		Logger: zap.L(),
	}
}

// FetchActions performs a single GET against the actions endpoint
func (s *HTTPSource) FetchActions(ctx context.Context) ([]keybinds.Definition, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+ActionsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch keyboard actions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if serverVersion := resp.Header.Get(version.Header); serverVersion != "" && s.Version != "" &&
		version.IsNewer(serverVersion, s.Version) {
		s.logger().Warn("keyboard actions server is newer than this client",
			zap.String("server", serverVersion),
			zap.String("client", s.Version))
	}

	var defs []keybinds.Definition
	if err := json.NewDecoder(resp.Body).Decode(&defs); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return defs, nil
}

func (s *HTTPSource) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// ShortcutsRequest is the body sent when changing an action's shortcuts
type ShortcutsRequest struct {
	Shortcuts []string `json:"shortcuts"`
}

// SetShortcuts replaces the effective shortcuts of an action on the server
func (s *HTTPSource) SetShortcuts(ctx context.Context, name string, shortcuts []string) error {
	if shortcuts == nil {
		shortcuts = []string{}
	}
	body, err := json.Marshal(ShortcutsRequest{Shortcuts: shortcuts})
	if err != nil {
		return fmt.Errorf("failed to marshal shortcuts: %w", err)
	}
	return s.send(ctx, http.MethodPut, name, body)
}

// ResetShortcuts restores the default shortcuts of an action on the server
func (s *HTTPSource) ResetShortcuts(ctx context.Context, name string) error {
	return s.send(ctx, http.MethodDelete, name, nil)
}

func (s *HTTPSource) send(ctx context.Context, method, name string, body []byte) error {
	endpoint := s.BaseURL + ActionsPath + "/" + url.PathEscape(name)

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to update keyboard action: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: '%s'", keybinds.ErrUnknownAction, name)
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("server rejected change: %s", apiErr.Error)
	}
	return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
}

// FileSource reads a definition list from a JSON, JSONC or YAML file
type FileSource struct {
	Path string
}

// FetchActions reads and parses the file
func (s *FileSource) FetchActions(ctx context.Context) ([]keybinds.Definition, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read actions file: %w", err)
	}

	var defs []keybinds.Definition

	ext := strings.ToLower(filepath.Ext(s.Path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &defs); err != nil {
			return nil, fmt.Errorf("failed to parse YAML actions: %w", err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &defs); err != nil {
			return nil, fmt.Errorf("failed to parse JSON actions: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported actions file format: %s (use .yaml, .yml, .json or .jsonc)", ext)
	}

	return defs, nil
}

// DefaultsSource serves the built-in definitions with optional user overrides
type DefaultsSource struct {
	Overrides *keybinds.Config
}

// NewDefaultsSource creates a DefaultsSource using the overrides in path.
// A missing file means no overrides.
func NewDefaultsSource(path string) (*DefaultsSource, error) {
	src := &DefaultsSource{}
	if path == "" {
		return src, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return src, nil
		}
		return nil, err
	}

	overrides, err := keybinds.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load keybinds config: %w", err)
	}
	src.Overrides = overrides
	return src, nil
}

// FetchActions returns the default definitions with overrides applied
func (s *DefaultsSource) FetchActions(ctx context.Context) ([]keybinds.Definition, error) {
	return keybinds.ApplyConfig(keybinds.DefaultDefinitions(), s.Overrides)
}
