package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"
	"github.com/sahilm/fuzzy"
	"github.com/studiowebux/keyactions/internal/keybinds"
)

const (
	// QueryShellTimeout is the maximum time allowed for query shell command execution
	QueryShellTimeout = 30 * time.Second
)

var (
	// Shell command pattern: $(command)
	shellPattern = regexp.MustCompile(`^\$\((.+)\)$`)
)

// Apply applies filter and query expressions to a list of action definitions
// Filter narrows results (e.g., [?length(effectiveShortcuts) > `0`])
// Query transforms/selects fields (e.g., [].actionName)
// If query starts with $(...), it's executed as a shell command with the JSON piped to stdin
func Apply(defs []keybinds.Definition, filter string, query string) (string, error) {
	data, err := json.Marshal(defs)
	if err != nil {
		return "", fmt.Errorf("failed to marshal definitions: %w", err)
	}
	result := string(data)

	// Apply filter first (if specified)
	if filter != "" {
		filtered, err := applyJMESPath(result, filter)
		if err != nil {
			return "", fmt.Errorf("failed to apply filter: %w", err)
		}
		result = filtered
	}

	if query == "" {
		return indent(result)
	}

	if IsShellCommand(query) {
		queried, err := executeShellCommand(result, shellPattern.FindStringSubmatch(query)[1])
		if err != nil {
			return "", fmt.Errorf("failed to execute query shell command: %w", err)
		}
		return queried, nil
	}

	queried, err := applyJMESPath(result, query)
	if err != nil {
		return "", fmt.Errorf("failed to apply query: %w", err)
	}
	return queried, nil
}

// applyJMESPath applies a JMESPath expression to a JSON string
func applyJMESPath(jsonStr string, expression string) (string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	return string(output), nil
}

func indent(jsonStr string) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(jsonStr), "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// executeShellCommand executes a shell command with body piped to stdin
func executeShellCommand(body string, command string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), QueryShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = strings.NewReader(body)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := err.Error()
		if stderr.Len() > 0 {
			errMsg = strings.TrimSpace(stderr.String())
		}
		return "", fmt.Errorf("command '%s' failed: %s", command, errMsg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}

// IsShellCommand checks if a query is a shell command (starts with $(...))
func IsShellCommand(query string) bool {
	return shellPattern.MatchString(query)
}

// searchable matches against the action name, description and shortcuts
type searchable []keybinds.Definition

func (s searchable) String(i int) string {
	def := s[i]
	return def.ActionName + " " + def.Description + " " + strings.Join(def.EffectiveShortcuts, " ")
}

func (s searchable) Len() int {
	return len(s)
}

// Fuzzy returns the definitions matching pattern, best match first.
// An empty pattern returns defs unchanged.
func Fuzzy(defs []keybinds.Definition, pattern string) []keybinds.Definition {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return defs
	}

	matches := fuzzy.FindFrom(pattern, searchable(defs))
	result := make([]keybinds.Definition, 0, len(matches))
	for _, match := range matches {
		result = append(result, defs[match.Index])
	}
	return result
}

// Unbound returns the definitions without any effective shortcut
func Unbound(defs []keybinds.Definition) []keybinds.Definition {
	var result []keybinds.Definition
	for _, def := range defs {
		if len(def.EffectiveShortcuts) == 0 {
			result = append(result, def)
		}
	}
	return result
}

// Customized returns the definitions whose effective shortcuts differ from
// their defaults
func Customized(defs []keybinds.Definition) []keybinds.Definition {
	var result []keybinds.Definition
	for _, def := range defs {
		if !slices.Equal(def.DefaultShortcuts, def.EffectiveShortcuts) {
			result = append(result, def)
		}
	}
	return result
}
