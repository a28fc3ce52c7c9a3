package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/studiowebux/keyactions/internal/filter"
	"github.com/studiowebux/keyactions/internal/keybinds"
	"gopkg.in/yaml.v3"
)

// ListOptions contains options for listing keyboard actions
type ListOptions struct {
	OutputFormat string // json, yaml, text
	Filter       string // JMESPath filter expression
	Query        string // JMESPath query or $(shell command)
	Search       string // fuzzy match on name, description and shortcuts
	Unbound      bool   // only actions without shortcuts
	Customized   bool   // only actions whose shortcuts differ from the defaults
}

// Validate checks the filter, query and output format before any action is
// loaded
func (o ListOptions) Validate() error {
	switch o.OutputFormat {
	case "", "json", "yaml", "text":
	default:
		return fmt.Errorf("unknown output format %q (expected json, yaml or text)", o.OutputFormat)
	}
	if o.Filter != "" && !filter.IsValidJMESPath(o.Filter) {
		return fmt.Errorf("invalid filter: %q is not a JMESPath expression", o.Filter)
	}
	if o.Query != "" && !filter.IsShellCommand(o.Query) && !filter.IsValidJMESPath(o.Query) {
		return fmt.Errorf("invalid query: %q is neither a JMESPath expression nor $(command)", o.Query)
	}
	return nil
}

// List writes the definitions to w
func List(w io.Writer, defs []keybinds.Definition, opts ListOptions) error {
	defs = filter.Fuzzy(defs, opts.Search)
	if opts.Unbound {
		defs = filter.Unbound(defs)
	}
	if opts.Customized {
		defs = filter.Customized(defs)
	}

	// Filter and query always produce JSON
	if opts.Filter != "" || opts.Query != "" {
		result, err := filter.Apply(defs, opts.Filter, opts.Query)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, result)
		return nil
	}

	outputFormat := opts.OutputFormat
	if outputFormat == "" {
		if isTerminal(os.Stdout) {
			outputFormat = "text"
		} else {
			outputFormat = "json"
		}
	}

	output, err := formatOutput(defs, outputFormat)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Fprint(w, output)
	return nil
}

// formatOutput formats the definitions based on the output format
func formatOutput(defs []keybinds.Definition, format string) (string, error) {
	if defs == nil {
		defs = []keybinds.Definition{}
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(defs, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(defs)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "text":
		return formatText(defs), nil

	default:
		return "", fmt.Errorf("unknown output format %q (expected json, yaml or text)", format)
	}
}

func formatText(defs []keybinds.Definition) string {
	width := 0
	for _, def := range defs {
		width = max(width, len(def.ActionName))
	}

	var sb strings.Builder
	for _, def := range defs {
		shortcuts := strings.Join(def.EffectiveShortcuts, ", ")
		if shortcuts == "" {
			shortcuts = colorDim + "(none)" + colorReset
		} else if !slices.Equal(def.DefaultShortcuts, def.EffectiveShortcuts) {
			shortcuts = colorYellow + shortcuts + colorReset
		}

		sb.WriteString(fmt.Sprintf("%-*s  %s", width, def.ActionName, shortcuts))
		if def.Description != "" {
			sb.WriteString(fmt.Sprintf("  %s%s%s", colorDim, def.Description, colorReset))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Validate writes the validation report for defs to w and reports whether
// it found errors
func Validate(w io.Writer, defs []keybinds.Definition) bool {
	result := keybinds.NewValidator().ValidateDefinitions(defs)

	if !result.HasErrors() && !result.HasWarnings() {
		fmt.Fprintf(w, "%s%d keyboard actions OK%s\n", colorGreen, len(defs), colorReset)
		return true
	}

	fmt.Fprint(w, result.String())
	return !result.HasErrors()
}

// ANSI color codes
const (
	colorReset  = "\x1b[0m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorDim    = "\x1b[2m"
)

// isTerminal checks if f is a terminal (not piped)
func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// PromptShortcuts asks for a comma-separated shortcut list on stdin
func PromptShortcuts(name string) ([]string, error) {
	fmt.Fprintf(os.Stderr, "Enter shortcuts for '%s' (comma-separated, empty to clear): ", name)
	reader := bufio.NewReader(os.Stdin)
	value, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	return keybinds.ParseShortcutList(value), nil
}
