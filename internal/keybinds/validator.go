package keybinds

import (
	"fmt"
	"sort"
	"strings"

	"github.com/studiowebux/keyactions/internal/shortcuts"
)

// ValidationError represents a keyboard action validation error
type ValidationError struct {
	Type     string // "conflict", "invalid", "warning"
	Action   string
	Shortcut string
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s on action '%s': %s", e.Type, e.Shortcut, e.Action, e.Message)
}

// ValidationResult contains all validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(r.Errors)))
		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("Warnings (%d):\n", len(r.Warnings)))
		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn.Error()))
		}
	}

	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}

	return sb.String()
}

// Validator validates keyboard action definitions
type Validator struct {
	// reservedKeys are shortcuts that should not be rebound
	reservedKeys map[string]bool
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		reservedKeys: map[string]bool{
			"ctrl+c": true, // Copy / interrupt should always work
		},
	}
}

// ValidateDefinitions validates a full list of definitions
func (v *Validator) ValidateDefinitions(defs []Definition) *ValidationResult {
	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	v.checkNames(defs, result)
	v.checkShortcutFormats(defs, result)
	v.checkConflicts(defs, result)
	v.checkReservedKeys(defs, result)
	v.checkTerminalReachable(defs, result)

	return result
}

// ValidateConfig validates overrides against the default definitions
func (v *Validator) ValidateConfig(config *Config) *ValidationResult {
	defs, err := ApplyConfig(DefaultDefinitions(), config)
	if err != nil {
		return &ValidationResult{
			Errors: []ValidationError{{
				Type:    "invalid",
				Message: err.Error(),
			}},
			Warnings: []ValidationError{},
		}
	}

	return v.ValidateDefinitions(defs)
}

// checkNames reports empty and duplicate action names
func (v *Validator) checkNames(defs []Definition, result *ValidationResult) {
	seen := make(map[string]int)
	for _, def := range defs {
		if def.ActionName == "" {
			result.Errors = append(result.Errors, ValidationError{
				Type:    "invalid",
				Message: "action name cannot be empty",
			})
			continue
		}
		seen[def.ActionName]++
	}

	for _, name := range sortedKeys(seen) {
		if count := seen[name]; count > 1 {
			result.Errors = append(result.Errors, ValidationError{
				Type:    "conflict",
				Action:  name,
				Message: fmt.Sprintf("action defined %d times", count),
			})
		}
	}
}

// checkShortcutFormats reports malformed effective and default shortcuts
func (v *Validator) checkShortcutFormats(defs []Definition, result *ValidationResult) {
	for _, def := range defs {
		all := append(cloneStrings(def.DefaultShortcuts), def.EffectiveShortcuts...)
		for _, shortcut := range all {
			if err := ValidateShortcut(shortcut); err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Type:     "invalid",
					Action:   def.ActionName,
					Shortcut: shortcut,
					Message:  err.Error(),
				})
			}
		}
	}
}

// checkConflicts warns when one shortcut runs several actions
func (v *Validator) checkConflicts(defs []Definition, result *ValidationResult) {
	owners := make(map[string][]string)
	for _, def := range defs {
		for _, shortcut := range def.EffectiveShortcuts {
			key := shortcuts.Normalize(shortcut)
			if key == "" {
				continue
			}
			owners[key] = append(owners[key], def.ActionName)
		}
	}

	for _, key := range sortedKeys(owners) {
		if actions := owners[key]; len(actions) > 1 {
			result.Warnings = append(result.Warnings, ValidationError{
				Type:     "warning",
				Action:   actions[0],
				Shortcut: key,
				Message:  fmt.Sprintf("shortcut shared with %s", strings.Join(actions[1:], ", ")),
			})
		}
	}
}

// checkReservedKeys warns about actions bound to reserved shortcuts
func (v *Validator) checkReservedKeys(defs []Definition, result *ValidationResult) {
	for _, def := range defs {
		for _, shortcut := range def.EffectiveShortcuts {
			if v.reservedKeys[shortcuts.Normalize(shortcut)] {
				result.Warnings = append(result.Warnings, ValidationError{
					Type:     "warning",
					Action:   def.ActionName,
					Shortcut: shortcut,
					Message:  "reserved shortcut rebound (may cause issues)",
				})
			}
		}
	}
}

// checkTerminalReachable warns about well formed shortcuts a terminal
// never reports, such as ctrl+shift+i or ctrl+=
func (v *Validator) checkTerminalReachable(defs []Definition, result *ValidationResult) {
	for _, def := range defs {
		for _, shortcut := range def.EffectiveShortcuts {
			if shortcuts.Normalize(shortcut) == "" || shortcuts.TerminalReachable(shortcut) {
				continue
			}
			result.Warnings = append(result.Warnings, ValidationError{
				Type:     "warning",
				Action:   def.ActionName,
				Shortcut: shortcut,
				Message:  "shortcut cannot be typed in a terminal",
			})
		}
	}
}

// ValidateShortcut checks that a shortcut normalizes to a key string the
// shortcut service can bind
func ValidateShortcut(shortcut string) error {
	_, err := shortcuts.Parse(shortcut)
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
