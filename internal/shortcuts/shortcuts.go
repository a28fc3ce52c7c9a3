// Package shortcuts is the global shortcut service: it maps normalized key
// strings to the handlers bound to them and dispatches key presses.
package shortcuts

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
)

var modifierAliases = map[string]string{
	"commandorcontrol": "ctrl",
	"commandorctrl":    "ctrl",
	"cmdorctrl":        "ctrl",
	"cmdorcontrol":     "ctrl",
	"control":          "ctrl",
	"ctrl":             "ctrl",
	"command":          "ctrl",
	"cmd":              "ctrl",
	"meta":             "ctrl",
	"super":            "ctrl",
	"alt":              "alt",
	"option":           "alt",
	"altgr":            "alt",
	"shift":            "shift",
}

var keyAliases = map[string]string{
	"escape":     "esc",
	"return":     "enter",
	"space":      " ",
	"plus":       "+",
	"del":        "delete",
	"pageup":     "pgup",
	"pagedown":   "pgdown",
	"arrowup":    "up",
	"arrowdown":  "down",
	"arrowleft":  "left",
	"arrowright": "right",
}

// IsModifier reports whether part names a modifier key
func IsModifier(part string) bool {
	_, ok := modifierAliases[strings.ToLower(strings.TrimSpace(part))]
	return ok
}

// Normalize converts a shortcut such as "CommandOrControl+Shift+I" into the
// key string a terminal reports ("ctrl+shift+i"). Modifiers are ordered
// alt, ctrl, shift. Shift with a single letter becomes the upper-case
// letter. An empty or malformed shortcut normalizes to "".
func Normalize(shortcut string) string {
	key, err := Parse(shortcut)
	if err != nil {
		return ""
	}
	return key
}

// Parse is Normalize with an error naming the part that made shortcut
// malformed.
func Parse(shortcut string) (string, error) {
	shortcut = strings.TrimSpace(shortcut)
	if shortcut == "" {
		return "", fmt.Errorf("shortcut cannot be empty")
	}

	parts := strings.Split(shortcut, "+")
	if strings.HasSuffix(shortcut, "++") {
		parts = append(parts[:len(parts)-2], "+")
	} else if shortcut == "+" {
		parts = []string{"+"}
	}

	var alt, ctrl, shift bool
	key := ""
	for i, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if i < len(parts)-1 {
			switch modifierAliases[trimmed] {
			case "alt":
				alt = true
			case "ctrl":
				ctrl = true
			case "shift":
				shift = true
			default:
				if trimmed == "" {
					return "", fmt.Errorf("empty key in %q", shortcut)
				}
				return "", fmt.Errorf("%q is not a modifier in %q", strings.TrimSpace(part), shortcut)
			}
			continue
		}
		if trimmed == "" && part != " " {
			return "", fmt.Errorf("empty key in %q", shortcut)
		}
		if alias, ok := keyAliases[trimmed]; ok {
			trimmed = alias
		} else if len(parts) == 1 && len(strings.TrimSpace(part)) == 1 {
			// A bare "G" is what a terminal reports for shift+g
			trimmed = strings.TrimSpace(part)
		}
		key = trimmed
	}

	if IsModifier(key) {
		return "", fmt.Errorf("modifier without key in %q", shortcut)
	}

	if shift && !ctrl && len(key) == 1 && key[0] >= 'a' && key[0] <= 'z' {
		key = strings.ToUpper(key)
		shift = false
	}

	var sb strings.Builder
	if alt {
		sb.WriteString("alt+")
	}
	if ctrl {
		sb.WriteString("ctrl+")
	}
	if shift {
		sb.WriteString("shift+")
	}
	sb.WriteString(key)
	return sb.String(), nil
}

// terminalKeys are the named keys a terminal reports without modifiers
var terminalKeys = map[string]bool{
	"enter": true, "esc": true, "tab": true, "backspace": true, "delete": true,
	"insert": true, "home": true, "end": true, "pgup": true, "pgdown": true,
	"up": true, "down": true, "left": true, "right": true,
}

var (
	navigationKeys = map[string]bool{"up": true, "down": true, "left": true, "right": true, "home": true, "end": true}
	ctrlSymbols    = map[string]bool{"@": true, "\\": true, "]": true, "^": true, "_": true}
)

// TerminalReachable reports whether a terminal can deliver shortcut as a
// distinct key press. ctrl+i and ctrl+m arrive as tab and enter, and
// ctrl or shift combined with most keys is not reported at all.
func TerminalReachable(shortcut string) bool {
	key := Normalize(shortcut)
	if key == "" {
		return false
	}
	key = strings.TrimPrefix(key, "alt+")

	switch {
	case strings.HasPrefix(key, "ctrl+shift+"):
		return navigationKeys[strings.TrimPrefix(key, "ctrl+shift+")]
	case strings.HasPrefix(key, "ctrl+"):
		rest := strings.TrimPrefix(key, "ctrl+")
		if len(rest) == 1 && rest[0] >= 'a' && rest[0] <= 'z' {
			return rest != "i" && rest != "m"
		}
		return ctrlSymbols[rest] || navigationKeys[rest] || rest == "pgup" || rest == "pgdown"
	case strings.HasPrefix(key, "shift+"):
		rest := strings.TrimPrefix(key, "shift+")
		return navigationKeys[rest] || rest == "tab"
	}

	if utf8.RuneCountInString(key) == 1 || terminalKeys[key] {
		return true
	}
	if n, ok := strings.CutPrefix(key, "f"); ok {
		num, err := strconv.Atoi(n)
		return err == nil && num >= 1 && num <= 20
	}
	return false
}

// Manager keeps the handlers bound to each shortcut.
// Binding the same shortcut again adds another handler; all of them run
// when the shortcut is dispatched.
type Manager struct {
	mu       sync.RWMutex
	handlers map[string][]func()
	logger   *zap.Logger
}

// NewManager creates an empty shortcut manager
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[string][]func()),
		logger:   zap.L(),
	}
}

// WithLogger sets the logger used for binding diagnostics
func (m *Manager) WithLogger(logger *zap.Logger) *Manager {
	m.logger = logger
	return m
}

// BindShortcut binds handler to shortcut. Empty or malformed shortcuts
// are ignored.
func (m *Manager) BindShortcut(shortcut string, handler func()) {
	key := Normalize(shortcut)
	if key == "" || handler == nil {
		if strings.TrimSpace(shortcut) != "" {
			m.logger.Warn("ignoring malformed shortcut", zap.String("shortcut", shortcut))
		}
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers[key] = append(m.handlers[key], handler)
	if n := len(m.handlers[key]); n > 1 {
		m.logger.Debug("shortcut bound more than once",
			zap.String("shortcut", key),
			zap.Int("handlers", n),
		)
	}
}

// Dispatch runs the handlers bound to key, in bind order.
// key may be a raw shortcut or an already normalized key string.
// Returns false when nothing is bound.
func (m *Manager) Dispatch(key string) bool {
	normalized := Normalize(key)
	if normalized == "" {
		// Terminals report a bare space as " "
		normalized = key
	}

	m.mu.RLock()
	handlers := append([]func(){}, m.handlers[normalized]...)
	m.mu.RUnlock()

	for _, h := range handlers {
		h()
	}
	return len(handlers) > 0
}

// Bound returns how many handlers are bound to shortcut
func (m *Manager) Bound(shortcut string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[Normalize(shortcut)])
}

// Shortcuts returns every bound shortcut, sorted
func (m *Manager) Shortcuts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.handlers))
	for k := range m.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
