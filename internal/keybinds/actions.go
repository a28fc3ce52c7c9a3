package keybinds

import "sync"

// Handler is the behavior executed when an action is triggered
type Handler = func()

// Names of the keyboard actions the note client registers handlers for
const (
	// Dialogs
	ActionAddLinkToText     = "AddLinkToText"     // Insert a link to another note
	ActionJumpToNote        = "JumpToNote"        // Open the jump-to-note dialog
	ActionShowRecentChanges = "ShowRecentChanges" // Recent changes dialog
	ActionShowAttributes    = "ShowAttributes"    // Attributes of the active note
	ActionShowNoteInfo      = "ShowNoteInfo"      // Note info dialog
	ActionShowNoteRevisions = "ShowNoteRevisions" // Revisions of the active note
	ActionShowNoteSource    = "ShowNoteSource"    // Raw source of the active note
	ActionShowLinkMap       = "ShowLinkMap"       // Link map of the active note
	ActionShowOptions       = "ShowOptions"       // Options dialog
	ActionShowHelp          = "ShowHelp"          // Help dialog
	ActionShowSQLConsole    = "ShowSQLConsole"    // SQL console
	ActionCloneNotesTo      = "CloneNotesTo"      // Clone selected notes
	ActionMoveNotesTo       = "MoveNotesTo"       // Move selected notes

	// Search and editing
	ActionSearchNotes    = "SearchNotes"    // Toggle the search panel
	ActionInsertDateTime = "InsertDateTime" // Insert current date and time at the cursor
	ActionFindInText     = "FindInText"     // Find in page (desktop)

	// Application
	ActionToggleZenMode        = "ToggleZenMode"
	ActionReloadApp            = "ReloadApp"
	ActionBackInNoteHistory    = "BackInNoteHistory"    // desktop
	ActionForwardInNoteHistory = "ForwardInNoteHistory" // desktop
	ActionOpenDevTools         = "OpenDevTools"         // desktop
	ActionToggleFullscreen     = "ToggleFullscreen"     // desktop
	ActionZoomOut              = "ZoomOut"              // desktop
	ActionZoomIn               = "ZoomIn"               // desktop
)

// Definition is one record returned by the keyboard-actions provider
type Definition struct {
	ActionName         string   `json:"actionName" yaml:"actionName"`
	DefaultShortcuts   []string `json:"defaultShortcuts" yaml:"defaultShortcuts"`
	EffectiveShortcuts []string `json:"effectiveShortcuts" yaml:"effectiveShortcuts"`
	Description        string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// Action is a named, user-triggerable capability.
//
// The name, description and default shortcuts never change after the
// action is created. Effective shortcuts and the handler may be changed at
// any time and are guarded by a lock.
type Action struct {
	name        string
	description string

	defaultShortcuts []string

	mu                 sync.RWMutex
	effectiveShortcuts []string
	handler            Handler
}

// NewAction creates an action from a provider definition
func NewAction(def Definition) *Action {
	return &Action{
		name:               def.ActionName,
		description:        def.Description,
		defaultShortcuts:   cloneStrings(def.DefaultShortcuts),
		effectiveShortcuts: cloneStrings(def.EffectiveShortcuts),
	}
}

// Name returns the action name
func (a *Action) Name() string {
	return a.name
}

// Description returns the human-readable description
func (a *Action) Description() string {
	return a.description
}

// DefaultShortcuts returns a copy of the author-specified default shortcuts
func (a *Action) DefaultShortcuts() []string {
	return cloneStrings(a.defaultShortcuts)
}

// EffectiveShortcuts returns a copy of the currently active shortcuts
func (a *Action) EffectiveShortcuts() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return cloneStrings(a.effectiveShortcuts)
}

// AddShortcut appends a shortcut to the effective shortcuts.
// An already attached handler is not bound to the new shortcut; that only
// happens on the next Binder.Bind for this action.
func (a *Action) AddShortcut(shortcut string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.effectiveShortcuts = append(a.effectiveShortcuts, shortcut)
}

// ReplaceShortcuts replaces the effective shortcuts wholesale.
// A single argument yields a one-element list.
func (a *Action) ReplaceShortcuts(shortcuts ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.effectiveShortcuts = cloneStrings(shortcuts)
}

// Handler returns the attached handler, or nil
func (a *Action) Handler() Handler {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.handler
}

// HasHandler reports whether a handler is attached
func (a *Action) HasHandler() bool {
	return a.Handler() != nil
}

// Trigger runs the attached handler, as a button or menu item would.
// Returns false when no handler is attached.
func (a *Action) Trigger() bool {
	h := a.Handler()
	if h == nil {
		return false
	}
	h()
	return true
}

// Definition returns a snapshot of the action in provider format
func (a *Action) Definition() Definition {
	return Definition{
		ActionName:         a.name,
		DefaultShortcuts:   a.DefaultShortcuts(),
		EffectiveShortcuts: a.EffectiveShortcuts(),
		Description:        a.description,
	}
}

func (a *Action) setHandler(h Handler) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = h
	return cloneStrings(a.effectiveShortcuts)
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
