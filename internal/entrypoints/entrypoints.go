// Package entrypoints wires every keyboard action the note client knows
// about to the command that carries it out.
package entrypoints

import (
	"errors"
	"time"

	"github.com/studiowebux/keyactions/internal/keybinds"
)

// Dialog identifies a dialog the client can open
type Dialog string

const (
	DialogAddLink       Dialog = "add-link"
	DialogJumpToNote    Dialog = "jump-to-note"
	DialogRecentChanges Dialog = "recent-changes"
	DialogAttributes    Dialog = "attributes"
	DialogNoteInfo      Dialog = "note-info"
	DialogNoteRevisions Dialog = "note-revisions"
	DialogNoteSource    Dialog = "note-source"
	DialogLinkMap       Dialog = "link-map"
	DialogOptions       Dialog = "options"
	DialogHelp          Dialog = "help"
	DialogSQLConsole    Dialog = "sql-console"
	DialogCloneTo       Dialog = "clone-to"
	DialogMoveTo        Dialog = "move-to"
)

// DateTimeLayout is the format used when inserting the current date and time
const DateTimeLayout = "2006-01-02 15:04"

// Commands is the set of client operations keyboard actions trigger
type Commands interface {
	ShowDialog(dialog Dialog)
	ToggleSearch()
	ToggleZenMode()
	InsertText(text string)
	ReloadApp()
}

// DesktopCommands are only available when running as a desktop app
type DesktopCommands interface {
	HistoryBack()
	HistoryForward()
	ToggleDevTools()
	OpenFindWindow()
	ToggleFullscreen()
	ZoomIn()
	ZoomOut()
}

// Binder is the part of keybinds.Binder used here
type Binder interface {
	Bind(name string, handler keybinds.Handler) error
}

// Options controls which actions are registered
type Options struct {
	// Desktop registers the desktop-only actions; cmds must then also
	// implement DesktopCommands.
	Desktop bool

	// Now returns the time inserted by InsertDateTime. Defaults to time.Now.
	Now func() time.Time
}

// ErrNoDesktopCommands is returned when Desktop is set but the commands
// cannot drive a desktop window
var ErrNoDesktopCommands = errors.New("desktop actions requested but commands do not implement DesktopCommands")

type entry struct {
	action  string
	handler keybinds.Handler
}

// Register binds every action to its command. Bindings are requested in a
// fixed order and may be made before the catalog has loaded; failures
// that only show up once it has are reported by the binder.
func Register(b Binder, cmds Commands, opts Options) error {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	dialog := func(d Dialog) keybinds.Handler {
		return func() { cmds.ShowDialog(d) }
	}

	entries := []entry{
		{keybinds.ActionAddLinkToText, dialog(DialogAddLink)},
		{keybinds.ActionJumpToNote, dialog(DialogJumpToNote)},
		{keybinds.ActionShowRecentChanges, dialog(DialogRecentChanges)},
		{keybinds.ActionSearchNotes, cmds.ToggleSearch},
		{keybinds.ActionShowAttributes, dialog(DialogAttributes)},
		{keybinds.ActionShowNoteInfo, dialog(DialogNoteInfo)},
		{keybinds.ActionShowNoteRevisions, dialog(DialogNoteRevisions)},
		{keybinds.ActionShowNoteSource, dialog(DialogNoteSource)},
		{keybinds.ActionShowLinkMap, dialog(DialogLinkMap)},
		{keybinds.ActionShowOptions, dialog(DialogOptions)},
		{keybinds.ActionShowHelp, dialog(DialogHelp)},
		{keybinds.ActionShowSQLConsole, dialog(DialogSQLConsole)},
	}

	var desktop DesktopCommands
	if opts.Desktop {
		var ok bool
		if desktop, ok = cmds.(DesktopCommands); !ok {
			return ErrNoDesktopCommands
		}
		entries = append(entries,
			entry{keybinds.ActionBackInNoteHistory, desktop.HistoryBack},
			entry{keybinds.ActionForwardInNoteHistory, desktop.HistoryForward},
		)
	}

	entries = append(entries,
		entry{keybinds.ActionToggleZenMode, cmds.ToggleZenMode},
		entry{keybinds.ActionInsertDateTime, func() {
			cmds.InsertText(now().Format(DateTimeLayout))
		}},
		entry{keybinds.ActionReloadApp, cmds.ReloadApp},
	)

	if desktop != nil {
		entries = append(entries,
			entry{keybinds.ActionOpenDevTools, desktop.ToggleDevTools},
			entry{keybinds.ActionFindInText, desktop.OpenFindWindow},
			entry{keybinds.ActionToggleFullscreen, desktop.ToggleFullscreen},
			entry{keybinds.ActionZoomOut, desktop.ZoomOut},
			entry{keybinds.ActionZoomIn, desktop.ZoomIn},
		)
	}

	entries = append(entries,
		entry{keybinds.ActionCloneNotesTo, dialog(DialogCloneTo)},
		entry{keybinds.ActionMoveNotesTo, dialog(DialogMoveTo)},
	)

	var errs []error
	for _, e := range entries {
		if err := b.Bind(e.action, e.handler); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Actions returns the action names Register binds for opts, in bind order
func Actions(opts Options) []string {
	rec := &nameRecorder{}
	if err := Register(rec, noopCommands{}, opts); err != nil {
		// nameRecorder never fails and noopCommands implements DesktopCommands
		panic(err)
	}
	return rec.names
}

type nameRecorder struct {
	names []string
}

func (r *nameRecorder) Bind(name string, _ keybinds.Handler) error {
	r.names = append(r.names, name)
	return nil
}

type noopCommands struct{}

var _ DesktopCommands = noopCommands{}

func (noopCommands) ShowDialog(Dialog) {}
func (noopCommands) ToggleSearch()     {}
func (noopCommands) ToggleZenMode()    {}
func (noopCommands) InsertText(string) {}
func (noopCommands) ReloadApp()        {}
func (noopCommands) HistoryBack()      {}
func (noopCommands) HistoryForward()   {}
func (noopCommands) ToggleDevTools()   {}
func (noopCommands) OpenFindWindow()   {}
func (noopCommands) ToggleFullscreen() {}
func (noopCommands) ZoomIn()           {}
func (noopCommands) ZoomOut()          {}
