package tui

import (
	"fmt"
	"math"

	"github.com/studiowebux/keyactions/internal/entrypoints"
)

// The browser stands in for the note client: every command keyboard
// actions trigger changes visible browser state.

var dialogTitles = map[entrypoints.Dialog]string{
	entrypoints.DialogAddLink:       "Add link",
	entrypoints.DialogJumpToNote:    "Jump to note",
	entrypoints.DialogRecentChanges: "Recent changes",
	entrypoints.DialogAttributes:    "Attributes",
	entrypoints.DialogNoteInfo:      "Note info",
	entrypoints.DialogNoteRevisions: "Note revisions",
	entrypoints.DialogNoteSource:    "Note source",
	entrypoints.DialogLinkMap:       "Link map",
	entrypoints.DialogOptions:       "Options",
	entrypoints.DialogHelp:          "Help",
	entrypoints.DialogSQLConsole:    "SQL console",
	entrypoints.DialogCloneTo:       "Clone notes to",
	entrypoints.DialogMoveTo:        "Move notes to",
}

// ShowDialog opens dialog; the help dialog shows the shortcut reference
func (m *Model) ShowDialog(dialog entrypoints.Dialog) {
	if dialog == entrypoints.DialogHelp {
		m.mode = ModeHelp
		m.helpView.GotoTop()
		return
	}
	m.dialog = dialog
	m.mode = ModeDialog
}

// ToggleSearch opens or closes the search input
func (m *Model) ToggleSearch() {
	if m.mode == ModeSearch {
		m.mode = ModeNormal
		return
	}
	m.mode = ModeSearch
}

// ToggleZenMode hides everything except the action list
func (m *Model) ToggleZenMode() {
	m.zen = !m.zen
}

// InsertText appends text to the note line
func (m *Model) InsertText(text string) {
	m.note += text
	m.pendingStatus = fmt.Sprintf("Inserted %q", text)
}

// ReloadApp exits the program so it is started again with a fresh catalog
func (m *Model) ReloadApp() {
	m.reload = true
}

// HistoryBack selects the previously opened action
func (m *Model) HistoryBack() {
	if m.historyPos <= 0 {
		return
	}
	m.historyPos--
	m.selectAction(m.history[m.historyPos])
}

// HistoryForward selects the next opened action
func (m *Model) HistoryForward() {
	if m.historyPos >= len(m.history)-1 {
		return
	}
	m.historyPos++
	m.selectAction(m.history[m.historyPos])
}

// ToggleDevTools shows binding diagnostics
func (m *Model) ToggleDevTools() {
	m.devTools = !m.devTools
}

// OpenFindWindow opens the search input
func (m *Model) OpenFindWindow() {
	m.mode = ModeSearch
}

// ToggleFullscreen hides the status bar and header
func (m *Model) ToggleFullscreen() {
	m.fullscreen = !m.fullscreen
}

// ZoomIn widens the action list
func (m *Model) ZoomIn() {
	m.setZoom(m.zoom + zoomStep)
}

// ZoomOut narrows the action list
func (m *Model) ZoomOut() {
	m.setZoom(m.zoom - zoomStep)
}

func (m *Model) setZoom(zoom float64) {
	zoom = math.Round(zoom*10) / 10
	m.zoom = math.Min(zoomMax, math.Max(zoomMin, zoom))
	m.pendingStatus = fmt.Sprintf("Zoom %.0f%%", m.zoom*100)
}

// pushHistory records name as the current history entry, dropping any
// forward entries
func (m *Model) pushHistory(name string) {
	if len(m.history) > 0 && m.history[m.historyPos] == name {
		return
	}
	if len(m.history) > 0 {
		m.history = m.history[:m.historyPos+1]
	}
	m.history = append(m.history, name)
	m.historyPos = len(m.history) - 1
}

// selectAction moves the cursor to name, clearing the search if it hides it
func (m *Model) selectAction(name string) {
	for pass := 0; pass < 2; pass++ {
		for i, idx := range m.visible {
			if m.actions[idx].ActionName == name {
				m.cursor = i
				m.ensureCursorVisible()
				return
			}
		}
		m.searchQuery = ""
		m.applySearch()
	}
}
