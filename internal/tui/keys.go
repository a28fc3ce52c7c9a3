package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/keyactions/internal/filter"
)

// handleKeyPress routes a key to the handler for the current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	// ctrl+c always quits, even while loading
	if key == "ctrl+c" {
		return tea.Quit
	}

	switch m.mode {
	case ModeLoading:
		if key == "q" {
			return tea.Quit
		}
		return nil
	case ModeSearch:
		return m.handleSearchKeys(msg)
	case ModeDialog:
		return m.handleDialogKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
		return nil

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
		return nil

	case "home", "g":
		m.cursor = 0
		m.ensureCursorVisible()
		return nil

	case "end", "G":
		m.cursor = max(0, len(m.visible)-1)
		m.ensureCursorVisible()
		return nil

	case "/":
		m.mode = ModeSearch
		return nil

	case "esc":
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.applySearch()
		}
		return nil

	case "?":
		m.mode = ModeHelp
		m.helpView.GotoTop()
		return nil

	case "enter":
		return m.triggerSelected()

	case "y":
		return m.copySelectedShortcuts()
	}

	return m.dispatchShortcut(msg)
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchQuery = ""
		m.applySearch()
		m.mode = ModeNormal
	case tea.KeyEnter:
		m.mode = ModeNormal
	case tea.KeyBackspace:
		if len(m.searchQuery) > 0 {
			runes := []rune(m.searchQuery)
			m.searchQuery = string(runes[:len(runes)-1])
			m.applySearch()
		}
	case tea.KeyRunes, tea.KeySpace:
		if msg.Alt {
			return m.dispatchShortcut(msg)
		}
		m.searchQuery += string(msg.Runes)
		m.applySearch()
	default:
		return m.dispatchShortcut(msg)
	}
	return nil
}

func (m *Model) handleDialogKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "enter":
		m.mode = ModeNormal
		m.dialog = ""
		return nil
	}
	// Shortcuts stay live inside dialogs
	return m.dispatchShortcut(msg)
}

func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "?":
		m.mode = ModeNormal
		return nil
	case "up", "k":
		m.helpView.ScrollUp(1)
		return nil
	case "down", "j":
		m.helpView.ScrollDown(1)
		return nil
	case "pgup":
		m.helpView.PageUp()
		return nil
	case "pgdown":
		m.helpView.PageDown()
		return nil
	}
	return m.dispatchShortcut(msg)
}

// dispatchShortcut runs the handlers bound to the key, if any
func (m *Model) dispatchShortcut(msg tea.KeyMsg) tea.Cmd {
	if !m.shortcuts.Dispatch(msg.String()) {
		return nil
	}
	return m.flushStatus()
}

// flushStatus shows the message left by the last command, if any
func (m *Model) flushStatus() tea.Cmd {
	if m.pendingStatus == "" {
		return nil
	}
	msg := m.pendingStatus
	m.pendingStatus = ""
	return m.setStatusMessage(msg)
}

// triggerSelected runs the handler of the selected action
func (m *Model) triggerSelected() tea.Cmd {
	def, ok := m.selected()
	if !ok {
		return nil
	}

	action, ok := m.catalog.Lookup(def.ActionName)
	if !ok || !action.Trigger() {
		return m.setErrorMessage(fmt.Sprintf("No handler bound to %s", def.ActionName))
	}

	m.pushHistory(def.ActionName)
	return m.flushStatus()
}

func (m *Model) copySelectedShortcuts() tea.Cmd {
	def, ok := m.selected()
	if !ok {
		return nil
	}

	text := strings.Join(def.EffectiveShortcuts, ", ")
	if err := clipboard.WriteAll(text); err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to copy: %v", err))
	}
	return m.setStatusMessage(fmt.Sprintf("Shortcuts for %s copied to clipboard", def.ActionName))
}

// applySearch recomputes the visible actions from the search query
func (m *Model) applySearch() {
	m.visible = m.visible[:0]
	matches := filter.Fuzzy(m.actions, m.searchQuery)

	index := make(map[string]int, len(m.actions))
	for i, def := range m.actions {
		index[def.ActionName] = i
	}
	for _, def := range matches {
		m.visible = append(m.visible, index[def.ActionName])
	}

	if m.cursor >= len(m.visible) {
		m.cursor = max(0, len(m.visible)-1)
	}
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	height := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}
