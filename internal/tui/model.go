package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/keyactions/internal/entrypoints"
	"github.com/studiowebux/keyactions/internal/keybinds"
	"github.com/studiowebux/keyactions/internal/shortcuts"
	"go.uber.org/zap"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeLoading Mode = iota
	ModeNormal
	ModeSearch
	ModeDialog
	ModeHelp
)

const (
	zoomStep = 0.1
	zoomMin  = 0.3
	zoomMax  = 2.0
)

// Model represents the TUI state
type Model struct {
	// Core state
	catalog   *keybinds.Catalog
	binder    *keybinds.Binder
	shortcuts *shortcuts.Manager
	source    keybinds.Source
	bindErrs  <-chan error
	logger    *zap.Logger
	desktop   bool
	mode      Mode

	// Action list
	actions     []keybinds.Definition
	visible     []int  // Indices into actions matching the search
	cursor      int    // Position in visible
	offset      int    // Scroll offset for the list
	searchQuery string // Fuzzy search query

	// Client state driven by keyboard actions
	dialog     entrypoints.Dialog
	zen        bool
	fullscreen bool
	devTools   bool
	zoom       float64
	history    []string // Actions opened with enter, most recent last
	historyPos int
	note       string // Text inserted by InsertDateTime
	reload     bool

	// UI state
	width         int
	height        int
	statusMsg     string
	errorMsg      string
	pendingStatus string // Set by commands, shown once the key is handled
	helpView      viewport.Model
}

// Init starts loading the catalog and listening for bind results
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadCatalog(),
		m.waitSettled(),
		m.waitBindError(),
	)
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)
		if m.reload {
			cmd = tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.helpView.Width = m.width - 4
		m.helpView.Height = m.height - 4
		m.updateHelpView()

	case catalogLoadedMsg:
		if msg.err != nil {
			m.logger.Error("failed to load keyboard actions", zap.Error(msg.err))
			cmd = m.setErrorMessage(msg.err.Error())
		}

	case bindingsSettledMsg:
		m.mode = ModeNormal
		m.actions = m.catalog.Definitions()
		m.applySearch()
		m.updateHelpView()
		if m.catalog.Err() == nil {
			cmd = m.setStatusMessage(fmt.Sprintf("Loaded %d keyboard actions", len(m.actions)))
		}

	case bindErrorMsg:
		m.logger.Warn("keyboard action binding failed", zap.Error(msg.err))
		cmd = tea.Batch(m.setErrorMessage(msg.err.Error()), m.waitBindError())

	case clearStatusMsg:
		m.statusMsg = ""

	case clearErrorMsg:
		m.errorMsg = ""
	}

	return m, cmd
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeLoading:
		return m.renderLoading()
	case ModeHelp:
		return m.renderHelp()
	case ModeDialog:
		return m.renderDialog()
	default:
		return m.renderMain()
	}
}

// ReloadRequested reports whether the program exited to be restarted
func (m *Model) ReloadRequested() bool {
	return m.reload
}

func (m *Model) loadCatalog() tea.Cmd {
	catalog, source := m.catalog, m.source
	return func() tea.Msg {
		return catalogLoadedMsg{err: catalog.Load(context.Background(), source)}
	}
}

func (m *Model) waitSettled() tea.Cmd {
	settled := m.binder.Settled()
	return func() tea.Msg {
		<-settled
		return bindingsSettledMsg{}
	}
}

func (m *Model) waitBindError() tea.Cmd {
	errs := m.bindErrs
	if errs == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-errs
		if !ok {
			return nil
		}
		return bindErrorMsg{err: err}
	}
}

// Custom message types
type catalogLoadedMsg struct {
	err error
}

type bindingsSettledMsg struct{}

type bindErrorMsg struct {
	err error
}

type clearStatusMsg struct{}
type clearErrorMsg struct{}

const messageTimeout = 5 * time.Second

// Helper methods for setting messages with a timeout
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.statusMsg = truncate(msg, 100)
	return tea.Tick(messageTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.errorMsg = truncate(msg, 100)
	return tea.Tick(messageTimeout, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}
