package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/keyactions/internal/entrypoints"
	"github.com/studiowebux/keyactions/internal/keybinds"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

func defaultsSource() keybinds.Source {
	return keybinds.SourceFunc(func(context.Context) ([]keybinds.Definition, error) {
		return keybinds.DefaultDefinitions(), nil
	})
}

// createTestModel creates a model that has not loaded its catalog yet
func createTestModel(t *testing.T, src keybinds.Source) *Model {
	t.Helper()

	m, err := New(Config{
		Source:  src,
		Desktop: true,
		Logger:  zap.NewNop(),
		Now:     func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// loadTestModel drives the model through catalog load and binder settle
func loadTestModel(t *testing.T, m *Model) {
	t.Helper()

	m.Update(m.loadCatalog()())

	select {
	case <-m.binder.Settled():
	case <-time.After(2 * time.Second):
		t.Fatal("binder did not settle")
	}
	m.Update(bindingsSettledMsg{})
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func assertField[T comparable](t *testing.T, name string, got, expected T) {
	t.Helper()
	if got != expected {
		t.Errorf("%s = %v, want %v", name, got, expected)
	}
}

func TestNew_QueuesBindingsUntilLoaded(t *testing.T) {
	m := createTestModel(t, defaultsSource())

	assertField(t, "mode", m.mode, ModeLoading)
	assertField(t, "pending", m.binder.Pending(), len(entrypoints.Actions(entrypoints.Options{Desktop: true})))

	// Shortcuts are not bound yet
	press(m, tea.KeyMsg{Type: tea.KeyCtrlJ})
	assertField(t, "mode after ctrl+j", m.mode, ModeLoading)

	if !strings.Contains(m.View(), "Loading") {
		t.Errorf("loading view = %q", m.View())
	}
}

func TestModel_LoadsAndBinds(t *testing.T) {
	m := createTestModel(t, defaultsSource())
	loadTestModel(t, m)

	assertField(t, "mode", m.mode, ModeNormal)
	assertField(t, "actions", len(m.actions), len(keybinds.DefaultDefinitions()))
	assertField(t, "visible", len(m.visible), len(m.actions))
	assertField(t, "pending", m.binder.Pending(), 0)

	for _, action := range m.catalog.Actions() {
		if !action.HasHandler() {
			t.Errorf("action %s has no handler", action.Name())
		}
	}
}

func TestModel_ShortcutOpensDialog(t *testing.T) {
	m := createTestModel(t, defaultsSource())
	loadTestModel(t, m)

	press(m, tea.KeyMsg{Type: tea.KeyCtrlJ})
	assertField(t, "mode", m.mode, ModeDialog)
	assertField(t, "dialog", m.dialog, entrypoints.DialogJumpToNote)

	if !strings.Contains(m.View(), "Jump to note") {
		t.Error("dialog view missing title")
	}

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assertField(t, "mode after esc", m.mode, ModeNormal)
}

func TestModel_HelpShortcut(t *testing.T) {
	m := createTestModel(t, defaultsSource())
	loadTestModel(t, m)

	press(m, tea.KeyMsg{Type: tea.KeyF1})
	assertField(t, "mode", m.mode, ModeHelp)

	press(m, runes("?"))
	assertField(t, "mode after ?", m.mode, ModeNormal)
}

func TestModel_InsertDateTime(t *testing.T) {
	m := createTestModel(t, defaultsSource())
	loadTestModel(t, m)

	cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}, Alt: true})
	assertField(t, "note", m.note, "2024-03-09 14:05")
	if cmd == nil {
		t.Error("expected a status message timer")
	}
	if !strings.Contains(m.statusMsg, "2024-03-09 14:05") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestModel_EnterTriggersSelected(t *testing.T) {
	m := createTestModel(t, defaultsSource())
	loadTestModel(t, m)

	first, _ := m.selected()
	assertField(t, "first action", first.ActionName, keybinds.ActionJumpToNote)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assertField(t, "mode", m.mode, ModeDialog)
	assertField(t, "history length", len(m.history), 1)
}

func TestModel_Search(t *testing.T) {
	m := createTestModel(t, defaultsSource())
	loadTestModel(t, m)

	press(m, runes("/"))
	assertField(t, "mode", m.mode, ModeSearch)

	for _, r := range "zoomo" {
		press(m, runes(string(r)))
	}
	assertField(t, "query", m.searchQuery, "zoomo")
	assertField(t, "visible", len(m.visible), 2)

	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assertField(t, "query after backspace", m.searchQuery, "zoom")

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assertField(t, "mode after enter", m.mode, ModeNormal)

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assertField(t, "query after esc", m.searchQuery, "")
	assertField(t, "visible after esc", len(m.visible), len(m.actions))
}

func TestModel_Navigation(t *testing.T) {
	m := createTestModel(t, defaultsSource())
	loadTestModel(t, m)

	press(m, runes("j"))
	press(m, runes("j"))
	assertField(t, "cursor", m.cursor, 2)

	press(m, runes("k"))
	assertField(t, "cursor after k", m.cursor, 1)

	press(m, runes("G"))
	assertField(t, "cursor at end", m.cursor, len(m.visible)-1)

	press(m, runes("g"))
	assertField(t, "cursor at top", m.cursor, 0)
}

func TestModel_ReloadQuits(t *testing.T) {
	m := createTestModel(t, defaultsSource())
	loadTestModel(t, m)

	cmd := press(m, tea.KeyMsg{Type: tea.KeyF5})
	if !m.ReloadRequested() {
		t.Fatal("F5 should request a reload")
	}
	if cmd == nil {
		t.Fatal("reload should quit the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("reload command is not tea.Quit")
	}
}

func TestModel_LoadFailure(t *testing.T) {
	m := createTestModel(t, keybinds.SourceFunc(func(context.Context) ([]keybinds.Definition, error) {
		return nil, errors.New("connection refused")
	}))
	loadTestModel(t, m)

	assertField(t, "mode", m.mode, ModeNormal)
	assertField(t, "actions", len(m.actions), 0)

	msg, ok := m.waitBindError()().(bindErrorMsg)
	if !ok {
		t.Fatal("expected a bind error message")
	}
	if !errors.Is(msg.err, keybinds.ErrLoadFailed) {
		t.Errorf("bind error = %v, want ErrLoadFailed", msg.err)
	}

	m.Update(msg)
	if m.errorMsg == "" {
		t.Error("bind error not shown in the status bar")
	}
}

func TestModel_DesktopDefaultsReachable(t *testing.T) {
	m := createTestModel(t, defaultsSource())
	loadTestModel(t, m)

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'='}, Alt: true})
	assertField(t, "zoom after alt+=", m.zoom, 1.1)

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}, Alt: true})
	assertField(t, "zoom after alt+-", m.zoom, 1.0)

	press(m, tea.KeyMsg{Type: tea.KeyF12})
	assertField(t, "devTools after f12", m.devTools, true)
}

func TestCommands_ZoomClamps(t *testing.T) {
	m := createTestModel(t, defaultsSource())

	m.ZoomIn()
	assertField(t, "zoom", m.zoom, 1.1)

	for i := 0; i < 20; i++ {
		m.ZoomIn()
	}
	assertField(t, "zoom max", m.zoom, zoomMax)

	for i := 0; i < 30; i++ {
		m.ZoomOut()
	}
	assertField(t, "zoom min", m.zoom, zoomMin)
}

func TestCommands_History(t *testing.T) {
	m := createTestModel(t, defaultsSource())
	loadTestModel(t, m)

	m.pushHistory(keybinds.ActionShowHelp)
	m.pushHistory(keybinds.ActionZoomIn)

	m.HistoryBack()
	def, _ := m.selected()
	assertField(t, "after back", def.ActionName, keybinds.ActionShowHelp)

	m.HistoryBack()
	assertField(t, "history position", m.historyPos, 0)

	m.HistoryForward()
	def, _ = m.selected()
	assertField(t, "after forward", def.ActionName, keybinds.ActionZoomIn)

	// A new entry drops the forward history
	m.HistoryBack()
	m.pushHistory(keybinds.ActionReloadApp)
	assertField(t, "history length", len(m.history), 2)
}

func TestCommands_Toggles(t *testing.T) {
	m := createTestModel(t, defaultsSource())
	loadTestModel(t, m)

	m.ToggleZenMode()
	m.ToggleFullscreen()
	m.ToggleDevTools()
	assertField(t, "zen", m.zen, true)
	assertField(t, "fullscreen", m.fullscreen, true)
	assertField(t, "devTools", m.devTools, true)

	if view := m.View(); strings.Contains(view, "enter: run") {
		t.Error("fullscreen view should hide the status bar")
	}

	m.ToggleSearch()
	assertField(t, "search", m.mode, ModeSearch)
	m.ToggleSearch()
	assertField(t, "search closed", m.mode, ModeNormal)
}
