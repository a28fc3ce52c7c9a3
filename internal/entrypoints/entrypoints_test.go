package entrypoints

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/studiowebux/keyactions/internal/keybinds"
	"github.com/studiowebux/keyactions/internal/shortcuts"
	"go.uber.org/zap"
)

type recordingCommands struct {
	calls []string
}

func (c *recordingCommands) ShowDialog(d Dialog) { c.calls = append(c.calls, "dialog:"+string(d)) }
func (c *recordingCommands) ToggleSearch()       { c.calls = append(c.calls, "search") }
func (c *recordingCommands) ToggleZenMode()      { c.calls = append(c.calls, "zen") }
func (c *recordingCommands) InsertText(t string) { c.calls = append(c.calls, "insert:"+t) }
func (c *recordingCommands) ReloadApp()          { c.calls = append(c.calls, "reload") }
func (c *recordingCommands) HistoryBack()        { c.calls = append(c.calls, "back") }
func (c *recordingCommands) HistoryForward()     { c.calls = append(c.calls, "forward") }
func (c *recordingCommands) ToggleDevTools()     { c.calls = append(c.calls, "devtools") }
func (c *recordingCommands) OpenFindWindow()     { c.calls = append(c.calls, "find") }
func (c *recordingCommands) ToggleFullscreen()   { c.calls = append(c.calls, "fullscreen") }
func (c *recordingCommands) ZoomIn()             { c.calls = append(c.calls, "zoom-in") }
func (c *recordingCommands) ZoomOut()            { c.calls = append(c.calls, "zoom-out") }

type webCommands struct{}

func (webCommands) ShowDialog(Dialog) {}
func (webCommands) ToggleSearch()     {}
func (webCommands) ToggleZenMode()    {}
func (webCommands) InsertText(string) {}
func (webCommands) ReloadApp()        {}

var desktopOnly = []string{
	keybinds.ActionBackInNoteHistory,
	keybinds.ActionForwardInNoteHistory,
	keybinds.ActionOpenDevTools,
	keybinds.ActionFindInText,
	keybinds.ActionToggleFullscreen,
	keybinds.ActionZoomOut,
	keybinds.ActionZoomIn,
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func TestActions_RecorderRegistersCleanly(t *testing.T) {
	for _, opts := range []Options{{}, {Desktop: true}} {
		if err := Register(&nameRecorder{}, noopCommands{}, opts); err != nil {
			t.Errorf("Register(desktop=%v) error = %v", opts.Desktop, err)
		}
	}
}

func TestActions_DesktopOnly(t *testing.T) {
	web := Actions(Options{})
	desktop := Actions(Options{Desktop: true})

	if len(desktop) != len(keybinds.DefaultDefinitions()) {
		t.Errorf("desktop registers %d actions, want all %d", len(desktop), len(keybinds.DefaultDefinitions()))
	}
	if len(web) != len(desktop)-len(desktopOnly) {
		t.Errorf("web registers %d actions, want %d", len(web), len(desktop)-len(desktopOnly))
	}

	for _, name := range desktopOnly {
		if contains(web, name) {
			t.Errorf("web registration includes desktop-only action %s", name)
		}
		if !contains(desktop, name) {
			t.Errorf("desktop registration missing %s", name)
		}
	}

	for _, name := range desktop {
		if !keybinds.IsDefaultAction(name) {
			t.Errorf("registered action %s has no default definition", name)
		}
	}
}

func TestRegister_RequiresDesktopCommands(t *testing.T) {
	err := Register(&nameRecorder{}, webCommands{}, Options{Desktop: true})
	if !errors.Is(err, ErrNoDesktopCommands) {
		t.Errorf("Register() error = %v, want ErrNoDesktopCommands", err)
	}

	if err := Register(&nameRecorder{}, webCommands{}, Options{}); err != nil {
		t.Errorf("Register() without desktop error = %v", err)
	}
}

func TestRegister_DispatchesToCommands(t *testing.T) {
	catalog := keybinds.NewCatalog()
	manager := shortcuts.NewManager().WithLogger(zap.NewNop())
	binder := keybinds.NewBinder(catalog, manager,
		keybinds.WithBinderLogger(zap.NewNop()),
		keybinds.WithErrorHandler(func(err error) {
			t.Errorf("unexpected bind error: %v", err)
		}),
	)

	cmds := &recordingCommands{}
	fixed := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	if err := Register(binder, cmds, Options{Desktop: true, Now: func() time.Time { return fixed }}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	src := keybinds.SourceFunc(func(context.Context) ([]keybinds.Definition, error) {
		return keybinds.DefaultDefinitions(), nil
	})
	if err := catalog.Load(context.Background(), src); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	select {
	case <-binder.Settled():
	case <-time.After(2 * time.Second):
		t.Fatal("binder did not settle")
	}

	tests := []struct {
		key      string
		expected string
	}{
		{"ctrl+j", "dialog:jump-to-note"},
		{"f1", "dialog:help"},
		{"alt+t", "insert:2024-03-09 14:05"},
		{"f5", "reload"},
		{"alt+=", "zoom-in"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cmds.calls = nil
			if !manager.Dispatch(tt.key) {
				t.Fatalf("Dispatch(%q) found no handler", tt.key)
			}
			if !reflect.DeepEqual(cmds.calls, []string{tt.expected}) {
				t.Errorf("calls = %v, want [%s]", cmds.calls, tt.expected)
			}
		})
	}

	action, _ := catalog.Lookup(keybinds.ActionToggleZenMode)
	cmds.calls = nil
	if !action.Trigger() || !reflect.DeepEqual(cmds.calls, []string{"zen"}) {
		t.Errorf("triggering ToggleZenMode called %v", cmds.calls)
	}
}
