package keybinds

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

type boundShortcut struct {
	shortcut string
	handler  Handler
}

// recorder captures shortcut bindings and asynchronous bind errors
type recorder struct {
	mu     sync.Mutex
	bound  []boundShortcut
	errors []error
}

func (r *recorder) BindShortcut(shortcut string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bound = append(r.bound, boundShortcut{shortcut: shortcut, handler: handler})
}

func (r *recorder) onError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

func (r *recorder) shortcuts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, b := range r.bound {
		out = append(out, b.shortcut)
	}
	return out
}

func (r *recorder) errs() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errors...)
}

func newTestBinder(c *Catalog) (*Binder, *recorder) {
	rec := &recorder{}
	return NewBinder(c, rec, WithErrorHandler(rec.onError)), rec
}

func waitSettled(t *testing.T, b *Binder) {
	t.Helper()
	select {
	case <-b.Settled():
	case <-time.After(2 * time.Second):
		t.Fatal("binder did not settle")
	}
}

func loadCatalog(t *testing.T, c *Catalog, defs ...Definition) {
	t.Helper()
	if err := c.Load(context.Background(), staticSource(defs...)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestBinder_BindBeforeLoad(t *testing.T) {
	c := NewCatalog()
	b, rec := newTestBinder(c)

	ran := ""
	if err := b.Bind("Save", func() { ran = "save" }); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if b.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", b.Pending())
	}

	loadCatalog(t, c, Definition{ActionName: "Save", EffectiveShortcuts: []string{"ctrl+s"}})
	waitSettled(t, b)

	if got := rec.shortcuts(); !reflect.DeepEqual(got, []string{"ctrl+s"}) {
		t.Fatalf("bound shortcuts = %v, want exactly [ctrl+s]", got)
	}
	if errs := rec.errs(); len(errs) != 0 {
		t.Fatalf("unexpected bind errors: %v", errs)
	}

	rec.bound[0].handler()
	if ran != "save" {
		t.Error("bound handler is not the registered one")
	}

	action, _ := c.Lookup("Save")
	if !action.HasHandler() {
		t.Error("handler not attached to action")
	}
}

func TestBinder_BindAfterLoad(t *testing.T) {
	c := NewCatalog()
	b, rec := newTestBinder(c)
	loadCatalog(t, c, Definition{ActionName: "ReloadApp", EffectiveShortcuts: []string{"F5", "CommandOrControl+R"}})
	waitSettled(t, b)

	if err := b.Bind("ReloadApp", func() {}); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	// Applied synchronously once settled
	expected := []string{"F5", "CommandOrControl+R"}
	if got := rec.shortcuts(); !reflect.DeepEqual(got, expected) {
		t.Errorf("bound shortcuts = %v, want %v", got, expected)
	}
}

func TestBinder_AppliesInCallOrderAndLastWins(t *testing.T) {
	c := NewCatalog()
	b, rec := newTestBinder(c)

	var calls []string
	handler := func(tag string) Handler {
		return func() { calls = append(calls, tag) }
	}

	b.Bind("A", handler("a1"))
	b.Bind("B", handler("b1"))
	b.Bind("A", handler("a2"))

	loadCatalog(t, c,
		Definition{ActionName: "A", EffectiveShortcuts: []string{"alt+a"}},
		Definition{ActionName: "B", EffectiveShortcuts: []string{"alt+b"}},
	)
	waitSettled(t, b)

	if got := rec.shortcuts(); !reflect.DeepEqual(got, []string{"alt+a", "alt+b", "alt+a"}) {
		t.Errorf("bound shortcuts = %v, want call order", got)
	}

	a, _ := c.Lookup("A")
	a.Trigger()
	bAction, _ := c.Lookup("B")
	bAction.Trigger()

	if !reflect.DeepEqual(calls, []string{"a2", "b1"}) {
		t.Errorf("triggered handlers = %v, want [a2 b1]", calls)
	}
}

func TestBinder_RepeatedBindKeepsEarlierShortcutBindings(t *testing.T) {
	c := NewCatalog()
	b, rec := newTestBinder(c)
	loadCatalog(t, c, Definition{ActionName: "Save", EffectiveShortcuts: []string{"ctrl+s"}})
	waitSettled(t, b)

	b.Bind("Save", func() {})
	b.Bind("Save", func() {})

	// The stale binding is not removed: both bindings stay live
	if got := rec.shortcuts(); !reflect.DeepEqual(got, []string{"ctrl+s", "ctrl+s"}) {
		t.Errorf("bound shortcuts = %v, want ctrl+s bound twice", got)
	}
}

func TestBinder_AddShortcutDoesNotRebind(t *testing.T) {
	c := NewCatalog()
	b, rec := newTestBinder(c)
	loadCatalog(t, c, Definition{ActionName: "Save", EffectiveShortcuts: []string{"ctrl+s"}})
	waitSettled(t, b)

	b.Bind("Save", func() {})
	action, _ := c.Lookup("Save")
	action.AddShortcut("F2")

	if got := rec.shortcuts(); !reflect.DeepEqual(got, []string{"ctrl+s"}) {
		t.Fatalf("AddShortcut bound immediately: %v", got)
	}

	b.Bind("Save", func() {})
	if got := rec.shortcuts(); !reflect.DeepEqual(got, []string{"ctrl+s", "ctrl+s", "F2"}) {
		t.Errorf("bound shortcuts after rebind = %v", got)
	}
}

func TestBinder_UnknownAction(t *testing.T) {
	c := NewCatalog()
	b, rec := newTestBinder(c)
	loadCatalog(t, c, Definition{ActionName: "Save"})
	waitSettled(t, b)

	if err := b.Bind("NoSuchAction", func() {}); err != nil {
		t.Fatalf("Bind() returned %v synchronously", err)
	}

	errs := rec.errs()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if !errors.Is(errs[0], ErrUnknownAction) {
		t.Errorf("error = %v, want ErrUnknownAction", errs[0])
	}

	var bindErr *BindError
	if !errors.As(errs[0], &bindErr) || bindErr.Action != "NoSuchAction" {
		t.Errorf("error = %#v, want BindError for NoSuchAction", errs[0])
	}
	if got := errs[0].Error(); got != "cannot find keyboard action 'NoSuchAction'" {
		t.Errorf("Error() = %q", got)
	}
	if len(rec.shortcuts()) != 0 {
		t.Error("shortcuts bound for an unknown action")
	}
}

func TestBinder_EmptyCatalogFailsEveryCall(t *testing.T) {
	c := NewCatalog()
	b, rec := newTestBinder(c)

	b.Bind("Save", func() {})
	b.Bind("Open", func() {})
	loadCatalog(t, c)
	waitSettled(t, b)
	b.Bind("Save", func() {})

	errs := rec.errs()
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want one per call (3)", len(errs))
	}
	for _, err := range errs {
		if !errors.Is(err, ErrUnknownAction) {
			t.Errorf("error = %v, want ErrUnknownAction", err)
		}
	}
}

func TestBinder_LoadFailureReportedForEveryCall(t *testing.T) {
	c := NewCatalog()
	b, rec := newTestBinder(c)

	b.Bind("Save", func() {})
	b.Bind("Open", func() {})

	cause := errors.New("server unavailable")
	c.Load(context.Background(), SourceFunc(func(ctx context.Context) ([]Definition, error) {
		return nil, cause
	}))
	waitSettled(t, b)
	b.Bind("Save", func() {})

	errs := rec.errs()
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want 3", len(errs))
	}
	for _, err := range errs {
		if !errors.Is(err, ErrLoadFailed) || !errors.Is(err, cause) {
			t.Errorf("error = %v, want ErrLoadFailed wrapping cause", err)
		}
		if errors.Is(err, ErrUnknownAction) {
			t.Errorf("load failure reported as unknown action: %v", err)
		}
	}
	if len(rec.shortcuts()) != 0 {
		t.Error("shortcuts bound after a failed load")
	}
}

func TestBinder_PendingLoadRunsNothing(t *testing.T) {
	c := NewCatalog()
	b, rec := newTestBinder(c)

	block := make(chan struct{})
	defer close(block)
	go c.Load(context.Background(), SourceFunc(func(ctx context.Context) ([]Definition, error) {
		<-block
		return nil, nil
	}))

	for _, name := range []string{"Save", "NoSuchAction"} {
		if err := b.Bind(name, func() {}); err != nil {
			t.Fatalf("Bind(%q) error = %v", name, err)
		}
	}

	select {
	case <-b.Settled():
		t.Fatal("binder settled while the load is pending")
	case <-time.After(50 * time.Millisecond):
	}

	if len(rec.shortcuts()) != 0 || len(rec.errs()) != 0 {
		t.Error("post-load logic ran before the catalog loaded")
	}
	if b.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", b.Pending())
	}
}

func TestBinder_InvalidInput(t *testing.T) {
	c := NewCatalog()
	b, _ := newTestBinder(c)

	tests := []struct {
		name    string
		action  string
		handler Handler
	}{
		{"empty name", "", func() {}},
		{"nil handler", "Save", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.Bind(tt.action, tt.handler)
			if !errors.Is(err, ErrInvalidBinding) {
				t.Errorf("Bind() error = %v, want ErrInvalidBinding", err)
			}
		})
	}

	if b.Pending() != 0 {
		t.Errorf("invalid requests were queued: %d", b.Pending())
	}
}

func TestBinder_ConcurrentBindsBeforeLoad(t *testing.T) {
	c := NewCatalog()
	b, rec := newTestBinder(c)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Bind("Save", func() {})
		}()
	}
	wg.Wait()

	loadCatalog(t, c, Definition{ActionName: "Save", EffectiveShortcuts: []string{"ctrl+s"}})
	waitSettled(t, b)

	if got := len(rec.shortcuts()); got != 50 {
		t.Errorf("bound %d shortcuts, want 50", got)
	}
}
