package keybinds

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ShortcutBinder registers a global shortcut that runs handler when pressed
type ShortcutBinder interface {
	BindShortcut(shortcut string, handler Handler)
}

// ShortcutBinderFunc adapts a function to the ShortcutBinder interface
type ShortcutBinderFunc func(shortcut string, handler Handler)

// BindShortcut calls f(shortcut, handler)
func (f ShortcutBinderFunc) BindShortcut(shortcut string, handler Handler) {
	f(shortcut, handler)
}

// ErrorHandler receives bind failures that happen after Bind has returned
type ErrorHandler func(err error)

type binding struct {
	name    string
	handler Handler
}

// Binder attaches handlers to named actions, whether or not the catalog
// has finished loading.
//
// Requests made before the catalog completes are queued and applied in
// call order once it does; later requests are applied immediately. The
// shortcut binder and error handler run while the binder lock is held and
// must not call Bind synchronously.
type Binder struct {
	catalog   *Catalog
	shortcuts ShortcutBinder
	onError   ErrorHandler
	logger    *zap.Logger

	mu      sync.Mutex
	pending []binding
	settled bool
	flushed chan struct{}
}

// BinderOption configures a Binder
type BinderOption func(*Binder)

// WithErrorHandler routes asynchronous bind failures to fn
func WithErrorHandler(fn ErrorHandler) BinderOption {
	return func(b *Binder) {
		b.onError = fn
	}
}

// WithBinderLogger sets the logger used by the binder
func WithBinderLogger(logger *zap.Logger) BinderOption {
	return func(b *Binder) {
		b.logger = logger
	}
}

// NewBinder creates a binder for catalog. It starts waiting for the
// catalog right away.
func NewBinder(catalog *Catalog, shortcuts ShortcutBinder, opts ...BinderOption) *Binder {
	b := &Binder{
		catalog:   catalog,
		shortcuts: shortcuts,
		logger:    zap.L(),
		flushed:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.onError == nil {
		b.onError = b.logError
	}

	go b.awaitCatalog()

	return b
}

// Bind attaches handler to the named action.
// It only fails synchronously for an empty name or a nil handler; lookup
// failures and load failures are reported to the error handler.
func (b *Binder) Bind(name string, handler Handler) error {
	if name == "" {
		return fmt.Errorf("%w: empty action name", ErrInvalidBinding)
	}
	if handler == nil {
		return fmt.Errorf("%w: nil handler for '%s'", ErrInvalidBinding, name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	req := binding{name: name, handler: handler}
	if !b.settled {
		b.pending = append(b.pending, req)
		return nil
	}
	b.apply(req)
	return nil
}

// Settled is closed once every request queued before the catalog
// completed has been applied
func (b *Binder) Settled() <-chan struct{} {
	return b.flushed
}

// Pending returns the number of requests waiting for the catalog
func (b *Binder) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *Binder) awaitCatalog() {
	<-b.catalog.Done()

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, req := range b.pending {
		b.apply(req)
	}
	b.pending = nil
	b.settled = true
	close(b.flushed)
}

// apply must be called with b.mu held
func (b *Binder) apply(req binding) {
	if err := b.catalog.Err(); err != nil {
		b.onError(&BindError{Action: req.name, Err: err})
		return
	}

	action, ok := b.catalog.Lookup(req.name)
	if !ok {
		b.onError(&BindError{Action: req.name, Err: ErrUnknownAction})
		return
	}

	// Shortcuts bound for an earlier handler stay bound.
	for _, shortcut := range action.setHandler(req.handler) {
		b.shortcuts.BindShortcut(shortcut, req.handler)
	}
}

func (b *Binder) logError(err error) {
	b.logger.Error("keyboard action binding failed", zap.Error(err))
}
