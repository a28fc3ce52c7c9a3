package keybinds

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Source provides the full list of keyboard action definitions
type Source interface {
	FetchActions(ctx context.Context) ([]Definition, error)
}

// SourceFunc adapts a function to the Source interface
type SourceFunc func(ctx context.Context) ([]Definition, error)

// FetchActions calls f(ctx)
func (f SourceFunc) FetchActions(ctx context.Context) ([]Definition, error) {
	return f(ctx)
}

// Catalog holds every known keyboard action, keyed by name.
//
// It is populated once by Load. Until Done is closed the mapping must not
// be read; afterwards it is never cleared or re-populated.
type Catalog struct {
	actions map[string]*Action
	order   []string

	mu      sync.Mutex
	started bool
	done    chan struct{}
	err     error

	logger *zap.Logger
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		actions: make(map[string]*Action),
		done:    make(chan struct{}),
		logger:  zap.L(),
	}
}

// WithLogger sets the logger used for load diagnostics
func (c *Catalog) WithLogger(logger *zap.Logger) *Catalog {
	c.logger = logger
	return c
}

// Load fetches the definitions from src and populates the catalog.
// Only the first call does anything; later calls return ErrAlreadyLoaded.
// The outcome is also published through Done and Err.
func (c *Catalog) Load(ctx context.Context, src Source) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyLoaded
	}
	c.started = true
	c.mu.Unlock()

	defs, err := src.FetchActions(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrLoadFailed, err)
		c.complete(err)
		return err
	}

	for _, def := range defs {
		if _, exists := c.actions[def.ActionName]; exists {
			c.logger.Warn("duplicate keyboard action definition, keeping the last one",
				zap.String("action", def.ActionName),
			)
		} else {
			c.order = append(c.order, def.ActionName)
		}
		c.actions[def.ActionName] = NewAction(def)
	}

	c.logger.Debug("keyboard actions loaded", zap.Int("count", len(c.order)))
	c.complete(nil)
	return nil
}

func (c *Catalog) complete(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	close(c.done)
}

// Done is closed once Load has finished, successfully or not
func (c *Catalog) Done() <-chan struct{} {
	return c.done
}

// Err returns the load error. It is nil before Done is closed.
func (c *Catalog) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Wait blocks until the catalog has loaded or ctx is done
func (c *Catalog) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Loaded reports whether the catalog finished loading without error
func (c *Catalog) Loaded() bool {
	select {
	case <-c.done:
		return c.Err() == nil
	default:
		return false
	}
}

// Lookup returns the named action. It always misses before load completes.
func (c *Catalog) Lookup(name string) (*Action, bool) {
	if !c.Loaded() {
		return nil, false
	}
	action, ok := c.actions[name]
	return action, ok
}

// Actions returns all actions in load order
func (c *Catalog) Actions() []*Action {
	if !c.Loaded() {
		return nil
	}
	actions := make([]*Action, 0, len(c.order))
	for _, name := range c.order {
		actions = append(actions, c.actions[name])
	}
	return actions
}

// Len returns the number of loaded actions
func (c *Catalog) Len() int {
	if !c.Loaded() {
		return 0
	}
	return len(c.order)
}

// Definitions returns a snapshot of every action in provider format
func (c *Catalog) Definitions() []Definition {
	actions := c.Actions()
	defs := make([]Definition, 0, len(actions))
	for _, a := range actions {
		defs = append(defs, a.Definition())
	}
	return defs
}
