package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/keyactions/internal/entrypoints"
	"github.com/studiowebux/keyactions/internal/keybinds"
	"github.com/studiowebux/keyactions/internal/shortcuts"
	"go.uber.org/zap"
)

// bindErrorBuffer is how many bind failures can wait for the UI
const bindErrorBuffer = 32

// Config holds what the browser needs to start
type Config struct {
	Source  keybinds.Source
	Desktop bool
	Logger  *zap.Logger

	// Now is used by InsertDateTime. Defaults to time.Now.
	Now func() time.Time
}

// New creates a model with a fresh catalog and registers every entrypoint
// on it. The catalog starts loading when the program calls Init.
func New(cfg Config) (*Model, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.L()
	}

	errs := make(chan error, bindErrorBuffer)
	catalog := keybinds.NewCatalog().WithLogger(logger)
	manager := shortcuts.NewManager().WithLogger(logger)
	binder := keybinds.NewBinder(catalog, manager,
		keybinds.WithBinderLogger(logger),
		keybinds.WithErrorHandler(func(err error) {
			select {
			case errs <- err:
			default:
				logger.Warn("dropped keyboard action error", zap.Error(err))
			}
		}),
	)

	m := &Model{
		catalog:   catalog,
		binder:    binder,
		shortcuts: manager,
		source:    cfg.Source,
		bindErrs:  errs,
		logger:    logger,
		desktop:   cfg.Desktop,
		mode:      ModeLoading,
		zoom:      1,
		helpView:  viewport.New(80, 20),
	}

	opts := entrypoints.Options{Desktop: cfg.Desktop, Now: cfg.Now}
	if err := entrypoints.Register(binder, m, opts); err != nil {
		return nil, fmt.Errorf("failed to register keyboard actions: %w", err)
	}

	return m, nil
}

// Run starts the TUI. ReloadApp restarts it with a freshly loaded catalog.
func Run(cfg Config) error {
	for {
		m, err := New(cfg)
		if err != nil {
			return err
		}

		// Pass pointer since Update uses pointer receiver
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return err
		}

		if !m.ReloadRequested() {
			return nil
		}
		m.logger.Info("reloading keyboard actions")
	}
}
