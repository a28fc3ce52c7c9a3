package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/studiowebux/keyactions/internal/cli"
	"github.com/studiowebux/keyactions/internal/config"
	"github.com/studiowebux/keyactions/internal/keybinds"
	"github.com/studiowebux/keyactions/internal/logging"
	"github.com/studiowebux/keyactions/internal/provider"
	"github.com/studiowebux/keyactions/internal/server"
	"github.com/studiowebux/keyactions/internal/store"
	"github.com/studiowebux/keyactions/internal/tui"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "keyactions",
	Short: "Keyboard actions - browse and bind named keyboard shortcuts",
	Long: `keyactions loads a catalog of named keyboard actions and binds their
shortcuts to handlers. The catalog comes from a keyactions server, a
definition file, or the local shortcut store.

Run without arguments to open the interactive action browser.

Examples:
  keyactions                             # Browse actions from the local store
  keyactions --server http://host:8787   # Browse actions served remotely
  keyactions list -s zoom                # Fuzzy search actions
  keyactions list -q "[].actionName"     # JMESPath query
  keyactions set ShowHelp F1 F2          # Change the shortcuts of an action
  keyactions serve --port 8787           # Serve the local store over HTTP`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List keyboard actions and their shortcuts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ListOptions{
			OutputFormat: flagOutput,
			Filter:       flagFilter,
			Query:        flagQuery,
			Search:       flagSearch,
			Unbound:      flagUnbound,
			Customized:   flagCustomized,
		}
		if err := opts.Validate(); err != nil {
			return err
		}
		return withCatalog(cmd.Context(), func(defs []keybinds.Definition) error {
			return cli.List(cmd.OutOrStdout(), defs, opts)
		})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check shortcuts for conflicts and malformed keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd.Context(), func(defs []keybinds.Definition) error {
			if !cli.Validate(cmd.OutOrStdout(), defs) {
				return fmt.Errorf("validation failed")
			}
			return nil
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local shortcut store over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

var setCmd = &cobra.Command{
	Use:   "set [action] [shortcuts...]",
	Short: "Replace the shortcuts of an action",
	Long: `Replace the shortcuts of an action.

Without an action name an interactive picker is shown. Without shortcuts
they are read from stdin as a comma-separated list. An empty list leaves
the action without shortcuts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSet(cmd, args)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <action>",
	Short: "Restore the default shortcuts of an action",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackend(func(backend server.Backend) error {
			if err := backend.ResetShortcuts(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset '%s' to its default shortcuts\n", args[0])
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the effective shortcuts as a keybinds.json overrides file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args)
	},
}

// Global flags
var (
	flagServer   string
	flagFile     string
	flagDefaults bool
	flagLogLevel string
)

// Flags for list
var (
	flagOutput     string
	flagFilter     string
	flagQuery      string
	flagSearch     string
	flagUnbound    bool
	flagCustomized bool
)

// Flags for the TUI
var (
	flagDesktop bool
)

// Flags for serve
var (
	flagHost string
	flagPort int
)

// Flags for export
var (
	flagForce   bool
	flagExample bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Load actions from a keyactions server (base URL)")
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "Load actions from a definition file (json/jsonc/yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagDefaults, "defaults", false, "Load the built-in actions with keybinds.json overrides, bypassing the store")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug/info/warn/error)")
	rootCmd.Flags().BoolVar(&flagDesktop, "desktop", true, "Bind desktop-only actions (history, dev tools, zoom)")

	listCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (json/yaml/text)")
	listCmd.Flags().StringVar(&flagFilter, "filter", "", "JMESPath filter applied before the query")
	listCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath query or $(shell command)")
	listCmd.Flags().StringVarP(&flagSearch, "search", "s", "", "Fuzzy search on name, description and shortcuts")
	listCmd.Flags().BoolVar(&flagUnbound, "unbound", false, "Only actions without shortcuts")
	listCmd.Flags().BoolVar(&flagCustomized, "customized", false, "Only actions whose shortcuts differ from the defaults")

	serveCmd.Flags().StringVar(&flagHost, "host", "localhost", "Address to listen on")
	serveCmd.Flags().IntVarP(&flagPort, "port", "p", config.DefaultServerPort, "Port to listen on")

	exportCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")
	exportCmd.Flags().BoolVar(&flagExample, "example", false, "Write the default shortcuts instead of the effective ones")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
}

// newLogger creates the stderr logger for non-interactive commands
func newLogger() *zap.Logger {
	logger := logging.NewStderr(flagLogLevel)
	zap.ReplaceGlobals(logger)
	return logger
}

// openStore opens the local shortcut store seeded with the defaults and
// the keybinds.json overrides
func openStore() (*store.Store, error) {
	defs, err := keybinds.LoadOrDefault(config.GetKeybindsFilePath())
	if err != nil {
		return nil, err
	}
	return store.Open(config.DatabasePath, defs)
}

// withSource resolves where the catalog is loaded from: --server, then
// --file, then --defaults, then the local store
func withSource(fn func(keybinds.Source) error) error {
	switch {
	case flagServer != "":
		return fn(provider.NewHTTPSource(flagServer, version))
	case flagFile != "":
		return fn(&provider.FileSource{Path: flagFile})
	case flagDefaults:
		src, err := provider.NewDefaultsSource(config.GetKeybindsFilePath())
		if err != nil {
			return err
		}
		return fn(src)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

// withBackend resolves where shortcut changes are written
func withBackend(fn func(server.Backend) error) error {
	if flagFile != "" {
		return fmt.Errorf("--file is read-only, use the local store or --server")
	}
	if flagDefaults {
		return fmt.Errorf("--defaults is read-only, use the local store or --server")
	}
	if flagServer != "" {
		return fn(provider.NewHTTPSource(flagServer, version))
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

// withCatalog loads a catalog and passes its definitions to fn
func withCatalog(ctx context.Context, fn func([]keybinds.Definition) error) error {
	logger := newLogger()
	defer logger.Sync()

	return withSource(func(src keybinds.Source) error {
		catalog := keybinds.NewCatalog().WithLogger(logger)
		if err := catalog.Load(ctx, src); err != nil {
			return err
		}
		return fn(catalog.Definitions())
	})
}

// runTUI starts the interactive action browser. The TUI owns the
// terminal, so logs go to the log file.
func runTUI(cmd *cobra.Command) error {
	logger, closeLog, err := logging.NewFile(flagLogLevel, config.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	return withSource(func(src keybinds.Source) error {
		return tui.Run(tui.Config{
			Source:  src,
			Desktop: flagDesktop,
			Logger:  logger,
		})
	})
}

// runServe serves the local store until interrupted
func runServe(cmd *cobra.Command) error {
	logger := newLogger()
	defer logger.Sync()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{Host: flagHost, Port: flagPort, Version: version}, st, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		return selfCheck(ctx, srv.Address(), logger)
	})

	return g.Wait()
}

// selfCheck loads a catalog from the running server the way clients do
func selfCheck(ctx context.Context, address string, logger *zap.Logger) error {
	src := provider.NewHTTPSource(address, version)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(5 * time.Second)

	for {
		catalog := keybinds.NewCatalog()
		if err := catalog.Load(ctx, src); err == nil {
			logger.Info("serving keyboard actions",
				zap.String("address", address),
				zap.Int("actions", catalog.Len()))
			return nil
		} else if ctx.Err() != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-deadline:
			logger.Warn("server self-check did not succeed", zap.String("address", address))
			return nil
		case <-ticker.C:
		}
	}
}

// runSet changes the shortcuts of an action
func runSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		err := withCatalog(ctx, func(defs []keybinds.Definition) error {
			picked, err := cli.PickAction(defs)
			name = picked
			return err
		})
		if errors.Is(err, cli.ErrSelectionCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	var shortcuts []string
	if len(args) > 1 {
		for _, arg := range args[1:] {
			shortcuts = append(shortcuts, keybinds.ParseShortcutList(arg)...)
		}
	} else {
		var err error
		if shortcuts, err = cli.PromptShortcuts(name); err != nil {
			return fmt.Errorf("failed to read shortcuts: %w", err)
		}
	}

	for _, shortcut := range shortcuts {
		if err := keybinds.ValidateShortcut(shortcut); err != nil {
			return err
		}
	}

	return withBackend(func(backend server.Backend) error {
		if err := backend.SetShortcuts(ctx, name, shortcuts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set '%s' to %v\n", name, shortcuts)
		return nil
	})
}

// runExport writes a keybinds.json overrides file
func runExport(cmd *cobra.Command, args []string) error {
	path := config.KeybindsFile
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !flagForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if flagExample {
		if err := keybinds.CreateExampleConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default shortcuts to %s\n", path)
		return nil
	}

	return withCatalog(cmd.Context(), func(defs []keybinds.Definition) error {
		if err := keybinds.SaveConfig(keybinds.ExportDefinitions(defs), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d actions to %s\n", len(defs), path)
		return nil
	})
}
