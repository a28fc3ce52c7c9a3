/*
Package tui implements the terminal action browser for keyactions.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: Maintains all application state
  - Update: Processes messages and returns commands
  - View: Renders the current state to the terminal

# Key Components

  - model.go: Core state, messages and the Update loop
  - keys.go: Keyboard input handling per mode
  - commands.go: The client commands keyboard actions trigger
  - render.go: View rendering
  - init.go: Construction and the program loop

# Startup

The catalog is loaded in a background command. Entrypoints are registered
on the binder before that load starts, so every binding is queued and
applied once the catalog completes. Until the binder has settled the
browser shows a loading state and only quit keys are handled.

# Keybind System

Key events that are not browser navigation are dispatched through a
shortcuts.Manager, which holds the handlers the binder attached to each
effective shortcut. Bind failures reported after load reach the status
line through a channel.

# Example Usage

	err := tui.Run(tui.Config{
		Source:  provider.NewHTTPSource("http://localhost:8787", version),
		Desktop: true,
		Logger:  logger,
	})
*/
package tui
