/*
Package keybinds provides the keyboard action catalog and the binder that
attaches handlers to named actions.

# Overview

Action metadata (names, default and effective shortcuts, descriptions) is
fetched asynchronously from a keyboard-actions provider. Application code
registers handlers by action name at any time, including before the
metadata has arrived; once it arrives every handler is bound to the
shortcuts the loaded configuration specifies.

# Components

Catalog (catalog.go):
  - Populated exactly once from a Source
  - Completion published through Done/Err, like a context
  - Never cleared or re-populated afterwards

Binder (binder.go):
  - Bind(name, handler) is safe to call before the catalog has loaded
  - Requests are applied in call order once the catalog completes
  - Each effective shortcut is handed to a ShortcutBinder
  - Unknown actions and load failures are reported to an ErrorHandler

Action (actions.go):
  - Immutable name, description and default shortcuts
  - Mutable effective shortcuts (AddShortcut, ReplaceShortcuts)
  - At most one handler, last registration wins

Validator (validator.go):
  - Detects empty and duplicate action names
  - Detects malformed shortcuts
  - Warns about shared and reserved shortcuts

# Configuration File Format

User overrides are stored in keybinds.json (comments allowed) or YAML:

	{
	  "version": "1.0",
	  "shortcuts": {
	    "JumpToNote": "CommandOrControl+J",
	    "ReloadApp": "F5,CommandOrControl+R",
	    "ShowHelp": ""
	  }
	}

An empty value leaves the action without shortcuts.

# Example Usage

	catalog := keybinds.NewCatalog()
	binder := keybinds.NewBinder(catalog, shortcutManager)

	go catalog.Load(ctx, source)

	// Safe before the catalog has loaded
	binder.Bind(keybinds.ActionJumpToNote, showJumpToNote)

# Known Asymmetries

AddShortcut does not bind the new shortcut to an already attached
handler; it is picked up by the next Bind for that action. Binding the
same action twice leaves the shortcuts bound to the earlier handler in
place. Both behaviors are kept as-is.
*/
package keybinds
