package keybinds

// defaultDefinitions lists every keyboard action with its default shortcuts
var defaultDefinitions = []Definition{
	// Dialogs
	{ActionName: ActionJumpToNote, DefaultShortcuts: []string{"CommandOrControl+J"}, Description: "Open Jump to note dialog"},
	{ActionName: ActionShowRecentChanges, Description: "Show recent changes"},
	{ActionName: ActionAddLinkToText, DefaultShortcuts: []string{"CommandOrControl+L"}, Description: "Open dialog to add link to the text"},
	{ActionName: ActionShowAttributes, DefaultShortcuts: []string{"Alt+A"}, Description: "Show attributes of the active note"},
	{ActionName: ActionShowNoteInfo, Description: "Show note info"},
	{ActionName: ActionShowNoteRevisions, Description: "Show revisions of the active note"},
	{ActionName: ActionShowNoteSource, Description: "Show source of the active note"},
	{ActionName: ActionShowLinkMap, Description: "Show link map of the active note"},
	{ActionName: ActionShowOptions, Description: "Show options"},
	{ActionName: ActionShowHelp, DefaultShortcuts: []string{"F1"}, Description: "Show built-in help"},
	{ActionName: ActionShowSQLConsole, DefaultShortcuts: []string{"Alt+O"}, Description: "Show SQL console"},
	{ActionName: ActionCloneNotesTo, DefaultShortcuts: []string{"Alt+C"}, Description: "Clone selected notes to another parent"},
	{ActionName: ActionMoveNotesTo, DefaultShortcuts: []string{"Alt+X"}, Description: "Move selected notes to another parent"},

	// Search and editing
	{ActionName: ActionSearchNotes, DefaultShortcuts: []string{"CommandOrControl+S"}, Description: "Toggle the search panel"},
	{ActionName: ActionInsertDateTime, DefaultShortcuts: []string{"Alt+T"}, Description: "Insert current date and time at the cursor"},
	{ActionName: ActionFindInText, DefaultShortcuts: []string{"CommandOrControl+F"}, Description: "Find text in the page"},

	// Application
	{ActionName: ActionToggleZenMode, DefaultShortcuts: []string{"Alt+M"}, Description: "Hide everything except the note content"},
	{ActionName: ActionReloadApp, DefaultShortcuts: []string{"F5", "CommandOrControl+R"}, Description: "Reload the frontend"},
	{ActionName: ActionBackInNoteHistory, DefaultShortcuts: []string{"Alt+Left"}, Description: "Go back in note history"},
	{ActionName: ActionForwardInNoteHistory, DefaultShortcuts: []string{"Alt+Right"}, Description: "Go forward in note history"},
	{ActionName: ActionOpenDevTools, DefaultShortcuts: []string{"F12"}, Description: "Open developer tools"},
	{ActionName: ActionToggleFullscreen, DefaultShortcuts: []string{"F11"}, Description: "Toggle full screen"},
	{ActionName: ActionZoomOut, DefaultShortcuts: []string{"Alt+-"}, Description: "Zoom out"},
	{ActionName: ActionZoomIn, DefaultShortcuts: []string{"Alt+="}, Description: "Zoom in"},
}

// DefaultDefinitions returns the default action set.
// Effective shortcuts start out equal to the defaults.
func DefaultDefinitions() []Definition {
	defs := make([]Definition, 0, len(defaultDefinitions))
	for _, def := range defaultDefinitions {
		defs = append(defs, Definition{
			ActionName:         def.ActionName,
			DefaultShortcuts:   cloneStrings(def.DefaultShortcuts),
			EffectiveShortcuts: cloneStrings(def.DefaultShortcuts),
			Description:        def.Description,
		})
	}
	return defs
}

// IsDefaultAction reports whether name is part of the default action set
func IsDefaultAction(name string) bool {
	for _, def := range defaultDefinitions {
		if def.ActionName == name {
			return true
		}
	}
	return false
}
