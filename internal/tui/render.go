package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/keyactions/internal/keybinds"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// Layout constants
const (
	borderLines     = 2 // Top and bottom border
	statusBarLines  = 1
	listTitleLines  = 2 // Title and blank line
	minListWidth    = 30
	baseListPercent = 45 // List width at 100% zoom
)

func (m *Model) renderLoading() string {
	msg := styleTitle.Render("Loading keyboard actions...")
	if m.errorMsg != "" {
		msg += "\n\n" + styleError.Render(m.errorMsg)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
}

// renderMain renders the action list and, outside zen mode, the details pane
func (m *Model) renderMain() string {
	height := m.height - statusBarLines
	if m.fullscreen {
		height = m.height
	}

	listWidth := m.listWidth()
	list := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGreen).
		Width(listWidth).
		Height(height - borderLines).
		Render(m.renderList(listWidth - 2))

	view := list
	if !m.zen {
		detailsWidth := m.width - listWidth - 4
		details := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Width(detailsWidth).
			Height(height - borderLines).
			Render(m.renderDetails(detailsWidth - 2))
		view = lipgloss.JoinHorizontal(lipgloss.Top, list, details)
	}

	if m.fullscreen {
		return view
	}

	return lipgloss.JoinVertical(lipgloss.Left, view, m.renderStatusBar())
}

func (m *Model) listWidth() int {
	if m.zen {
		return m.width - 2
	}
	zoom := m.zoom
	if zoom == 0 {
		zoom = 1
	}
	if m.width < 2*minListWidth {
		return m.width / 2
	}
	width := int(float64(m.width*baseListPercent/100) * zoom)
	return min(max(minListWidth, width), m.width-minListWidth)
}

// listHeight is the number of action rows that fit in the list
func (m *Model) listHeight() int {
	height := m.height - borderLines - listTitleLines
	if !m.fullscreen {
		height -= statusBarLines
	}
	return max(1, height)
}

func (m *Model) renderList(width int) string {
	var lines []string

	title := fmt.Sprintf("Keyboard actions (%d)", len(m.visible))
	if m.searchQuery != "" {
		title = fmt.Sprintf("Keyboard actions (%d of %d)", len(m.visible), len(m.actions))
	}
	lines = append(lines, styleTitle.Render(title), "")

	if len(m.visible) == 0 {
		lines = append(lines, styleSubtle.Render("No keyboard actions"))
		return strings.Join(lines, "\n")
	}

	end := min(len(m.visible), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		def := m.actions[m.visible[i]]
		line := fmt.Sprintf("%-*s %s", width/2, def.ActionName, strings.Join(def.EffectiveShortcuts, ", "))
		line = truncate(line, max(4, width))
		if i == m.cursor {
			line = styleSelected.Render(line)
		} else if len(def.EffectiveShortcuts) == 0 {
			line = styleSubtle.Render(line)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderDetails(width int) string {
	def, ok := m.selected()
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(styleTitle.Render(def.ActionName))
	sb.WriteString("\n\n")
	if def.Description != "" {
		sb.WriteString(lipgloss.NewStyle().Width(width).Render(def.Description))
		sb.WriteString("\n\n")
	}

	sb.WriteString(fmt.Sprintf("Shortcuts: %s\n", formatShortcuts(def.EffectiveShortcuts)))
	sb.WriteString(fmt.Sprintf("Defaults:  %s\n", formatShortcuts(def.DefaultShortcuts)))

	if action, ok := m.catalog.Lookup(def.ActionName); ok {
		if action.HasHandler() {
			sb.WriteString(styleSuccess.Render("Handler bound") + "\n")
		} else {
			sb.WriteString(styleWarning.Render("No handler") + "\n")
		}
	}

	if m.note != "" {
		sb.WriteString("\nNote: " + m.note + "\n")
	}

	if m.devTools {
		sb.WriteString("\n" + styleTitle.Render("Dev tools") + "\n")
		sb.WriteString(fmt.Sprintf("Pending bindings: %d\n", m.binder.Pending()))
		sb.WriteString(fmt.Sprintf("Bound shortcuts:  %d\n", len(m.shortcuts.Shortcuts())))
		sb.WriteString(fmt.Sprintf("History:          %s\n", strings.Join(m.history, " > ")))
		sb.WriteString(fmt.Sprintf("Zoom:             %.0f%%\n", m.zoom*100))
	}

	return sb.String()
}

func formatShortcuts(shortcuts []string) string {
	if len(shortcuts) == 0 {
		return styleSubtle.Render("(none)")
	}
	return strings.Join(shortcuts, ", ")
}

func (m *Model) renderStatusBar() string {
	left := fmt.Sprintf("%d actions", len(m.actions))
	if m.desktop {
		left += " | desktop"
	}
	if m.zen {
		left += " | zen"
	}

	right := ""
	switch {
	case m.mode == ModeSearch:
		right = fmt.Sprintf("Search: %s", addCursor(m.searchQuery))
	case m.errorMsg != "":
		right = styleError.Render(m.errorMsg)
	case m.statusMsg != "":
		right = styleSuccess.Render(m.statusMsg)
	default:
		right = styleSubtle.Render("enter: run | /: search | y: copy | ?: help | q: quit")
	}

	spacing := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", spacing) + right
}

func addCursor(text string) string {
	return text + "█"
}

func (m *Model) renderDialog() string {
	title, ok := dialogTitles[m.dialog]
	if !ok {
		title = string(m.dialog)
	}

	body := styleTitle.Render(title) + "\n\n" +
		styleSubtle.Render("esc/enter: close")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Padding(1, 4).
		Render(body)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderHelp() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Width(m.width - 2).
		Height(m.height - 2).
		Render(m.helpView.View())
	return box
}

// updateHelpView fills the help viewport with the shortcut reference
func (m *Model) updateHelpView() {
	var sb strings.Builder
	sb.WriteString(styleTitle.Render("Browser keys") + "\n\n")
	sb.WriteString("  up/k, down/j   Move selection\n")
	sb.WriteString("  enter          Run the selected action\n")
	sb.WriteString("  /              Search actions\n")
	sb.WriteString("  y              Copy the selected shortcuts\n")
	sb.WriteString("  ?              Toggle this help\n")
	sb.WriteString("  q, ctrl+c      Quit\n\n")

	sb.WriteString(styleTitle.Render("Keyboard actions") + "\n\n")
	for _, def := range m.actions {
		sb.WriteString(fmt.Sprintf("  %-24s %s\n", def.ActionName, formatShortcuts(def.EffectiveShortcuts)))
	}

	m.helpView.SetContent(sb.String())
}

// selected returns the definition under the cursor
func (m *Model) selected() (keybinds.Definition, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return keybinds.Definition{}, false
	}
	return m.actions[m.visible[m.cursor]], true
}
