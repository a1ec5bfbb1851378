package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit"},
		{"1 / 2 / 3", "Critical Issues / Daily Summary / Procedure History"},
		{"Tab", "Next view"},
		{"r, F5", "Refresh current view"},
		{"Esc/Enter", "Dismiss error"},
	}
}

// GetGridKeys returns data grid key bindings
func GetGridKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k  ↓/j", "Move row cursor"},
		{"←/h  →/l", "Move column cursor"},
		{"Ctrl+U / Ctrl+D", "Page up / down"},
		{"f", "Edit filter on selected column"},
		{"F", "Clear all filters"},
		{"s", "Save active filters as preset"},
		{"p", "Apply last preset for this view"},
		{"-, +", "Shrink / grow time window"},
	}
}

// GetExportKeys returns export and clipboard key bindings
func GetExportKeys() []KeyBinding {
	return []KeyBinding{
		{"e", "Export filtered view to file"},
		{"y", "Copy selected row to clipboard"},
		{"Y", "Copy filtered view to clipboard as CSV"},
	}
}

// Render renders the help overlay
func Render(width, height int, style lipgloss.Style) string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	keyStyle := lipgloss.NewStyle().Bold(true).Width(18)

	var b strings.Builder
	section := func(title string, keys []KeyBinding) {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
		for _, kb := range keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(kb.Description)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	section("Global", GetGlobalKeys())
	section("Grid", GetGridKeys())
	section("Export", GetExportKeys())
	b.WriteString(titleStyle.Render("Press ? or esc to close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 3).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, style.Render(box))
}
