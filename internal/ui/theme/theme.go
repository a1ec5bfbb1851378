package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	Background lipgloss.Color
	Foreground lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Grid colors
	TableHeader      lipgloss.Color
	TableRowSelected lipgloss.Color
	FilterBadge      lipgloss.Color

	// Chart colors
	ChartBar  lipgloss.Color
	ChartAxis lipgloss.Color
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "dark":
		return DarkTheme()
	default:
		return DefaultTheme()
	}
}
