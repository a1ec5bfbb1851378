package theme

import "github.com/charmbracelet/lipgloss"

// DarkTheme returns a low-contrast dark theme
// Palette based on Catppuccin Mocha: https://github.com/catppuccin/catppuccin
func DarkTheme() Theme {
	return Theme{
		Name: "dark",

		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text

		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#89b4fa"), // Blue
		Selection:     lipgloss.Color("#313244"), // Surface0

		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		TableHeader:      lipgloss.Color("#89b4fa"), // Blue
		TableRowSelected: lipgloss.Color("#313244"), // Surface0
		FilterBadge:      lipgloss.Color("#f9e2af"), // Yellow

		ChartBar:  lipgloss.Color("#89b4fa"), // Blue
		ChartAxis: lipgloss.Color("#45475a"), // Surface1
	}
}
