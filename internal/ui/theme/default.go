package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),

		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("237"),

		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		TableHeader:      lipgloss.Color("62"),
		TableRowSelected: lipgloss.Color("237"),
		FilterBadge:      lipgloss.Color("220"),

		ChartBar:  lipgloss.Color("75"),
		ChartAxis: lipgloss.Color("240"),
	}
}
