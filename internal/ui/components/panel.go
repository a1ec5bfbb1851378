package components

import (
	"github.com/charmbracelet/lipgloss"
)

// Panel frames a view with a border, a title line and an optional badge
// (the active-filter count for the framed grid)
type Panel struct {
	Title   string
	Badge   string
	Content string
	Width   int
	Height  int

	Style      lipgloss.Style
	BadgeStyle lipgloss.Style
}

// View renders the panel
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}

	style := p.Style.
		Width(p.Width).
		Height(p.Height).
		Border(lipgloss.RoundedBorder())

	content := p.Content
	if p.Title != "" {
		titleStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		header := titleStyle.Render(p.Title)
		if p.Badge != "" {
			header += p.BadgeStyle.Render(p.Badge)
		}
		content = header + "\n" + content
	}

	return style.Render(content)
}
