package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pgsentry/pgsentry/internal/ui/theme"
)

// ErrorOverlay shows a dismissable error message centered over the UI
type ErrorOverlay struct {
	Theme   theme.Theme
	title   string
	message string
}

// NewErrorOverlay creates the overlay
func NewErrorOverlay(th theme.Theme) *ErrorOverlay {
	return &ErrorOverlay{Theme: th}
}

// SetError sets the displayed error
func (eo *ErrorOverlay) SetError(title, message string) {
	eo.title = title
	eo.message = message
}

// View renders the overlay box
func (eo *ErrorOverlay) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(eo.Theme.Error)
	hintStyle := lipgloss.NewStyle().Foreground(eo.Theme.Info)

	var b strings.Builder
	b.WriteString(titleStyle.Render(eo.title))
	b.WriteString("\n\n")
	b.WriteString(eo.message)
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[esc/enter] Dismiss"))

	return lipgloss.NewStyle().
		Width(60).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(eo.Theme.Error).
		Padding(1, 2).
		Render(b.String())
}
