package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pgsentry/pgsentry/internal/filter"
	"github.com/pgsentry/pgsentry/internal/models"
	"github.com/pgsentry/pgsentry/internal/ui/theme"
)

// ApplyFilterMsg is sent when the editor commits a filter change
type ApplyFilterMsg struct {
	State filter.State
}

// CloseFilterEditorMsg is sent when the editor is dismissed unchanged
type CloseFilterEditorMsg struct{}

// FilterEditor is the ephemeral per-column filter overlay. One instance
// is rebound to whichever column the user is editing: Open parameterizes
// it with the column and any prior filter state.
type FilterEditor struct {
	Width  int
	Theme  theme.Theme
	column models.Column

	ops     []filter.Op
	opIndex int

	value textinput.Model
	high  textinput.Model

	// focusHigh is only meaningful while the operator is between
	focusHigh bool

	hadPrior bool
}

// NewFilterEditor creates the editor
func NewFilterEditor(th theme.Theme) *FilterEditor {
	value := textinput.New()
	value.Placeholder = "value"
	value.CharLimit = 256
	value.Width = 24

	high := textinput.New()
	high.Placeholder = "high"
	high.CharLimit = 256
	high.Width = 24

	return &FilterEditor{
		Width: 60,
		Theme: th,
		value: value,
		high:  high,
	}
}

// Open binds the editor to a column, seeding it from the prior state
func (fe *FilterEditor) Open(column models.Column, prior filter.State, hadPrior bool) {
	fe.column = column
	fe.ops = filter.OpsForKind(column.Kind)
	fe.opIndex = 0
	fe.hadPrior = hadPrior
	fe.focusHigh = false

	fe.value.SetValue("")
	fe.high.SetValue("")

	if hadPrior {
		for i, op := range fe.ops {
			if op == prior.Op {
				fe.opIndex = i
				break
			}
		}
		if prior.Op == filter.OpBetween {
			fe.value.SetValue(prior.Low)
			fe.high.SetValue(prior.High)
		} else {
			fe.value.SetValue(prior.Value)
		}
	}

	fe.value.Focus()
	fe.high.Blur()
}

// Update handles key events while the editor is open
func (fe *FilterEditor) Update(msg tea.Msg) (*FilterEditor, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return fe, nil
	}

	switch keyMsg.String() {
	case "esc":
		return fe, func() tea.Msg { return CloseFilterEditorMsg{} }

	case "ctrl+o":
		fe.opIndex = (fe.opIndex + 1) % len(fe.ops)
		fe.syncBetweenFocus()
		return fe, nil

	case "tab":
		if fe.currentOp() == filter.OpBetween {
			fe.focusHigh = !fe.focusHigh
			fe.syncBetweenFocus()
		}
		return fe, nil

	case "ctrl+d":
		// Drop the filter entirely
		state := filter.State{Column: fe.column.Name, Active: false}
		return fe, func() tea.Msg { return ApplyFilterMsg{State: state} }

	case "enter":
		state := fe.buildState()
		return fe, func() tea.Msg { return ApplyFilterMsg{State: state} }
	}

	var cmd tea.Cmd
	if fe.focusHigh {
		fe.high, cmd = fe.high.Update(msg)
	} else {
		fe.value, cmd = fe.value.Update(msg)
	}
	return fe, cmd
}

func (fe *FilterEditor) currentOp() filter.Op {
	if len(fe.ops) == 0 {
		return filter.OpContains
	}
	return fe.ops[fe.opIndex]
}

func (fe *FilterEditor) syncBetweenFocus() {
	if fe.currentOp() != filter.OpBetween {
		fe.focusHigh = false
	}
	if fe.focusHigh {
		fe.value.Blur()
		fe.high.Focus()
	} else {
		fe.high.Blur()
		fe.value.Focus()
	}
}

func (fe *FilterEditor) buildState() filter.State {
	state := filter.State{
		Column: fe.column.Name,
		Kind:   fe.column.Kind,
		Op:     fe.currentOp(),
		Active: true,
	}
	if state.Op == filter.OpBetween {
		state.Low = strings.TrimSpace(fe.value.Value())
		state.High = strings.TrimSpace(fe.high.Value())
	} else {
		state.Value = strings.TrimSpace(fe.value.Value())
	}
	return state
}

// View renders the editor overlay
func (fe *FilterEditor) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(fe.Theme.BorderFocused)
	labelStyle := lipgloss.NewStyle().Foreground(fe.Theme.Info)
	opStyle := lipgloss.NewStyle().Foreground(fe.Theme.Warning).Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Filter: %s", fe.column.Name)))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Operator: "))
	b.WriteString(opStyle.Render(string(fe.currentOp())))
	b.WriteString(labelStyle.Render("  (ctrl+o to cycle)"))
	b.WriteString("\n\n")

	if fe.currentOp() == filter.OpBetween {
		b.WriteString(labelStyle.Render("Low:  "))
		b.WriteString(fe.value.View())
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("High: "))
		b.WriteString(fe.high.View())
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("(tab switches field)"))
	} else {
		b.WriteString(labelStyle.Render("Value: "))
		b.WriteString(fe.value.View())
	}

	b.WriteString("\n\n")
	footer := "[enter] Apply  [esc] Cancel"
	if fe.hadPrior {
		footer += "  [ctrl+d] Remove filter"
	}
	b.WriteString(labelStyle.Render(footer))

	return lipgloss.NewStyle().
		Width(fe.Width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fe.Theme.BorderFocused).
		Padding(1, 2).
		Render(b.String())
}
