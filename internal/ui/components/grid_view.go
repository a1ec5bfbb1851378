package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pgsentry/pgsentry/internal/models"
	"github.com/pgsentry/pgsentry/internal/ui/theme"
)

// GridView displays a filtered row set with a selectable cursor. The
// rows it renders are always handed in by the owning view controller;
// the grid never filters or mutates them itself.
type GridView struct {
	Columns []models.Column
	Rows    []models.Row
	Width   int
	Height  int
	Theme   theme.Theme

	// Scrolling and selection
	TopRow      int
	SelectedRow int
	SelectedCol int

	// Unfiltered row count, for the status line
	TotalRows int

	// Per-column active-filter indicator, keyed by column name
	filtered map[string]bool

	columnWidths []int
}

// NewGridView creates an empty grid view
func NewGridView(th theme.Theme) *GridView {
	return &GridView{
		Theme:    th,
		filtered: make(map[string]bool),
	}
}

// SetData replaces the displayed rows. totalRows is the unfiltered
// snapshot size.
func (gv *GridView) SetData(columns []models.Column, rows []models.Row, totalRows int) {
	gv.Columns = columns
	gv.Rows = rows
	gv.TotalRows = totalRows
	if gv.SelectedRow >= len(rows) {
		gv.SelectedRow = len(rows) - 1
	}
	if gv.SelectedRow < 0 {
		gv.SelectedRow = 0
	}
	if gv.SelectedCol >= len(columns) {
		gv.SelectedCol = 0
	}
	gv.calculateColumnWidths()
	gv.clampScroll()
}

// SetFilterActive toggles the filter badge for a column
func (gv *GridView) SetFilterActive(column string, active bool) {
	if active {
		gv.filtered[column] = true
	} else {
		delete(gv.filtered, column)
	}
}

// ClearFilterBadges removes all filter badges
func (gv *GridView) ClearFilterBadges() {
	gv.filtered = make(map[string]bool)
}

// SelectedColumn returns the column under the cursor
func (gv *GridView) SelectedColumn() (models.Column, bool) {
	if gv.SelectedCol < 0 || gv.SelectedCol >= len(gv.Columns) {
		return models.Column{}, false
	}
	return gv.Columns[gv.SelectedCol], true
}

// SelectedRowData returns the row under the cursor
func (gv *GridView) SelectedRowData() (models.Row, bool) {
	if gv.SelectedRow < 0 || gv.SelectedRow >= len(gv.Rows) {
		return nil, false
	}
	return gv.Rows[gv.SelectedRow], true
}

// MoveSelection moves the row cursor by delta, clamped
func (gv *GridView) MoveSelection(delta int) {
	gv.SelectedRow += delta
	if gv.SelectedRow < 0 {
		gv.SelectedRow = 0
	}
	if gv.SelectedRow > len(gv.Rows)-1 {
		gv.SelectedRow = len(gv.Rows) - 1
	}
	if gv.SelectedRow < 0 {
		gv.SelectedRow = 0
	}
	gv.clampScroll()
}

// MoveColumn moves the column cursor by delta, clamped
func (gv *GridView) MoveColumn(delta int) {
	gv.SelectedCol += delta
	if gv.SelectedCol < 0 {
		gv.SelectedCol = 0
	}
	if gv.SelectedCol > len(gv.Columns)-1 {
		gv.SelectedCol = len(gv.Columns) - 1
	}
	if gv.SelectedCol < 0 {
		gv.SelectedCol = 0
	}
}

// PageUp scrolls one page up
func (gv *GridView) PageUp() {
	gv.MoveSelection(-gv.visibleRows())
}

// PageDown scrolls one page down
func (gv *GridView) PageDown() {
	gv.MoveSelection(gv.visibleRows())
}

func (gv *GridView) visibleRows() int {
	// Header, separator and status line
	v := gv.Height - 3
	if v < 1 {
		v = 1
	}
	return v
}

func (gv *GridView) clampScroll() {
	visible := gv.visibleRows()
	if gv.SelectedRow < gv.TopRow {
		gv.TopRow = gv.SelectedRow
	}
	if gv.SelectedRow >= gv.TopRow+visible {
		gv.TopRow = gv.SelectedRow - visible + 1
	}
	if gv.TopRow < 0 {
		gv.TopRow = 0
	}
}

// calculateColumnWidths sizes columns to content within min/max bounds
func (gv *GridView) calculateColumnWidths() {
	if len(gv.Columns) == 0 {
		gv.columnWidths = nil
		return
	}

	gv.columnWidths = make([]int, len(gv.Columns))
	for i, col := range gv.Columns {
		// Header plus room for the filter badge
		gv.columnWidths[i] = len(col.Name) + 2
	}
	for _, row := range gv.Rows {
		for i, cell := range row {
			if i < len(gv.columnWidths) && len(cell) > gv.columnWidths[i] {
				gv.columnWidths[i] = len(cell)
			}
		}
	}

	const maxWidth, minWidth = 50, 6
	for i := range gv.columnWidths {
		if gv.columnWidths[i] > maxWidth {
			gv.columnWidths[i] = maxWidth
		}
		if gv.columnWidths[i] < minWidth {
			gv.columnWidths[i] = minWidth
		}
	}
}

// View renders the grid
func (gv *GridView) View() string {
	if len(gv.Columns) == 0 {
		return "No data"
	}

	var b strings.Builder
	b.WriteString(gv.renderHeader())
	b.WriteString("\n")
	b.WriteString(gv.renderSeparator())
	b.WriteString("\n")

	if len(gv.Rows) == 0 {
		empty := lipgloss.NewStyle().Foreground(gv.Theme.Info).Render("No rows match")
		b.WriteString(empty)
		b.WriteString("\n")
		b.WriteString(gv.renderStatus())
		return b.String()
	}

	endRow := gv.TopRow + gv.visibleRows()
	if endRow > len(gv.Rows) {
		endRow = len(gv.Rows)
	}
	for i := gv.TopRow; i < endRow; i++ {
		b.WriteString(gv.renderRow(gv.Rows[i], i == gv.SelectedRow))
		b.WriteString("\n")
	}

	b.WriteString(gv.renderStatus())
	return b.String()
}

func (gv *GridView) renderHeader() string {
	headerStyle := lipgloss.NewStyle().Foreground(gv.Theme.TableHeader).Bold(true)
	badgeStyle := lipgloss.NewStyle().Foreground(gv.Theme.FilterBadge)
	cursorStyle := headerStyle.Underline(true)

	cells := make([]string, len(gv.Columns))
	for i, col := range gv.Columns {
		label := col.Name
		badge := ""
		if gv.filtered[col.Name] {
			badge = " ▼"
		}
		width := gv.columnWidths[i] - lipgloss.Width(badge)
		if width < 1 {
			width = 1
		}
		label = padOrTruncate(label, width)

		style := headerStyle
		if i == gv.SelectedCol {
			style = cursorStyle
		}
		cells[i] = style.Render(label) + badgeStyle.Render(badge)
	}
	return strings.Join(cells, " │ ")
}

func (gv *GridView) renderSeparator() string {
	parts := make([]string, len(gv.columnWidths))
	for i, w := range gv.columnWidths {
		parts[i] = strings.Repeat("─", w)
	}
	return lipgloss.NewStyle().Foreground(gv.Theme.Border).Render(strings.Join(parts, "─┼─"))
}

func (gv *GridView) renderRow(row models.Row, selected bool) string {
	cells := make([]string, len(gv.Columns))
	for i := range gv.Columns {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = padOrTruncate(cell, gv.columnWidths[i])
	}
	line := strings.Join(cells, " │ ")
	if selected {
		return lipgloss.NewStyle().Background(gv.Theme.TableRowSelected).Render(line)
	}
	return line
}

func (gv *GridView) renderStatus() string {
	status := fmt.Sprintf("%d of %d rows", len(gv.Rows), gv.TotalRows)
	if n := len(gv.filtered); n == 1 {
		status += " • 1 filter"
	} else if n > 1 {
		status += fmt.Sprintf(" • %d filters", n)
	}
	return lipgloss.NewStyle().Foreground(gv.Theme.Info).Render(status)
}

// padOrTruncate fits s into exactly width cells
func padOrTruncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}
