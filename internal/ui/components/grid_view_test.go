package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/pgsentry/pgsentry/internal/models"
	"github.com/pgsentry/pgsentry/internal/ui/theme"
)

func testGridView() *GridView {
	gv := NewGridView(theme.DefaultTheme())
	gv.Width = 80
	gv.Height = 10
	gv.SetData(
		[]models.Column{
			{Name: "Severity", Kind: models.KindText},
			{Name: "PID", Kind: models.KindNumeric},
		},
		[]models.Row{
			{"High", "101"},
			{"Medium", "102"},
			{"High", "103"},
		},
		5,
	)
	return gv
}

func TestGridViewSelectionClamped(t *testing.T) {
	gv := testGridView()

	gv.MoveSelection(-10)
	if gv.SelectedRow != 0 {
		t.Errorf("expected selection clamped to 0, got %d", gv.SelectedRow)
	}
	gv.MoveSelection(10)
	if gv.SelectedRow != 2 {
		t.Errorf("expected selection clamped to last row, got %d", gv.SelectedRow)
	}

	gv.MoveColumn(5)
	if gv.SelectedCol != 1 {
		t.Errorf("expected column clamped to 1, got %d", gv.SelectedCol)
	}
}

func TestGridViewSetDataClampsStaleSelection(t *testing.T) {
	gv := testGridView()
	gv.MoveSelection(2)

	gv.SetData(gv.Columns, []models.Row{{"High", "101"}}, 1)
	if gv.SelectedRow != 0 {
		t.Errorf("expected selection pulled back to 0 after shrink, got %d", gv.SelectedRow)
	}

	row, ok := gv.SelectedRowData()
	if !ok || row[0] != "High" {
		t.Errorf("expected selected row data High, got %v ok=%v", row, ok)
	}
}

func TestGridViewSelectedColumn(t *testing.T) {
	gv := testGridView()
	gv.MoveColumn(1)

	col, ok := gv.SelectedColumn()
	if !ok {
		t.Fatal("expected a selected column")
	}
	if col.Name != "PID" || col.Kind != models.KindNumeric {
		t.Errorf("unexpected selected column %+v", col)
	}
}

func TestGridViewStatusLine(t *testing.T) {
	gv := testGridView()
	gv.SetFilterActive("Severity", true)

	out := gv.View()
	if !strings.Contains(out, "3 of 5 rows") {
		t.Errorf("status line missing row counts:\n%s", out)
	}
	if !strings.Contains(out, "1 filter") {
		t.Errorf("status line missing filter count:\n%s", out)
	}
	if !strings.Contains(out, "▼") {
		t.Errorf("expected filter badge in header:\n%s", out)
	}
}

func TestGridViewBadgeLifecycle(t *testing.T) {
	gv := testGridView()
	gv.SetFilterActive("Severity", true)
	gv.SetFilterActive("Severity", false)
	if strings.Contains(gv.View(), "▼") {
		t.Error("badge should be gone after deactivation")
	}

	gv.SetFilterActive("Severity", true)
	gv.SetFilterActive("PID", true)
	gv.ClearFilterBadges()
	if strings.Contains(gv.View(), "filter") {
		t.Error("status should not mention filters after ClearFilterBadges")
	}
}

func TestGridViewHeaderWidthWithBadge(t *testing.T) {
	gv := testGridView()
	out := gv.View()
	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected view output:\n%s", out)
	}
	plainHeaderWidth := lipgloss.Width(lines[0])
	separatorWidth := lipgloss.Width(lines[1])
	if plainHeaderWidth != separatorWidth {
		t.Fatalf("header %d cells vs separator %d cells without badges",
			plainHeaderWidth, separatorWidth)
	}

	// The badge is multi-byte but two cells wide; the header row must
	// keep the same display width so column separators stay aligned
	gv.SetFilterActive("Severity", true)
	lines = strings.Split(gv.View(), "\n")
	if got := lipgloss.Width(lines[0]); got != separatorWidth {
		t.Errorf("badged header is %d cells, separator is %d", got, separatorWidth)
	}
	if got := lipgloss.Width(lines[2]); got != separatorWidth {
		t.Errorf("data row is %d cells, separator is %d", got, separatorWidth)
	}
}

func TestGridViewEmptyRows(t *testing.T) {
	gv := testGridView()
	gv.SetData(gv.Columns, nil, 5)

	out := gv.View()
	if !strings.Contains(out, "No rows match") {
		t.Errorf("expected empty-state message:\n%s", out)
	}
	if !strings.Contains(out, "0 of 5 rows") {
		t.Errorf("expected status with zero visible rows:\n%s", out)
	}
}

func TestPadOrTruncate(t *testing.T) {
	if got := padOrTruncate("abc", 5); got != "abc  " {
		t.Errorf("expected padding, got %q", got)
	}
	if got := padOrTruncate("abcdef", 4); got != "abc…" {
		t.Errorf("expected ellipsis truncation, got %q", got)
	}
	if got := padOrTruncate("abcdef", 6); got != "abcdef" {
		t.Errorf("expected exact fit unchanged, got %q", got)
	}
}
