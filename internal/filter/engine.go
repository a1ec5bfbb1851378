package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/pgsentry/pgsentry/internal/models"
)

// Apply returns the rows of grid that satisfy every active filter in the
// store. With no active filters the grid's row slice is returned as-is,
// preserving identity and ordering. Otherwise rows are kept only when all
// filters match (AND), in their original relative order.
func Apply(grid models.Grid, store *Store) []models.Row {
	if store == nil || store.IsEmpty() {
		return grid.Rows
	}

	states := store.Active()
	type bound struct {
		state State
		col   int
	}
	bounds := make([]bound, 0, len(states))
	for _, st := range states {
		idx := grid.ColumnIndex(st.Column)
		if idx < 0 {
			// Filter on a column the grid no longer carries: no
			// constraint can be evaluated, skip it.
			continue
		}
		bounds = append(bounds, bound{state: st, col: idx})
	}

	out := make([]models.Row, 0, len(grid.Rows))
	for _, row := range grid.Rows {
		keep := true
		for _, b := range bounds {
			if b.col >= len(row) || !Matches(row[b.col], grid.Columns[b.col], b.state) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

// Matches reports whether a single cell satisfies the filter state. It is
// pure and never errors: malformed comparison values and type-mismatched
// cells evaluate to no match. Inactive states never constrain.
func Matches(cell string, column models.Column, state State) bool {
	if !state.Active {
		return true
	}

	switch state.Kind {
	case models.KindNumeric:
		return matchNumeric(cell, state)
	case models.KindTime:
		return matchTime(cell, column, state)
	default:
		return matchText(cell, state)
	}
}

func matchText(cell string, state State) bool {
	// An active text filter with an empty value constrains nothing
	if state.Value == "" {
		return true
	}
	cellLower := strings.ToLower(cell)
	valueLower := strings.ToLower(state.Value)

	switch state.Op {
	case OpEquals:
		return cellLower == valueLower
	case OpStartsWith:
		return strings.HasPrefix(cellLower, valueLower)
	case OpContains:
		return strings.Contains(cellLower, valueLower)
	default:
		return false
	}
}

func matchNumeric(cell string, state State) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return false
	}

	if state.Op == OpBetween {
		low, err1 := strconv.ParseFloat(strings.TrimSpace(state.Low), 64)
		high, err2 := strconv.ParseFloat(strings.TrimSpace(state.High), 64)
		if err1 != nil || err2 != nil {
			return false
		}
		return v >= low && v <= high
	}

	want, err := strconv.ParseFloat(strings.TrimSpace(state.Value), 64)
	if err != nil {
		return false
	}
	return compareOrdered(state.Op, compareFloats(v, want))
}

func matchTime(cell string, column models.Column, state State) bool {
	v, ok := parseTime(cell)
	if !ok {
		return false
	}
	if !column.TimeOfDay {
		v = v.Truncate(24 * time.Hour)
	}

	if state.Op == OpBetween {
		low, ok1 := parseTime(state.Low)
		high, ok2 := parseTime(state.High)
		if !ok1 || !ok2 {
			return false
		}
		if !column.TimeOfDay {
			low = low.Truncate(24 * time.Hour)
			high = high.Truncate(24 * time.Hour)
		}
		return !v.Before(low) && !v.After(high)
	}

	want, ok := parseTime(state.Value)
	if !ok {
		return false
	}
	if !column.TimeOfDay {
		want = want.Truncate(24 * time.Hour)
	}

	switch {
	case v.Equal(want):
		return compareOrdered(state.Op, 0)
	case v.Before(want):
		return compareOrdered(state.Op, -1)
	default:
		return compareOrdered(state.Op, 1)
	}
}

// compareOrdered maps a three-way comparison result onto an operator
func compareOrdered(op Op, cmp int) bool {
	switch op {
	case OpEq:
		return cmp == 0
	case OpLt:
		return cmp < 0
	case OpGt:
		return cmp > 0
	case OpLe:
		return cmp <= 0
	case OpGe:
		return cmp >= 0
	default:
		return false
	}
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// timeLayouts are tried in order when parsing cell and filter values
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"15:04:05",
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
