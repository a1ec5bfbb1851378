package models

import "time"

// ColumnKind classifies the values in a column for filtering and comparison
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumeric
	KindTime
)

// Column describes one column of a grid
type Column struct {
	Name string
	Kind ColumnKind

	// TimeOfDay marks time columns that should be compared at full
	// precision instead of day granularity
	TimeOfDay bool
}

// Row holds one record's cell values, positionally aligned with the
// grid's columns. Cells are display strings; typed comparison is done
// by the filter engine based on the column kind.
type Row []string

// Grid is an ordered, column-addressable row set
type Grid struct {
	Columns []Column
	Rows    []Row
}

// ColumnIndex returns the position of the named column, or -1
func (g Grid) ColumnIndex(name string) int {
	for i, c := range g.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the column names in order
func (g Grid) ColumnNames() []string {
	names := make([]string, len(g.Columns))
	for i, c := range g.Columns {
		names[i] = c.Name
	}
	return names
}

// TimeRange bounds a data load. Zero values mean unbounded on that side.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// LastHours returns a range covering the past h hours up to now
func LastHours(h int) TimeRange {
	now := time.Now()
	return TimeRange{
		From: now.Add(-time.Duration(h) * time.Hour),
		To:   now,
	}
}

// Contains reports whether t falls inside the range (inclusive bounds)
func (tr TimeRange) Contains(t time.Time) bool {
	if !tr.From.IsZero() && t.Before(tr.From) {
		return false
	}
	if !tr.To.IsZero() && t.After(tr.To) {
		return false
	}
	return true
}
