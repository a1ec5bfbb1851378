package filter

import (
	"fmt"

	"github.com/pgsentry/pgsentry/internal/models"
)

// Op is a filter comparison operator
type Op string

const (
	// Text operators (case-insensitive)
	OpContains   Op = "contains"
	OpEquals     Op = "equals"
	OpStartsWith Op = "starts with"

	// Numeric and time operators
	OpEq      Op = "="
	OpLt      Op = "<"
	OpGt      Op = ">"
	OpLe      Op = "<="
	OpGe      Op = ">="
	OpBetween Op = "between"
)

// OpsForKind returns the operators available for a column kind
func OpsForKind(kind models.ColumnKind) []Op {
	switch kind {
	case models.KindText:
		return []Op{OpContains, OpEquals, OpStartsWith}
	default:
		return []Op{OpEq, OpLt, OpGt, OpLe, OpGe, OpBetween}
	}
}

// State is one column's filter predicate. A State with Active=false is
// equivalent to no filter on that column at all.
type State struct {
	Column string            `yaml:"column"`
	Kind   models.ColumnKind `yaml:"kind"`
	Op     Op                `yaml:"op"`
	Value  string            `yaml:"value,omitempty"`

	// Between bounds, inclusive on both ends
	Low  string `yaml:"low,omitempty"`
	High string `yaml:"high,omitempty"`

	Active bool `yaml:"active"`
}

// Summary returns a short human-readable description of the filter,
// shown in column headers and the status line.
func (s State) Summary() string {
	if !s.Active {
		return ""
	}
	if s.Op == OpBetween {
		return fmt.Sprintf("%s between %s and %s", s.Column, s.Low, s.High)
	}
	return fmt.Sprintf("%s %s %q", s.Column, s.Op, s.Value)
}
