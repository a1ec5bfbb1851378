package filter

import (
	"testing"

	"github.com/pgsentry/pgsentry/internal/models"
)

func TestStore_SetAndGet(t *testing.T) {
	store := NewStore()
	store.Set(State{Column: "Severity", Kind: models.KindText, Op: OpEquals, Value: "High", Active: true})

	state, ok := store.Get("Severity")
	if !ok {
		t.Fatal("expected filter to be present")
	}
	if state.Value != "High" {
		t.Errorf("expected value 'High', got %q", state.Value)
	}
}

func TestStore_SetReplaces(t *testing.T) {
	store := NewStore()
	store.Set(State{Column: "Severity", Op: OpEquals, Value: "High", Active: true})
	store.Set(State{Column: "Severity", Op: OpEquals, Value: "Low", Active: true})

	if store.Len() != 1 {
		t.Fatalf("expected a single entry per column, got %d", store.Len())
	}
	state, _ := store.Get("Severity")
	if state.Value != "Low" {
		t.Errorf("expected replacement value 'Low', got %q", state.Value)
	}
}

func TestStore_SetInactiveRemoves(t *testing.T) {
	store := NewStore()
	store.Set(State{Column: "Severity", Op: OpEquals, Value: "High", Active: true})
	store.Set(State{Column: "Severity", Active: false})

	if _, ok := store.Get("Severity"); ok {
		t.Error("expected inactive set to remove the entry")
	}
	if !store.IsEmpty() {
		t.Error("expected store to be empty")
	}

	// Removing again is a no-op
	store.Set(State{Column: "Severity", Active: false})
	if !store.IsEmpty() {
		t.Error("expected removal to be idempotent")
	}
}

func TestStore_Clear(t *testing.T) {
	store := NewStore()
	store.Set(State{Column: "A", Op: OpContains, Value: "x", Active: true})
	store.Set(State{Column: "B", Op: OpContains, Value: "y", Active: true})

	store.Clear()

	if !store.IsEmpty() {
		t.Error("expected store to be empty after Clear")
	}
}

func TestStore_ActiveOrderedByColumn(t *testing.T) {
	store := NewStore()
	store.Set(State{Column: "Zebra", Op: OpContains, Value: "z", Active: true})
	store.Set(State{Column: "Alpha", Op: OpContains, Value: "a", Active: true})

	active := store.Active()
	if len(active) != 2 {
		t.Fatalf("expected 2 active filters, got %d", len(active))
	}
	if active[0].Column != "Alpha" || active[1].Column != "Zebra" {
		t.Errorf("expected column-name ordering, got %s then %s", active[0].Column, active[1].Column)
	}
}

func TestStore_EmptyColumnIgnored(t *testing.T) {
	store := NewStore()
	store.Set(State{Column: "", Op: OpContains, Value: "x", Active: true})

	if !store.IsEmpty() {
		t.Error("expected a state without a column name to be ignored")
	}
}
