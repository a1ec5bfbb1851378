package presets

import (
	"testing"

	"github.com/pgsentry/pgsentry/internal/filter"
	"github.com/pgsentry/pgsentry/internal/models"
)

func highSeverityFilters() []filter.State {
	return []filter.State{
		{Column: "Severity", Kind: models.KindText, Op: filter.OpEquals, Value: "High", Active: true},
	}
}

func TestManager_AddAndReload(t *testing.T) {
	dir := t.TempDir()

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	preset, err := m.Add("only high", "critical_issues", highSeverityFilters())
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if preset.ID == "" {
		t.Error("expected a generated preset id")
	}

	// A fresh manager sees the persisted preset
	reloaded, err := NewManager(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	presets := reloaded.ForView("critical_issues")
	if len(presets) != 1 {
		t.Fatalf("expected 1 preset, got %d", len(presets))
	}
	if presets[0].Name != "only high" {
		t.Errorf("unexpected preset name %q", presets[0].Name)
	}
	if len(presets[0].Filters) != 1 || presets[0].Filters[0].Value != "High" {
		t.Errorf("filters did not round-trip: %v", presets[0].Filters)
	}
	if !presets[0].Filters[0].Active {
		t.Error("expected filter to round-trip as active")
	}
}

func TestManager_ForViewScoped(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	_, _ = m.Add("a", "critical_issues", highSeverityFilters())
	_, _ = m.Add("b", "daily_summary", nil)

	if got := len(m.ForView("critical_issues")); got != 1 {
		t.Errorf("expected 1 preset for critical_issues, got %d", got)
	}
	if got := len(m.ForView("procedure_history")); got != 0 {
		t.Errorf("expected no presets for procedure_history, got %d", got)
	}
}

func TestManager_TouchAndDelete(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	preset, _ := m.Add("a", "critical_issues", highSeverityFilters())

	if err := m.Touch(preset.ID); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}
	got := m.ForView("critical_issues")[0]
	if got.UseCount != 1 || got.LastUsed.IsZero() {
		t.Errorf("expected touch to bump usage, got %+v", got)
	}

	if err := m.Delete(preset.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(m.ForView("critical_issues")) != 0 {
		t.Error("expected preset removed")
	}

	if err := m.Delete(preset.ID); err == nil {
		t.Error("expected deleting a missing preset to fail")
	}
}
