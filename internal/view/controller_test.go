package view

import (
	"context"
	"errors"
	"testing"

	"github.com/pgsentry/pgsentry/internal/filter"
	"github.com/pgsentry/pgsentry/internal/models"
)

// fakeSource returns a fixed grid or error and records fetch calls
type fakeSource struct {
	grid    models.Grid
	err     error
	fetches int
	lastTR  models.TimeRange
}

func (f *fakeSource) Fetch(_ context.Context, tr models.TimeRange) (models.Grid, error) {
	f.fetches++
	f.lastTR = tr
	if f.err != nil {
		return models.Grid{}, f.err
	}
	return f.grid, nil
}

func issuesGrid(severities ...string) models.Grid {
	g := models.Grid{
		Columns: []models.Column{{Name: "Severity", Kind: models.KindText}},
	}
	for _, s := range severities {
		g.Rows = append(g.Rows, models.Row{s})
	}
	return g
}

func TestController_RefreshWithoutSource(t *testing.T) {
	c := NewController(models.ViewCriticalIssues, ReapplyFilters)

	err := c.Refresh(context.Background())
	if !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
	if c.Status() != StatusUninitialized {
		t.Error("expected controller to stay uninitialized")
	}
}

func TestController_RefreshHappyPath(t *testing.T) {
	c := NewController(models.ViewCriticalIssues, ReapplyFilters)
	c.Bind(&fakeSource{grid: issuesGrid("High", "Low")})

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if c.Status() != StatusIdle {
		t.Errorf("expected StatusIdle, got %v", c.Status())
	}
	if len(c.Rows()) != 2 {
		t.Errorf("expected 2 rows, got %d", len(c.Rows()))
	}
	if c.Empty() {
		t.Error("expected non-empty view")
	}
}

func TestController_SetTimeRangeUsedOnNextLoad(t *testing.T) {
	src := &fakeSource{grid: issuesGrid("High")}
	c := NewController(models.ViewProcedureHistory, ReapplyFilters)
	c.Bind(src)

	tr := models.LastHours(6)
	c.SetTimeRange(tr)

	if src.fetches != 0 {
		t.Fatal("SetTimeRange must not trigger a fetch")
	}
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if !src.lastTR.From.Equal(tr.From) || !src.lastTR.To.Equal(tr.To) {
		t.Error("expected the fetch to use the configured time range")
	}
}

func TestController_FetchErrorKeepsPriorView(t *testing.T) {
	src := &fakeSource{grid: issuesGrid("High", "Low")}
	c := NewController(models.ViewCriticalIssues, ReapplyFilters)
	c.Bind(src)

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("initial Refresh failed: %v", err)
	}

	src.err = errors.New("connection refused")
	err := c.Refresh(context.Background())

	var dsErr *DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %v", err)
	}
	if len(c.Rows()) != 2 {
		t.Errorf("expected prior view to survive the failure, got %d rows", len(c.Rows()))
	}
	if c.Status() != StatusIdle {
		t.Error("expected controller back at StatusIdle after a failed load")
	}
}

func TestController_ReapplyPolicyKeepsFilters(t *testing.T) {
	src := &fakeSource{grid: issuesGrid("High", "Low", "High")}
	c := NewController(models.ViewDailySummary, ReapplyFilters)
	c.Bind(src)
	_ = c.Refresh(context.Background())

	c.SetFilter(filter.State{Column: "Severity", Kind: models.KindText, Op: filter.OpEquals, Value: "High", Active: true})
	if len(c.Rows()) != 2 {
		t.Fatalf("expected 2 filtered rows, got %d", len(c.Rows()))
	}

	src.grid = issuesGrid("High", "Low", "Low")
	_ = c.Refresh(context.Background())

	if c.Filters().IsEmpty() {
		t.Fatal("expected filters to survive the reload")
	}
	if len(c.Rows()) != 1 {
		t.Errorf("expected filter reapplied to the new snapshot, got %d rows", len(c.Rows()))
	}
}

func TestController_ClearPolicyDropsFilters(t *testing.T) {
	src := &fakeSource{grid: issuesGrid("High", "Low")}
	c := NewController(models.ViewCriticalIssues, ClearFilters)
	c.Bind(src)
	_ = c.Refresh(context.Background())

	c.SetFilter(filter.State{Column: "Severity", Kind: models.KindText, Op: filter.OpEquals, Value: "High", Active: true})
	_ = c.Refresh(context.Background())

	if !c.Filters().IsEmpty() {
		t.Error("expected filters cleared on reload")
	}
	if len(c.Rows()) != 2 {
		t.Errorf("expected the full snapshot after reload, got %d rows", len(c.Rows()))
	}
}

func TestController_StaleLoadRejected(t *testing.T) {
	c := NewController(models.ViewCriticalIssues, ReapplyFilters)
	c.Bind(&fakeSource{})

	oldLoad, err := c.BeginLoad()
	if err != nil {
		t.Fatalf("BeginLoad failed: %v", err)
	}
	newLoad, err := c.BeginLoad()
	if err != nil {
		t.Fatalf("second BeginLoad failed: %v", err)
	}

	// The newer load lands first
	if err := c.CompleteLoad(newLoad.Generation, issuesGrid("High"), nil); err != nil {
		t.Fatalf("CompleteLoad failed: %v", err)
	}

	// The slow, older load must not regress the snapshot
	err = c.CompleteLoad(oldLoad.Generation, issuesGrid("Stale", "Stale", "Stale"), nil)
	if !errors.Is(err, ErrStaleLoad) {
		t.Fatalf("expected ErrStaleLoad, got %v", err)
	}
	if len(c.Rows()) != 1 || c.Rows()[0][0] != "High" {
		t.Errorf("expected the newer snapshot to win, got %v", c.Rows())
	}
}

func TestController_LoadCapturesTimeRangeAtBegin(t *testing.T) {
	src := &fakeSource{grid: issuesGrid("High")}
	c := NewController(models.ViewProcedureHistory, ReapplyFilters)
	c.Bind(src)

	tr := models.LastHours(6)
	c.SetTimeRange(tr)
	load, err := c.BeginLoad()
	if err != nil {
		t.Fatalf("BeginLoad failed: %v", err)
	}

	// A window change after BeginLoad must not leak into the in-flight load
	c.SetTimeRange(models.LastHours(48))
	if _, err := load.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !src.lastTR.From.Equal(tr.From) || !src.lastTR.To.Equal(tr.To) {
		t.Error("expected the load to fetch with the range captured at BeginLoad")
	}
}

// Exercises BeginLoad/Fetch against concurrent SetTimeRange; run with
// -race to verify the worker path reads no controller fields.
func TestController_FetchConcurrentWithTimeRangeChanges(t *testing.T) {
	src := &fakeSource{grid: issuesGrid("High")}
	c := NewController(models.ViewProcedureHistory, ReapplyFilters)
	c.Bind(src)

	for i := 0; i < 50; i++ {
		load, err := c.BeginLoad()
		if err != nil {
			t.Fatalf("BeginLoad failed: %v", err)
		}

		done := make(chan error, 1)
		go func() {
			_, fetchErr := load.Fetch(context.Background())
			done <- fetchErr
		}()

		c.SetTimeRange(models.LastHours(i%24 + 1))

		if err := <-done; err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
	}
}

func TestController_SetFilterRecomputesWithoutFetch(t *testing.T) {
	src := &fakeSource{grid: issuesGrid("High", "Low", "High")}
	c := NewController(models.ViewCriticalIssues, ReapplyFilters)
	c.Bind(src)
	_ = c.Refresh(context.Background())

	fetchesBefore := src.fetches
	c.SetFilter(filter.State{Column: "Severity", Kind: models.KindText, Op: filter.OpEquals, Value: "High", Active: true})

	if src.fetches != fetchesBefore {
		t.Error("filter changes must not re-fetch")
	}
	if len(c.Rows()) != 2 {
		t.Errorf("expected 2 rows after filtering, got %d", len(c.Rows()))
	}
	if !c.FilterActive("Severity") {
		t.Error("expected the Severity filter to be reported active")
	}

	c.SetFilter(filter.State{Column: "Severity", Active: false})
	if len(c.Rows()) != 3 {
		t.Errorf("expected the unfiltered view back, got %d rows", len(c.Rows()))
	}
	if c.FilterActive("Severity") {
		t.Error("expected the Severity filter to be inactive")
	}
}

func TestController_EmptySnapshotSignalsEmptyState(t *testing.T) {
	c := NewController(models.ViewCriticalIssues, ReapplyFilters)
	c.Bind(&fakeSource{grid: models.Grid{Columns: []models.Column{{Name: "Severity"}}}})
	_ = c.Refresh(context.Background())

	if !c.Empty() {
		t.Error("expected empty view for a zero-row load")
	}
}

func TestParseReloadPolicy(t *testing.T) {
	if ParseReloadPolicy("clear") != ClearFilters {
		t.Error("expected 'clear' to parse to ClearFilters")
	}
	if ParseReloadPolicy("reapply") != ReapplyFilters {
		t.Error("expected 'reapply' to parse to ReapplyFilters")
	}
	if ParseReloadPolicy("bogus") != ReapplyFilters {
		t.Error("expected unknown policy to fall back to ReapplyFilters")
	}
}
