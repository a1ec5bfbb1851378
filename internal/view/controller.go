package view

import (
	"context"
	"fmt"

	"github.com/pgsentry/pgsentry/internal/filter"
	"github.com/pgsentry/pgsentry/internal/models"
)

// DataSource fetches the rows for a view. Implementations live in
// internal/db/stats; the controller only needs column-addressable rows.
type DataSource interface {
	Fetch(ctx context.Context, tr models.TimeRange) (models.Grid, error)
}

// Status is the controller's lifecycle state
type Status int

const (
	StatusUninitialized Status = iota
	StatusIdle
	StatusLoading
)

// ReloadPolicy decides what happens to active filters when a fresh load
// replaces the snapshot
type ReloadPolicy int

const (
	// ReapplyFilters keeps the active filters and reapplies them to the
	// new snapshot
	ReapplyFilters ReloadPolicy = iota
	// ClearFilters drops all filters on every successful load
	ClearFilters
)

// ParseReloadPolicy maps a config string onto a policy. Unknown values
// fall back to reapply.
func ParseReloadPolicy(s string) ReloadPolicy {
	if s == "clear" {
		return ClearFilters
	}
	return ReapplyFilters
}

// Controller owns one view's snapshot, filters and filtered rows. It is
// single-owner and synchronous: the host runs loads on its own goroutines
// and funnels results back through CompleteLoad.
type Controller struct {
	id     models.ViewID
	source DataSource
	policy ReloadPolicy

	status    Status
	timeRange models.TimeRange

	// snapshot is the last fully loaded, unfiltered grid; filtered is
	// always derived from it, never mutated in place
	snapshot models.Grid
	filtered []models.Row
	filters  *filter.Store

	// generation guards against stale loads: a slow fetch that finishes
	// after a newer one was issued must not regress the snapshot
	generation uint64
}

// NewController creates a controller for the given view
func NewController(id models.ViewID, policy ReloadPolicy) *Controller {
	return &Controller{
		id:      id,
		policy:  policy,
		filters: filter.NewStore(),
	}
}

// Bind attaches the external data source
func (c *Controller) Bind(source DataSource) {
	c.source = source
	if c.status == StatusUninitialized {
		c.status = StatusIdle
	}
}

// ID returns the view this controller drives
func (c *Controller) ID() models.ViewID { return c.id }

// Status returns the current lifecycle state
func (c *Controller) Status() Status { return c.status }

// SetTimeRange records the range used by the next load. Pure state
// mutation; no fetch is triggered.
func (c *Controller) SetTimeRange(tr models.TimeRange) {
	c.timeRange = tr
}

// TimeRange returns the range the next load will use
func (c *Controller) TimeRange() models.TimeRange { return c.timeRange }

// Columns returns the snapshot's column metadata
func (c *Controller) Columns() []models.Column { return c.snapshot.Columns }

// Rows returns the current filtered view
func (c *Controller) Rows() []models.Row { return c.filtered }

// SnapshotLen returns the unfiltered row count
func (c *Controller) SnapshotLen() int { return len(c.snapshot.Rows) }

// Empty reports whether the filtered view has no rows to show
func (c *Controller) Empty() bool { return len(c.filtered) == 0 }

// Filters exposes the filter store for display purposes (active-filter
// badges, the filter editor's prior state). Mutation goes through
// SetFilter and ClearFilters so the filtered view stays consistent.
func (c *Controller) Filters() *filter.Store { return c.filters }

// FilterActive reports whether the named column currently constrains the view
func (c *Controller) FilterActive(column string) bool {
	_, ok := c.filters.Get(column)
	return ok
}

// Load is one load generation's working set: the source and time range
// captured at BeginLoad. Worker goroutines fetch through the Load value
// and never read controller fields, so SetTimeRange and Bind stay free
// to run on the update loop while a fetch is in flight.
type Load struct {
	Generation uint64

	source    DataSource
	timeRange models.TimeRange
}

// Fetch runs the load's data source over its captured time range. Safe
// to call from a worker goroutine.
func (l Load) Fetch(ctx context.Context) (models.Grid, error) {
	return l.source.Fetch(ctx, l.timeRange)
}

// BeginLoad starts a new load generation, capturing the source and time
// range in the returned Load. It fails when no data source is bound. A
// load that is already in flight is superseded, not coalesced: its
// result will be rejected as stale.
func (c *Controller) BeginLoad() (Load, error) {
	if c.source == nil {
		return Load{}, fmt.Errorf("%s: %w", c.id, ErrNoSource)
	}
	c.generation++
	c.status = StatusLoading
	return Load{
		Generation: c.generation,
		source:     c.source,
		timeRange:  c.timeRange,
	}, nil
}

// CompleteLoad finishes the load started by BeginLoad. Results from a
// superseded generation return ErrStaleLoad and mutate nothing. A fetch
// error keeps the prior snapshot and filtered view intact. On success the
// snapshot is replaced wholesale and the reload policy decides whether
// filters survive.
func (c *Controller) CompleteLoad(generation uint64, grid models.Grid, fetchErr error) error {
	if generation != c.generation {
		return fmt.Errorf("%s: %w", c.id, ErrStaleLoad)
	}
	c.status = StatusIdle

	if fetchErr != nil {
		return &DataSourceError{View: c.id.String(), Err: fetchErr}
	}

	c.snapshot = grid
	if c.policy == ClearFilters {
		c.filters.Clear()
	}
	c.filtered = filter.Apply(c.snapshot, c.filters)
	return nil
}

// Refresh is the synchronous load path: begin, fetch, complete
func (c *Controller) Refresh(ctx context.Context) error {
	load, err := c.BeginLoad()
	if err != nil {
		return err
	}
	grid, fetchErr := load.Fetch(ctx)
	return c.CompleteLoad(load.Generation, grid, fetchErr)
}

// SetFilter mutates the filter store and recomputes the filtered view
// from the snapshot. No re-fetch happens.
func (c *Controller) SetFilter(state filter.State) {
	c.filters.Set(state)
	c.filtered = filter.Apply(c.snapshot, c.filters)
}

// ClearFilters drops all filters and restores the unfiltered snapshot
func (c *Controller) ClearFilters() {
	c.filters.Clear()
	c.filtered = filter.Apply(c.snapshot, c.filters)
}
