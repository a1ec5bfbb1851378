package stats

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pgsentry/pgsentry/internal/models"
	"github.com/pgsentry/pgsentry/internal/statcache"
)

// ProcedureHistory serves the statement execution history view from the
// local sample cache, so charting a range never re-queries the server.
type ProcedureHistory struct {
	store *statcache.Store
}

// NewProcedureHistory creates the source over an open cache
func NewProcedureHistory(store *statcache.Store) *ProcedureHistory {
	return &ProcedureHistory{store: store}
}

// Fetch returns every sample inside the time range, oldest first
func (s *ProcedureHistory) Fetch(_ context.Context, tr models.TimeRange) (models.Grid, error) {
	samples, err := s.store.QueryRange(tr.From, tr.To)
	if err != nil {
		return models.Grid{}, fmt.Errorf("failed to read stats cache: %w", err)
	}

	grid := models.Grid{Columns: historyColumns()}
	for _, sample := range samples {
		grid.Rows = append(grid.Rows, models.Row{
			sample.SampledAt.Format(timeFormat),
			sample.QueryID,
			sample.Query,
			strconv.FormatInt(sample.Calls, 10),
			strconv.FormatFloat(sample.MeanTimeMS, 'f', 2, 64),
			strconv.FormatFloat(sample.TotalTimeMS, 'f', 2, 64),
			strconv.FormatInt(sample.Rows, 10),
			strconv.FormatInt(sample.SharedBlksHit, 10),
			strconv.FormatInt(sample.SharedBlksRead, 10),
		})
	}
	return grid, nil
}

func historyColumns() []models.Column {
	return []models.Column{
		{Name: "Sampled At", Kind: models.KindTime, TimeOfDay: true},
		{Name: "Query ID", Kind: models.KindText},
		{Name: "Query", Kind: models.KindText},
		{Name: "Calls", Kind: models.KindNumeric},
		{Name: "Mean (ms)", Kind: models.KindNumeric},
		{Name: "Total (ms)", Kind: models.KindNumeric},
		{Name: "Rows", Kind: models.KindNumeric},
		{Name: "Blks Hit", Kind: models.KindNumeric},
		{Name: "Blks Read", Kind: models.KindNumeric},
	}
}
