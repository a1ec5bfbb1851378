package stats

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pgsentry/pgsentry/internal/db/connection"
	"github.com/pgsentry/pgsentry/internal/models"
)

const summaryQuery = `
SELECT datname,
       xact_commit,
       xact_rollback,
       blks_read,
       blks_hit,
       tup_returned,
       tup_fetched,
       deadlocks,
       temp_files,
       temp_bytes,
       stats_reset
FROM pg_stat_database
WHERE datname IS NOT NULL
  AND datname NOT IN ('template0', 'template1')
ORDER BY datname`

// DailySummary aggregates per-database activity from pg_stat_database.
// The counters are cumulative since the last stats reset, which the grid
// shows alongside them; the time range is not applicable.
type DailySummary struct {
	pool *connection.Pool
}

// NewDailySummary creates the source
func NewDailySummary(pool *connection.Pool) *DailySummary {
	return &DailySummary{pool: pool}
}

// Fetch returns one row per database
func (s *DailySummary) Fetch(ctx context.Context, _ models.TimeRange) (models.Grid, error) {
	rows, err := s.pool.Query(ctx, summaryQuery)
	if err != nil {
		return models.Grid{}, fmt.Errorf("failed to query pg_stat_database: %w", err)
	}

	grid := models.Grid{Columns: summaryColumns()}
	for _, row := range rows {
		grid.Rows = append(grid.Rows, models.Row{
			cellString(row["datname"]),
			cellString(row["xact_commit"]),
			cellString(row["xact_rollback"]),
			cellString(row["blks_read"]),
			cellString(row["blks_hit"]),
			cacheHitPercent(row),
			cellString(row["tup_returned"]),
			cellString(row["tup_fetched"]),
			cellString(row["deadlocks"]),
			cellString(row["temp_files"]),
			cellString(row["temp_bytes"]),
			cellString(row["stats_reset"]),
		})
	}
	return grid, nil
}

func summaryColumns() []models.Column {
	return []models.Column{
		{Name: "Database", Kind: models.KindText},
		{Name: "Commits", Kind: models.KindNumeric},
		{Name: "Rollbacks", Kind: models.KindNumeric},
		{Name: "Blocks Read", Kind: models.KindNumeric},
		{Name: "Blocks Hit", Kind: models.KindNumeric},
		{Name: "Cache Hit %", Kind: models.KindNumeric},
		{Name: "Rows Returned", Kind: models.KindNumeric},
		{Name: "Rows Fetched", Kind: models.KindNumeric},
		{Name: "Deadlocks", Kind: models.KindNumeric},
		{Name: "Temp Files", Kind: models.KindNumeric},
		{Name: "Temp Bytes", Kind: models.KindNumeric},
		{Name: "Stats Reset", Kind: models.KindTime},
	}
}

// cacheHitPercent derives the buffer cache hit ratio for one database
func cacheHitPercent(row map[string]interface{}) string {
	read := toInt64(row["blks_read"])
	hit := toInt64(row["blks_hit"])
	total := read + hit
	if total == 0 {
		return ""
	}
	return strconv.FormatFloat(float64(hit)/float64(total)*100, 'f', 2, 64)
}

func toInt64(v interface{}) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case int32:
		return int64(val)
	case float64:
		return int64(val)
	default:
		return 0
	}
}
