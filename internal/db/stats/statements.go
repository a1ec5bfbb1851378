package stats

import (
	"context"
	"fmt"

	"github.com/pgsentry/pgsentry/internal/db/connection"
	"github.com/pgsentry/pgsentry/internal/statcache"
)

const statementsQuery = `
SELECT queryid::text AS query_id,
       left(query, 500) AS query,
       calls,
       total_exec_time,
       mean_exec_time,
       rows,
       shared_blks_hit,
       shared_blks_read
FROM pg_stat_statements
WHERE queryid IS NOT NULL
ORDER BY total_exec_time DESC
LIMIT $1`

// StatementStats samples pg_stat_statements for the background sampler.
// Requires the pg_stat_statements extension on the monitored server.
type StatementStats struct {
	pool *connection.Pool
	top  int
}

// NewStatementStats creates the source, sampling the top statements by
// total execution time
func NewStatementStats(pool *connection.Pool, top int) *StatementStats {
	if top <= 0 {
		top = 50
	}
	return &StatementStats{pool: pool, top: top}
}

// Sample implements statcache.SampleSource
func (s *StatementStats) Sample(ctx context.Context) ([]statcache.Sample, error) {
	rows, err := s.pool.Query(ctx, statementsQuery, s.top)
	if err != nil {
		return nil, fmt.Errorf("failed to query pg_stat_statements: %w", err)
	}

	samples := make([]statcache.Sample, 0, len(rows))
	for _, row := range rows {
		samples = append(samples, statcache.Sample{
			QueryID:        cellString(row["query_id"]),
			Query:          cellString(row["query"]),
			Calls:          toInt64(row["calls"]),
			TotalTimeMS:    toFloat64(row["total_exec_time"]),
			MeanTimeMS:     toFloat64(row["mean_exec_time"]),
			Rows:           toInt64(row["rows"]),
			SharedBlksHit:  toInt64(row["shared_blks_hit"]),
			SharedBlksRead: toInt64(row["shared_blks_read"]),
		})
	}
	return samples, nil
}

func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int64:
		return float64(val)
	default:
		return 0
	}
}
