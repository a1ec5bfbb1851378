package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/pgsentry/pgsentry/internal/db/connection"
	"github.com/pgsentry/pgsentry/internal/models"
)

// Issue severities and categories shown in the Critical Issues grid
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"

	CategoryBlocked     = "Blocked session"
	CategoryLongRunning = "Long-running query"
	CategoryIdleInTx    = "Idle in transaction"
	CategoryLockWait    = "Lock wait"
)

const activityQuery = `
SELECT pid,
       datname,
       usename,
       state,
       wait_event_type,
       query_start,
       xact_start,
       left(query, 500) AS query,
       cardinality(pg_blocking_pids(pid)) AS blocked_by
FROM pg_stat_activity
WHERE pid <> pg_backend_pid()
  AND state IS NOT NULL
  AND state <> 'idle'
ORDER BY query_start ASC NULLS LAST`

// CriticalIssues surfaces currently problematic sessions: blocked
// backends, long-running queries, idle-in-transaction sessions and lock
// waits. It reads live state, so the time range is not applicable.
type CriticalIssues struct {
	pool *connection.Pool

	// Thresholds for classifying a session as an issue
	LongQuery time.Duration
	IdleInTx  time.Duration
}

// NewCriticalIssues creates the source with the given thresholds
func NewCriticalIssues(pool *connection.Pool, longQuery, idleInTx time.Duration) *CriticalIssues {
	return &CriticalIssues{
		pool:      pool,
		LongQuery: longQuery,
		IdleInTx:  idleInTx,
	}
}

// Fetch classifies the current sessions and returns the issue grid
func (s *CriticalIssues) Fetch(ctx context.Context, _ models.TimeRange) (models.Grid, error) {
	rows, err := s.pool.Query(ctx, activityQuery)
	if err != nil {
		return models.Grid{}, fmt.Errorf("failed to query pg_stat_activity: %w", err)
	}

	grid := models.Grid{Columns: criticalColumns()}
	now := time.Now()

	for _, row := range rows {
		issue, ok := s.classify(row, now)
		if !ok {
			continue
		}
		grid.Rows = append(grid.Rows, issue)
	}
	return grid, nil
}

func criticalColumns() []models.Column {
	return []models.Column{
		{Name: "Severity", Kind: models.KindText},
		{Name: "Category", Kind: models.KindText},
		{Name: "PID", Kind: models.KindNumeric},
		{Name: "Database", Kind: models.KindText},
		{Name: "User", Kind: models.KindText},
		{Name: "Duration (s)", Kind: models.KindNumeric},
		{Name: "Started", Kind: models.KindTime, TimeOfDay: true},
		{Name: "Query", Kind: models.KindText},
	}
}

// classify decides whether a session row is an issue worth showing
func (s *CriticalIssues) classify(row map[string]interface{}, now time.Time) (models.Row, bool) {
	state := cellString(row["state"])
	waitType := cellString(row["wait_event_type"])

	var started time.Time
	if t, ok := row["query_start"].(time.Time); ok {
		started = t
	}
	if state == "idle in transaction" {
		if t, ok := row["xact_start"].(time.Time); ok {
			started = t
		}
	}

	var duration time.Duration
	if !started.IsZero() {
		duration = now.Sub(started)
	}

	blockedBy := int64(0)
	switch v := row["blocked_by"].(type) {
	case int64:
		blockedBy = v
	case int32:
		blockedBy = int64(v)
	}

	var severity, category string
	switch {
	case blockedBy > 0:
		severity, category = SeverityHigh, CategoryBlocked
	case state == "idle in transaction" && duration >= s.IdleInTx:
		severity, category = SeverityMedium, CategoryIdleInTx
	case state == "active" && duration >= s.LongQuery:
		severity, category = SeverityHigh, CategoryLongRunning
	case waitType == "Lock":
		severity, category = SeverityMedium, CategoryLockWait
	default:
		return nil, false
	}

	startedCell := ""
	if !started.IsZero() {
		startedCell = started.Format(timeFormat)
	}

	return models.Row{
		severity,
		category,
		cellString(row["pid"]),
		cellString(row["datname"]),
		cellString(row["usename"]),
		seconds(duration),
		startedCell,
		cellString(row["query"]),
	}, true
}
