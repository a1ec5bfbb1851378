package statcache

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const timeFormat = "2006-01-02 15:04:05"

// Sample is one statement's statistics at a single point in time
type Sample struct {
	BatchID        string
	SampledAt      time.Time
	QueryID        string
	Query          string
	Calls          int64
	TotalTimeMS    float64
	MeanTimeMS     float64
	Rows           int64
	SharedBlksHit  int64
	SharedBlksRead int64
}

// Point is one value of a time series derived from samples
type Point struct {
	T time.Time
	V float64
}

// Store persists statement samples in a local SQLite database so the
// history view can chart execution over time without keeping the server's
// statistics window open.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the cache at path
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats cache: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create stats cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record writes one batch of samples atomically. All samples in the batch
// share the batch id and timestamp.
func (s *Store) Record(batchID string, at time.Time, samples []Sample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO statement_samples
		(batch_id, sampled_at, query_id, query, calls, total_time_ms,
		 mean_time_ms, rows_returned, shared_blks_hit, shared_blks_read)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	sampledAt := at.UTC().Format(timeFormat)
	for _, sample := range samples {
		_, err := stmt.Exec(
			batchID,
			sampledAt,
			sample.QueryID,
			sample.Query,
			sample.Calls,
			sample.TotalTimeMS,
			sample.MeanTimeMS,
			sample.Rows,
			sample.SharedBlksHit,
			sample.SharedBlksRead,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	return tx.Commit()
}

// QueryRange returns all samples inside the range, oldest first. Zero
// bounds mean unbounded.
func (s *Store) QueryRange(from, to time.Time) ([]Sample, error) {
	query := `
		SELECT batch_id, sampled_at, query_id, query, calls, total_time_ms,
		       mean_time_ms, rows_returned, shared_blks_hit, shared_blks_read
		FROM statement_samples`
	var args []interface{}
	var where []string

	if !from.IsZero() {
		where = append(where, "sampled_at >= ?")
		args = append(args, from.UTC().Format(timeFormat))
	}
	if !to.IsZero() {
		where = append(where, "sampled_at <= ?")
		args = append(args, to.UTC().Format(timeFormat))
	}
	for i, clause := range where {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY sampled_at ASC, total_time_ms DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var samples []Sample
	for rows.Next() {
		var sample Sample
		var sampledAt string
		err := rows.Scan(
			&sample.BatchID,
			&sampledAt,
			&sample.QueryID,
			&sample.Query,
			&sample.Calls,
			&sample.TotalTimeMS,
			&sample.MeanTimeMS,
			&sample.Rows,
			&sample.SharedBlksHit,
			&sample.SharedBlksRead,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		sample.SampledAt, _ = time.Parse(timeFormat, sampledAt)
		samples = append(samples, sample)
	}

	return samples, rows.Err()
}

// Series returns the time series of one metric for a single statement,
// oldest first. Metric is a column name: mean_time_ms, total_time_ms,
// calls or rows_returned.
func (s *Store) Series(queryID, metric string, from, to time.Time) ([]Point, error) {
	switch metric {
	case "mean_time_ms", "total_time_ms", "calls", "rows_returned":
	default:
		return nil, fmt.Errorf("unknown metric %q", metric)
	}

	query := fmt.Sprintf(`
		SELECT sampled_at, %s
		FROM statement_samples
		WHERE query_id = ? AND sampled_at >= ? AND sampled_at <= ?
		ORDER BY sampled_at ASC`, metric)

	rows, err := s.db.Query(query,
		queryID,
		from.UTC().Format(timeFormat),
		to.UTC().Format(timeFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []Point
	for rows.Next() {
		var sampledAt string
		var v float64
		if err := rows.Scan(&sampledAt, &v); err != nil {
			return nil, fmt.Errorf("failed to scan series point: %w", err)
		}
		t, _ := time.Parse(timeFormat, sampledAt)
		points = append(points, Point{T: t, V: v})
	}

	return points, rows.Err()
}

// Prune deletes samples older than the cutoff and returns how many went
func (s *Store) Prune(olderThan time.Time) (int64, error) {
	result, err := s.db.Exec(
		"DELETE FROM statement_samples WHERE sampled_at < ?",
		olderThan.UTC().Format(timeFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune samples: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the underlying database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
