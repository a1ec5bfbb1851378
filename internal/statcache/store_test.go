package statcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleAt(queryID string, mean float64) Sample {
	return Sample{
		QueryID:     queryID,
		Query:       "SELECT * FROM orders WHERE id = $1",
		Calls:       10,
		TotalTimeMS: mean * 10,
		MeanTimeMS:  mean,
		Rows:        10,
	}
}

func TestStore_RecordAndQueryRange(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if err := store.Record("batch-1", base, []Sample{sampleAt("q1", 2.5), sampleAt("q2", 1.0)}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Record("batch-2", base.Add(time.Minute), []Sample{sampleAt("q1", 3.0)}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	samples, err := store.QueryRange(base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("QueryRange failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	if samples[0].BatchID != "batch-1" {
		t.Errorf("expected oldest batch first, got %s", samples[0].BatchID)
	}
	if !samples[0].SampledAt.Equal(base) {
		t.Errorf("expected sample time %v, got %v", base, samples[0].SampledAt)
	}
}

func TestStore_QueryRangeBounds(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	_ = store.Record("early", base, []Sample{sampleAt("q1", 1)})
	_ = store.Record("late", base.Add(2*time.Hour), []Sample{sampleAt("q1", 2)})

	samples, err := store.QueryRange(base.Add(time.Hour), base.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("QueryRange failed: %v", err)
	}
	if len(samples) != 1 || samples[0].BatchID != "late" {
		t.Errorf("expected only the late batch, got %v", samples)
	}
}

func TestStore_EmptyBatchIsNoop(t *testing.T) {
	store := newTestStore(t)

	if err := store.Record("empty", time.Now(), nil); err != nil {
		t.Fatalf("empty Record failed: %v", err)
	}
	samples, err := store.QueryRange(time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("QueryRange failed: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("expected no samples, got %d", len(samples))
	}
}

func TestStore_Series(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	_ = store.Record("b1", base, []Sample{sampleAt("q1", 2.0), sampleAt("q2", 9.0)})
	_ = store.Record("b2", base.Add(time.Minute), []Sample{sampleAt("q1", 4.0)})

	points, err := store.Series("q1", "mean_time_ms", base, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("Series failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].V != 2.0 || points[1].V != 4.0 {
		t.Errorf("unexpected series values: %v", points)
	}
}

func TestStore_SeriesRejectsUnknownMetric(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Series("q1", "calls; DROP TABLE statement_samples", time.Time{}, time.Now()); err == nil {
		t.Error("expected unknown metric to be rejected")
	}
}

func TestStore_Prune(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	_ = store.Record("old", base, []Sample{sampleAt("q1", 1)})
	_ = store.Record("new", base.Add(time.Hour), []Sample{sampleAt("q1", 2)})

	pruned, err := store.Prune(base.Add(30 * time.Minute))
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if pruned != 1 {
		t.Errorf("expected 1 pruned sample, got %d", pruned)
	}

	samples, _ := store.QueryRange(time.Time{}, time.Time{})
	if len(samples) != 1 || samples[0].BatchID != "new" {
		t.Errorf("expected only the new batch to remain, got %v", samples)
	}
}

// fixedSource returns a canned batch for sampler tests
type fixedSource struct {
	samples []Sample
}

func (f *fixedSource) Sample(_ context.Context) ([]Sample, error) {
	return f.samples, nil
}

func TestSampler_ImmediateFirstSample(t *testing.T) {
	store := newTestStore(t)
	sampler := NewSampler(&fixedSource{samples: []Sample{sampleAt("q1", 5)}}, store, time.Hour, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sampler.Run(ctx)
		close(done)
	}()

	// The first sample happens before the ticker, so a short wait suffices
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		samples, err := store.QueryRange(time.Time{}, time.Time{})
		if err == nil && len(samples) == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	samples, err := store.QueryRange(time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("QueryRange failed: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("expected exactly 1 sample, got %d", len(samples))
	}
	if samples[0].BatchID == "" {
		t.Error("expected a generated batch id")
	}
}
