package statcache

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// SampleSource produces one batch of current statement statistics
type SampleSource interface {
	Sample(ctx context.Context) ([]Sample, error)
}

// Sampler periodically records statement statistics into the store. It
// runs on its own goroutine; failures are logged and the next tick tries
// again.
type Sampler struct {
	source    SampleSource
	store     *Store
	interval  time.Duration
	retention time.Duration
}

// NewSampler creates a sampler. Retention <= 0 disables pruning.
func NewSampler(source SampleSource, store *Store, interval, retention time.Duration) *Sampler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sampler{
		source:    source,
		store:     store,
		interval:  interval,
		retention: retention,
	}
}

// Run samples until the context is cancelled. An immediate first sample
// runs before the ticker starts so the history view has data right away.
func (s *Sampler) Run(ctx context.Context) {
	s.sampleOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sampleOnce(ctx)
		}
	}
}

func (s *Sampler) sampleOnce(ctx context.Context) {
	samples, err := s.source.Sample(ctx)
	if err != nil {
		log.Printf("sampler: sample failed: %v", err)
		return
	}

	now := time.Now()
	if err := s.store.Record(uuid.NewString(), now, samples); err != nil {
		log.Printf("sampler: record failed: %v", err)
		return
	}

	if s.retention > 0 {
		if _, err := s.store.Prune(now.Add(-s.retention)); err != nil {
			log.Printf("sampler: prune failed: %v", err)
		}
	}
}
