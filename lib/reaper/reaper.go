package reaper

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the time between two expiration sweeps.
const DefaultInterval = 5 * time.Second

// Store is the minimal contract the reaper needs from the store engine.
// RemoveExpired must perform the whole sweep inside the engine's own
// critical section so the reaper cannot race a lazily-expiring read.
type Store interface {
	RemoveExpired() int
}

// Reaper proactively removes expired keys on a fixed interval, independent
// of reads. Removal counts are logged; there is no other output.
type Reaper struct {
	store    Store
	interval time.Duration
	log      *zap.SugaredLogger
}

// New creates a reaper. A non-positive interval falls back to DefaultInterval.
func New(store Store, interval time.Duration, log *zap.SugaredLogger) *Reaper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reaper{
		store:    store,
		interval: interval,
		log:      log,
	}
}

// Run sweeps until the context is cancelled. It blocks and is meant to be
// started in its own goroutine.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := r.store.RemoveExpired(); removed > 0 {
				r.log.Infow("removed expired keys", "count", removed)
			}
		case <-ctx.Done():
			r.log.Debug("reaper stopped")
			return
		}
	}
}
