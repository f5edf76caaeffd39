package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultSweepInterval is how often the reaper runs.
	DefaultSweepInterval = 24 * time.Hour

	// DefaultRetention is how long an idle session is kept before it
	// becomes eligible for eviction.
	DefaultRetention = 7 * 24 * time.Hour
)

// Reaper periodically evicts stale and empty sessions from a store.
// It is pure maintenance: each sweep iterates the full store once and
// never blocks foreground message handling.
type Reaper struct {
	store     *Store
	interval  time.Duration
	retention time.Duration
	logger    *zap.Logger
}

// NewReaper creates a reaper with the default daily sweep and 7-day
// retention window.
func NewReaper(store *Store, logger *zap.Logger) *Reaper {
	return &Reaper{
		store:     store,
		interval:  DefaultSweepInterval,
		retention: DefaultRetention,
		logger:    logger,
	}
}

// Run sweeps on a ticker until the context is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Sweep evicts sessions idle for longer than the retention window, or
// with no messages at all.
func (r *Reaper) Sweep() {
	cutoff := time.Now().Add(-r.retention).UnixMilli()
	if evicted := r.store.Reap(cutoff); evicted > 0 {
		r.logger.Info("reaped stale sessions",
			zap.Int("evicted", evicted),
			zap.Int("remaining", r.store.Len()))
	}
}
