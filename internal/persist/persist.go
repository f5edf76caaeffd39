// Package persist snapshots the session store to durable storage on a
// fixed interval and on shutdown, and restores it best-effort at
// startup. A failed or missing snapshot is never fatal: the assistant
// starts empty and keeps running.
package persist

import (
	"context"
	"time"

	"github.com/avenue-assistant/internal/session"
	"go.uber.org/zap"
)

// DefaultInterval is how often the store is flushed.
const DefaultInterval = 5 * time.Minute

// Backend stores and retrieves session snapshots: a flat mapping from
// session id to its ordered message array.
type Backend interface {
	Load(ctx context.Context) (map[string][]session.Message, error)
	Save(ctx context.Context, snap map[string][]session.Message) error
}

// Manager owns the snapshot lifecycle for one store.
type Manager struct {
	store    *session.Store
	backend  Backend
	interval time.Duration
	logger   *zap.Logger
}

// NewManager creates a manager flushing at the default interval.
func NewManager(store *session.Store, backend Backend, logger *zap.Logger) *Manager {
	return &Manager{
		store:    store,
		backend:  backend,
		interval: DefaultInterval,
		logger:   logger,
	}
}

// Load hydrates the store from the backend. Corrupt or unreadable state
// is logged and treated as "no prior sessions"; startup never fails
// here.
func (m *Manager) Load(ctx context.Context) {
	snap, err := m.backend.Load(ctx)
	if err != nil {
		m.logger.Warn("could not load session snapshot, starting empty", zap.Error(err))
		return
	}
	m.store.Restore(snap)
}

// Save flushes the current store state to the backend. Errors are
// logged, not propagated: the next scheduled save proceeds regardless.
func (m *Manager) Save(ctx context.Context) {
	snap := m.store.Snapshot()
	if err := m.backend.Save(ctx, snap); err != nil {
		m.logger.Error("failed to save session snapshot", zap.Error(err))
		return
	}
	m.logger.Debug("session snapshot saved", zap.Int("sessions", len(snap)))
}

// Run flushes on a ticker until the context is cancelled. The final
// shutdown flush is the caller's responsibility so it can happen after
// the listener has stopped accepting messages.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Save(ctx)
		}
	}
}
