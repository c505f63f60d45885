package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/adarsh180/accidentaware/internal/logging"
)

// Manager hands out one Store per user. Stores are created lazily and
// rehydrated from their last snapshot the first time a user shows up.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
	snaps  SnapshotStore
	log    *slog.Logger
}

func NewManager(snaps SnapshotStore) *Manager {
	return &Manager{
		stores: make(map[string]*Store),
		snaps:  snaps,
		log:    logging.New("cart"),
	}
}

// ForUser returns the user's cart, loading the persisted snapshot on first
// access. A missing or unreadable snapshot yields an empty cart.
func (m *Manager) ForUser(ctx context.Context, userID string) *Store {
	m.mu.Lock()
	if s, ok := m.stores[userID]; ok {
		m.mu.Unlock()
		return s
	}
	s := newStore(userID, m.snaps)
	m.stores[userID] = s
	m.mu.Unlock()

	if m.snaps != nil {
		blob, err := m.snaps.Load(ctx, userID)
		if err != nil {
			m.log.Debug("cart snapshot load failed", "user", userID, "err", err)
		} else if blob != nil {
			s.restore(blob)
		}
	}
	return s
}
