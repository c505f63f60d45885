package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/adarsh180/accidentaware/internal/entity"
	"github.com/adarsh180/accidentaware/internal/logging"
)

// SnapshotStore persists cart state between sessions. Best-effort: callers
// swallow save failures and treat a missing key as an empty cart.
type SnapshotStore interface {
	Save(ctx context.Context, key string, blob []byte) error
	Load(ctx context.Context, key string) ([]byte, error) // nil, nil when absent
}

type Line struct {
	Product  entity.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// State is the snapshot shape: what the user intends to buy plus the derived
// total. Invariant: TotalCents == sum(line price * quantity), at most one line
// per product id, every quantity >= 1.
type State struct {
	Lines      []Line `json:"lines"`
	TotalCents int64  `json:"totalCents"`
}

const persistTimeout = 2 * time.Second

// Store holds one user's cart. All mutations run under the store mutex so
// concurrent requests from the same session cannot race the total.
type Store struct {
	mu    sync.Mutex
	key   string
	lines []Line
	dirty bool // set on first mutation; a late snapshot restore must not win
	snaps SnapshotStore
	log   *slog.Logger
}

func newStore(key string, snaps SnapshotStore) *Store {
	return &Store{key: key, snaps: snaps, log: logging.New("cart")}
}

// Add puts one unit of p in the cart, merging with an existing line.
func (s *Store) Add(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
	for i := range s.lines {
		if s.lines[i].Product.ID == p.ID {
			s.lines[i].Quantity++
			s.persist()
			return
		}
	}
	s.lines = append(s.lines, Line{Product: p, Quantity: 1})
	s.persist()
}

// Remove drops the whole line for productID. Removing an absent product is
// not an error.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			s.dirty = true
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persist()
			return
		}
	}
}

// SetQuantity replaces the line's quantity. Quantities below 1 are rejected
// as a no-op: dropping a line goes through Remove, never through a zero
// quantity. Unknown products are also a no-op.
func (s *Store) SetQuantity(productID string, quantity int) {
	if quantity < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			if s.lines[i].Quantity != quantity {
				s.dirty = true
				s.lines[i].Quantity = quantity
				s.persist()
			}
			return
		}
	}
}

// Clear empties the cart. Called by checkout after the order transaction
// commits, and nowhere else.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
	s.lines = nil
	s.persist()
}

// Snapshot returns a deep copy; the caller may keep it across a Clear.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) TotalCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalOf(s.lines)
}

func (s *Store) stateLocked() State {
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return State{Lines: lines, TotalCents: totalOf(s.lines)}
}

// The total is always recomputed from the lines; it is never carried as
// independent state that could drift.
func totalOf(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Product.PriceCents * int64(l.Quantity)
	}
	return total
}

// persist writes the snapshot best-effort. A failed write (store down, quota)
// must never corrupt or roll back the in-memory cart.
func (s *Store) persist() {
	if s.snaps == nil {
		return
	}
	blob, err := json.Marshal(s.stateLocked())
	if err != nil {
		s.log.Debug("cart snapshot marshal failed", "key", s.key, "err", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.snaps.Save(ctx, s.key, blob); err != nil {
		s.log.Debug("cart snapshot save failed", "key", s.key, "err", err)
	}
}

// restore replaces the store contents with a previously saved snapshot,
// dropping lines that no longer satisfy the invariants. A store that has
// already been mutated keeps its live state: the snapshot is older than the
// mutation by construction, and overwriting would lose the update.
func (s *Store) restore(blob []byte) {
	var st State
	if err := json.Unmarshal(blob, &st); err != nil {
		s.log.Warn("cart snapshot unreadable, starting empty", "key", s.key, "err", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty {
		s.log.Debug("cart mutated before snapshot load finished, keeping live state", "key", s.key)
		return
	}
	s.lines = nil
	seen := map[string]bool{}
	for _, l := range st.Lines {
		if l.Quantity < 1 || l.Product.ID == "" || seen[l.Product.ID] {
			continue
		}
		seen[l.Product.ID] = true
		s.lines = append(s.lines, l)
	}
}
