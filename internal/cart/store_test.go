package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adarsh180/accidentaware/internal/entity"
)

var (
	helmetA = entity.Product{ID: "helmet-a", Name: "Urban Rider Basic", PriceCents: 599, Category: "basic", StockStatus: "In Stock"}
	helmetB = entity.Product{ID: "helmet-b", Name: "Carbon Pro X", PriceCents: 2499, Category: "premium", StockStatus: "In Stock"}
)

// memSnapshotStore is the in-process SnapshotStore used across cart tests.
type memSnapshotStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	fail  bool
	saves int
}

func newMemSnapshotStore() *memSnapshotStore {
	return &memSnapshotStore{blobs: map[string][]byte{}}
}

func (m *memSnapshotStore) Save(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("storage quota exceeded")
	}
	m.saves++
	cp := make([]byte, len(blob))
	copy(cp, blob)
	m.blobs[key] = cp
	return nil
}

func (m *memSnapshotStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errors.New("storage unavailable")
	}
	return m.blobs[key], nil
}

func requireInvariant(t *testing.T, st State) {
	t.Helper()
	var want int64
	seen := map[string]bool{}
	for _, l := range st.Lines {
		require.GreaterOrEqual(t, l.Quantity, 1)
		require.False(t, seen[l.Product.ID], "duplicate line for %s", l.Product.ID)
		seen[l.Product.ID] = true
		want += l.Product.PriceCents * int64(l.Quantity)
	}
	require.Equal(t, want, st.TotalCents)
}

func TestStore_AddMergesLines(t *testing.T) {
	s := newStore("u1", newMemSnapshotStore())

	s.Add(helmetA)
	s.Add(helmetA)

	st := s.Snapshot()
	require.Len(t, st.Lines, 1)
	assert.Equal(t, 2, st.Lines[0].Quantity)
	assert.Equal(t, int64(1198), st.TotalCents)
	requireInvariant(t, st)
}

func TestStore_SetQuantityBelowOneIsNoOp(t *testing.T) {
	s := newStore("u1", newMemSnapshotStore())
	s.Add(helmetA)
	s.Add(helmetA)
	before := s.Snapshot()

	s.SetQuantity(helmetA.ID, 0)
	s.SetQuantity(helmetA.ID, -3)

	assert.Equal(t, before, s.Snapshot())
}

func TestStore_SetQuantityAdjustsTotal(t *testing.T) {
	s := newStore("u1", newMemSnapshotStore())
	s.Add(helmetA)
	s.Add(helmetB)

	s.SetQuantity(helmetA.ID, 5)

	st := s.Snapshot()
	assert.Equal(t, 5*helmetA.PriceCents+helmetB.PriceCents, st.TotalCents)
	requireInvariant(t, st)
}

func TestStore_SetQuantityUnknownProductIsNoOp(t *testing.T) {
	s := newStore("u1", newMemSnapshotStore())
	s.Add(helmetA)
	before := s.Snapshot()

	s.SetQuantity("no-such-product", 3)

	assert.Equal(t, before, s.Snapshot())
}

func TestStore_RemoveIsIdempotent(t *testing.T) {
	s := newStore("u1", newMemSnapshotStore())
	s.Add(helmetA)
	s.Add(helmetA)

	s.Remove(helmetA.ID)
	s.Remove(helmetA.ID) // second remove of an absent line succeeds silently

	st := s.Snapshot()
	assert.Empty(t, st.Lines)
	assert.Zero(t, st.TotalCents)
}

func TestStore_Clear(t *testing.T) {
	s := newStore("u1", newMemSnapshotStore())
	s.Add(helmetA)
	s.Add(helmetB)

	s.Clear()

	st := s.Snapshot()
	assert.Empty(t, st.Lines)
	assert.Zero(t, st.TotalCents)
}

func TestStore_InvariantHoldsAcrossOperationSequence(t *testing.T) {
	s := newStore("u1", newMemSnapshotStore())

	steps := []func(){
		func() { s.Add(helmetA) },
		func() { s.Add(helmetB) },
		func() { s.Add(helmetA) },
		func() { s.SetQuantity(helmetB.ID, 4) },
		func() { s.Remove(helmetA.ID) },
		func() { s.SetQuantity(helmetB.ID, 0) },
		func() { s.Add(helmetA) },
		func() { s.Remove("missing") },
	}
	for _, step := range steps {
		step()
		requireInvariant(t, s.Snapshot())
	}
}

func TestStore_SnapshotIsDeepCopy(t *testing.T) {
	s := newStore("u1", newMemSnapshotStore())
	s.Add(helmetA)

	snap := s.Snapshot()
	s.Clear()

	require.Len(t, snap.Lines, 1)
	assert.Equal(t, int64(599), snap.TotalCents)
	assert.Empty(t, s.Snapshot().Lines)
}

func TestStore_PersistFailureDoesNotCorruptState(t *testing.T) {
	snaps := newMemSnapshotStore()
	snaps.fail = true
	s := newStore("u1", snaps)

	s.Add(helmetA)
	s.Add(helmetA)

	st := s.Snapshot()
	assert.Equal(t, int64(1198), st.TotalCents)
	requireInvariant(t, st)
}

func TestStore_MutationsTriggerPersist(t *testing.T) {
	snaps := newMemSnapshotStore()
	s := newStore("u1", snaps)

	s.Add(helmetA)
	s.SetQuantity(helmetA.ID, 3)
	s.Remove(helmetA.ID)

	snaps.mu.Lock()
	defer snaps.mu.Unlock()
	assert.Equal(t, 3, snaps.saves)
}

func TestStore_ConcurrentAddsKeepTotalConsistent(t *testing.T) {
	s := newStore("u1", newMemSnapshotStore())

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			s.Add(helmetA)
		}()
	}
	wg.Wait()

	st := s.Snapshot()
	require.Len(t, st.Lines, 1)
	assert.Equal(t, n, st.Lines[0].Quantity)
	assert.Equal(t, int64(n)*helmetA.PriceCents, st.TotalCents)
}
