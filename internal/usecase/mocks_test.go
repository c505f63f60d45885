package usecase

import (
	"context"
	"errors"
	"sync"
	"time"
)

// In-memory fakes for the checkout ports.

type fakeGateway struct {
	intents  []PaymentIntent
	err      error
	lastCall struct {
		amountCents int64
		currency    string
		receiptRef  string
	}
}

func (g *fakeGateway) CreateIntent(_ context.Context, amountCents int64, currency, receiptRef string) (*PaymentIntent, error) {
	g.lastCall.amountCents = amountCents
	g.lastCall.currency = currency
	g.lastCall.receiptRef = receiptRef
	if g.err != nil {
		return nil, g.err
	}
	in := PaymentIntent{
		ID:          "order_gw_1",
		AmountCents: amountCents,
		Currency:    currency,
		Receipt:     receiptRef,
		Status:      "created",
	}
	g.intents = append(g.intents, in)
	return &in, nil
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*OrderRecord
	events    [][]byte
	createErr error
	getErr    error
	updateErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*OrderRecord{}}
}

func (r *fakeOrderRepo) CreateCompleted(_ context.Context, o *OrderRecord, eventPayload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *o
	r.orders[o.ID] = &cp
	r.events = append(r.events, eventPayload)
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*OrderRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	rec, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]OrderRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	var out []OrderRecord
	for _, rec := range r.orders {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatusIf(_ context.Context, id, fromStatus, toStatus string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return false, r.updateErr
	}
	rec, ok := r.orders[id]
	if !ok || rec.Status != fromStatus {
		return false, nil
	}
	rec.Status = toStatus
	return true, nil
}

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

type fakeIdemStore struct {
	mu     sync.Mutex
	locks  map[string]bool
	values map[string]string
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{locks: map[string]bool{}, values: map[string]string{}}
}

func (s *fakeIdemStore) TryLock(_ context.Context, scope, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := scope + ":" + key
	if s.locks[k] {
		return false, nil
	}
	s.locks[k] = true
	return true, nil
}

func (s *fakeIdemStore) Unlock(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, scope+":"+key)
	return nil
}

func (s *fakeIdemStore) Remember(_ context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[scope+":"+key] = value
	return nil
}

func (s *fakeIdemStore) Recall(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[scope+":"+key]
	return v, ok, nil
}

type fakeStatusCache struct {
	mu       sync.Mutex
	statuses map[string]string
}

func newFakeStatusCache() *fakeStatusCache {
	return &fakeStatusCache{statuses: map[string]string{}}
}

func (c *fakeStatusCache) SetStatus(_ context.Context, orderID, status string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[orderID] = status
	return nil
}

func (c *fakeStatusCache) GetStatus(_ context.Context, orderID string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.statuses[orderID]
	return st, ok, nil
}

var errBoom = errors.New("boom")

const testGatewayTimeout = 2 * time.Second
