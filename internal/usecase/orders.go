package usecase

import (
	"context"
	"fmt"

	"github.com/adarsh180/accidentaware/internal/entity"
)

// Orders answers read queries about a user's own orders.
type Orders struct {
	repo  OrderRepo
	cache OrderCache
}

func NewOrders(repo OrderRepo, cache OrderCache) *Orders {
	return &Orders{repo: repo, cache: cache}
}

// List returns the requester's orders, newest first.
func (uc *Orders) List(ctx context.Context, requester entity.Identity) ([]OrderRecord, error) {
	if requester.IsZero() {
		return nil, entity.ErrUnauthorized
	}
	recs, err := uc.repo.ListByUser(ctx, requester.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	return recs, nil
}

// Get returns one order; callers other than the owner get ErrForbidden.
func (uc *Orders) Get(ctx context.Context, orderID string, requester entity.Identity) (*OrderRecord, error) {
	if requester.IsZero() {
		return nil, entity.ErrUnauthorized
	}
	rec, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	if rec == nil {
		return nil, entity.ErrNotFound
	}
	if rec.UserID != requester.UserID {
		return nil, entity.ErrForbidden
	}
	return rec, nil
}

// Status serves the status poll the checkout page runs. Ownership is checked
// against the database; the cached status, when present, wins because the
// payment-status feed updates it ahead of the orders table.
func (uc *Orders) Status(ctx context.Context, orderID string, requester entity.Identity) (string, error) {
	rec, err := uc.Get(ctx, orderID, requester)
	if err != nil {
		return "", err
	}
	if uc.cache != nil {
		if st, ok, cerr := uc.cache.GetStatus(ctx, orderID); cerr == nil && ok {
			return st, nil
		}
	}
	return rec.Status, nil
}
