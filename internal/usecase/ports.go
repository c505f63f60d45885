package usecase

import (
	"context"
	"time"
)

// Persistence shape (kept out of domain).
type OrderRecord struct {
	ID          string
	UserID      string
	IntentRef   string
	PaymentRef  string
	Status      string
	AmountCents int64
	Currency    string
	ItemsJSON   string
	CreatedAt   time.Time
}

type OrderRepo interface {
	// CreateCompleted inserts the order row and its outbox event in a single
	// transaction. Either both land or neither does.
	CreateCompleted(ctx context.Context, o *OrderRecord, eventPayload []byte) error
	GetByID(ctx context.Context, id string) (*OrderRecord, error)
	ListByUser(ctx context.Context, userID string) ([]OrderRecord, error)
	// UpdateStatusIf transitions fromStatus -> toStatus; false when the row
	// is missing or no longer in fromStatus.
	UpdateStatusIf(ctx context.Context, id, fromStatus, toStatus string) (bool, error)
}

// OutboxRow is a pending integration event awaiting publication.
type OutboxRow struct {
	ID         int64
	Channel    string
	Payload    []byte
	RetryCount int
}

type OutboxRepo interface {
	FetchPending(ctx context.Context, limit int) ([]OutboxRow, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, nextAttempt time.Time) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	// Unlock releases a lock whose unit of work failed, so the caller can
	// retry before the TTL expires.
	Unlock(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

type OrderCache interface {
	SetStatus(ctx context.Context, orderID, status string) error
	GetStatus(ctx context.Context, orderID string) (string, bool, error)
}

// PaymentIntent mirrors the gateway-side order; held only long enough to
// launch the hosted payment UI and correlate the callback.
type PaymentIntent struct {
	ID          string
	AmountCents int64
	Currency    string
	Receipt     string
	Status      string
}

type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency, receiptRef string) (*PaymentIntent, error)
}

type UserRecord struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

type UserRepo interface {
	Create(ctx context.Context, u *UserRecord) error
	GetByEmail(ctx context.Context, email string) (*UserRecord, error)
}
