package entity

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Money values are integer minor currency units (paise for INR).
type Money struct {
	Cents    int64
	Currency string
}

// Order is the durable record of a verified purchase. Immutable after
// creation except for the COMPLETED -> CANCELLED status transition.
type Order struct {
	ID         string
	UserID     string
	IntentRef  string // gateway order id the payment was made against
	PaymentRef string // gateway payment id
	Status     Status
	Amount     Money
	ItemsJSON  string // cart snapshot taken at verification time
	CreatedAt  time.Time
}

func (o *Order) Validate() error {
	if o.Amount.Cents <= 0 || o.Amount.Currency == "" {
		return ErrInvalidAmount
	}
	if o.UserID == "" {
		return ErrUnauthorized
	}
	return nil
}

// Identity is the authenticated caller, as established by the HTTP layer.
// A zero Identity means "not signed in".
type Identity struct {
	UserID string
	Email  string
}

func (i Identity) IsZero() bool { return i.UserID == "" }
