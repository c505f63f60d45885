package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adarsh180/accidentaware/internal/cart"
	"github.com/adarsh180/accidentaware/internal/entity"
	"github.com/adarsh180/accidentaware/internal/logging"
	"github.com/adarsh180/accidentaware/internal/security"
)

// ErrDuplicate is returned when a second callback for the same payment
// arrives while the first is still being recorded. Safe to retry.
var ErrDuplicate = errors.New("duplicate payment callback")

const idemScopePayment = "payment"

// CallbackPayload is the strictly-validated shape of the gateway's
// post-payment callback. Anything missing fails before signature
// verification runs.
type CallbackPayload struct {
	OrderRef   string `json:"orderId"`
	PaymentRef string `json:"paymentId"`
	Signature  string `json:"signature"`
}

func (p CallbackPayload) validate() error {
	if p.OrderRef == "" || p.PaymentRef == "" || p.Signature == "" {
		return entity.ErrBadCallback
	}
	return nil
}

// Checkout turns a cart into a verified, persisted order.
type Checkout struct {
	gw        PaymentGateway
	repo      OrderRepo
	idem      IdempotencyStore
	cache     OrderCache
	carts     *cart.Manager
	verifier  security.PaymentVerifier
	currency  string
	minCents  int64
	gwTimeout time.Duration
}

func NewCheckout(
	gw PaymentGateway,
	repo OrderRepo,
	idem IdempotencyStore,
	cache OrderCache,
	carts *cart.Manager,
	verifier security.PaymentVerifier,
	currency string,
	minCents int64,
	gwTimeout time.Duration,
) *Checkout {
	return &Checkout{
		gw:        gw,
		repo:      repo,
		idem:      idem,
		cache:     cache,
		carts:     carts,
		verifier:  verifier,
		currency:  currency,
		minCents:  minCents,
		gwTimeout: gwTimeout,
	}
}

// CreatePaymentIntent asks the gateway to mint an intent for amountCents.
// It touches neither the cart nor persistence; retrying with the same
// receiptRef is safe because intent creation is idempotent gateway-side.
func (uc *Checkout) CreatePaymentIntent(ctx context.Context, amountCents int64, receiptRef string) (*PaymentIntent, error) {
	if amountCents < uc.minCents {
		return nil, fmt.Errorf("%w: %d below gateway minimum %d", entity.ErrInvalidAmount, amountCents, uc.minCents)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.gwTimeout)
	defer cancel()

	intent, err := uc.gw.CreateIntent(ctx, amountCents, uc.currency, receiptRef)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidAmount) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrGatewayUnavailable, err)
	}
	return intent, nil
}

// NewReceiptRef mints the idempotent receipt reference a caller passes to
// CreatePaymentIntent and reuses across retries.
func NewReceiptRef() string {
	return "rcpt_" + uuid.NewString()
}

// VerifyAndRecordPayment authenticates the gateway callback and, only on
// success, records the order and clears the cart. The committed amount and
// item snapshot come from the server-held cart, never from the payload.
//
// Ordering contract: verify, then commit the order transaction, then clear.
// A failure at any step leaves the cart untouched so the user can retry
// without paying again.
func (uc *Checkout) VerifyAndRecordPayment(ctx context.Context, payload CallbackPayload, owner entity.Identity) (*OrderRecord, error) {
	if owner.IsZero() {
		return nil, entity.ErrUnauthorized
	}
	if err := payload.validate(); err != nil {
		return nil, err
	}

	if err := uc.verifier.Verify(payload.OrderRef, payload.PaymentRef, payload.Signature); err != nil {
		logging.FromCtx(ctx).Warn("payment signature rejected",
			"user", owner.UserID, "intent", payload.OrderRef, "payment", payload.PaymentRef)
		return nil, entity.ErrInvalidSignature
	}

	// A replayed callback for an already-recorded payment returns the
	// existing order instead of writing a second one. This must run before
	// the cart checks: the cart is already empty after the first delivery.
	if id, ok, err := uc.idem.Recall(ctx, idemScopePayment, payload.PaymentRef); err != nil {
		logging.FromCtx(ctx).Warn("idempotency recall failed, treating as first delivery",
			"payment", payload.PaymentRef, "err", err)
	} else if ok {
		rec, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrPersistence, err)
		}
		if rec != nil {
			return rec, nil
		}
		// The mapping points at a row that no longer exists (cache and
		// database diverged, e.g. after a restore). Record afresh.
		logging.FromCtx(ctx).Warn("recalled order missing, recording anew",
			"order", id, "payment", payload.PaymentRef)
	}

	store := uc.carts.ForUser(ctx, owner.UserID)
	snap := store.Snapshot()
	if snap.TotalCents <= 0 {
		return nil, fmt.Errorf("%w: cart is empty", entity.ErrInvalidAmount)
	}

	locked, err := uc.idem.TryLock(ctx, idemScopePayment, payload.PaymentRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	if !locked {
		return nil, ErrDuplicate
	}

	itemsJSON, err := json.Marshal(snap.Lines)
	if err != nil {
		_ = uc.idem.Unlock(ctx, idemScopePayment, payload.PaymentRef)
		return nil, fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}

	order := entity.Order{
		ID:         uuid.NewString(),
		UserID:     owner.UserID,
		IntentRef:  payload.OrderRef,
		PaymentRef: payload.PaymentRef,
		Status:     entity.StatusCompleted,
		Amount:     entity.Money{Cents: snap.TotalCents, Currency: uc.currency},
		ItemsJSON:  string(itemsJSON),
		CreatedAt:  time.Now().UTC(),
	}
	if err := order.Validate(); err != nil {
		_ = uc.idem.Unlock(ctx, idemScopePayment, payload.PaymentRef)
		return nil, err
	}
	rec := recordFrom(order)

	event, err := json.Marshal(orderCompletedEvent{
		Type:        "OrderCompletedV1",
		OrderID:     rec.ID,
		UserID:      rec.UserID,
		AmountCents: rec.AmountCents,
		Currency:    rec.Currency,
		PaymentRef:  rec.PaymentRef,
		CompletedAt: rec.CreatedAt,
	})
	if err != nil {
		_ = uc.idem.Unlock(ctx, idemScopePayment, payload.PaymentRef)
		return nil, fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}

	if err := uc.repo.CreateCompleted(ctx, rec, event); err != nil {
		// Verified but not recorded: the cart must survive and the payment
		// ref must be retryable.
		_ = uc.idem.Unlock(ctx, idemScopePayment, payload.PaymentRef)
		return nil, fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}

	// Committed. Everything below is best-effort.
	_ = uc.idem.Remember(ctx, idemScopePayment, payload.PaymentRef, rec.ID)
	if uc.cache != nil {
		_ = uc.cache.SetStatus(ctx, rec.ID, rec.Status)
	}
	store.Clear()

	logging.FromCtx(ctx).Info("order recorded",
		"order", rec.ID, "user", rec.UserID, "amount_cents", rec.AmountCents)
	return rec, nil
}

// CancelOrder flips a completed order to cancelled. Owner-only, idempotent
// when the order is already cancelled.
func (uc *Checkout) CancelOrder(ctx context.Context, orderID string, requester entity.Identity) error {
	if requester.IsZero() {
		return entity.ErrUnauthorized
	}

	rec, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	if rec == nil {
		return entity.ErrNotFound
	}
	if rec.UserID != requester.UserID {
		return entity.ErrForbidden
	}
	if rec.Status == string(entity.StatusCancelled) {
		return nil
	}

	ok, err := uc.repo.UpdateStatusIf(ctx, orderID, string(entity.StatusCompleted), string(entity.StatusCancelled))
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
	}
	if !ok {
		// Lost a race; idempotent success if someone else cancelled it.
		cur, err := uc.repo.GetByID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("%w: %v", entity.ErrPersistence, err)
		}
		if cur == nil {
			return entity.ErrNotFound
		}
		if cur.Status == string(entity.StatusCancelled) {
			return nil
		}
		return fmt.Errorf("%w: order %s is %s", entity.ErrConflict, orderID, cur.Status)
	}

	if uc.cache != nil {
		_ = uc.cache.SetStatus(ctx, orderID, string(entity.StatusCancelled))
	}
	return nil
}

func recordFrom(o entity.Order) *OrderRecord {
	return &OrderRecord{
		ID:          o.ID,
		UserID:      o.UserID,
		IntentRef:   o.IntentRef,
		PaymentRef:  o.PaymentRef,
		Status:      string(o.Status),
		AmountCents: o.Amount.Cents,
		Currency:    o.Amount.Currency,
		ItemsJSON:   o.ItemsJSON,
		CreatedAt:   o.CreatedAt,
	}
}

type orderCompletedEvent struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	PaymentRef  string    `json:"paymentId"`
	CompletedAt time.Time `json:"completedAt"`
}
