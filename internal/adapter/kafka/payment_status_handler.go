package kafka

import (
	"context"

	"github.com/adarsh180/accidentaware/internal/entity"
	"github.com/adarsh180/accidentaware/internal/logging"
	"github.com/adarsh180/accidentaware/internal/usecase"
)

// PaymentStatusHandler applies gateway-side payment state changes to the
// order store. A refunded or failed-after-capture payment cancels the order.
type PaymentStatusHandler struct {
	repo  usecase.OrderRepo
	cache usecase.OrderCache // optional
}

func NewPaymentStatusHandler(repo usecase.OrderRepo, cache usecase.OrderCache) *PaymentStatusHandler {
	return &PaymentStatusHandler{repo: repo, cache: cache}
}

func (h *PaymentStatusHandler) Handle(ctx context.Context, ev PaymentStatusMsg) error {
	switch ev.Status {
	case "REFUNDED", "FAILED":
	default:
		// CAPTURED and friends are already reflected by checkout.
		return nil
	}

	ok, err := h.repo.UpdateStatusIf(ctx, ev.OrderID,
		string(entity.StatusCompleted), string(entity.StatusCancelled))
	if err != nil {
		return err
	}
	if !ok {
		// Missing order or already cancelled; both fine to ack.
		logging.FromCtx(ctx).Debug("payment event did not transition order",
			"order", ev.OrderID, "status", ev.Status)
		return nil
	}

	if h.cache != nil {
		_ = h.cache.SetStatus(ctx, ev.OrderID, string(entity.StatusCancelled))
	}
	return nil
}
