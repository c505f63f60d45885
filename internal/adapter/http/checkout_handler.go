package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adarsh180/accidentaware/internal/adapter/http/middleware"
	"github.com/adarsh180/accidentaware/internal/cart"
	"github.com/adarsh180/accidentaware/internal/usecase"
)

type CheckoutHandler struct {
	checkout *usecase.Checkout
	carts    *cart.Manager
}

func NewCheckoutHandler(checkout *usecase.Checkout, carts *cart.Manager) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, carts: carts}
}

type intentResp struct {
	IntentID    string `json:"intentId"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
}

// CreateIntent mints a gateway payment intent for the caller's cart total.
// Retrying with the same X-Receipt-Ref header is safe after a gateway error.
func (h *CheckoutHandler) CreateIntent(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	total := h.carts.ForUser(c.Request.Context(), id.UserID).TotalCents()

	receipt := c.GetHeader("X-Receipt-Ref")
	if receipt == "" {
		receipt = usecase.NewReceiptRef()
	}

	intent, err := h.checkout.CreatePaymentIntent(c.Request.Context(), total, receipt)
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, intentResp{
		IntentID:    intent.ID,
		AmountCents: intent.AmountCents,
		Currency:    intent.Currency,
		Receipt:     intent.Receipt,
	})
}

// Verify receives the hosted payment UI's callback and, if authentic,
// records the order.
func (h *CheckoutHandler) Verify(c *gin.Context) {
	var payload usecase.CallbackPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_callback"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rec, err := h.checkout.VerifyAndRecordPayment(ctx, payload, middleware.IdentityFrom(c))
	if err != nil {
		writeErr(c, err)
		return
	}

	c.JSON(http.StatusOK, orderView(rec))
}
