package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adarsh180/accidentaware/internal/adapter/http/middleware"
	"github.com/adarsh180/accidentaware/internal/usecase"
)

type OrderHandler struct {
	orders   *usecase.Orders
	checkout *usecase.Checkout
}

func NewOrderHandler(orders *usecase.Orders, checkout *usecase.Checkout) *OrderHandler {
	return &OrderHandler{orders: orders, checkout: checkout}
}

func orderView(rec *usecase.OrderRecord) gin.H {
	var items any
	if err := json.Unmarshal([]byte(rec.ItemsJSON), &items); err != nil {
		items = nil
	}
	return gin.H{
		"id":          rec.ID,
		"status":      rec.Status,
		"amountCents": rec.AmountCents,
		"currency":    rec.Currency,
		"paymentId":   rec.PaymentRef,
		"items":       items,
		"createdAt":   rec.CreatedAt,
	}
}

func (h *OrderHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	recs, err := h.orders.List(ctx, middleware.IdentityFrom(c))
	if err != nil {
		writeErr(c, err)
		return
	}

	views := make([]gin.H, 0, len(recs))
	for i := range recs {
		views = append(views, orderView(&recs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}

func (h *OrderHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	rec, err := h.orders.Get(ctx, c.Param("id"), middleware.IdentityFrom(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, orderView(rec))
}

func (h *OrderHandler) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	st, err := h.orders.Status(ctx, c.Param("id"), middleware.IdentityFrom(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": st})
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.checkout.CancelOrder(ctx, c.Param("id"), middleware.IdentityFrom(c)); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": "CANCELLED"})
}
