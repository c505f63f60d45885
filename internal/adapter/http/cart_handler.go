package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adarsh180/accidentaware/internal/adapter/http/middleware"
	"github.com/adarsh180/accidentaware/internal/cart"
	"github.com/adarsh180/accidentaware/internal/catalog"
)

// CartHandler exposes the session cart. Quantities are pre-validated here;
// the store itself treats bad inputs as no-ops.
type CartHandler struct {
	carts *cart.Manager
}

func NewCartHandler(carts *cart.Manager) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) Get(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	store := h.carts.ForUser(c.Request.Context(), id.UserID)
	c.JSON(http.StatusOK, store.Snapshot())
}

type addItemReq struct {
	ProductID string `json:"productId" binding:"required"`
}

// AddItem adds one unit. The price comes from the catalog, never the client.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	p, ok := catalog.ByID(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown_product"})
		return
	}

	id := middleware.IdentityFrom(c)
	store := h.carts.ForUser(c.Request.Context(), id.UserID)
	store.Add(p)
	c.JSON(http.StatusOK, store.Snapshot())
}

type setQuantityReq struct {
	Quantity int `json:"quantity" binding:"required,gte=1"`
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req setQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	id := middleware.IdentityFrom(c)
	store := h.carts.ForUser(c.Request.Context(), id.UserID)
	store.SetQuantity(c.Param("productId"), req.Quantity)
	c.JSON(http.StatusOK, store.Snapshot())
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	store := h.carts.ForUser(c.Request.Context(), id.UserID)
	store.Remove(c.Param("productId"))
	c.JSON(http.StatusOK, store.Snapshot())
}
