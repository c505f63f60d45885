package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adarsh180/accidentaware/internal/catalog"
)

type ProductHandler struct{}

func NewProductHandler() *ProductHandler { return &ProductHandler{} }

func (h *ProductHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": catalog.All()})
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, ok := catalog.ByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, p)
}
