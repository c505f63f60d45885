package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adarsh180/accidentaware/internal/adapter/http/middleware"
	"github.com/adarsh180/accidentaware/internal/logging"
)

func NewRouter(
	auth *AuthHandler,
	products *ProductHandler,
	carts *CartHandler,
	checkout *CheckoutHandler,
	orders *OrderHandler,
	authz *middleware.Authz,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware(), middleware.Logging(logging.New("http")))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.GET("/products", products.List)
		v1.GET("/products/:id", products.Get)

		v1.POST("/auth/register", auth.Register)
		v1.POST("/auth/token", auth.Token)

		user := v1.Group("", authz.RequireUser())
		{
			user.GET("/cart", carts.Get)
			user.POST("/cart/items", carts.AddItem)
			user.PUT("/cart/items/:productId", carts.SetQuantity)
			user.DELETE("/cart/items/:productId", carts.RemoveItem)

			user.POST("/checkout/intent", checkout.CreateIntent)
			user.POST("/checkout/verify", checkout.Verify)

			user.GET("/orders", orders.List)
			user.GET("/orders/:id", orders.Get)
			user.GET("/orders/:id/status", orders.Status)
			user.POST("/orders/:id/cancel", orders.Cancel)
		}
	}

	return r
}
