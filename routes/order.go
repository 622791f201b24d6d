package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/order"
	"github.com/tarlansoltanov/api.dentalshop.az/middleware"
)

// SetupOrderRoutes registers the checkout and order endpoints.
func SetupOrderRoutes(r *gin.RouterGroup, deps Deps) {
	orders := r.Group("/orders")

	// The bank reaches the callback without credentials; the payload
	// checksum is its authentication.
	orders.POST("/callback", middleware.BankCallbackAuth(), orderControllers.Callback(deps.DB, deps.Publisher))

	protected := orders.Group("")
	protected.Use(middleware.ValidateToken)
	{
		protected.GET("", orderControllers.GetOrders(deps.DB))
		protected.GET("/:orderID", orderControllers.GetOrder(deps.DB))
		protected.POST("/checkout", orderControllers.Checkout(deps.DB, deps.Bank, deps.Publisher))
		protected.POST("/:orderID/pay", orderControllers.Pay(deps.DB, deps.Bank))
	}
}
