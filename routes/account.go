package routes

import (
	"github.com/gin-gonic/gin"

	accountControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/account"
	notificationControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/notification"
	"github.com/tarlansoltanov/api.dentalshop.az/middleware"
)

// SetupAccountRoutes registers all "/account/*" endpoints. JWT-protected.
func SetupAccountRoutes(r *gin.RouterGroup, deps Deps) {
	accountGroup := r.Group("/account")
	accountGroup.Use(middleware.ValidateToken)
	{
		accountGroup.GET("", accountControllers.GetProfile(deps.DB))
		accountGroup.PUT("", accountControllers.UpdateProfile(deps.DB))
		accountGroup.POST("/device", accountControllers.RegisterDeviceToken(deps.DB))

		favorites := accountGroup.Group("/favorites")
		{
			favorites.GET("", accountControllers.GetFavorites(deps.DB))
			favorites.POST("", accountControllers.AddFavorite(deps.DB))
			favorites.DELETE("/:productSlug", accountControllers.RemoveFavorite(deps.DB))
		}

		cart := accountGroup.Group("/cart")
		{
			cart.GET("", accountControllers.GetCart(deps.DB))
			cart.POST("", accountControllers.UpdateCartItem(deps.DB))
			cart.DELETE("/:productSlug", accountControllers.DeleteCartItem(deps.DB))
			cart.DELETE("", accountControllers.ClearCart(deps.DB))
		}
	}

	notifications := r.Group("/notifications")
	notifications.Use(middleware.ValidateToken)
	{
		notifications.GET("", notificationControllers.GetNotifications(deps.DB))
	}
}
