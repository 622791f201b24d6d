package routes

import (
	"github.com/gin-gonic/gin"

	appconfigControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/appconfig"
	bannerControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/banner"
	freezoneControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/freezone"
	notificationControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/notification"
	orderControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/order"
	productControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/product"
	promoControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/promo"
	"github.com/tarlansoltanov/api.dentalshop.az/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Staff only.
func SetupAdminRoutes(r *gin.RouterGroup, deps Deps) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateToken, middleware.RequireStaff)
	{
		products := admin.Group("/products")
		{
			products.POST("", productControllers.CreateProduct(deps.DB))
			products.PUT("/:id", productControllers.UpdateProduct(deps.DB))
			products.DELETE("/:id", productControllers.DeleteProduct(deps.DB))
			products.GET("/export-excel", productControllers.ExportProductsToExcel(deps.DB))
			products.POST("/import-excel", productControllers.ImportProductsFromExcel(deps.DB))
		}

		brands := admin.Group("/brands")
		{
			brands.POST("", productControllers.CreateBrand(deps.DB))
			brands.PUT("/:id", productControllers.UpdateBrand(deps.DB))
			brands.DELETE("/:id", productControllers.DeleteBrand(deps.DB))
		}

		categories := admin.Group("/categories")
		{
			categories.POST("", productControllers.CreateCategory(deps.DB))
			categories.PUT("/:id", productControllers.UpdateCategory(deps.DB))
			categories.DELETE("/:id", productControllers.DeleteCategory(deps.DB))
		}

		banners := admin.Group("/banners")
		{
			banners.POST("", bannerControllers.CreateBanner(deps.DB))
			banners.DELETE("/:id", bannerControllers.DeleteBanner(deps.DB))
		}

		freezone := admin.Group("/freezone")
		{
			freezone.GET("/pending", freezoneControllers.GetPendingItems(deps.DB))
			freezone.POST("/:id/verify", freezoneControllers.VerifyItem(deps.DB))
			freezone.POST("/:id/reject", freezoneControllers.RejectItem(deps.DB))
		}

		notifications := admin.Group("/notifications")
		{
			notifications.POST("", notificationControllers.CreateNotification(deps.DB, deps.Pusher))
			notifications.DELETE("/:id", notificationControllers.DeleteNotification(deps.DB))
		}

		promo := admin.Group("/promo")
		{
			promo.GET("", promoControllers.GetPromos(deps.DB))
			promo.POST("", promoControllers.CreatePromo(deps.DB))
			promo.PUT("/:id", promoControllers.UpdatePromo(deps.DB))
			promo.DELETE("/:id", promoControllers.DeletePromo(deps.DB))
		}

		admin.PUT("/config", appconfigControllers.UpdateConfig(deps.DB))
		admin.PUT("/orders/:orderID/status", orderControllers.UpdateOrderStatus(deps.DB))
		admin.GET("/orders/ws", orderControllers.OrderWebSocketHandler)
	}
}
