package routes

import (
	"github.com/gin-gonic/gin"

	appconfigControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/appconfig"
	bannerControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/banner"
	freezoneControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/freezone"
	productControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/product"
	promoControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/promo"
	"github.com/tarlansoltanov/api.dentalshop.az/middleware"
)

// SetupCatalogRoutes registers the public storefront endpoints.
func SetupCatalogRoutes(r *gin.RouterGroup, deps Deps) {
	r.GET("/brands", productControllers.GetBrands(deps.DB))
	r.GET("/categories", productControllers.GetCategories(deps.DB))
	r.GET("/products", productControllers.GetProducts(deps.DB))
	r.GET("/products/:slug", productControllers.GetProductBySlug(deps.DB))
	r.GET("/banners", bannerControllers.GetBanners(deps.DB))
	r.GET("/config", appconfigControllers.GetConfig(deps.DB))

	freezone := r.Group("/freezone")
	{
		freezone.GET("", freezoneControllers.GetItems(deps.DB))

		protected := freezone.Group("")
		protected.Use(middleware.ValidateToken)
		{
			protected.GET("/my", freezoneControllers.GetOwnItems(deps.DB))
			protected.POST("", freezoneControllers.CreateItem(deps.DB))
			protected.PUT("/:id", freezoneControllers.UpdateItem(deps.DB))
			protected.DELETE("/:id", freezoneControllers.DeleteItem(deps.DB))
		}
	}

	promo := r.Group("/promo")
	promo.Use(middleware.ValidateToken)
	{
		promo.GET("/validate", promoControllers.ValidatePromo(deps.DB))
	}
}
