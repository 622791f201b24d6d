package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tarlansoltanov/api.dentalshop.az/auth"
	"github.com/tarlansoltanov/api.dentalshop.az/bank"
	notificationControllers "github.com/tarlansoltanov/api.dentalshop.az/controllers/notification"
	"github.com/tarlansoltanov/api.dentalshop.az/events"
)

// Deps bundles the shared dependencies the route groups wire into their
// handlers.
type Deps struct {
	DB        *gorm.DB
	Bank      *bank.Client
	SMS       auth.OTPSender
	Pusher    notificationControllers.Pusher
	Tokens    auth.TokenStore
	Publisher *events.Publisher
}

// SetupRoutes is the single entry point that wires up all route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	api := r.Group("/api/v1")

	SetupAuthRoutes(api, deps)
	SetupAccountRoutes(api, deps)
	SetupCatalogRoutes(api, deps)
	SetupOrderRoutes(api, deps)
	SetupAdminRoutes(api, deps)
}
