package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/tarlansoltanov/api.dentalshop.az/auth"
)

// SetupAuthRoutes registers all "/auth/*" endpoints. Public.
func SetupAuthRoutes(r *gin.RouterGroup, deps Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(deps.DB))
		authGroup.POST("/otp/send", auth.SendOTP(deps.DB, deps.SMS))
		authGroup.POST("/otp/verify", auth.VerifyOTP(deps.DB))
		authGroup.POST("/token/refresh", auth.Refresh(deps.DB, deps.Tokens))
		authGroup.POST("/logout", auth.Logout(deps.Tokens))
	}
}
