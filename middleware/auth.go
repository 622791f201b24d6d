package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tarlansoltanov/api.dentalshop.az/auth"
)

// ValidateToken authenticates the request with a bearer access token and
// stores the user id and staff flag on the context.
func ValidateToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
		c.Abort()
		return
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")

	claims, err := auth.ParseToken(tokenString, auth.TokenTypeAccess)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		c.Abort()
		return
	}

	c.Set("user_id", claims.UserID)
	c.Set("is_staff", claims.IsStaff)

	c.Next()
}

// RequireStaff rejects authenticated requests from non-staff users.
// Must run after ValidateToken.
func RequireStaff(c *gin.Context) {
	if !c.GetBool("is_staff") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Staff permissions required"})
		c.Abort()
		return
	}
	c.Next()
}

// UserID returns the authenticated user's id from the context.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
