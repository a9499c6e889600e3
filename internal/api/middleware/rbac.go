package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solera-market/solera/internal/models"
	"github.com/solera-market/solera/internal/rbac"
)

// RequireAdmin ensures the authenticated user holds the admin role.
func RequireAdmin(enforcer *rbac.Enforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		userID := user.(*models.User).ID
		isAdmin, err := enforcer.IsAdmin(userID)
		if err != nil || !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
