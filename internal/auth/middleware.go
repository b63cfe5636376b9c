package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKeyAdmin holds the authenticated admin name in the gin context.
const ContextKeyAdmin = "auth_admin"

// RequireAdmin rejects requests without an admin session.
func RequireAdmin(sm *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := sm.GetAdmin(c.Request)
		if admin == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": ErrAuthRequired.Error(),
				"code":  "UNAUTHORIZED",
			})
			return
		}
		c.Set(ContextKeyAdmin, admin)
		c.Next()
	}
}

// GetAdmin retrieves the authenticated admin from the context.
func GetAdmin(c *gin.Context) string {
	if v, exists := c.Get(ContextKeyAdmin); exists {
		if admin, ok := v.(string); ok {
			return admin
		}
	}
	return ""
}
