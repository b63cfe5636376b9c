package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderUserID carries the reader's identity on /api/me and purchase routes.
	HeaderUserID = "X-User-ID"

	ContextKeyUserID = "reader_id"

	maxUserIDLength = 100
)

// RequireReader rejects requests without a usable X-User-ID header and stores
// the id in the context.
func RequireReader() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error: HeaderUserID + " header is required",
				Code:  "UNAUTHORIZED",
			})
			return
		}
		if len(userID) > maxUserIDLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
				Error: "invalid user id",
				Code:  "INVALID_USER",
			})
			return
		}
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID returns the reader id set by RequireReader.
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}
