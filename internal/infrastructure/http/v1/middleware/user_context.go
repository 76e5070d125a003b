package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appctx "stockpilot/internal/core/context"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRoles = "X-User-Roles"
)

// UserContext extracts caller identity headers set by the upstream
// gateway and adds them to the request context for the domain layer.
//
// Authentication happens outside this service; the gateway is trusted
// to have validated the caller before forwarding these headers.
func UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		if userID != "" {
			user := &appctx.UserContext{
				UserID: userID,
				Email:  c.GetHeader(HeaderUserEmail),
			}
			if roles := c.GetHeader(HeaderUserRoles); roles != "" {
				user.Roles = strings.Split(roles, ",")
			}

			ctx := appctx.WithUser(c.Request.Context(), user)
			c.Request = c.Request.WithContext(ctx)
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

// RequireUser rejects requests without a caller identity. Applied to
// mutating routes where every movement must be attributable.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if appctx.GetUserID(c.Request.Context()) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "MISSING_USER",
				"message": "X-User-ID header is required",
			})
			return
		}
		c.Next()
	}
}
