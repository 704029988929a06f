package middleware

import (
	"net/http"

	"go-hrdesk/internal/rbac"
	"go-hrdesk/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Authorize gates a route on the caller's role having (resource, action) in
// the rbac policy. AuthMiddleware must run first so the role is in context.
func Authorize(rbacService rbac.Service, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Role missing from request context", nil)
			c.Abort()
			return
		}

		if !rbacService.Can(role, resource, action) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
