package middleware

import (
	"net/http"

	"go-payroll/internal/rbac"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACAuthorize checks the authenticated role against the static policy
// matrix before letting the request through.
func RBACAuthorize(service rbac.Service, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(role, resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "authorization check failed", nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "you do not have permission to perform this action", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
