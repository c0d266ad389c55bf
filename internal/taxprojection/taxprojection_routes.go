package taxprojection

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	projections := r.Group("/tax-projections")
	projections.Use(middleware.AuthMiddleware())
	{
		projections.POST("/rows", middleware.RBACAuthorize(rbacService, "tax-projection", "manage"), handler.CreateRow)
		projections.GET("/rows", middleware.RBACAuthorize(rbacService, "tax-projection", "read"), handler.GetRows)
		projections.PUT("/rows/:id", middleware.RBACAuthorize(rbacService, "tax-projection", "manage"), handler.UpdateRow)
		projections.DELETE("/rows/:id", middleware.RBACAuthorize(rbacService, "tax-projection", "manage"), handler.DeleteRow)
		projections.POST("/evaluate", middleware.RBACAuthorize(rbacService, "tax-projection", "read"), handler.Project)
	}
}
