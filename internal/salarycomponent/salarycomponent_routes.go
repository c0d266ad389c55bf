package salarycomponent

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	components := r.Group("/salary-components")
	components.Use(middleware.AuthMiddleware())
	{
		components.POST("", middleware.RBACAuthorize(rbacService, "salary-component", "create"), handler.Create)
		components.GET("", middleware.RBACAuthorize(rbacService, "salary-component", "read"), handler.GetAll)
		components.PUT("/:id", middleware.RBACAuthorize(rbacService, "salary-component", "update"), handler.Update)
		components.DELETE("/:id", middleware.RBACAuthorize(rbacService, "salary-component", "delete"), handler.Deactivate)
	}
}
