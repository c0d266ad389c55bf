package employeecomponent

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	assignments := r.Group("/employee-components")
	assignments.Use(middleware.AuthMiddleware())
	{
		assignments.POST("", middleware.RBACAuthorize(rbacService, "salary-component", "assign"), handler.Assign)
		assignments.GET("/employee/:employeeId", middleware.RBACAuthorize(rbacService, "salary-component", "read"), handler.GetByEmployee)
		assignments.PUT("/:id", middleware.RBACAuthorize(rbacService, "salary-component", "assign"), handler.UpdateAmount)
		assignments.DELETE("/:id", middleware.RBACAuthorize(rbacService, "salary-component", "assign"), handler.Remove)
	}
}
