package leavetype

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	{
		types.GET("", middleware.RBACAuthorize(rbacService, "leave-type", "read"), handler.GetAll)
		types.POST("", middleware.RBACAuthorize(rbacService, "leave-type", "create"), handler.Create)
		types.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave-type", "update"), handler.Update)
		types.POST("/:id/deactivate", middleware.RBACAuthorize(rbacService, "leave-type", "delete"), handler.Deactivate)
	}
}
