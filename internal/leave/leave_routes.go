package leave

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Create)
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read-all"), handler.GetAll)
		leaves.GET("/mine", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetMine)
		leaves.GET("/team", middleware.RBACAuthorize(rbacService, "leave", "process"), handler.GetTeam)
		leaves.GET("/remaining", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.Remaining)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		leaves.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave", "update"), handler.Update)
		leaves.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "update"), handler.Cancel)
		leaves.POST("/:id/process", middleware.RBACAuthorize(rbacService, "leave", "process"), handler.Process)
	}
}
