package leavebalance

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("", middleware.RBACAuthorize(rbacService, "leave-balance", "read"), handler.GetOrCreate)
		balances.GET("/month", middleware.RBACAuthorize(rbacService, "leave-balance", "read"), handler.GetAllForMonth)
		balances.POST("/adjust", middleware.RBACAuthorize(rbacService, "leave-balance", "update"), handler.Adjust)
		balances.POST("/reset", middleware.RBACAuthorize(rbacService, "leave-balance", "update"), handler.ResetMonth)
	}
}
