package payroll

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, rdb *redis.Client) {
	payrolls := r.Group("/payroll-cycles")
	payrolls.Use(middleware.AuthMiddleware())
	// Preview and submit walk the whole company, so throttle per actor.
	payrolls.Use(middleware.RateLimitByEmployee(5, 10))
	{
		payrolls.POST("/preview", middleware.RBACAuthorize(rbacService, "payroll", "preview"), handler.Preview)
		// Submit is guarded by the idempotency middleware so a retried
		// request cannot race itself into a double run.
		payrolls.POST("/submit",
			middleware.RBACAuthorize(rbacService, "payroll", "submit"),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		payrolls.POST("/:year/:month/reopen", middleware.RBACAuthorize(rbacService, "payroll", "reopen"), handler.Reopen)
		payrolls.GET("/:year/:month", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetCycle)
	}
}
