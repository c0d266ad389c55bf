package app

import (
	"database/sql"

	"go-payroll/internal/employee"
	"go-payroll/internal/employeecomponent"
	"go-payroll/internal/holiday"
	"go-payroll/internal/leave"
	"go-payroll/internal/leavebalance"
	"go-payroll/internal/leavetype"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/rbac"
	"go-payroll/internal/salarycomponent"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/taxprojection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	componentRepo := salarycomponent.NewRepository(gormDB)
	valuesRepo := employeecomponent.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	taxRepo := taxprojection.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	holidayService := holiday.NewService(db, holidayRepo)
	leaveTypeService := leavetype.NewService(db, leaveTypeRepo)
	balanceService := leavebalance.NewService(db, balanceRepo, leaveTypeRepo, employeeRepo)
	leaveService := leave.NewService(db, leaveRepo, leaveTypeRepo, holidayRepo, balanceService, employeeRepo)
	componentService := salarycomponent.NewService(db, componentRepo)
	valuesService := employeecomponent.NewService(db, valuesRepo, componentRepo, employeeRepo)
	payrollService := payroll.NewService(db, payrollRepo, employeeRepo, componentRepo, valuesRepo, leaveRepo, counterRepo, outboxRepo)
	taxService := taxprojection.NewService(db, taxRepo, payrollRepo)

	// --- Handlers ---
	holidayHandler := holiday.NewHandler(holidayService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	balanceHandler := leavebalance.NewHandler(balanceService)
	leaveHandler := leave.NewHandler(leaveService)
	componentHandler := salarycomponent.NewHandler(componentService)
	valuesHandler := employeecomponent.NewHandler(valuesService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	taxHandler := taxprojection.NewHandler(taxService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		holiday.RegisterRoutes(api, holidayHandler, rbacService)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		leavebalance.RegisterRoutes(api, balanceHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		salarycomponent.RegisterRoutes(api, componentHandler, rbacService)
		employeecomponent.RegisterRoutes(api, valuesHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
		taxprojection.RegisterRoutes(api, taxHandler, rbacService)
	}

	return nil
}
