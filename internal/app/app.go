package app

import (
	"os"

	"go-payroll/internal/employee"
	"go-payroll/internal/employeecomponent"
	"go-payroll/internal/holiday"
	"go-payroll/internal/leave"
	"go-payroll/internal/leavebalance"
	"go-payroll/internal/leavetype"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payroll"
	"go-payroll/internal/salarycomponent"
	"go-payroll/internal/shared/connection"
	"go-payroll/internal/taxprojection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildApp(router *gin.Engine) error {
	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	if err := migrate(gormDB); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	// 2. Global middleware. Auth runs per route group so public endpoints
	// such as health checks stay open.
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(50, 100))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 3. Register Modules & Routes
	return registerModules(router, sqlDB, gormDB, redisClient)
}

func migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&employee.Employee{},
		&holiday.Holiday{},
		&leavetype.LeaveType{},
		&leavebalance.EmployeeBalance{},
		&leave.LeaveRequest{},
		&salarycomponent.SalaryComponent{},
		&employeecomponent.EmployeeComponentValue{},
		&payroll.PayrollCycle{},
		&payroll.PayrollEntry{},
		&payroll.PayrollLineItem{},
		&taxprojection.TaxProjectionRow{},
	); err != nil {
		return err
	}

	// counters and outbox_events are written with raw SQL, so their schema
	// is managed here rather than through AutoMigrate.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS counters (
			counter_type varchar(40) PRIMARY KEY,
			last_value bigint NOT NULL DEFAULT 0,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS outbox_events (
			id uuid PRIMARY KEY,
			request_id uuid,
			aggregate_type varchar(60) NOT NULL,
			aggregate_id uuid NOT NULL,
			event_type varchar(120) NOT NULL,
			topic varchar(120) NOT NULL,
			payload jsonb NOT NULL,
			status varchar(20) NOT NULL DEFAULT 'pending',
			retry_count int NOT NULL DEFAULT 0,
			error_message varchar(500),
			next_retry_at timestamptz,
			processed_at timestamptz,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outbox_events_status_created
			ON outbox_events (status, created_at)`,
	}

	for _, stmt := range statements {
		if err := gormDB.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
