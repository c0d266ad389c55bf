package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/leavebalance"
	"go-payroll/internal/leavetype"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/producer"
	"go-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

func RunWorker() error {
	logger := zap.L().Named("app.worker")

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
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	balanceRepo := leavebalance.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	balanceService := leavebalance.NewService(sqlDB, balanceRepo, leaveTypeRepo, employeeRepo, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	go runMonthlyBalanceSeeder(ctx, balanceService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

// runMonthlyBalanceSeeder seeds the leave balance ledger for the current
// month shortly after startup and then once per calendar month. ResetMonth
// is idempotent, so overlapping runs across worker restarts are harmless.
func runMonthlyBalanceSeeder(ctx context.Context, balances leavebalance.Service, logger *zap.Logger) {
	log := logger.Named("balance.seeder")

	seed := func() {
		now := time.Now().UTC()
		count, err := balances.ResetMonth(ctx, now.Year(), int(now.Month()))
		if err != nil {
			log.Error("seed monthly balances failed",
				zap.Int("year", now.Year()),
				zap.Int("month", int(now.Month())),
				zap.Error(err),
			)
			return
		}
		log.Info("monthly balances seeded",
			zap.Int("year", now.Year()),
			zap.Int("month", int(now.Month())),
			zap.Int("seeded", count),
		)
	}

	seed()

	for {
		next := nextMonthStart(time.Now().UTC())
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
			seed()
		}
	}
}

func nextMonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 5, 0, 0, time.UTC).AddDate(0, 1, 0)
}
