package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/payroll"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayslipRequested marks payroll entries as issued once their payslip
// request has been picked up. Decode failures are committed and skipped so a
// poison message cannot wedge the partition; transient store errors are left
// uncommitted for redelivery.
func ConsumePayslipRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	payrollRepo payroll.Repository,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip")
	log.Info("payslip consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payslip consumer stopped")
				return
			}
			log.Error("fetch payslip message failed", zap.Error(err))
			continue
		}

		var event events.PayslipRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payslip event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		entryID, err := uuid.Parse(event.EntryID)
		if err != nil {
			log.Error("invalid entry id in payslip event",
				zap.String("entry_id", event.EntryID),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := payrollRepo.MarkPayslipIssued(ctx, entryID, time.Now().UTC()); err != nil {
			log.Error("mark payslip issued failed",
				zap.String("entry_id", event.EntryID),
				zap.String("payslip_number", event.PayslipNumber),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payslip message failed", zap.Error(err))
			continue
		}

		log.Info("payslip issued",
			zap.String("entry_id", event.EntryID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("payslip_number", event.PayslipNumber),
			zap.Int("year", event.Year),
			zap.Int("month", event.Month),
		)
	}
}
