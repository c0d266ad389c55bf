package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/employeecomponent"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/salarycomponent"
	"go-payroll/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const payslipCounterType = "payslip"

// LeaveDaysSource supplies approved leave-day counts per employee for one
// month. The leave module's repository satisfies it.
type LeaveDaysSource interface {
	SumApprovedDaysForMonth(ctx context.Context, year, month int) (map[string]int, error)
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Preview(ctx context.Context, req PreviewPayrollRequest) (PreviewPayrollResponse, error)
	Submit(ctx context.Context, actorID string, req SubmitPayrollRequest) (CycleResponse, error)
	Reopen(ctx context.Context, actorID string, year, month int) (CycleResponse, error)
	GetCycle(ctx context.Context, year, month int) (CycleDetailResponse, error)
}

type service struct {
	db            *sql.DB
	repo          Repository
	employeeRepo  employee.Repository
	componentRepo salarycomponent.Repository
	valuesRepo    employeecomponent.Repository
	leaveDays     LeaveDaysSource
	counterRepo   counter.Repository
	outboxRepo    kafka.OutboxRepository
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	componentRepo salarycomponent.Repository,
	valuesRepo employeecomponent.Repository,
	leaveDays LeaveDaysSource,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		employeeRepo:  employeeRepo,
		componentRepo: componentRepo,
		valuesRepo:    valuesRepo,
		leaveDays:     leaveDays,
		counterRepo:   counterRepo,
		outboxRepo:    outboxRepo,
		logger:        l,
	}
}

// previewRow pairs one employee's computed month with the raw breakdown the
// submit path turns into line items.
type previewRow struct {
	employeeID   uuid.UUID
	employeeName string
	result       CalcResult
	breakdown    []ComponentAmount
}

func (s *service) Preview(ctx context.Context, req PreviewPayrollRequest) (PreviewPayrollResponse, error) {
	if err := validatePeriod(req.Year, req.Month); err != nil {
		return PreviewPayrollResponse{}, err
	}
	s.logger.Debug("preview payroll requested",
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
	)

	cycle, err := s.findCycleIfAny(ctx, s.repo, req.Year, req.Month)
	if err != nil {
		return PreviewPayrollResponse{}, err
	}
	if cycle != nil && cycle.Status == StatusSubmitted {
		s.logger.Warn("preview rejected for locked cycle",
			zap.Int("year", req.Year),
			zap.Int("month", req.Month),
		)
		return PreviewPayrollResponse{}, payrollerrors.ErrCycleLocked
	}

	rows, err := s.buildRows(ctx, req.Year, req.Month, req.Leaves, req.VariableAdjustments)
	if err != nil {
		return PreviewPayrollResponse{}, err
	}

	resp := PreviewPayrollResponse{
		Year:   req.Year,
		Month:  req.Month,
		Status: StatusDraft,
		Rows:   make([]PayrollRowResponse, len(rows)),
	}
	for i, row := range rows {
		resp.Rows[i] = mapRowToResponse(row)
	}
	return resp, nil
}

func (s *service) Submit(ctx context.Context, actorID string, req SubmitPayrollRequest) (CycleResponse, error) {
	if err := validatePeriod(req.Year, req.Month); err != nil {
		return CycleResponse{}, err
	}
	submittedBy, err := uuid.Parse(actorID)
	if err != nil {
		return CycleResponse{}, payrollerrors.ErrInvalidActorID
	}
	s.logger.Debug("submit payroll requested",
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.String("actor_id", actorID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit payroll begin tx failed", zap.Error(err))
		return CycleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	outboxTx := s.outboxRepo.WithTx(tx)

	cycle, err := s.findCycleIfAny(ctx, qtx, req.Year, req.Month)
	if err != nil {
		return CycleResponse{}, err
	}
	if cycle == nil {
		cycle = &PayrollCycle{
			ID:     uuid.New(),
			Year:   req.Year,
			Month:  req.Month,
			Status: StatusDraft,
		}
		if err := qtx.CreateCycle(ctx, cycle); err != nil {
			s.logger.Error("create payroll cycle failed", zap.Error(err))
			return CycleResponse{}, err
		}
	}
	if cycle.Status == StatusSubmitted {
		s.logger.Warn("submit rejected for locked cycle",
			zap.Int("year", req.Year),
			zap.Int("month", req.Month),
		)
		return CycleResponse{}, payrollerrors.ErrCycleLocked
	}

	rows, err := s.buildRows(ctx, req.Year, req.Month, req.Leaves, req.VariableAdjustments)
	if err != nil {
		return CycleResponse{}, err
	}

	now := time.Now().UTC()
	for _, row := range rows {
		seq, err := s.counterRepo.GetNextValue(ctx, payslipCounterType)
		if err != nil {
			s.logger.Error("payslip sequence failed", zap.Error(err))
			return CycleResponse{}, err
		}
		payslipNumber := fmt.Sprintf("PAY-%04d%02d-%05d", req.Year, req.Month, seq)

		entry := &PayrollEntry{
			ID:                 uuid.New(),
			CycleID:            cycle.ID,
			EmployeeID:         row.employeeID,
			PayslipNumber:      payslipNumber,
			Leaves:             row.result.Leaves,
			WorkingDays:        row.result.WorkingDays,
			FixedEarnings:      row.result.FixedEarnings.Round(2),
			VariableEarnings:   row.result.VariableEarnings.Round(2),
			FixedDeductions:    row.result.FixedDeductions.Round(2),
			VariableDeductions: row.result.VariableDeductions.Round(2),
			GrossEarnings:      row.result.GrossEarnings.Round(2),
			TotalDeductions:    row.result.TotalDeductions.Round(2),
			NetMonthlySalary:   row.result.NetMonthlySalary.Round(2),
			FinalPayable:       row.result.FinalPayable.Round(2),
		}
		if err := qtx.UpsertEntry(ctx, entry); err != nil {
			s.logger.Error("upsert payroll entry failed",
				zap.String("employee_id", row.employeeID.String()),
				zap.Error(err),
			)
			return CycleResponse{}, err
		}

		// The upsert may have landed on a pre-existing row; line items and
		// the event must reference the persisted entry id.
		entryID, err := qtx.FindEntryID(ctx, cycle.ID, row.employeeID)
		if err != nil {
			return CycleResponse{}, err
		}

		items := make([]PayrollLineItem, len(row.breakdown))
		for i, c := range row.breakdown {
			items[i] = PayrollLineItem{
				ID:                    uuid.New(),
				EntryID:               entryID,
				ComponentNameSnapshot: c.Name,
				ComponentTypeSnapshot: c.ComponentType,
				Amount:                c.Amount.Round(2),
				IsVariableAdjustment:  c.IsVariableAdjustment,
				SortOrder:             c.SortOrder,
			}
		}
		if err := qtx.ReplaceLineItems(ctx, entryID, items); err != nil {
			s.logger.Error("replace line items failed",
				zap.String("entry_id", entryID.String()),
				zap.Error(err),
			)
			return CycleResponse{}, err
		}

		if err := s.enqueuePayslipEvent(ctx, outboxTx, cycle, entryID, row, payslipNumber, actorID, now); err != nil {
			return CycleResponse{}, err
		}
	}

	// Status flip is last and conditional so a concurrent submit that
	// already locked the cycle makes this one fail instead of double-write.
	flipped, err := qtx.MarkSubmitted(ctx, cycle.ID, submittedBy, now)
	if err != nil {
		return CycleResponse{}, err
	}
	if !flipped {
		s.logger.Warn("submit lost the cycle lock race",
			zap.Int("year", req.Year),
			zap.Int("month", req.Month),
		)
		return CycleResponse{}, payrollerrors.ErrCycleLocked
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit payroll commit failed", zap.Error(err))
		return CycleResponse{}, err
	}
	s.logger.Info("submit payroll success",
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int("entries", len(rows)),
		zap.String("submitted_by", actorID),
	)

	cycle.Status = StatusSubmitted
	cycle.SubmittedBy = &submittedBy
	cycle.SubmittedAt = &now
	return mapCycleToResponse(*cycle), nil
}

func (s *service) Reopen(ctx context.Context, actorID string, year, month int) (CycleResponse, error) {
	if err := validatePeriod(year, month); err != nil {
		return CycleResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CycleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cycle, err := qtx.FindCycle(ctx, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CycleResponse{}, payrollerrors.ErrCycleNotFound
		}
		return CycleResponse{}, err
	}
	if cycle.Status != StatusSubmitted {
		return CycleResponse{}, payrollerrors.ErrCycleNotSubmitted
	}

	reopened, err := qtx.MarkReopened(ctx, cycle.ID)
	if err != nil {
		return CycleResponse{}, err
	}
	if !reopened {
		return CycleResponse{}, payrollerrors.ErrCycleNotSubmitted
	}

	if err := tx.Commit(); err != nil {
		return CycleResponse{}, err
	}
	// Reopen permits retroactive edits to locked history, so it is always
	// logged with the actor who did it.
	s.logger.Info("payroll cycle reopened",
		zap.Int("year", year),
		zap.Int("month", month),
		zap.String("actor_id", actorID),
	)

	cycle.Status = StatusDraft
	cycle.SubmittedBy = nil
	cycle.SubmittedAt = nil
	return mapCycleToResponse(*cycle), nil
}

func (s *service) GetCycle(ctx context.Context, year, month int) (CycleDetailResponse, error) {
	if err := validatePeriod(year, month); err != nil {
		return CycleDetailResponse{}, err
	}

	cycle, err := s.repo.FindCycle(ctx, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CycleDetailResponse{}, payrollerrors.ErrCycleNotFound
		}
		return CycleDetailResponse{}, err
	}

	entries, err := s.repo.FindEntries(ctx, cycle.ID)
	if err != nil {
		return CycleDetailResponse{}, err
	}

	detail := CycleDetailResponse{
		CycleResponse: mapCycleToResponse(*cycle),
		Entries:       make([]EntryResponse, len(entries)),
	}
	for i, e := range entries {
		items, err := s.repo.FindLineItems(ctx, e.ID)
		if err != nil {
			return CycleDetailResponse{}, err
		}
		detail.Entries[i] = mapEntryToResponse(e, items)
	}
	return detail, nil
}

// buildRows assembles the per-employee input lists and runs the calculator.
// Fixed amounts come from the stored assignments, variable adjustments from
// the caller (missing entries default to nothing, negatives clamp to zero),
// leave counts from approved requests unless overridden.
func (s *service) buildRows(
	ctx context.Context,
	year, month int,
	leaveOverrides map[string]int,
	variableByEmployee map[string][]VariableAdjustment,
) ([]previewRow, error) {
	employees, err := s.employeeRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := s.componentRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	componentsByID := make(map[uuid.UUID]salarycomponent.SalaryComponent, len(catalog))
	for _, sc := range catalog {
		componentsByID[sc.ID] = sc
	}

	values, err := s.valuesRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	valuesByEmployee := make(map[uuid.UUID][]employeecomponent.EmployeeComponentValue)
	for _, v := range values {
		valuesByEmployee[v.EmployeeID] = append(valuesByEmployee[v.EmployeeID], v)
	}

	approvedLeaves, err := s.leaveDays.SumApprovedDaysForMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}

	rows := make([]previewRow, 0, len(employees))
	for _, emp := range employees {
		empKey := emp.ID.String()

		var breakdown []ComponentAmount
		for _, v := range valuesByEmployee[emp.ID] {
			sc, ok := componentsByID[v.ComponentID]
			if !ok {
				// Assignment points at a deactivated component; it no
				// longer contributes.
				continue
			}
			breakdown = append(breakdown, ComponentAmount{
				ComponentID:   sc.ID.String(),
				Name:          sc.Name,
				ComponentType: sc.ComponentType,
				Amount:        v.Amount,
				SortOrder:     sc.SortOrder,
			})
		}

		for _, adj := range variableByEmployee[empKey] {
			componentID, err := uuid.Parse(adj.ComponentID)
			if err != nil {
				continue
			}
			sc, ok := componentsByID[componentID]
			if !ok {
				s.logger.Warn("variable adjustment for unknown component",
					zap.String("employee_id", empKey),
					zap.String("component_id", adj.ComponentID),
				)
				continue
			}
			amount, err := decimal.NewFromString(adj.Amount)
			if err != nil || amount.IsNegative() {
				amount = decimal.Zero
			}
			breakdown = append(breakdown, ComponentAmount{
				ComponentID:          sc.ID.String(),
				Name:                 sc.Name,
				ComponentType:        sc.ComponentType,
				Amount:               amount,
				IsVariableAdjustment: true,
				SortOrder:            sc.SortOrder,
			})
		}

		leaves := approvedLeaves[empKey]
		if override, ok := leaveOverrides[empKey]; ok {
			leaves = override
		}
		if leaves < 0 {
			leaves = 0
		}

		rows = append(rows, previewRow{
			employeeID:   emp.ID,
			employeeName: emp.FullName,
			result:       Calculate(breakdown, leaves),
			breakdown:    breakdown,
		})
	}
	return rows, nil
}

func (s *service) enqueuePayslipEvent(
	ctx context.Context,
	outbox kafka.OutboxRepository,
	cycle *PayrollCycle,
	entryID uuid.UUID,
	row previewRow,
	payslipNumber, actorID string,
	at time.Time,
) error {
	event := events.PayslipRequestedEvent{
		EventType:     "payroll.payslip.requested",
		EntryID:       entryID.String(),
		EmployeeID:    row.employeeID.String(),
		Year:          cycle.Year,
		Month:         cycle.Month,
		PayslipNumber: payslipNumber,
		FinalPayable:  row.result.FinalPayable.Round(2).StringFixed(2),
		RequestedBy:   actorID,
		OccurredAt:    at,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "payroll_entry",
		AggregateID:   entryID.String(),
		EventType:     event.EventType,
		Topic:         events.PayslipRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) findCycleIfAny(ctx context.Context, repo Repository, year, month int) (*PayrollCycle, error) {
	cycle, err := repo.FindCycle(ctx, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cycle, nil
}

func validatePeriod(year, month int) error {
	if year <= 0 || month < 1 || month > 12 {
		return payrollerrors.ErrInvalidPeriod
	}
	return nil
}

func mapRowToResponse(row previewRow) PayrollRowResponse {
	resp := PayrollRowResponse{
		EmployeeID:         row.employeeID.String(),
		EmployeeName:       row.employeeName,
		Leaves:             row.result.Leaves,
		WorkingDays:        row.result.WorkingDays,
		FixedEarnings:      row.result.FixedEarnings.StringFixed(2),
		VariableEarnings:   row.result.VariableEarnings.StringFixed(2),
		FixedDeductions:    row.result.FixedDeductions.StringFixed(2),
		VariableDeductions: row.result.VariableDeductions.StringFixed(2),
		GrossEarnings:      row.result.GrossEarnings.StringFixed(2),
		TotalDeductions:    row.result.TotalDeductions.StringFixed(2),
		NetMonthlySalary:   row.result.NetMonthlySalary.StringFixed(2),
		FinalPayable:       row.result.FinalPayable.StringFixed(2),
		LineItems:          make([]LineItemResponse, len(row.breakdown)),
	}
	for i, c := range row.breakdown {
		resp.LineItems[i] = LineItemResponse{
			ComponentName:        c.Name,
			ComponentType:        c.ComponentType,
			Amount:               c.Amount.StringFixed(2),
			IsVariableAdjustment: c.IsVariableAdjustment,
			SortOrder:            c.SortOrder,
		}
	}
	return resp
}

func mapCycleToResponse(c PayrollCycle) CycleResponse {
	resp := CycleResponse{
		ID:     c.ID.String(),
		Year:   c.Year,
		Month:  c.Month,
		Status: c.Status,
	}
	if c.SubmittedBy != nil {
		v := c.SubmittedBy.String()
		resp.SubmittedBy = &v
	}
	if c.SubmittedAt != nil {
		v := c.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &v
	}
	return resp
}

func mapEntryToResponse(e PayrollEntry, items []PayrollLineItem) EntryResponse {
	resp := EntryResponse{
		ID:                 e.ID.String(),
		EmployeeID:         e.EmployeeID.String(),
		PayslipNumber:      e.PayslipNumber,
		Leaves:             e.Leaves,
		WorkingDays:        e.WorkingDays,
		FixedEarnings:      e.FixedEarnings.StringFixed(2),
		VariableEarnings:   e.VariableEarnings.StringFixed(2),
		FixedDeductions:    e.FixedDeductions.StringFixed(2),
		VariableDeductions: e.VariableDeductions.StringFixed(2),
		GrossEarnings:      e.GrossEarnings.StringFixed(2),
		TotalDeductions:    e.TotalDeductions.StringFixed(2),
		NetMonthlySalary:   e.NetMonthlySalary.StringFixed(2),
		FinalPayable:       e.FinalPayable.StringFixed(2),
		LineItems:          make([]LineItemResponse, len(items)),
	}
	for i, item := range items {
		resp.LineItems[i] = LineItemResponse{
			ComponentName:        item.ComponentNameSnapshot,
			ComponentType:        item.ComponentTypeSnapshot,
			Amount:               item.Amount.StringFixed(2),
			IsVariableAdjustment: item.IsVariableAdjustment,
			SortOrder:            item.SortOrder,
		}
	}
	return resp
}
