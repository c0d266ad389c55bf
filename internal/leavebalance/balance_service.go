package leavebalance

import (
	"context"
	"database/sql"
	"errors"

	"go-payroll/internal/employee"
	balanceerrors "go-payroll/internal/leavebalance/errors"
	"go-payroll/internal/leavetype"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetOrCreate(ctx context.Context, employeeID, leaveTypeID string, year, month int) (BalanceResponse, error)
	Adjust(ctx context.Context, req AdjustBalanceRequest) (BalanceResponse, error)
	GetAllForMonth(ctx context.Context, year, month int) ([]BalanceResponse, error)
	ResetMonth(ctx context.Context, year, month int) (int, error)
}

type service struct {
	db            *sql.DB
	repo          Repository
	leaveTypeRepo leavetype.Repository
	employeeRepo  employee.Repository
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	leaveTypeRepo leavetype.Repository,
	employeeRepo employee.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		leaveTypeRepo: leaveTypeRepo,
		employeeRepo:  employeeRepo,
		logger:        l,
	}
}

// GetOrCreate returns the ledger row for (employee, leave type, year, month),
// lazily seeding it with the type-dependent default on first access.
func (s *service) GetOrCreate(ctx context.Context, employeeID, leaveTypeID string, year, month int) (BalanceResponse, error) {
	if err := validateScope(employeeID, leaveTypeID, year, month); err != nil {
		return BalanceResponse{}, err
	}

	b, err := s.repo.FindOne(ctx, employeeID, leaveTypeID, year, month)
	if err == nil {
		return mapToResponse(*b), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return BalanceResponse{}, err
	}

	lt, err := s.leaveTypeRepo.FindByID(ctx, leaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, balanceerrors.ErrLeaveTypeNotFound
		}
		return BalanceResponse{}, err
	}

	seeded := &EmployeeBalance{
		ID:          uuid.New(),
		EmployeeID:  uuid.MustParse(employeeID),
		LeaveTypeID: uuid.MustParse(leaveTypeID),
		Year:        year,
		Month:       month,
		BalanceDays: defaultBalance(*lt),
	}

	if err := s.repo.Seed(ctx, seeded); err != nil {
		s.logger.Error("seed balance failed",
			zap.String("employee_id", employeeID),
			zap.String("leave_type_id", leaveTypeID),
			zap.Error(err),
		)
		return BalanceResponse{}, err
	}
	s.logger.Debug("balance seeded",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", lt.Name),
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("balance_days", seeded.BalanceDays),
	)

	// Re-read so a concurrent seed that won the upsert is what we return.
	b, err = s.repo.FindOne(ctx, employeeID, leaveTypeID, year, month)
	if err != nil {
		return BalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

// Adjust applies an admin SET/CREDIT/DEBIT to the ledger row. The resulting
// balance may be negative (an over-draw); display clamping is the caller's
// concern via RemainingDays.
func (s *service) Adjust(ctx context.Context, req AdjustBalanceRequest) (BalanceResponse, error) {
	s.logger.Debug("adjust balance requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.String("action", req.Action),
		zap.Int("amount", req.Amount),
	)

	if _, err := s.GetOrCreate(ctx, req.EmployeeID, req.LeaveTypeID, req.Year, req.Month); err != nil {
		return BalanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("adjust balance begin tx failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	b, err := qtx.FindOne(ctx, req.EmployeeID, req.LeaveTypeID, req.Year, req.Month)
	if err != nil {
		return BalanceResponse{}, err
	}

	switch req.Action {
	case ActionSet:
		b.BalanceDays = req.Amount
	case ActionCredit:
		b.BalanceDays += req.Amount
	case ActionDebit:
		b.BalanceDays -= req.Amount
	default:
		return BalanceResponse{}, balanceerrors.ErrInvalidAction
	}

	if err := qtx.Update(ctx, b); err != nil {
		s.logger.Error("adjust balance persist failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return BalanceResponse{}, err
	}
	s.logger.Info("adjust balance success",
		zap.String("employee_id", req.EmployeeID),
		zap.String("action", req.Action),
		zap.Int("balance_days", b.BalanceDays),
	)

	return mapToResponse(*b), nil
}

func (s *service) GetAllForMonth(ctx context.Context, year, month int) ([]BalanceResponse, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, balanceerrors.ErrInvalidPeriod
	}

	balances, err := s.repo.FindAllForMonth(ctx, year, month)
	if err != nil {
		return nil, err
	}

	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp, nil
}

// ResetMonth seeds any missing ledger rows for the given month, one per
// active employee and active leave type. Rows that already exist, including
// ones adjusted by an admin, are never overwritten, so the worker can run
// it on every startup. Also safe to invoke manually after onboarding.
func (s *service) ResetMonth(ctx context.Context, year, month int) (int, error) {
	if month < 1 || month > 12 || year < 1 {
		return 0, balanceerrors.ErrInvalidPeriod
	}

	employees, err := s.employeeRepo.FindAllActive(ctx)
	if err != nil {
		return 0, err
	}
	types, err := s.leaveTypeRepo.FindAllActive(ctx)
	if err != nil {
		return 0, err
	}

	seeded := 0
	for _, emp := range employees {
		for _, lt := range types {
			b := &EmployeeBalance{
				ID:          uuid.New(),
				EmployeeID:  emp.ID,
				LeaveTypeID: lt.ID,
				Year:        year,
				Month:       month,
				BalanceDays: defaultBalance(lt),
			}
			if err := s.repo.Seed(ctx, b); err != nil {
				s.logger.Error("reset month seed failed",
					zap.String("employee_id", emp.ID.String()),
					zap.String("leave_type", lt.Name),
					zap.Error(err),
				)
				return seeded, err
			}
			seeded++
		}
	}

	s.logger.Info("monthly balance reset complete",
		zap.Int("year", year),
		zap.Int("month", month),
		zap.Int("rows", seeded),
	)
	return seeded, nil
}

func defaultBalance(lt leavetype.LeaveType) int {
	if lt.IsPlanned() {
		return PlannedMonthlyCredit
	}
	return UncappedSentinel
}

func validateScope(employeeID, leaveTypeID string, year, month int) error {
	if _, err := uuid.Parse(employeeID); err != nil {
		return balanceerrors.ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(leaveTypeID); err != nil {
		return balanceerrors.ErrInvalidLeaveTypeID
	}
	if month < 1 || month > 12 || year < 1 {
		return balanceerrors.ErrInvalidPeriod
	}
	return nil
}

func mapToResponse(b EmployeeBalance) BalanceResponse {
	return BalanceResponse{
		ID:          b.ID.String(),
		EmployeeID:  b.EmployeeID.String(),
		LeaveTypeID: b.LeaveTypeID.String(),
		Year:        b.Year,
		Month:       b.Month,
		BalanceDays: b.BalanceDays,
	}
}
