package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/holiday"
	leaveerrors "go-payroll/internal/leave/errors"
	"go-payroll/internal/leavebalance"
	"go-payroll/internal/leavetype"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const (
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
)

const RoleAdmin = "admin"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID, actorRole string, req CreateLeaveRequest) (LeaveRequestResponse, error)
	GetByID(ctx context.Context, actorID, actorRole, id string) (LeaveRequestResponse, error)
	GetAll(ctx context.Context, page, limit int) ([]LeaveRequestResponse, int64, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error)
	GetTeam(ctx context.Context, managerID string) ([]LeaveRequestResponse, error)
	Update(ctx context.Context, actorID, actorRole, id string, req UpdateLeaveRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, actorID, actorRole, id string) (LeaveRequestResponse, error)
	Process(ctx context.Context, actorID, actorRole, id string, req ProcessLeaveRequest) (LeaveRequestResponse, error)
	Remaining(ctx context.Context, employeeID, leaveTypeID string, year, month int) (RemainingResponse, error)
}

type service struct {
	db            *sql.DB
	repo          Repository
	leaveTypeRepo leavetype.Repository
	holidayRepo   holiday.Repository
	balances      leavebalance.Service
	employeeRepo  employee.Repository
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	leaveTypeRepo leavetype.Repository,
	holidayRepo holiday.Repository,
	balances leavebalance.Service,
	employeeRepo employee.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		leaveTypeRepo: leaveTypeRepo,
		holidayRepo:   holidayRepo,
		balances:      balances,
		employeeRepo:  employeeRepo,
		logger:        l,
	}
}

func (s *service) Create(ctx context.Context, actorID, actorRole string, req CreateLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if _, err := uuid.Parse(actorID); err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidActorID
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if actorRole != RoleAdmin && req.EmployeeID != actorID {
		s.logger.Warn("create leave on behalf of another employee",
			zap.String("actor_id", actorID),
			zap.String("employee_id", req.EmployeeID),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrNotRequestOwner
	}

	startDate, endDate, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	lt, err := s.loadLeaveType(ctx, req.LeaveTypeID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	days, err := s.workingDays(ctx, startDate, endDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if days == 0 {
		s.logger.Warn("create leave no working days",
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrNoWorkingDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if lt.IsPlanned() {
		// Creation-time check: requests still awaiting a decision count as
		// consumed, so two overlapping pending requests cannot both fit.
		if err := s.checkBalance(ctx, qtx, req.EmployeeID, lt, startDate, days,
			[]string{StatusPending, StatusApproved}, nil); err != nil {
			return LeaveRequestResponse{}, err
		}
	}

	l := &LeaveRequest{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		LeaveTypeID:   lt.ID,
		StartDate:     startDate,
		EndDate:       endDate,
		DaysRequested: days,
		Reason:        req.Reason,
		Status:        StatusPending,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("days_requested", days),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetByID(ctx context.Context, actorID, actorRole, id string) (LeaveRequestResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveRequestResponse{}, err
	}

	// Requests of other employees read as not-found unless the actor is
	// an admin or the employee's manager.
	if actorRole != RoleAdmin && l.EmployeeID.String() != actorID {
		isManager, err := s.employeeRepo.IsManagerOf(ctx, actorID, l.EmployeeID.String())
		if err != nil {
			return LeaveRequestResponse{}, err
		}
		if !isManager {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
		}
	}

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, page, limit int) ([]LeaveRequestResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	requests, total, err := s.repo.FindAll(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(requests), total, nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetTeam(ctx context.Context, managerID string) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindAllByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) Update(ctx context.Context, actorID, actorRole, id string, req UpdateLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("update leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	startDate, endDate, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	lt, err := s.loadLeaveType(ctx, req.LeaveTypeID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveRequestResponse{}, err
	}
	// Other employees' requests read as not-found, matching GetByID.
	if actorRole != RoleAdmin && l.EmployeeID.String() != actorID {
		s.logger.Warn("update leave actor is not the owner",
			zap.String("leave_id", id),
			zap.String("actor_id", actorID),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
	}
	if l.Status != StatusPending {
		s.logger.Warn("update leave not pending",
			zap.String("leave_id", id),
			zap.String("status", l.Status),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrOnlyPendingMutable
	}

	datesChanged := !startDate.Equal(l.StartDate) || !endDate.Equal(l.EndDate)
	typeChanged := lt.ID != l.LeaveTypeID

	days := l.DaysRequested
	if datesChanged {
		days, err = s.workingDays(ctx, startDate, endDate)
		if err != nil {
			return LeaveRequestResponse{}, err
		}
		if days == 0 {
			return LeaveRequestResponse{}, leaveerrors.ErrNoWorkingDays
		}
	}

	if lt.IsPlanned() && (datesChanged || typeChanged) {
		// Re-check sufficiency against the edited dates, excluding this
		// request itself from the consumed sum.
		excludeID := l.ID.String()
		if err := s.checkBalance(ctx, qtx, l.EmployeeID.String(), lt, startDate, days,
			[]string{StatusPending, StatusApproved}, &excludeID); err != nil {
			return LeaveRequestResponse{}, err
		}
	}

	l.LeaveTypeID = lt.ID
	l.StartDate = startDate
	l.EndDate = endDate
	l.DaysRequested = days
	l.Reason = req.Reason

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("update leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, err
	}
	s.logger.Info("update leave success",
		zap.String("leave_id", id),
		zap.Int("days_requested", days),
	)

	return mapToResponse(*l), nil
}

func (s *service) Cancel(ctx context.Context, actorID, actorRole, id string) (LeaveRequestResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if actorRole != RoleAdmin && l.EmployeeID.String() != actorID {
		s.logger.Warn("cancel leave actor is not the owner",
			zap.String("leave_id", id),
			zap.String("actor_id", actorID),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
	}
	if l.Status != StatusPending {
		return LeaveRequestResponse{}, leaveerrors.ErrOnlyPendingMutable
	}

	// CANCELLED rows drop out of every consumption sum, which is the whole
	// of the balance restoration logic.
	l.Status = StatusCancelled

	if err := qtx.Update(ctx, l); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, err
	}
	s.logger.Info("cancel leave success", zap.String("leave_id", id))

	return mapToResponse(*l), nil
}

func (s *service) Process(ctx context.Context, actorID, actorRole, id string, req ProcessLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("process leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.String("action", req.Action),
	)

	approverID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidActorID
	}
	if req.Action != ActionApprove && req.Action != ActionReject {
		return LeaveRequestResponse{}, leaveerrors.ErrInvalidAction
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("process leave begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if l.Status != StatusPending {
		s.logger.Warn("process leave not pending",
			zap.String("leave_id", id),
			zap.String("status", l.Status),
		)
		return LeaveRequestResponse{}, leaveerrors.ErrOnlyPendingProcessable
	}

	if actorRole != RoleAdmin {
		isManager, err := s.employeeRepo.IsManagerOf(ctx, actorID, l.EmployeeID.String())
		if err != nil {
			return LeaveRequestResponse{}, err
		}
		if !isManager {
			s.logger.Warn("process leave actor not authorized",
				zap.String("leave_id", id),
				zap.String("actor_id", actorID),
				zap.String("role", actorRole),
			)
			return LeaveRequestResponse{}, leaveerrors.ErrNotAuthorizedApprover
		}
	}

	if req.Action == ActionApprove {
		lt, err := s.loadLeaveType(ctx, l.LeaveTypeID.String())
		if err != nil {
			return LeaveRequestResponse{}, err
		}
		if lt.IsPlanned() {
			// Approval-time check is independent of the creation-time one:
			// only already-approved siblings count, because other pending
			// requests may still be rejected. Balance may have been eaten
			// by approvals granted since this request was created.
			excludeID := l.ID.String()
			if err := s.checkBalance(ctx, qtx, l.EmployeeID.String(), lt, l.StartDate, l.DaysRequested,
				[]string{StatusApproved}, &excludeID); err != nil {
				return LeaveRequestResponse{}, err
			}
		}

		now := time.Now().UTC()
		l.Status = StatusApproved
		l.ApproverID = &approverID
		l.ApprovedAt = &now
		l.Comments = req.Comments
	} else {
		l.Status = StatusRejected
		l.ApproverID = &approverID
		l.Comments = req.Comments
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("process leave persist failed",
			zap.String("leave_id", id),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("process leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	s.logger.Info("process leave success",
		zap.String("leave_id", id),
		zap.String("status", l.Status),
	)

	return mapToResponse(*l), nil
}

func (s *service) Remaining(ctx context.Context, employeeID, leaveTypeID string, year, month int) (RemainingResponse, error) {
	lt, err := s.loadLeaveType(ctx, leaveTypeID)
	if err != nil {
		return RemainingResponse{}, err
	}

	resp := RemainingResponse{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Year:        year,
		Month:       month,
	}

	if !lt.IsPlanned() {
		resp.Unlimited = true
		return resp, nil
	}

	balance, err := s.balances.GetOrCreate(ctx, employeeID, leaveTypeID, year, month)
	if err != nil {
		return RemainingResponse{}, err
	}

	used, err := s.repo.SumRequestedDays(ctx, employeeID, leaveTypeID, year, month,
		[]string{StatusPending, StatusApproved}, nil)
	if err != nil {
		return RemainingResponse{}, err
	}

	resp.Remaining, resp.Unlimited = leavebalance.RemainingDays(balance.BalanceDays, used, true)
	return resp, nil
}

// checkBalance verifies that days more Planned leave days fit inside the
// month the request starts in, consumption recomputed from the sibling rows
// matching statuses.
func (s *service) checkBalance(
	ctx context.Context,
	repo Repository,
	employeeID string,
	lt *leavetype.LeaveType,
	startDate time.Time,
	days int,
	statuses []string,
	excludeID *string,
) error {
	year, month := startDate.Year(), int(startDate.Month())

	balance, err := s.balances.GetOrCreate(ctx, employeeID, lt.ID.String(), year, month)
	if err != nil {
		return err
	}

	used, err := repo.SumRequestedDays(ctx, employeeID, lt.ID.String(), year, month, statuses, excludeID)
	if err != nil {
		return err
	}

	if days > balance.BalanceDays-used {
		s.logger.Warn("leave balance exceeded",
			zap.String("employee_id", employeeID),
			zap.String("leave_type", lt.Name),
			zap.Int("requested", days),
			zap.Int("balance", balance.BalanceDays),
			zap.Int("used", used),
		)
		return leaveerrors.ErrInsufficientBalance
	}
	return nil
}

func (s *service) workingDays(ctx context.Context, start, end time.Time) (int, error) {
	holidays, err := s.holidayRepo.FindDatesInRange(ctx, start, end)
	if err != nil {
		s.logger.Error("load holidays failed", zap.Error(err))
		return 0, err
	}
	return holiday.WorkingDays(start, end, holidays), nil
}

func (s *service) loadLeaveType(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveTypeID
	}
	lt, err := s.leaveTypeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveTypeNotFound
		}
		return nil, err
	}
	if !lt.IsActive {
		return nil, leaveerrors.ErrLeaveTypeInactive
	}
	return lt, nil
}

func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	startDate, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func mapToResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:            l.ID.String(),
		EmployeeID:    l.EmployeeID.String(),
		LeaveTypeID:   l.LeaveTypeID.String(),
		StartDate:     l.StartDate.Format("2006-01-02"),
		EndDate:       l.EndDate.Format("2006-01-02"),
		DaysRequested: l.DaysRequested,
		Reason:        l.Reason,
		Status:        l.Status,
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
	}
	if l.ApproverID != nil {
		v := l.ApproverID.String()
		resp.ApproverID = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	resp.Comments = l.Comments
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
