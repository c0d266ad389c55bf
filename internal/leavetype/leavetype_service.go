package leavetype

import (
	"context"
	"database/sql"
	"errors"

	leavetypeerrors "go-payroll/internal/leavetype/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context) ([]LeaveTypeResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Deactivate(ctx context.Context, id string) (LeaveTypeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave type begin tx failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsByName(ctx, req.Name, nil)
	if err != nil {
		return LeaveTypeResponse{}, err
	}
	if exists {
		s.logger.Warn("create leave type duplicate name", zap.String("name", req.Name))
		return LeaveTypeResponse{}, leavetypeerrors.ErrDuplicateName
	}

	lt := &LeaveType{
		ID:       uuid.New(),
		Name:     req.Name,
		IsActive: true,
	}
	if req.Color != "" {
		lt.Color = req.Color
	}

	if err := qtx.Create(ctx, lt); err != nil {
		s.logger.Error("create leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveTypeResponse{}, err
	}
	s.logger.Info("create leave type success",
		zap.String("leave_type_id", lt.ID.String()),
		zap.String("name", lt.Name),
	)

	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(types), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lt, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}

	// The accrual rule is keyed on the name, so the Planned type is pinned.
	if lt.IsPlanned() && (req.Name != PlannedTypeName || (req.IsActive != nil && !*req.IsActive)) {
		return LeaveTypeResponse{}, leavetypeerrors.ErrPlannedTypeImmutable
	}

	exists, err := qtx.ExistsByName(ctx, req.Name, &id)
	if err != nil {
		return LeaveTypeResponse{}, err
	}
	if exists {
		return LeaveTypeResponse{}, leavetypeerrors.ErrDuplicateName
	}

	lt.Name = req.Name
	if req.Color != "" {
		lt.Color = req.Color
	}
	if req.IsActive != nil {
		lt.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, lt); err != nil {
		s.logger.Error("update leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveTypeResponse{}, err
	}

	return mapToResponse(*lt), nil
}

func (s *service) Deactivate(ctx context.Context, id string) (LeaveTypeResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lt, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}
	if lt.IsPlanned() {
		return LeaveTypeResponse{}, leavetypeerrors.ErrPlannedTypeImmutable
	}

	// Soft disable only: historical requests and balances keep referencing it.
	lt.IsActive = false

	if err := qtx.Update(ctx, lt); err != nil {
		return LeaveTypeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveTypeResponse{}, err
	}
	s.logger.Info("deactivate leave type success", zap.String("leave_type_id", id))

	return mapToResponse(*lt), nil
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:       lt.ID.String(),
		Name:     lt.Name,
		Color:    lt.Color,
		IsActive: lt.IsActive,
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp
}
