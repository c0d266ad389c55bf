package employeecomponent

import (
	"context"
	"database/sql"
	"errors"

	"go-payroll/internal/employee"
	employeecomponenterrors "go-payroll/internal/employeecomponent/errors"
	"go-payroll/internal/salarycomponent"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employeecomponent_service.go -destination=mock/employeecomponent_service_mock.go -package=mock
type Service interface {
	Assign(ctx context.Context, req AssignComponentRequest) (AssignmentResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]AssignmentResponse, error)
	UpdateAmount(ctx context.Context, id string, req UpdateAssignmentRequest) (AssignmentResponse, error)
	Remove(ctx context.Context, id string) error
}

type service struct {
	db            *sql.DB
	repo          Repository
	componentRepo salarycomponent.Repository
	employeeRepo  employee.Repository
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	componentRepo salarycomponent.Repository,
	employeeRepo employee.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employeecomponent.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employeecomponent.service")
	}
	return &service{
		db:            db,
		repo:          repo,
		componentRepo: componentRepo,
		employeeRepo:  employeeRepo,
		logger:        l,
	}
}

func (s *service) Assign(ctx context.Context, req AssignComponentRequest) (AssignmentResponse, error) {
	s.logger.Debug("assign component requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("component_id", req.ComponentID),
	)

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return AssignmentResponse{}, err
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AssignmentResponse{}, employeecomponenterrors.ErrEmployeeNotFound
	}
	if _, err := s.employeeRepo.FindByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, employeecomponenterrors.ErrEmployeeNotFound
		}
		return AssignmentResponse{}, err
	}

	sc, err := s.loadComponent(ctx, req.ComponentID)
	if err != nil {
		return AssignmentResponse{}, err
	}
	if !sc.IsActive {
		return AssignmentResponse{}, employeecomponenterrors.ErrComponentInactive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("assign component begin tx failed", zap.Error(err))
		return AssignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	v := &EmployeeComponentValue{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		ComponentID: sc.ID,
		Amount:      amount,
	}
	if err := qtx.Upsert(ctx, v); err != nil {
		s.logger.Error("assign component persist failed", zap.Error(err))
		return AssignmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AssignmentResponse{}, err
	}
	s.logger.Info("assign component success",
		zap.String("employee_id", req.EmployeeID),
		zap.String("component", sc.Name),
		zap.String("amount", amount.StringFixed(2)),
	)

	return mapToResponse(*v, sc), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]AssignmentResponse, error) {
	values, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	components, err := s.componentRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]salarycomponent.SalaryComponent, len(components))
	for _, sc := range components {
		byID[sc.ID] = sc
	}

	resp := make([]AssignmentResponse, len(values))
	for i, v := range values {
		sc := byID[v.ComponentID]
		resp[i] = mapToResponse(v, &sc)
	}
	return resp, nil
}

func (s *service) UpdateAmount(ctx context.Context, id string, req UpdateAssignmentRequest) (AssignmentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AssignmentResponse{}, employeecomponenterrors.ErrInvalidAssignmentID
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return AssignmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AssignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	v, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, employeecomponenterrors.ErrAssignmentNotFound
		}
		return AssignmentResponse{}, err
	}

	v.Amount = amount
	if err := qtx.Update(ctx, v); err != nil {
		s.logger.Error("update assignment persist failed", zap.String("assignment_id", id), zap.Error(err))
		return AssignmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AssignmentResponse{}, err
	}
	s.logger.Info("update assignment success",
		zap.String("assignment_id", id),
		zap.String("amount", amount.StringFixed(2)),
	)

	sc, err := s.loadComponent(ctx, v.ComponentID.String())
	if err != nil {
		return mapToResponse(*v, nil), nil
	}
	return mapToResponse(*v, sc), nil
}

func (s *service) Remove(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeecomponenterrors.ErrInvalidAssignmentID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employeecomponenterrors.ErrAssignmentNotFound
		}
		return err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("remove assignment success", zap.String("assignment_id", id))
	return nil
}

func (s *service) loadComponent(ctx context.Context, id string) (*salarycomponent.SalaryComponent, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, employeecomponenterrors.ErrComponentNotFound
	}
	sc, err := s.componentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeecomponenterrors.ErrComponentNotFound
		}
		return nil, err
	}
	return sc, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, employeecomponenterrors.ErrInvalidAmount
	}
	return amount, nil
}

func mapToResponse(v EmployeeComponentValue, sc *salarycomponent.SalaryComponent) AssignmentResponse {
	resp := AssignmentResponse{
		ID:          v.ID.String(),
		EmployeeID:  v.EmployeeID.String(),
		ComponentID: v.ComponentID.String(),
		Amount:      v.Amount.StringFixed(2),
	}
	if sc != nil {
		resp.ComponentName = sc.Name
		resp.ComponentType = sc.ComponentType
		resp.IsVariable = sc.IsVariable
	}
	return resp
}
