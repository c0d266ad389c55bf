package salarycomponent

import (
	"context"
	"database/sql"
	"errors"

	salarycomponenterrors "go-payroll/internal/salarycomponent/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=salarycomponent_service.go -destination=mock/salarycomponent_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateSalaryComponentRequest) (SalaryComponentResponse, error)
	GetAll(ctx context.Context) ([]SalaryComponentResponse, error)
	Update(ctx context.Context, id string, req UpdateSalaryComponentRequest) (SalaryComponentResponse, error)
	Deactivate(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("salarycomponent.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salarycomponent.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateSalaryComponentRequest) (SalaryComponentResponse, error) {
	s.logger.Debug("create salary component requested",
		zap.String("name", req.Name),
		zap.String("component_type", req.ComponentType),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create salary component begin tx failed", zap.Error(err))
		return SalaryComponentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsByNameAndType(ctx, req.Name, req.ComponentType, nil)
	if err != nil {
		return SalaryComponentResponse{}, err
	}
	if exists {
		s.logger.Warn("create salary component duplicate",
			zap.String("name", req.Name),
			zap.String("component_type", req.ComponentType),
		)
		return SalaryComponentResponse{}, salarycomponenterrors.ErrDuplicateComponent
	}

	sc := &SalaryComponent{
		ID:            uuid.New(),
		Name:          req.Name,
		ComponentType: req.ComponentType,
		IsVariable:    req.IsVariable,
		IsActive:      true,
		SortOrder:     req.SortOrder,
	}

	if err := qtx.Create(ctx, sc); err != nil {
		s.logger.Error("create salary component persist failed", zap.Error(err))
		return SalaryComponentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return SalaryComponentResponse{}, err
	}
	s.logger.Info("create salary component success",
		zap.String("component_id", sc.ID.String()),
		zap.String("name", sc.Name),
	)

	return mapToResponse(*sc), nil
}

func (s *service) GetAll(ctx context.Context) ([]SalaryComponentResponse, error) {
	components, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]SalaryComponentResponse, len(components))
	for i, sc := range components {
		resp[i] = mapToResponse(sc)
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateSalaryComponentRequest) (SalaryComponentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SalaryComponentResponse{}, salarycomponenterrors.ErrInvalidComponentID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryComponentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sc, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalaryComponentResponse{}, salarycomponenterrors.ErrComponentNotFound
		}
		return SalaryComponentResponse{}, err
	}

	if req.Name != sc.Name {
		exists, err := qtx.ExistsByNameAndType(ctx, req.Name, sc.ComponentType, &id)
		if err != nil {
			return SalaryComponentResponse{}, err
		}
		if exists {
			return SalaryComponentResponse{}, salarycomponenterrors.ErrDuplicateComponent
		}
	}

	sc.Name = req.Name
	sc.IsVariable = req.IsVariable
	sc.IsActive = req.IsActive
	sc.SortOrder = req.SortOrder

	if err := qtx.Update(ctx, sc); err != nil {
		s.logger.Error("update salary component persist failed", zap.String("component_id", id), zap.Error(err))
		return SalaryComponentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return SalaryComponentResponse{}, err
	}
	s.logger.Info("update salary component success", zap.String("component_id", id))

	return mapToResponse(*sc), nil
}

// Deactivate soft-disables a component. Historical payslip line items keep
// their snapshot copies, so nothing is deleted.
func (s *service) Deactivate(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return salarycomponenterrors.ErrInvalidComponentID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sc, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return salarycomponenterrors.ErrComponentNotFound
		}
		return err
	}

	sc.IsActive = false
	if err := qtx.Update(ctx, sc); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("deactivate salary component success", zap.String("component_id", id))
	return nil
}

func mapToResponse(sc SalaryComponent) SalaryComponentResponse {
	return SalaryComponentResponse{
		ID:            sc.ID.String(),
		Name:          sc.Name,
		ComponentType: sc.ComponentType,
		IsVariable:    sc.IsVariable,
		IsActive:      sc.IsActive,
		SortOrder:     sc.SortOrder,
	}
}
