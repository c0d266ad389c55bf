package taxprojection

import (
	"context"
	"database/sql"
	"errors"

	"go-payroll/internal/payroll"
	taxprojectionerrors "go-payroll/internal/taxprojection/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=taxprojection_service.go -destination=mock/taxprojection_service_mock.go -package=mock
type Service interface {
	CreateRow(ctx context.Context, req CreateRowRequest) (RowResponse, error)
	GetRows(ctx context.Context) ([]RowResponse, error)
	UpdateRow(ctx context.Context, id string, req UpdateRowRequest) (RowResponse, error)
	DeleteRow(ctx context.Context, id string) error
	Project(ctx context.Context, req ProjectionRequest) (ProjectionResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	payrollRepo payroll.Repository
	logger      *zap.Logger
}

func NewService(db *sql.DB, repo Repository, payrollRepo payroll.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("taxprojection.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("taxprojection.service")
	}
	return &service{db: db, repo: repo, payrollRepo: payrollRepo, logger: l}
}

func (s *service) CreateRow(ctx context.Context, req CreateRowRequest) (RowResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create projection row begin tx failed", zap.Error(err))
		return RowResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsByLabel(ctx, req.Label, nil)
	if err != nil {
		return RowResponse{}, err
	}
	if exists {
		s.logger.Warn("create projection row duplicate label", zap.String("label", req.Label))
		return RowResponse{}, taxprojectionerrors.ErrDuplicateLabel
	}

	row := &TaxProjectionRow{
		ID:        uuid.New(),
		SortOrder: req.SortOrder,
		Label:     req.Label,
		Formula:   req.Formula,
	}
	if err := qtx.Create(ctx, row); err != nil {
		s.logger.Error("create projection row persist failed", zap.Error(err))
		return RowResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RowResponse{}, err
	}
	s.logger.Info("create projection row success",
		zap.String("row_id", row.ID.String()),
		zap.String("label", row.Label),
	)

	return mapRowToResponse(*row), nil
}

func (s *service) GetRows(ctx context.Context) ([]RowResponse, error) {
	rows, err := s.repo.FindAllOrdered(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]RowResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapRowToResponse(row)
	}
	return resp, nil
}

func (s *service) UpdateRow(ctx context.Context, id string, req UpdateRowRequest) (RowResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RowResponse{}, taxprojectionerrors.ErrInvalidRowID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RowResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RowResponse{}, taxprojectionerrors.ErrRowNotFound
		}
		return RowResponse{}, err
	}

	if req.Label != row.Label {
		exists, err := qtx.ExistsByLabel(ctx, req.Label, &id)
		if err != nil {
			return RowResponse{}, err
		}
		if exists {
			return RowResponse{}, taxprojectionerrors.ErrDuplicateLabel
		}
	}

	row.SortOrder = req.SortOrder
	row.Label = req.Label
	row.Formula = req.Formula

	if err := qtx.Update(ctx, row); err != nil {
		s.logger.Error("update projection row persist failed", zap.String("row_id", id), zap.Error(err))
		return RowResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RowResponse{}, err
	}
	s.logger.Info("update projection row success", zap.String("row_id", id))

	return mapRowToResponse(*row), nil
}

func (s *service) DeleteRow(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return taxprojectionerrors.ErrInvalidRowID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return taxprojectionerrors.ErrRowNotFound
		}
		return err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("delete projection row success", zap.String("row_id", id))
	return nil
}

// Project evaluates the stored projection table against one employee's
// payroll entry of the given month. The base context is the entry's flat
// numeric record plus the caller's declared tax savings; stored rows can
// reference any of those labels and each other.
func (s *service) Project(ctx context.Context, req ProjectionRequest) (ProjectionResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ProjectionResponse{}, taxprojectionerrors.ErrEntryNotFound
	}

	cycle, err := s.payrollRepo.FindCycle(ctx, req.Year, req.Month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProjectionResponse{}, taxprojectionerrors.ErrEntryNotFound
		}
		return ProjectionResponse{}, err
	}
	// A reopened cycle's entries are stale until it is submitted again.
	if cycle.Status != payroll.StatusSubmitted {
		return ProjectionResponse{}, taxprojectionerrors.ErrEntryNotFound
	}

	entry, err := s.payrollRepo.FindEntry(ctx, cycle.ID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProjectionResponse{}, taxprojectionerrors.ErrEntryNotFound
		}
		return ProjectionResponse{}, err
	}

	stored, err := s.repo.FindAllOrdered(ctx)
	if err != nil {
		return ProjectionResponse{}, err
	}
	rows := make([]FormulaRow, len(stored))
	for i, r := range stored {
		rows[i] = FormulaRow{Label: r.Label, Formula: r.Formula}
	}

	base := baseContextFromEntry(entry)
	for label, v := range req.TaxSavings {
		base[label] = v
	}

	results := Evaluate(rows, base, s.logger)
	s.logger.Info("tax projection evaluated",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int("rows", len(results)),
	)

	return ProjectionResponse{
		EmployeeID: req.EmployeeID,
		Year:       req.Year,
		Month:      req.Month,
		Rows:       results,
	}, nil
}

func baseContextFromEntry(e *payroll.PayrollEntry) map[string]float64 {
	return map[string]float64{
		"FixedEarnings":      e.FixedEarnings.InexactFloat64(),
		"VariableEarnings":   e.VariableEarnings.InexactFloat64(),
		"FixedDeductions":    e.FixedDeductions.InexactFloat64(),
		"VariableDeductions": e.VariableDeductions.InexactFloat64(),
		"GrossEarnings":      e.GrossEarnings.InexactFloat64(),
		"TotalDeductions":    e.TotalDeductions.InexactFloat64(),
		"NetMonthlySalary":   e.NetMonthlySalary.InexactFloat64(),
		"FinalPayable":       e.FinalPayable.InexactFloat64(),
		"Leaves":             float64(e.Leaves),
		"WorkingDays":        float64(e.WorkingDays),
	}
}

func mapRowToResponse(row TaxProjectionRow) RowResponse {
	return RowResponse{
		ID:        row.ID.String(),
		SortOrder: row.SortOrder,
		Label:     row.Label,
		Formula:   row.Formula,
	}
}
