package holiday

import (
	"context"
	"database/sql"
	"errors"
	"time"

	holidayerrors "go-payroll/internal/holiday/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	GetAll(ctx context.Context) ([]HolidayResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create holiday begin tx failed", zap.Error(err))
		return HolidayResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidDateFormat
	}

	exists, err := qtx.ExistsOnDate(ctx, date)
	if err != nil {
		s.logger.Error("create holiday date check failed", zap.Error(err))
		return HolidayResponse{}, err
	}
	if exists {
		s.logger.Warn("create holiday duplicate date", zap.String("date", req.Date))
		return HolidayResponse{}, holidayerrors.ErrDuplicateHoliday
	}

	h := &Holiday{
		ID:   uuid.New(),
		Name: req.Name,
		Date: date,
	}

	if err := qtx.Create(ctx, h); err != nil {
		s.logger.Error("create holiday persist failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return HolidayResponse{}, err
	}
	s.logger.Info("create holiday success",
		zap.String("holiday_id", h.ID.String()),
		zap.String("date", req.Date),
	)

	return mapToResponse(*h), nil
}

func (s *service) GetAll(ctx context.Context) ([]HolidayResponse, error) {
	holidays, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(holidays), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return holidayerrors.ErrHolidayNotFound
		}
		return err
	}
	return tx.Commit()
}

func mapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:   h.ID.String(),
		Name: h.Name,
		Date: h.Date.Format("2006-01-02"),
	}
}

func mapToListResponse(holidays []Holiday) []HolidayResponse {
	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapToResponse(h)
	}
	return resp
}
