package holiday_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-payroll/internal/holiday"
	holidayerrors "go-payroll/internal/holiday/errors"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeHolidayRepository struct {
	createFn       func(ctx context.Context, h *holiday.Holiday) error
	findAllFn      func(ctx context.Context) ([]holiday.Holiday, error)
	existsOnDateFn func(ctx context.Context, date time.Time) (bool, error)
	deleteFn       func(ctx context.Context, id string) error
}

func (f *fakeHolidayRepository) WithTx(tx *sql.Tx) holiday.Repository { return f }

func (f *fakeHolidayRepository) Create(ctx context.Context, h *holiday.Holiday) error {
	if f.createFn != nil {
		return f.createFn(ctx, h)
	}
	return nil
}

func (f *fakeHolidayRepository) FindAll(ctx context.Context) ([]holiday.Holiday, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeHolidayRepository) FindDatesInRange(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	return nil, nil
}

func (f *fakeHolidayRepository) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	if f.existsOnDateFn != nil {
		return f.existsOnDateFn(ctx, date)
	}
	return false, nil
}

func (f *fakeHolidayRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func newService(t *testing.T, repo *fakeHolidayRepository) (holiday.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return holiday.NewService(db, repo), mock
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		var created *holiday.Holiday
		repo := &fakeHolidayRepository{
			createFn: func(ctx context.Context, h *holiday.Holiday) error {
				created = h
				return nil
			},
		}

		service, mock := newService(t, repo)
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := service.Create(ctx, holiday.CreateHolidayRequest{
			Name: "Independence Day",
			Date: "2026-08-17",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Independence Day", resp.Name)
		assert.Equal(t, "2026-08-17", resp.Date)
		assert.NotNil(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative bad date format", func(t *testing.T) {
		service, mock := newService(t, &fakeHolidayRepository{})
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := service.Create(ctx, holiday.CreateHolidayRequest{
			Name: "Independence Day",
			Date: "17-08-2026",
		})

		assert.ErrorIs(t, err, holidayerrors.ErrInvalidDateFormat)
	})

	t.Run("negative duplicate date", func(t *testing.T) {
		repo := &fakeHolidayRepository{
			existsOnDateFn: func(ctx context.Context, date time.Time) (bool, error) {
				return true, nil
			},
			createFn: func(ctx context.Context, h *holiday.Holiday) error {
				t.Fatal("duplicate must not be persisted")
				return nil
			},
		}

		service, mock := newService(t, repo)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := service.Create(ctx, holiday.CreateHolidayRequest{
			Name: "Independence Day",
			Date: "2026-08-17",
		})

		assert.ErrorIs(t, err, holidayerrors.ErrDuplicateHoliday)
	})
}

func TestGetAll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &fakeHolidayRepository{
			findAllFn: func(ctx context.Context) ([]holiday.Holiday, error) {
				return []holiday.Holiday{
					{ID: uuid.New(), Name: "New Year", Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
					{ID: uuid.New(), Name: "Labour Day", Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
				}, nil
			},
		}

		service, _ := newService(t, repo)

		resp, err := service.GetAll(context.Background())

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, "2026-01-01", resp[0].Date)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		service, mock := newService(t, &fakeHolidayRepository{})
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := service.Delete(ctx, uuid.New().String())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		repo := &fakeHolidayRepository{
			deleteFn: func(ctx context.Context, id string) error {
				return gorm.ErrRecordNotFound
			},
		}

		service, mock := newService(t, repo)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := service.Delete(ctx, uuid.New().String())

		assert.ErrorIs(t, err, holidayerrors.ErrHolidayNotFound)
	})
}
