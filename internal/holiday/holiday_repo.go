package holiday

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, h *Holiday) error
	FindAll(ctx context.Context) ([]Holiday, error)
	FindDatesInRange(ctx context.Context, start, end time.Time) ([]time.Time, error)
	ExistsOnDate(ctx context.Context, date time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Order("date ASC").
		Find(&holidays).Error
	return holidays, err
}

func (r *repository) FindDatesInRange(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&Holiday{}).
		Where("date BETWEEN ? AND ?", start, end).
		Order("date ASC").
		Pluck("date", &dates).Error
	return dates, err
}

func (r *repository) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Holiday{}).
		Where("date = ?", date).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Delete(&Holiday{}, "id = ?", id).Error
}
