package taxprojection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=taxprojection_repo.go -destination=mock/taxprojection_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, row *TaxProjectionRow) error
	FindAllOrdered(ctx context.Context) ([]TaxProjectionRow, error)
	FindByID(ctx context.Context, id string) (*TaxProjectionRow, error)
	ExistsByLabel(ctx context.Context, label string, excludeID *string) (bool, error)
	Update(ctx context.Context, row *TaxProjectionRow) error
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

func (r *repository) Create(ctx context.Context, row *TaxProjectionRow) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) FindAllOrdered(ctx context.Context) ([]TaxProjectionRow, error) {
	var rows []TaxProjectionRow
	err := r.db.WithContext(ctx).
		Order("sort_order ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*TaxProjectionRow, error) {
	var row TaxProjectionRow
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ExistsByLabel(ctx context.Context, label string, excludeID *string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&TaxProjectionRow{}).
		Where("LOWER(label) = LOWER(?)", label)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, row *TaxProjectionRow) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&TaxProjectionRow{}).Error
}
