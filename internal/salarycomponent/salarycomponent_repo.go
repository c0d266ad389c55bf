package salarycomponent

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=salarycomponent_repo.go -destination=mock/salarycomponent_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, sc *SalaryComponent) error
	FindAll(ctx context.Context) ([]SalaryComponent, error)
	FindAllActive(ctx context.Context) ([]SalaryComponent, error)
	FindByID(ctx context.Context, id string) (*SalaryComponent, error)
	ExistsByNameAndType(ctx context.Context, name, componentType string, excludeID *string) (bool, error)
	Update(ctx context.Context, sc *SalaryComponent) error
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

func (r *repository) Create(ctx context.Context, sc *SalaryComponent) error {
	return r.db.WithContext(ctx).Create(sc).Error
}

func (r *repository) FindAll(ctx context.Context) ([]SalaryComponent, error) {
	var components []SalaryComponent
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&components).Error
	return components, err
}

func (r *repository) FindAllActive(ctx context.Context) ([]SalaryComponent, error) {
	var components []SalaryComponent
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&components).Error
	return components, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*SalaryComponent, error) {
	var sc SalaryComponent
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&sc).Error
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *repository) ExistsByNameAndType(ctx context.Context, name, componentType string, excludeID *string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&SalaryComponent{}).
		Where("LOWER(name) = LOWER(?) AND component_type = ?", name, componentType)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, sc *SalaryComponent) error {
	return r.db.WithContext(ctx).Save(sc).Error
}
