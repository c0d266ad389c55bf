package employeecomponent

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employeecomponent_repo.go -destination=mock/employeecomponent_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, v *EmployeeComponentValue) error
	FindByID(ctx context.Context, id string) (*EmployeeComponentValue, error)
	FindAll(ctx context.Context) ([]EmployeeComponentValue, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]EmployeeComponentValue, error)
	Update(ctx context.Context, v *EmployeeComponentValue) error
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

// Upsert keeps the (employee, component) pair unique: re-assigning a
// component overwrites the previous amount instead of failing.
func (r *repository) Upsert(ctx context.Context, v *EmployeeComponentValue) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "component_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
		}).
		Create(v).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*EmployeeComponentValue, error) {
	var v EmployeeComponentValue
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) FindAll(ctx context.Context) ([]EmployeeComponentValue, error) {
	var values []EmployeeComponentValue
	err := r.db.WithContext(ctx).
		Order("employee_id ASC, created_at ASC").
		Find(&values).Error
	return values, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]EmployeeComponentValue, error) {
	var values []EmployeeComponentValue
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at ASC").
		Find(&values).Error
	return values, err
}

func (r *repository) Update(ctx context.Context, v *EmployeeComponentValue) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&EmployeeComponentValue{}).Error
}
