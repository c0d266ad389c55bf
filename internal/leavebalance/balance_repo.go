package leavebalance

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindOne(ctx context.Context, employeeID, leaveTypeID string, year, month int) (*EmployeeBalance, error)
	FindAllForMonth(ctx context.Context, year, month int) ([]EmployeeBalance, error)
	Create(ctx context.Context, b *EmployeeBalance) error
	Update(ctx context.Context, b *EmployeeBalance) error
	Seed(ctx context.Context, b *EmployeeBalance) error
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

func (r *repository) FindOne(ctx context.Context, employeeID, leaveTypeID string, year, month int) (*EmployeeBalance, error) {
	var b EmployeeBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		Where("month = ?", month).
		First(&b).Error
	return &b, err
}

func (r *repository) FindAllForMonth(ctx context.Context, year, month int) ([]EmployeeBalance, error) {
	var balances []EmployeeBalance
	err := r.db.WithContext(ctx).
		Where("year = ?", year).
		Where("month = ?", month).
		Find(&balances).Error
	return balances, err
}

func (r *repository) Create(ctx context.Context, b *EmployeeBalance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) Update(ctx context.Context, b *EmployeeBalance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// Seed inserts the row only when it does not exist yet. The unique
// (employee, leave type, year, month) key makes concurrent seeds collapse
// into one, and rows already adjusted by an admin are left untouched.
func (r *repository) Seed(ctx context.Context, b *EmployeeBalance) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO employee_balances (id, employee_id, leave_type_id, year, month, balance_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, now(), now())
		ON CONFLICT (employee_id, leave_type_id, year, month) DO NOTHING
	`, b.ID, b.EmployeeID, b.LeaveTypeID, b.Year, b.Month, b.BalanceDays).Error
}
