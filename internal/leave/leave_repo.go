package leave

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAll(ctx context.Context, limit, offset int) ([]LeaveRequest, int64, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindAllByManager(ctx context.Context, managerID string) ([]LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	SumRequestedDays(ctx context.Context, employeeID, leaveTypeID string, year, month int, statuses []string, excludeID *string) (int, error)
	SumApprovedDaysForMonth(ctx context.Context, year, month int) (map[string]int, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindAll(ctx context.Context, limit, offset int) ([]LeaveRequest, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Order("start_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&requests).Error
	return requests, total, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&requests).Error
	return requests, err
}

// FindAllByManager returns requests of the manager's direct reports only.
func (r *repository) FindAllByManager(ctx context.Context, managerID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Where("employees.manager_id = ?", managerID).
		Order("leave_requests.start_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(l).Error
}

// SumRequestedDays totals days_requested over the employee's requests of the
// given type whose start date falls inside (year, month) and whose status is
// in statuses. Consumption is recomputed from rows on every check instead of
// keeping a running counter that can drift.
func (r *repository) SumRequestedDays(
	ctx context.Context,
	employeeID, leaveTypeID string,
	year, month int,
	statuses []string,
	excludeID *string,
) (int, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("EXTRACT(YEAR FROM start_date) = ?", year).
		Where("EXTRACT(MONTH FROM start_date) = ?", month).
		Where("status IN ?", statuses)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var total sql.NullInt64
	err := db.Select("SUM(days_requested)").Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}

// SumApprovedDaysForMonth groups approved leave days by employee for every
// request starting inside (year, month), across all leave types. Payroll
// proration reads this to default missing per-employee leave counts.
func (r *repository) SumApprovedDaysForMonth(ctx context.Context, year, month int) (map[string]int, error) {
	type row struct {
		EmployeeID string
		Total      int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Select("employee_id, SUM(days_requested) AS total").
		Where("EXTRACT(YEAR FROM start_date) = ?", year).
		Where("EXTRACT(MONTH FROM start_date) = ?", month).
		Where("status = ?", StatusApproved).
		Group("employee_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int, len(rows))
	for _, r := range rows {
		totals[r.EmployeeID] = r.Total
	}
	return totals, nil
}
