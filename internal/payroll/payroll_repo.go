package payroll

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindCycle(ctx context.Context, year, month int) (*PayrollCycle, error)
	CreateCycle(ctx context.Context, c *PayrollCycle) error
	// MarkSubmitted flips DRAFT to SUBMITTED with a conditional update and
	// reports whether this call won the flip.
	MarkSubmitted(ctx context.Context, cycleID uuid.UUID, submittedBy uuid.UUID, at time.Time) (bool, error)
	MarkReopened(ctx context.Context, cycleID uuid.UUID) (bool, error)
	UpsertEntry(ctx context.Context, e *PayrollEntry) error
	FindEntryID(ctx context.Context, cycleID, employeeID uuid.UUID) (uuid.UUID, error)
	FindEntry(ctx context.Context, cycleID, employeeID uuid.UUID) (*PayrollEntry, error)
	ReplaceLineItems(ctx context.Context, entryID uuid.UUID, items []PayrollLineItem) error
	FindEntries(ctx context.Context, cycleID uuid.UUID) ([]PayrollEntry, error)
	FindLineItems(ctx context.Context, entryID uuid.UUID) ([]PayrollLineItem, error)
	MarkPayslipIssued(ctx context.Context, entryID uuid.UUID, at time.Time) error
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

func (r *repository) FindCycle(ctx context.Context, year, month int) (*PayrollCycle, error) {
	var c PayrollCycle
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", year, month).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) CreateCycle(ctx context.Context, c *PayrollCycle) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) MarkSubmitted(ctx context.Context, cycleID uuid.UUID, submittedBy uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&PayrollCycle{}).
		Where("id = ? AND status = ?", cycleID, StatusDraft).
		Updates(map[string]interface{}{
			"status":       StatusSubmitted,
			"submitted_by": submittedBy,
			"submitted_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) MarkReopened(ctx context.Context, cycleID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&PayrollCycle{}).
		Where("id = ? AND status = ?", cycleID, StatusSubmitted).
		Updates(map[string]interface{}{
			"status":       StatusDraft,
			"submitted_by": nil,
			"submitted_at": nil,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) UpsertEntry(ctx context.Context, e *PayrollEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cycle_id"}, {Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"payslip_number", "leaves", "working_days",
				"fixed_earnings", "variable_earnings",
				"fixed_deductions", "variable_deductions",
				"gross_earnings", "total_deductions",
				"net_monthly_salary", "final_payable", "updated_at",
			}),
		}).
		Create(e).Error
}

func (r *repository) FindEntryID(ctx context.Context, cycleID, employeeID uuid.UUID) (uuid.UUID, error) {
	var e PayrollEntry
	err := r.db.WithContext(ctx).
		Select("id").
		Where("cycle_id = ? AND employee_id = ?", cycleID, employeeID).
		First(&e).Error
	if err != nil {
		return uuid.Nil, err
	}
	return e.ID, nil
}

func (r *repository) FindEntry(ctx context.Context, cycleID, employeeID uuid.UUID) (*PayrollEntry, error) {
	var e PayrollEntry
	err := r.db.WithContext(ctx).
		Where("cycle_id = ? AND employee_id = ?", cycleID, employeeID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) ReplaceLineItems(ctx context.Context, entryID uuid.UUID, items []PayrollLineItem) error {
	if err := r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Delete(&PayrollLineItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindEntries(ctx context.Context, cycleID uuid.UUID) ([]PayrollEntry, error) {
	var entries []PayrollEntry
	err := r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Order("employee_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindLineItems(ctx context.Context, entryID uuid.UUID) ([]PayrollLineItem, error) {
	var items []PayrollLineItem
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("sort_order ASC, component_name_snapshot ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) MarkPayslipIssued(ctx context.Context, entryID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&PayrollEntry{}).
		Where("id = ?", entryID).
		Update("payslip_issued_at", at).Error
}
