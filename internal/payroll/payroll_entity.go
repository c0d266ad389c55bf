package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
)

// PayrollCycle is one calendar month's run. While SUBMITTED no entry of the
// cycle may be recomputed; Reopen is the only way back to DRAFT.
type PayrollCycle struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Year        int        `gorm:"not null;uniqueIndex:idx_payroll_cycles_period"`
	Month       int        `gorm:"not null;uniqueIndex:idx_payroll_cycles_period"`
	Status      string     `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	SubmittedBy *uuid.UUID `gorm:"type:uuid"`
	SubmittedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayrollEntry is one employee's computed month inside a cycle. Written only
// by the aggregator; re-submitting a reopened cycle overwrites it in place.
type PayrollEntry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CycleID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_payroll_entries_cycle_employee"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_payroll_entries_cycle_employee"`
	PayslipNumber string    `gorm:"type:varchar(40);not null"`

	Leaves      int `gorm:"not null;default:0"`
	WorkingDays int `gorm:"not null;default:0"`

	FixedEarnings      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	VariableEarnings   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	FixedDeductions    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	VariableDeductions decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	GrossEarnings      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalDeductions    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	NetMonthlySalary   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	FinalPayable       decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	// Set by the payslip consumer once the requested payslip has been
	// handed to the delivery pipeline.
	PayslipIssuedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayrollLineItem snapshots one component's contribution to one entry.
// Name and type are copied so later catalog edits never alter history.
// The whole set is deleted and reinserted whenever the entry is recomputed.
type PayrollLineItem struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntryID               uuid.UUID       `gorm:"type:uuid;not null;index:idx_payroll_line_items_entry"`
	ComponentNameSnapshot string          `gorm:"type:varchar(80);not null"`
	ComponentTypeSnapshot string          `gorm:"type:varchar(20);not null"`
	Amount                decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	IsVariableAdjustment  bool            `gorm:"not null;default:false"`
	SortOrder             int             `gorm:"not null;default:0"`

	CreatedAt time.Time
}
