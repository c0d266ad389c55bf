package leavebalance

import (
	"time"

	"github.com/google/uuid"
)

const (
	// PlannedMonthlyCredit is the balance seeded for the Planned leave type
	// each month.
	PlannedMonthlyCredit = 2

	// UncappedSentinel is the balance seeded for every other leave type.
	// Those types report an unlimited remaining regardless of this number;
	// the ledger row exists for reporting only.
	UncappedSentinel = 999
)

const (
	ActionSet    = "SET"
	ActionCredit = "CREDIT"
	ActionDebit  = "DEBIT"
)

type EmployeeBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balances_scope"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balances_scope"`
	Year        int       `gorm:"not null;uniqueIndex:idx_balances_scope"`
	Month       int       `gorm:"not null;uniqueIndex:idx_balances_scope"`

	// BalanceDays may go negative through DEBIT adjustments; display-side
	// clamping happens in RemainingDays, not here.
	BalanceDays int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingDays derives the displayable remaining balance. Capped (Planned)
// types clamp at zero; every other type is unlimited no matter what the
// stored arithmetic balance says.
func RemainingDays(balanceDays, used int, planned bool) (days int, unlimited bool) {
	if !planned {
		return 0, true
	}
	remaining := balanceDays - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, false
}
