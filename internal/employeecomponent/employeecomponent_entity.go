package employeecomponent

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeComponentValue assigns a monetary amount to one salary component
// for one employee. One row per (employee, component) pair; variable
// components get their row re-pointed at a new amount each cycle.
type EmployeeComponentValue struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_employee_component"`
	ComponentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_employee_component"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EmployeeComponentValue) TableName() string {
	return "employee_component_values"
}
