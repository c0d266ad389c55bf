package salarycomponent

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeEarning   = "EARNING"
	TypeDeduction = "DEDUCTION"
)

// SalaryComponent is a catalog row describing one payslip line: what it is
// called, whether it adds or subtracts, and whether its amount is re-entered
// each cycle or carried as a fixed assignment.
type SalaryComponent struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"type:varchar(80);not null;uniqueIndex:idx_salary_components_name_type"`
	ComponentType string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_salary_components_name_type"`
	IsVariable    bool      `gorm:"not null;default:false"`
	IsActive      bool      `gorm:"not null;default:true"`
	SortOrder     int       `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (sc SalaryComponent) IsEarning() bool {
	return sc.ComponentType == TypeEarning
}
