package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the minimal slice of the directory this engine needs: who is
// active (payroll aggregation) and who reports to whom (team leave queries).
// Directory CRUD lives in the surrounding portal, not here.
type Employee struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName  string     `gorm:"type:varchar(120);not null"`
	ManagerID *uuid.UUID `gorm:"type:uuid;index"`
	IsActive  bool       `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
