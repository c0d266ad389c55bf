package leave

import (
	"time"

	"github.com/google/uuid"
)

type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_start"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index"`

	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_start"`
	EndDate   time.Time `gorm:"type:date;not null"`

	// DaysRequested counts business days only and is recomputed whenever
	// the dates change.
	DaysRequested int    `gorm:"not null;default:1"`
	Reason        string `gorm:"type:text"`

	Status     string     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ApproverID *uuid.UUID `gorm:"type:uuid"`
	Comments   *string    `gorm:"type:text"`

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedAt *time.Time

	Employee *RequestEmployee `gorm:"foreignKey:EmployeeID;references:ID"`
}

type RequestEmployee struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FullName  string     `gorm:"column:full_name"`
	ManagerID *uuid.UUID `gorm:"column:manager_id"`
}

func (RequestEmployee) TableName() string {
	return "employees"
}
