package leavetype

import (
	"time"

	"github.com/google/uuid"
)

// PlannedTypeName is the one leave type that carries a finite, monthly
// replenished balance. Every other active type is tracked but uncapped.
const PlannedTypeName = "Planned"

type LeaveType struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"type:varchar(60);not null;uniqueIndex:idx_leave_types_name"`
	Color    string    `gorm:"type:varchar(20);not null;default:'#1976d2'"`
	IsActive bool      `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (lt LeaveType) IsPlanned() bool {
	return lt.Name == PlannedTypeName
}
