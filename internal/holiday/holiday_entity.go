package holiday

import (
	"time"

	"github.com/google/uuid"
)

type Holiday struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"type:varchar(120);not null"`
	Date time.Time `gorm:"type:date;not null;uniqueIndex:idx_holidays_date"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
