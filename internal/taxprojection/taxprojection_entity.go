package taxprojection

import (
	"time"

	"github.com/google/uuid"
)

// TaxProjectionRow is one admin-authored line of the projection table.
// Rows evaluate in ascending SortOrder; a formula may reference any earlier
// row's label with {Label} syntax.
type TaxProjectionRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SortOrder int       `gorm:"not null;uniqueIndex:idx_tax_projection_rows_order"`
	Label     string    `gorm:"type:varchar(80);not null;uniqueIndex:idx_tax_projection_rows_label"`
	Formula   string    `gorm:"type:text;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
