package taxprojection

type CreateRowRequest struct {
	SortOrder int    `json:"sort_order" binding:"required"`
	Label     string `json:"label" binding:"required,max=80"`
	Formula   string `json:"formula" binding:"required"`
}

type UpdateRowRequest struct {
	SortOrder int    `json:"sort_order" binding:"required"`
	Label     string `json:"label" binding:"required,max=80"`
	Formula   string `json:"formula" binding:"required"`
}

type RowResponse struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sort_order"`
	Label     string `json:"label"`
	Formula   string `json:"formula"`
}

// ProjectionRequest evaluates the stored projection table against one
// employee's submitted payroll entry. TaxSavings carries declared amounts
// keyed by the label a formula references them under.
type ProjectionRequest struct {
	EmployeeID string             `json:"employee_id" binding:"required,uuid"`
	Year       int                `json:"year" binding:"required"`
	Month      int                `json:"month" binding:"required,min=1,max=12"`
	TaxSavings map[string]float64 `json:"tax_savings"`
}

type ProjectionResponse struct {
	EmployeeID string      `json:"employee_id"`
	Year       int         `json:"year"`
	Month      int         `json:"month"`
	Rows       []RowResult `json:"rows"`
}
