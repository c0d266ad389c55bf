package payroll

// VariableAdjustment is one ad-hoc amount entered for a single cycle, keyed
// to a catalog component. Negative amounts are clamped to zero before they
// reach the calculator.
type VariableAdjustment struct {
	ComponentID string `json:"component_id" binding:"required,uuid"`
	Amount      string `json:"amount" binding:"required"`
}

type PreviewPayrollRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required,min=1,max=12"`

	// Leaves overrides the approved-leave sums derived from the leave
	// module; employees absent from the map keep the derived count.
	Leaves              map[string]int                  `json:"leaves"`
	VariableAdjustments map[string][]VariableAdjustment `json:"variable_adjustments"`
}

type SubmitPayrollRequest struct {
	Year                int                             `json:"year" binding:"required"`
	Month               int                             `json:"month" binding:"required,min=1,max=12"`
	Leaves              map[string]int                  `json:"leaves"`
	VariableAdjustments map[string][]VariableAdjustment `json:"variable_adjustments"`
}

type LineItemResponse struct {
	ComponentName        string `json:"component_name"`
	ComponentType        string `json:"component_type"`
	Amount               string `json:"amount"`
	IsVariableAdjustment bool   `json:"is_variable_adjustment"`
	SortOrder            int    `json:"sort_order"`
}

type PayrollRowResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`

	Leaves      int `json:"leaves"`
	WorkingDays int `json:"working_days"`

	FixedEarnings      string `json:"fixed_earnings"`
	VariableEarnings   string `json:"variable_earnings"`
	FixedDeductions    string `json:"fixed_deductions"`
	VariableDeductions string `json:"variable_deductions"`
	GrossEarnings      string `json:"gross_earnings"`
	TotalDeductions    string `json:"total_deductions"`
	NetMonthlySalary   string `json:"net_monthly_salary"`
	FinalPayable       string `json:"final_payable"`

	LineItems []LineItemResponse `json:"line_items"`
}

type PreviewPayrollResponse struct {
	Year   int                  `json:"year"`
	Month  int                  `json:"month"`
	Status string               `json:"status"`
	Rows   []PayrollRowResponse `json:"rows"`
}

type CycleResponse struct {
	ID          string  `json:"id"`
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Status      string  `json:"status"`
	SubmittedBy *string `json:"submitted_by,omitempty"`
	SubmittedAt *string `json:"submitted_at,omitempty"`
}

type CycleDetailResponse struct {
	CycleResponse
	Entries []EntryResponse `json:"entries"`
}

type EntryResponse struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	PayslipNumber string `json:"payslip_number"`

	Leaves      int `json:"leaves"`
	WorkingDays int `json:"working_days"`

	FixedEarnings      string `json:"fixed_earnings"`
	VariableEarnings   string `json:"variable_earnings"`
	FixedDeductions    string `json:"fixed_deductions"`
	VariableDeductions string `json:"variable_deductions"`
	GrossEarnings      string `json:"gross_earnings"`
	TotalDeductions    string `json:"total_deductions"`
	NetMonthlySalary   string `json:"net_monthly_salary"`
	FinalPayable       string `json:"final_payable"`

	LineItems []LineItemResponse `json:"line_items"`
}
