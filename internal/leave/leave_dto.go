package leave

type CreateLeaveRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Reason      string `json:"reason"`
}

type UpdateLeaveRequest struct {
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Reason      string `json:"reason"`
}

type ProcessLeaveRequest struct {
	Action   string  `json:"action" binding:"required,oneof=APPROVE REJECT"`
	Comments *string `json:"comments"`
}

type LeaveRequestResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	LeaveTypeID   string  `json:"leave_type_id"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	DaysRequested int     `json:"days_requested"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	ApproverID    *string `json:"approver_id,omitempty"`
	ApprovedAt    *string `json:"approved_at,omitempty"`
	Comments      *string `json:"comments,omitempty"`
}

type RemainingResponse struct {
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Unlimited   bool   `json:"unlimited"`
	Remaining   int    `json:"remaining"`
}
