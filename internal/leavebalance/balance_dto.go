package leavebalance

type AdjustBalanceRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	Year        int    `json:"year" binding:"required"`
	Month       int    `json:"month" binding:"required"`
	Action      string `json:"action" binding:"required,oneof=SET CREDIT DEBIT"`
	Amount      int    `json:"amount"`
}

type BalanceResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	BalanceDays int    `json:"balance_days"`
}
