package employeecomponent

type AssignComponentRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	ComponentID string `json:"component_id" binding:"required,uuid"`
	Amount      string `json:"amount" binding:"required"`
}

type UpdateAssignmentRequest struct {
	Amount string `json:"amount" binding:"required"`
}

type AssignmentResponse struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	ComponentID   string `json:"component_id"`
	ComponentName string `json:"component_name,omitempty"`
	ComponentType string `json:"component_type,omitempty"`
	IsVariable    bool   `json:"is_variable"`
	Amount        string `json:"amount"`
}
