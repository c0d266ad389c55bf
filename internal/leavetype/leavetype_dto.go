package leavetype

type CreateLeaveTypeRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type UpdateLeaveTypeRequest struct {
	Name     string `json:"name" binding:"required"`
	Color    string `json:"color"`
	IsActive *bool  `json:"is_active"`
}

type LeaveTypeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	IsActive bool   `json:"is_active"`
}
