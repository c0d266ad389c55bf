package salarycomponent

type CreateSalaryComponentRequest struct {
	Name          string `json:"name" binding:"required,max=80"`
	ComponentType string `json:"component_type" binding:"required,oneof=EARNING DEDUCTION"`
	IsVariable    bool   `json:"is_variable"`
	SortOrder     int    `json:"sort_order"`
}

type UpdateSalaryComponentRequest struct {
	Name       string `json:"name" binding:"required,max=80"`
	IsVariable bool   `json:"is_variable"`
	IsActive   bool   `json:"is_active"`
	SortOrder  int    `json:"sort_order"`
}

type SalaryComponentResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ComponentType string `json:"component_type"`
	IsVariable    bool   `json:"is_variable"`
	IsActive      bool   `json:"is_active"`
	SortOrder     int    `json:"sort_order"`
}
