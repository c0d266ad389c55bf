package holiday

type CreateHolidayRequest struct {
	Name string `json:"name" binding:"required"`
	Date string `json:"date" binding:"required"`
}

type HolidayResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}
