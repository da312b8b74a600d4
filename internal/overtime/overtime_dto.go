package overtime

type CreateOvertimeRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date" binding:"required"`
	Hours      float64 `json:"hours" binding:"required,gt=0"`
	RateType   string  `json:"rate_type" binding:"required,oneof=125% 150% 200%"`
	Reason     string  `json:"reason"`
}

type ListFilter struct {
	EmployeeID string
	Month      string
	Status     string
}

type OvertimeResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	Date           string  `json:"date"`
	Month          string  `json:"month"`
	Hours          float64 `json:"hours"`
	RateType       string  `json:"rate_type"`
	Amount         float64 `json:"amount"`
	BaseHourlyRate float64 `json:"base_hourly_rate"`
	Status         string  `json:"status"`
	Reason         string  `json:"reason,omitempty"`
}
