package attendance

type CheckInRequest struct {
	EmployeeID string   `json:"employee_id"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	DeviceName *string  `json:"device_name"`
	Notes      *string  `json:"notes"`
}

type CheckOutRequest struct {
	EmployeeID string `json:"employee_id"`
}

type ListFilter struct {
	EmployeeID string
	Status     string
	Date       string
	StartDate  string
	EndDate    string
}

type AttendanceResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name,omitempty"`
	Date         string   `json:"date"`
	CheckInTime  *string  `json:"check_in_time,omitempty"`
	CheckOutTime *string  `json:"check_out_time,omitempty"`
	Status       string   `json:"status"`
	DelayMinutes int      `json:"delay_minutes"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	DeviceName   *string  `json:"device_name,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

type MarkAbsencesResult struct {
	Date    string `json:"date"`
	Created int    `json:"created"`
}
