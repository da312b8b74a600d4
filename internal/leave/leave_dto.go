package leave

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type" binding:"required,oneof=annual sick maternity unpaid other"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason"`
}

type ListFilter struct {
	EmployeeID string
	Status     string
}

type LeaveResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	LeaveType     string  `json:"leave_type"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	DaysRequested float64 `json:"days_requested"`
	Status        string  `json:"status"`
	Reason        string  `json:"reason,omitempty"`
	ApprovedBy    *string `json:"approved_by,omitempty"`
	ApprovedAt    *string `json:"approved_at,omitempty"`
}
