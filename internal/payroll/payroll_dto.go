package payroll

type CalculatePayrollRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Month      string `json:"month" binding:"required"`
}

type GenerateMonthlyRequest struct {
	Month string `json:"month" binding:"required"`
}

type ListFilter struct {
	EmployeeID string
	Month      string
	Status     string
}

type PayslipResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Employee   string `json:"employee_name,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Month      string `json:"month"`

	BaseSalary float64 `json:"base_salary"`

	OvertimeHours  float64        `json:"overtime_hours"`
	OvertimePay    float64        `json:"overtime_pay"`
	OvertimeDetail []OvertimeLine `json:"overtime_detail,omitempty"`

	Bonuses    BonusBreakdown     `json:"bonuses"`
	Allowances AllowanceBreakdown `json:"allowances"`
	Deductions DeductionBreakdown `json:"deductions"`
	Attendance AttendanceSummary  `json:"attendance"`
	Tax        TaxTrace           `json:"tax"`

	TotalGross      float64 `json:"total_gross"`
	TotalDeductions float64 `json:"total_deductions"`
	NetSalary       float64 `json:"net_salary"`

	Status string  `json:"status"`
	PaidAt *string `json:"paid_at,omitempty"`
}

const (
	BatchGenerated     = "generated"
	BatchAlreadyExists = "already_exists"
	BatchFailed        = "failed"
)

// BatchEmployeeResult is one line of the per-employee result list returned
// by monthly generation. One employee failing never aborts the batch.
type BatchEmployeeResult struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Status       string `json:"status"`
	PayslipID    string `json:"payslip_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

type BatchResult struct {
	Month         string                `json:"month"`
	Generated     int                   `json:"generated"`
	AlreadyExists int                   `json:"already_exists"`
	Failed        int                   `json:"failed"`
	Results       []BatchEmployeeResult `json:"results"`
}

// MonthlyReport aggregates generated payslips for regulatory filing. The
// employer CNSS share is informational and never deducted from net pay.
type MonthlyReport struct {
	Month            string  `json:"month"`
	PayslipCount     int     `json:"payslip_count"`
	TotalGross       float64 `json:"total_gross"`
	TotalDeductions  float64 `json:"total_deductions"`
	TotalNet         float64 `json:"total_net"`
	TotalIncomeTax   float64 `json:"total_income_tax"`
	TotalCSS         float64 `json:"total_css"`
	CNSSEmployeeSum  float64 `json:"cnss_employee_sum"`
	CNSSEmployerSum  float64 `json:"cnss_employer_sum"`
	CNSSContribution float64 `json:"cnss_contribution_total"`
}

type CNSSReportLine struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	Gross         float64 `json:"gross"`
	EmployeeShare float64 `json:"employee_share"`
	EmployerShare float64 `json:"employer_share"`
}

type CNSSReport struct {
	Month            string           `json:"month"`
	EmployerRate     float64          `json:"employer_rate"`
	EmployeeRate     float64          `json:"employee_rate"`
	Lines            []CNSSReportLine `json:"lines"`
	TotalGross       float64          `json:"total_gross"`
	TotalEmployee    float64          `json:"total_employee_share"`
	TotalEmployer    float64          `json:"total_employer_share"`
	TotalContributed float64          `json:"total_contributed"`
}
