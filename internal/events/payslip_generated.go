package events

import "time"

const PayslipGeneratedTopic = "hr.payroll.payslip.generated.v1"

// PayslipGeneratedEvent notifies downstream consumers (PDF rendering,
// accounting export) that a payslip row was committed.
type PayslipGeneratedEvent struct {
	EventType  string    `json:"event_type"`
	PayslipID  string    `json:"payslip_id"`
	EmployeeID string    `json:"employee_id"`
	Month      string    `json:"month"`
	NetSalary  float64   `json:"net_salary"`
	OccurredAt time.Time `json:"occurred_at"`
}
