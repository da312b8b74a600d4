package payroll

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusGenerated = "generated"
	StatusPaid      = "paid"
)

// OvertimeLine is one approved overtime entry as valued by the engine at
// generation time. The hourly rate here is recomputed from the current
// base salary and is authoritative over the rate frozen on the entry.
type OvertimeLine struct {
	Date       string  `json:"date"`
	Hours      float64 `json:"hours"`
	RateType   string  `json:"rate_type"`
	Multiplier float64 `json:"multiplier"`
	HourlyRate float64 `json:"hourly_rate"`
	Amount     float64 `json:"amount"`
}

type BonusBreakdown struct {
	Seniority      float64 `json:"seniority"`
	SeniorityYears int     `json:"seniority_years"`
	Attendance     float64 `json:"attendance"`
	Other          float64 `json:"other"`
	Total          float64 `json:"total"`
}

type AllowanceBreakdown struct {
	Transport float64 `json:"transport"`
	Presence  float64 `json:"presence"`
	Other     float64 `json:"other"`
	Total     float64 `json:"total"`
}

type DeductionBreakdown struct {
	CNSS      float64 `json:"cnss"`
	IncomeTax float64 `json:"income_tax"`
	CSS       float64 `json:"css"`
	Absence   float64 `json:"absence"`
	Other     float64 `json:"other"`
	Total     float64 `json:"total"`
}

type AttendanceSummary struct {
	WorkingDays int `json:"working_days"`
	PresentDays int `json:"present_days"`
	AbsentDays  int `json:"absent_days"`
	LateDays    int `json:"late_days"`
}

// TaxTrace retains the intermediate figures of the income tax computation
// so a payslip can show its derivation, not just a final number.
type TaxTrace struct {
	TaxableIncome         float64 `json:"taxable_income"`
	ProfessionalExpense   float64 `json:"professional_expense"`
	FamilyDeductionAnnual float64 `json:"family_deduction_annual"`
	AnnualTaxableBase     float64 `json:"annual_taxable_base"`
	AnnualTax             float64 `json:"annual_tax"`
	MonthlyTax            float64 `json:"monthly_tax"`
}

// Payslip is immutable once generated except for the generated -> paid
// status transition. One row per (employee, month), enforced by a unique
// index so concurrent generation resolves at the storage layer.
type Payslip struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_payslip_employee_month"`
	Month      string    `gorm:"type:varchar(7);not null;uniqueIndex:idx_payslip_employee_month"`

	BaseSalary float64 `gorm:"type:numeric(12,3);not null"`

	OvertimeHours  float64            `gorm:"type:numeric(6,1);not null"`
	OvertimePay    float64            `gorm:"type:numeric(12,3);not null"`
	OvertimeDetail []OvertimeLine     `gorm:"serializer:json;type:jsonb"`
	Bonuses        BonusBreakdown     `gorm:"serializer:json;type:jsonb"`
	Allowances     AllowanceBreakdown `gorm:"serializer:json;type:jsonb"`
	Deductions     DeductionBreakdown `gorm:"serializer:json;type:jsonb"`
	Attendance     AttendanceSummary  `gorm:"serializer:json;type:jsonb"`
	Tax            TaxTrace           `gorm:"serializer:json;type:jsonb"`

	TotalGross      float64 `gorm:"type:numeric(12,3);not null"`
	TotalDeductions float64 `gorm:"type:numeric(12,3);not null"`
	NetSalary       float64 `gorm:"type:numeric(12,3);not null"`

	Status string     `gorm:"type:varchar(20);not null;default:'generated';index"`
	PaidAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Payslip) TableName() string {
	return "payslips"
}

type EmployeeRef struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName  string
	LastName   string
	Department string
	Position   string
}

func (EmployeeRef) TableName() string {
	return "employees"
}
