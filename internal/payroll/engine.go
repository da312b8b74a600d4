package payroll

import (
	"time"

	"go-paie/internal/attendance"
	"go-paie/internal/employee"
	"go-paie/internal/overtime"
	payrollconfig "go-paie/internal/payroll/config"
	"go-paie/internal/shared/period"
)

// EngineInput is a consistent snapshot of the ledgers for one employee and
// month. The engine never touches storage; callers assemble the snapshot.
type EngineInput struct {
	Employee   *employee.Employee
	Month      string
	MonthEnd   time.Time
	Attendance []attendance.Attendance
	Overtime   []overtime.Overtime
}

// Computation is the full unrounded derivation of one payslip. Rounding to
// currency precision happens only when mapping into the stored Payslip,
// mid-calculation rounding would compound error across steps.
type Computation struct {
	BaseSalary float64

	WorkingDays int
	PresentDays int
	AbsentDays  int
	LateDays    int

	OvertimeHours  float64
	OvertimePay    float64
	OvertimeDetail []OvertimeLine

	SeniorityYears  int
	SeniorityBonus  float64
	AttendanceBonus float64
	OtherBonus      float64
	TotalBonuses    float64

	TransportAllowance float64
	PresenceBonus      float64
	OtherAllowance     float64
	TotalAllowances    float64

	TotalGross float64

	CNSSEmployee float64
	CNSSEmployer float64

	TaxableIncome         float64
	ProfessionalExpense   float64
	FamilyDeductionAnnual float64
	AnnualTaxableBase     float64
	AnnualTax             float64
	MonthlyIncomeTax      float64
	CSS                   float64

	AbsenceDeduction float64
	OtherDeduction   float64

	TotalDeductions float64
	NetSalary       float64
}

// Engine computes payslips from ledger snapshots. It is pure and safe for
// concurrent use; the bracket table is fixed at construction.
type Engine struct {
	cfg payrollconfig.Config
}

func NewEngine(cfg payrollconfig.Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Calculate(in EngineInput) Computation {
	c := Computation{BaseSalary: in.Employee.BaseSalary}

	// Attendance aggregation. Working days is a fixed calendar constant,
	// not present+absent; downstream ratios are approximations on purpose.
	c.WorkingDays = int(e.cfg.WorkingDaysPerMonth)
	for _, rec := range in.Attendance {
		switch rec.Status {
		case attendance.StatusPresent:
			c.PresentDays++
		case attendance.StatusLate:
			c.PresentDays++
			c.LateDays++
		case attendance.StatusAbsent:
			c.AbsentDays++
		}
	}

	// Overtime aggregation. The hourly rate is recomputed from the current
	// base salary; the rate frozen on the entry at approval time is kept
	// for audit only. Unrecognized tiers fall back to 1.25, tier
	// validation happened at entry creation and is not re-litigated here.
	hourlyRate := c.BaseSalary / e.cfg.MonthlyBaseHours()
	for _, entry := range in.Overtime {
		mult := overtime.Multiplier(entry.RateType)
		amount := hourlyRate * entry.Hours * mult
		c.OvertimeHours += entry.Hours
		c.OvertimePay += amount
		c.OvertimeDetail = append(c.OvertimeDetail, OvertimeLine{
			Date:       entry.Date.Format(period.DateLayout),
			Hours:      entry.Hours,
			RateType:   entry.RateType,
			Multiplier: mult,
			HourlyRate: hourlyRate,
			Amount:     amount,
		})
	}

	// Bonuses. Seniority tiers are cliff-edged on full years of service.
	if in.Employee.HireDate != nil {
		c.SeniorityYears = period.YearsSince(*in.Employee.HireDate, in.MonthEnd)
	}
	c.SeniorityBonus = c.BaseSalary * e.cfg.SeniorityRate(c.SeniorityYears)
	if c.LateDays == 0 && c.AbsentDays == 0 {
		c.AttendanceBonus = c.BaseSalary * e.cfg.AttendanceBonusRate
	}
	c.TotalBonuses = c.SeniorityBonus + c.AttendanceBonus + c.OtherBonus

	// Allowances. Transport defaults to the statutory minimum when the
	// profile leaves it unset; the presence bonus is paid regardless of
	// attendance.
	c.TransportAllowance = e.cfg.TransportAllowanceMin
	if in.Employee.TransportAllowance != nil {
		c.TransportAllowance = *in.Employee.TransportAllowance
	}
	c.PresenceBonus = e.cfg.PresenceBonus
	c.TotalAllowances = c.TransportAllowance + c.PresenceBonus + c.OtherAllowance

	c.TotalGross = c.BaseSalary + c.OvertimePay + c.TotalBonuses + c.TotalAllowances

	// Social contributions. Only the employee share is deducted; the
	// employer share exists for statutory reporting.
	c.CNSSEmployee = c.TotalGross * e.cfg.CNSSEmployeeRate
	c.CNSSEmployer = c.TotalGross * e.cfg.CNSSEmployerRate

	// Income tax: annual brackets applied monthly.
	c.TaxableIncome = c.TotalGross - c.CNSSEmployee
	c.ProfessionalExpense = c.TaxableIncome * e.cfg.ProfessionalExpenseRate
	if monthlyCap := e.cfg.ProfessionalExpenseAnnualCap / 12; c.ProfessionalExpense > monthlyCap {
		c.ProfessionalExpense = monthlyCap
	}
	c.FamilyDeductionAnnual = e.familyDeduction(in.Employee)
	c.AnnualTaxableBase = (c.TaxableIncome-c.ProfessionalExpense)*12 - c.FamilyDeductionAnnual

	if c.AnnualTaxableBase > e.cfg.TaxFreeAnnualThreshold {
		c.AnnualTax = marginalTax(c.AnnualTaxableBase, e.cfg.Brackets)
	}
	c.MonthlyIncomeTax = c.AnnualTax / 12
	c.CSS = c.MonthlyIncomeTax * e.cfg.CSSRate

	if c.AbsentDays > 0 {
		c.AbsenceDeduction = (c.BaseSalary / e.cfg.WorkingDaysPerMonth) * float64(c.AbsentDays)
	}

	c.TotalDeductions = c.CNSSEmployee + c.MonthlyIncomeTax + c.CSS + c.AbsenceDeduction + c.OtherDeduction
	c.NetSalary = c.TotalGross - c.TotalDeductions

	return c
}

func (e *Engine) familyDeduction(emp *employee.Employee) float64 {
	total := 0.0
	if emp.MaritalStatus == employee.MaritalMarried {
		total += e.cfg.MarriedDeductionAnnual
	}
	dependents := emp.DependentCount
	if dependents > e.cfg.MaxDependents {
		dependents = e.cfg.MaxDependents
	}
	return total + float64(dependents)*e.cfg.DependentDeductionAnnual
}
