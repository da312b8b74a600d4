// Package payrollconfig holds the statutory constants of the Tunisian
// payroll computation. Values default to the 2024 schedule and can be
// overridden from the environment for rate updates without a rebuild.
package payrollconfig

import (
	"os"
	"strconv"
)

// Bracket is one annual IRPP band. UpperBound is the inclusive top of the
// band; the last band uses +Inf semantics via a very large sentinel.
type Bracket struct {
	UpperBound float64
	Rate       float64
}

type Config struct {
	// Calendar policy: working days per month is a fixed constant, not
	// derived from attendance. Ratios downstream are approximations on
	// purpose.
	WorkingDaysPerMonth float64
	HoursPerDay         float64

	// Bonuses and allowances.
	SeniorityTiers        []SeniorityTier
	AttendanceBonusRate   float64
	TransportAllowanceMin float64
	PresenceBonus         float64

	// Social contributions.
	CNSSEmployeeRate float64
	CNSSEmployerRate float64
	CSSRate          float64

	// Income tax.
	ProfessionalExpenseRate      float64
	ProfessionalExpenseAnnualCap float64
	MarriedDeductionAnnual       float64
	DependentDeductionAnnual     float64
	MaxDependents                int
	TaxFreeAnnualThreshold       float64
	Brackets                     []Bracket
}

// SeniorityTier maps full years of service to a bonus rate. Tiers are
// cliff-edged: 4 years and 364 days still pays the 2-year rate.
type SeniorityTier struct {
	MinYears int
	Rate     float64
}

// Default returns the statutory schedule in force.
func Default() Config {
	return Config{
		WorkingDaysPerMonth: 22,
		HoursPerDay:         8,

		SeniorityTiers: []SeniorityTier{
			{MinYears: 20, Rate: 0.20},
			{MinYears: 15, Rate: 0.15},
			{MinYears: 10, Rate: 0.10},
			{MinYears: 5, Rate: 0.05},
			{MinYears: 2, Rate: 0.03},
			{MinYears: 0, Rate: 0},
		},
		AttendanceBonusRate:   0.05,
		TransportAllowanceMin: 60,
		PresenceBonus:         5.850,

		CNSSEmployeeRate: 0.0918,
		CNSSEmployerRate: 0.1657,
		CSSRate:          0.005,

		ProfessionalExpenseRate:      0.10,
		ProfessionalExpenseAnnualCap: 2000,
		MarriedDeductionAnnual:       300,
		DependentDeductionAnnual:     100,
		MaxDependents:                4,
		TaxFreeAnnualThreshold:       5000,
		Brackets: []Bracket{
			{UpperBound: 5000, Rate: 0},
			{UpperBound: 10000, Rate: 0.15},
			{UpperBound: 20000, Rate: 0.25},
			{UpperBound: 30000, Rate: 0.30},
			{UpperBound: 40000, Rate: 0.33},
			{UpperBound: 50000, Rate: 0.36},
			{UpperBound: 70000, Rate: 0.38},
			{UpperBound: 1e18, Rate: 0.40},
		},
	}
}

// FromEnv applies environment overrides on top of Default. Bracket tables
// are not overridable from the environment, rate schedule changes ship as
// code.
func FromEnv() Config {
	cfg := Default()
	cfg.WorkingDaysPerMonth = envFloat("PAYROLL_WORKING_DAYS", cfg.WorkingDaysPerMonth)
	cfg.HoursPerDay = envFloat("PAYROLL_HOURS_PER_DAY", cfg.HoursPerDay)
	cfg.TransportAllowanceMin = envFloat("PAYROLL_TRANSPORT_MIN", cfg.TransportAllowanceMin)
	cfg.PresenceBonus = envFloat("PAYROLL_PRESENCE_BONUS", cfg.PresenceBonus)
	cfg.CNSSEmployeeRate = envFloat("PAYROLL_CNSS_EMPLOYEE_RATE", cfg.CNSSEmployeeRate)
	cfg.CNSSEmployerRate = envFloat("PAYROLL_CNSS_EMPLOYER_RATE", cfg.CNSSEmployerRate)
	cfg.CSSRate = envFloat("PAYROLL_CSS_RATE", cfg.CSSRate)
	return cfg
}

// MonthlyBaseHours is the divisor turning a monthly base salary into an
// hourly rate (22 days * 8 hours = 176 by default).
func (c Config) MonthlyBaseHours() float64 {
	return c.WorkingDaysPerMonth * c.HoursPerDay
}

// SeniorityRate returns the cliff-edged bonus rate for full years of
// service.
func (c Config) SeniorityRate(years int) float64 {
	for _, tier := range c.SeniorityTiers {
		if years >= tier.MinYears {
			return tier.Rate
		}
	}
	return 0
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
