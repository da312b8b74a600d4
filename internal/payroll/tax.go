package payroll

import payrollconfig "go-paie/internal/payroll/config"

// marginalTax applies standard marginal-bracket accumulation: each band
// taxes only the slice of income inside it. The bracket table is an
// ordered list so a future schedule change never touches this loop.
func marginalTax(annualBase float64, brackets []payrollconfig.Bracket) float64 {
	if annualBase <= 0 {
		return 0
	}

	tax := 0.0
	lower := 0.0
	for _, b := range brackets {
		if annualBase <= lower {
			break
		}
		upper := b.UpperBound
		slice := annualBase
		if slice > upper {
			slice = upper
		}
		tax += (slice - lower) * b.Rate
		lower = upper
	}
	return tax
}
