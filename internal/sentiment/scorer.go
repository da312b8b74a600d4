package sentiment

import "math"

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"

	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"

	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// Metrics is the attendance/leave aggregation one score is derived from.
// WorkingDays is the same fixed calendar constant payroll uses, so the
// rates below are approximations by the same policy.
type Metrics struct {
	WorkingDays    int     `json:"working_days"`
	PresentDays    int     `json:"present_days"`
	AbsentDays     int     `json:"absent_days"`
	LateDays       int     `json:"late_days"`
	LeaveDays      float64 `json:"leave_days"`
	AttendanceRate float64 `json:"attendance_rate"`
}

// Score is the weighted behavioral assessment for one employee-month.
// Component scores run 0-10, the overall score 0-100.
type Score struct {
	AttendanceScore  float64
	PunctualityScore float64
	AssiduityScore   float64
	WorkloadScore    float64
	OverallScore     int
	Sentiment        string
	RiskLevel        string
	Recommendations  string
	Metrics          Metrics
}

// CalculateScore is the pure scoring function: weighted attendance 30%,
// punctuality 25%, assiduity 25%, workload 20%.
func CalculateScore(m Metrics) Score {
	attendanceRate := 0.0
	if m.WorkingDays > 0 {
		attendanceRate = float64(m.PresentDays) / float64(m.WorkingDays) * 100
	}
	attendanceScore := math.Min(10, attendanceRate/10)

	lateRate := 0.0
	if m.PresentDays > 0 {
		lateRate = float64(m.LateDays) / float64(m.PresentDays) * 100
	}
	punctualityScore := math.Max(0, 10-lateRate/5)

	absenceRate := 0.0
	if m.WorkingDays > 0 {
		absenceRate = float64(m.AbsentDays) / float64(m.WorkingDays) * 100
	}
	assiduityScore := math.Max(0, 10-absenceRate)

	leaveRate := 0.0
	if m.WorkingDays > 0 {
		leaveRate = m.LeaveDays / float64(m.WorkingDays) * 100
	}
	workloadScore := 8.0
	switch {
	case leaveRate > 30:
		workloadScore = 4
	case leaveRate > 15:
		workloadScore = 6
	}

	overall := int(math.Round(
		(attendanceScore*30 + punctualityScore*25 + assiduityScore*25 + workloadScore*20) / 10,
	))

	sentiment := SentimentPositive
	switch {
	case overall < 40:
		sentiment = SentimentNegative
	case overall < 65:
		sentiment = SentimentNeutral
	}

	risk := RiskLow
	switch {
	case overall < 40:
		risk = RiskHigh
	case overall < 60:
		risk = RiskMedium
	}

	m.AttendanceRate = round1(attendanceRate)

	return Score{
		AttendanceScore:  round1(attendanceScore),
		PunctualityScore: round1(punctualityScore),
		AssiduityScore:   round1(assiduityScore),
		WorkloadScore:    round1(workloadScore),
		OverallScore:     overall,
		Sentiment:        sentiment,
		RiskLevel:        risk,
		Recommendations:  recommendations(m, overall),
		Metrics:          m,
	}
}

// recommendations builds the advisory text shown to HR, in French as the
// rest of the product surface.
func recommendations(m Metrics, overall int) string {
	out := ""
	if m.LateDays > 5 {
		out += "Suivi ponctualité recommandé. "
	}
	if m.AbsentDays > 3 {
		out += "Entretien individuel suggéré pour comprendre les absences. "
	}
	if overall < 50 {
		out += "Programme d'accompagnement RH recommandé. "
	}
	if overall >= 80 {
		out += "Félicitations et reconnaissance recommandées. "
	}
	if len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out
}

// TrendAgainst compares this score with the previous month's, treating
// moves within 5 points as noise.
func TrendAgainst(current int, previous *int) string {
	if previous == nil {
		return TrendStable
	}
	switch {
	case current > *previous+5:
		return TrendImproving
	case current < *previous-5:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
