package sentiment

type GenerateMonthlyRequest struct {
	Month string `json:"month" binding:"required"`
}

type ListFilter struct {
	Month      string
	RiskLevel  string
	Department string
}

type SentimentResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     string  `json:"employee_name,omitempty"`
	Department       string  `json:"department,omitempty"`
	Month            string  `json:"month"`
	AttendanceScore  float64 `json:"attendance_score"`
	PunctualityScore float64 `json:"punctuality_score"`
	AssiduityScore   float64 `json:"assiduity_score"`
	WorkloadScore    float64 `json:"workload_score"`
	OverallScore     int     `json:"overall_score"`
	Sentiment        string  `json:"sentiment"`
	RiskLevel        string  `json:"risk_level"`
	Trend            string  `json:"trend"`
	Recommendations  string  `json:"recommendations,omitempty"`
	Metrics          Metrics `json:"metrics"`
	GeneratedAt      string  `json:"generated_at"`
}

const (
	BatchGenerated     = "generated"
	BatchAlreadyExists = "already_exists"
	BatchFailed        = "failed"
)

type BatchEmployeeResult struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Status       string `json:"status"`
	OverallScore int    `json:"overall_score,omitempty"`
	RiskLevel    string `json:"risk_level,omitempty"`
	Error        string `json:"error,omitempty"`
}

type BatchResult struct {
	Month         string                `json:"month"`
	Generated     int                   `json:"generated"`
	AlreadyExists int                   `json:"already_exists"`
	Failed        int                   `json:"failed"`
	Results       []BatchEmployeeResult `json:"results"`
}
