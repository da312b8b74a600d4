package sentiment

import (
	"time"

	"github.com/google/uuid"
)

// Sentiment is one generated behavioral score, one row per (employee,
// month) like a payslip.
type Sentiment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sentiment_employee_month"`
	Month      string    `gorm:"type:varchar(7);not null;uniqueIndex:idx_sentiment_employee_month"`

	AttendanceScore  float64 `gorm:"type:numeric(4,1);not null"`
	PunctualityScore float64 `gorm:"type:numeric(4,1);not null"`
	AssiduityScore   float64 `gorm:"type:numeric(4,1);not null"`
	WorkloadScore    float64 `gorm:"type:numeric(4,1);not null"`
	OverallScore     int     `gorm:"not null"`

	Sentiment       string  `gorm:"type:varchar(10);not null"`
	RiskLevel       string  `gorm:"type:varchar(10);not null;index"`
	Trend           string  `gorm:"type:varchar(10);not null;default:'stable'"`
	Recommendations string  `gorm:"type:text"`
	Metrics         Metrics `gorm:"serializer:json;type:jsonb"`

	GeneratedAt time.Time `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Sentiment) TableName() string {
	return "sentiments"
}

type EmployeeRef struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName  string
	LastName   string
	Department string
}

func (EmployeeRef) TableName() string {
	return "employees"
}
