package overtime

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"

	Rate125 = "125%"
	Rate150 = "150%"
	Rate200 = "200%"

	// MaxHoursPerEntry is a hard cap, claims above it are rejected outright.
	MaxHoursPerEntry = 12.0
)

type Overtime struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Date       time.Time `gorm:"type:date;not null"`

	// Month is derived from Date at creation (YYYY-MM) and indexed so
	// payroll aggregation never has to range-scan dates.
	Month string `gorm:"type:varchar(7);not null;index:idx_overtime_employee_month"`

	Hours    float64 `gorm:"type:numeric(4,1);not null"`
	RateType string  `gorm:"type:varchar(5);not null"`

	// Amount and BaseHourlyRate are frozen at creation time. Later salary
	// changes never alter an already-filed claim; the payroll engine
	// recomputes its own authoritative figure from the frozen hours.
	Amount         float64 `gorm:"type:numeric(12,3);not null"`
	BaseHourlyRate float64 `gorm:"type:numeric(12,4);not null"`

	Status     string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Reason     string     `gorm:"type:text"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Overtime) TableName() string {
	return "overtime_entries"
}

// Multiplier maps the rate tier to its pay multiplier. Unknown tiers fall
// back to 1.25 rather than failing: tiers are validated once at entry
// creation and never re-litigated at read time.
func Multiplier(rateType string) float64 {
	switch rateType {
	case Rate150:
		return 1.5
	case Rate200:
		return 2.0
	default:
		return 1.25
	}
}

type EmployeeRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string
	LastName  string
}

func (EmployeeRef) TableName() string {
	return "employees"
}
