package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusAbsent  = "absent"
	StatusOnLeave = "on_leave"
	StatusHalfDay = "half_day"
)

// Attendance is one ledger row per (employee, calendar date). The unique index
// is the only concurrency control: duplicate check-ins and deriver races both
// resolve against it. Rows are never deleted.
type Attendance struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_attendance_employee_date,unique"`
	Date         time.Time  `gorm:"type:date;not null;index:idx_attendance_employee_date,unique"`
	CheckInTime  *time.Time `gorm:"type:timestamptz"`
	CheckOutTime *time.Time `gorm:"type:timestamptz"`
	Status       string     `gorm:"type:varchar(20);not null;default:'present';index"`

	// Minutes past the employee's configured shift start; 0 when on time or
	// when the row was synthesized by the absence deriver.
	DelayMinutes int `gorm:"not null;default:0"`

	Latitude   *float64
	Longitude  *float64
	DeviceName *string `gorm:"type:varchar(120)"`
	Notes      *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendances"
}

type EmployeeRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string
	LastName  string
}

func (EmployeeRef) TableName() string {
	return "employees"
}
