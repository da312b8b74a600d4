package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusTerminated = "terminated"

	MaritalSingle   = "single"
	MaritalMarried  = "married"
	MaritalDivorced = "divorced"
	MaritalWidowed  = "widowed"
)

// Employee is the compensation profile the payroll engine reads. Rows are
// never hard-deleted; deactivation flips Status so payslip history keeps a
// valid reference.
type Employee struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName     string     `gorm:"type:varchar(80);not null"`
	LastName      string     `gorm:"type:varchar(80);not null"`
	Email         string     `gorm:"type:varchar(160);not null;uniqueIndex"`
	Department    string     `gorm:"type:varchar(120)"`
	Position      string     `gorm:"type:varchar(120)"`
	Status        string     `gorm:"type:varchar(20);not null;default:'active';index"`
	HireDate      *time.Time `gorm:"type:date"`
	BaseSalary    float64    `gorm:"type:numeric(12,3);not null;default:0"`
	MaritalStatus string     `gorm:"type:varchar(20);not null;default:'single'"`

	// Dependents feeding the annual family deduction, capped at 4 by the
	// payroll engine, not here.
	DependentCount int `gorm:"not null;default:0"`

	// Nil means the statutory transport minimum applies.
	TransportAllowance *float64 `gorm:"type:numeric(12,3)"`

	// Shift start as "HH:MM"; check-in lateness is measured against it.
	WorkStartTime string `gorm:"type:varchar(5);not null;default:'08:00'"`

	// Optional geo-fence centre for kiosk/mobile check-in.
	WorkplaceLat *float64
	WorkplaceLng *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string {
	return "employees"
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
