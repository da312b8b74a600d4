package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"

	TypeAnnual    = "annual"
	TypeSick      = "sick"
	TypeMaternity = "maternity"
	TypeUnpaid    = "unpaid"
	TypeOther     = "other"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveType  string    `gorm:"type:varchar(20);not null"`
	StartDate  time.Time `gorm:"type:date;not null;index"`
	EndDate    time.Time `gorm:"type:date;not null;index"`

	// Recomputed server-side from the date range, never taken from the
	// client.
	DaysRequested float64 `gorm:"type:numeric(5,1);not null"`

	Status     string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Reason     string     `gorm:"type:text"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Leave) TableName() string {
	return "leaves"
}

type EmployeeRef struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string
	LastName  string
}

func (EmployeeRef) TableName() string {
	return "employees"
}
