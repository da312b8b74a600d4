package auth

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin    = "admin"
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

type User struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID *uuid.UUID `gorm:"type:uuid;index"`
	Email      string     `gorm:"type:varchar(160);not null;uniqueIndex"`
	Password   string     `gorm:"type:varchar(100);not null"`
	Role       string     `gorm:"type:varchar(20);not null;default:'employee'"`
	IsActive   bool       `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (User) TableName() string {
	return "users"
}
