package overtime

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, o *Overtime) error
	FindByID(ctx context.Context, id string) (*Overtime, error)
	Find(ctx context.Context, filter ListFilter) ([]Overtime, error)
	FindApproved(ctx context.Context, employeeID, month string) ([]Overtime, error)
	Update(ctx context.Context, o *Overtime) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, o *Overtime) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Overtime, error) {
	var o Overtime
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&o).Error
	return &o, err
}

func (r *repository) Find(ctx context.Context, filter ListFilter) ([]Overtime, error) {
	q := r.db.WithContext(ctx).Preload("Employee")
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Month != "" {
		q = q.Where("month = ?", filter.Month)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var rows []Overtime
	err := q.Order("date DESC").Find(&rows).Error
	return rows, err
}

// FindApproved returns the approved entries feeding payroll for one
// employee and month.
func (r *repository) FindApproved(ctx context.Context, employeeID, month string) ([]Overtime, error) {
	var rows []Overtime
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("month = ?", month).
		Where("status = ?", StatusApproved).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, o *Overtime) error {
	return r.db.WithContext(ctx).Save(o).Error
}
