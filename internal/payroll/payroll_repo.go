package payroll

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payslip) error
	FindByID(ctx context.Context, id string) (*Payslip, error)
	FindByEmployeeAndMonth(ctx context.Context, employeeID, month string) (*Payslip, error)
	FindByMonth(ctx context.Context, month string) ([]Payslip, error)
	Find(ctx context.Context, filter ListFilter) ([]Payslip, error)
	Update(ctx context.Context, p *Payslip) error
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

func (r *repository) Create(ctx context.Context, p *Payslip) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payslip, error) {
	var p Payslip
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("id = ?", id).
		First(&p).Error
	return &p, err
}

func (r *repository) FindByEmployeeAndMonth(ctx context.Context, employeeID, month string) (*Payslip, error) {
	var p Payslip
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("month = ?", month).
		First(&p).Error
	return &p, err
}

func (r *repository) FindByMonth(ctx context.Context, month string) ([]Payslip, error) {
	var rows []Payslip
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("month = ?", month).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Find(ctx context.Context, filter ListFilter) ([]Payslip, error) {
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

	var rows []Payslip
	err := q.Order("month DESC, created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, p *Payslip) error {
	return r.db.WithContext(ctx).Save(p).Error
}
