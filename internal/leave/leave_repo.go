package leave

import (
	"context"
	"database/sql"
	"time"

	"go-paie/internal/shared/period"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	Find(ctx context.Context, filter ListFilter) ([]Leave, error)
	FindApprovedCovering(ctx context.Context, date time.Time) ([]Leave, error)
	FindApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]Leave, error)
	Update(ctx context.Context, l *Leave) error
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

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&l).Error
	return &l, err
}

func (r *repository) Find(ctx context.Context, filter ListFilter) ([]Leave, error) {
	q := r.db.WithContext(ctx).Preload("Employee")
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var rows []Leave
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// FindApprovedCovering returns approved leaves whose inclusive range contains
// the date. Feeds the absence deriver.
func (r *repository) FindApprovedCovering(ctx context.Context, date time.Time) ([]Leave, error) {
	day := date.Format(period.DateLayout)
	var rows []Leave
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusApproved).
		Where("start_date <= ?", day).
		Where("end_date >= ?", day).
		Find(&rows).Error
	return rows, err
}

// FindApprovedOverlapping returns approved leaves intersecting [from, to].
// Feeds the sentiment scorer's leave-day aggregation.
func (r *repository) FindApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]Leave, error) {
	var rows []Leave
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("start_date <= ?", to.Format(period.DateLayout)).
		Where("end_date >= ?", from.Format(period.DateLayout)).
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Save(l).Error
}
