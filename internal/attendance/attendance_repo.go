package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-paie/internal/shared/period"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	FindByDate(ctx context.Context, date time.Time) ([]Attendance, error)
	FindByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
	Find(ctx context.Context, filter ListFilter) ([]Attendance, error)
	InsertManyIgnoreConflicts(ctx context.Context, rows []Attendance) (int64, error)
	Update(ctx context.Context, a *Attendance) error
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date = ?", date.Format(period.DateLayout)).
		First(&a).Error
	return &a, err
}

func (r *repository) FindByDate(ctx context.Context, date time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("date = ?", date.Format(period.DateLayout)).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date BETWEEN ? AND ?", from.Format(period.DateLayout), to.Format(period.DateLayout)).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Find(ctx context.Context, filter ListFilter) ([]Attendance, error) {
	q := r.db.WithContext(ctx).Preload("Employee")

	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("date = ?", filter.Date)
	} else {
		if filter.StartDate != "" {
			q = q.Where("date >= ?", filter.StartDate)
		}
		if filter.EndDate != "" {
			q = q.Where("date <= ?", filter.EndDate)
		}
	}

	var rows []Attendance
	err := q.Order("date DESC, created_at DESC").Find(&rows).Error
	return rows, err
}

// InsertManyIgnoreConflicts bulk-inserts ledger rows, silently skipping any
// (employee, date) pair another writer created first. Returns the number of
// rows actually inserted.
func (r *repository) InsertManyIgnoreConflicts(ctx context.Context, rows []Attendance) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&rows)
	return res.RowsAffected, res.Error
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}
