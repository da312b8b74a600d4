package sentiment

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Sentiment) error
	FindByEmployeeAndMonth(ctx context.Context, employeeID, month string) (*Sentiment, error)
	Find(ctx context.Context, filter ListFilter) ([]Sentiment, error)
	FindAlerts(ctx context.Context, limit int) ([]Sentiment, error)
	FindByEmployee(ctx context.Context, employeeID string, limit int) ([]Sentiment, error)
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

func (r *repository) Create(ctx context.Context, s *Sentiment) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindByEmployeeAndMonth(ctx context.Context, employeeID, month string) (*Sentiment, error) {
	var s Sentiment
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("month = ?", month).
		First(&s).Error
	return &s, err
}

// Find lists scores worst-first so the review queue surfaces risk at the
// top. Department filtering rides on the employee join.
func (r *repository) Find(ctx context.Context, filter ListFilter) ([]Sentiment, error) {
	q := r.db.WithContext(ctx).Preload("Employee")
	if filter.Month != "" {
		q = q.Where("month = ?", filter.Month)
	}
	if filter.RiskLevel != "" {
		q = q.Where("risk_level = ?", filter.RiskLevel)
	}
	if filter.Department != "" {
		q = q.Joins("JOIN employees ON employees.id = sentiments.employee_id").
			Where("employees.department = ?", filter.Department)
	}

	var rows []Sentiment
	err := q.Order("overall_score ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindAlerts(ctx context.Context, limit int) ([]Sentiment, error) {
	var rows []Sentiment
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("risk_level = ?", RiskHigh).
		Order("generated_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string, limit int) ([]Sentiment, error) {
	var rows []Sentiment
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("month DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
