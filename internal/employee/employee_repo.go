package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindActive(ctx context.Context) ([]Employee, error)
	FindAll(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, e *Employee) error
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&e).Error
	return &e, err
}

func (r *repository) FindActive(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusActive).
		Order("last_name ASC, first_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Order("last_name ASC, first_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}
