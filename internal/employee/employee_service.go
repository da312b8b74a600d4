package employee

import (
	"context"
	"database/sql"
	"errors"
	"time"

	employeeerrors "go-paie/internal/employee/errors"
	"go-paie/internal/shared/period"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("create employee requested", zap.String("email", req.Email))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e := &Employee{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Department:     req.Department,
		Position:       req.Position,
		Status:         StatusActive,
		BaseSalary:     req.BaseSalary,
		MaritalStatus:  defaultMaritalStatus(req.MaritalStatus),
		DependentCount: req.DependentCount,
	}
	if err := applyProfileFields(e, req.HireDate, req.WorkStartTime, req.TransportAllowance, req.WorkplaceLat, req.WorkplaceLng); err != nil {
		s.logger.Warn("create employee validation failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := qtx.Create(ctx, e); err != nil {
		if isUniqueViolation(err) {
			return EmployeeResponse{}, employeeerrors.ErrEmailAlreadyUsed
		}
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.logger.Info("create employee success", zap.String("employee_id", e.ID.String()))

	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested", zap.String("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	e.FirstName = req.FirstName
	e.LastName = req.LastName
	e.Department = req.Department
	e.Position = req.Position
	e.BaseSalary = req.BaseSalary
	e.MaritalStatus = defaultMaritalStatus(req.MaritalStatus)
	e.DependentCount = req.DependentCount
	if err := applyProfileFields(e, req.HireDate, req.WorkStartTime, req.TransportAllowance, req.WorkplaceLat, req.WorkplaceLng); err != nil {
		s.logger.Warn("update employee validation failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("update employee persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*e), nil
}

// Deactivate is the only removal path. The row survives so historical
// payslips, attendance and overtime keep resolving.
func (s *service) Deactivate(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	e, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employeeerrors.ErrEmployeeNotFound
		}
		return err
	}

	e.Status = StatusInactive
	if err := qtx.Update(ctx, e); err != nil {
		s.logger.Error("deactivate employee persist failed", zap.String("employee_id", id), zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("deactivate employee success", zap.String("employee_id", id))
	return nil
}

func defaultMaritalStatus(v string) string {
	if v == "" {
		return "single"
	}
	return v
}

func applyProfileFields(e *Employee, hireDate, workStartTime string, transport, lat, lng *float64) error {
	if hireDate != "" {
		d, err := period.ParseDate(hireDate)
		if err != nil {
			return employeeerrors.ErrInvalidHireDate
		}
		e.HireDate = &d
	}

	if workStartTime == "" {
		workStartTime = "08:00"
	}
	if _, err := time.Parse("15:04", workStartTime); err != nil {
		return employeeerrors.ErrInvalidWorkStartTime
	}
	e.WorkStartTime = workStartTime

	e.TransportAllowance = transport
	e.WorkplaceLat = lat
	e.WorkplaceLng = lng
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                 e.ID.String(),
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		Email:              e.Email,
		Department:         e.Department,
		Position:           e.Position,
		Status:             e.Status,
		BaseSalary:         e.BaseSalary,
		MaritalStatus:      e.MaritalStatus,
		DependentCount:     e.DependentCount,
		TransportAllowance: e.TransportAllowance,
		WorkStartTime:      e.WorkStartTime,
	}
	if e.HireDate != nil {
		v := e.HireDate.Format(period.DateLayout)
		resp.HireDate = &v
	}
	return resp
}
