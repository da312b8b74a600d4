package overtime

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-paie/internal/employee"
	employeeerrors "go-paie/internal/employee/errors"
	overtimeerrors "go-paie/internal/overtime/errors"
	payrollconfig "go-paie/internal/payroll/config"
	"go-paie/internal/shared/period"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateOvertimeRequest) (*OvertimeResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]OvertimeResponse, error)
	GetByID(ctx context.Context, id string) (*OvertimeResponse, error)
	Approve(ctx context.Context, id string, approverID string) (*OvertimeResponse, error)
	Reject(ctx context.Context, id string, approverID string) (*OvertimeResponse, error)
	Cancel(ctx context.Context, id string) (*OvertimeResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	cfg       payrollconfig.Config
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, cfg payrollconfig.Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("overtime.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{db: db, repo: repo, employees: employees, cfg: cfg, logger: l}
}

// Create validates the claim and freezes its amount at today's salary.
// Rate tiers and the 12 hour cap are enforced here, once; downstream
// consumers trust stored rows.
func (s *service) Create(ctx context.Context, req CreateOvertimeRequest) (*OvertimeResponse, error) {
	empID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, overtimeerrors.ErrInvalidEmployeeID
	}
	if req.Hours <= 0 || req.Hours > MaxHoursPerEntry {
		return nil, overtimeerrors.ErrInvalidHours
	}
	switch req.RateType {
	case Rate125, Rate150, Rate200:
	default:
		return nil, overtimeerrors.ErrInvalidRateType
	}

	date, err := period.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	emp, err := s.employees.FindByID(ctx, empID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	if emp.Status != employee.StatusActive {
		return nil, employeeerrors.ErrEmployeeInactive
	}

	hourlyRate := emp.BaseSalary / s.cfg.MonthlyBaseHours()
	o := &Overtime{
		EmployeeID:     empID,
		Date:           date,
		Month:          date.Format(period.MonthLayout),
		Hours:          req.Hours,
		RateType:       req.RateType,
		Amount:         hourlyRate * req.Hours * Multiplier(req.RateType),
		BaseHourlyRate: hourlyRate,
		Status:         StatusPending,
		Reason:         req.Reason,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		s.logger.Error("failed to create overtime entry", zap.Error(err))
		return nil, err
	}

	s.logger.Info("overtime entry created",
		zap.String("overtime_id", o.ID.String()),
		zap.String("employee_id", empID.String()),
		zap.Float64("hours", o.Hours),
		zap.String("rate_type", o.RateType))
	return mapToResponse(o), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]OvertimeResponse, error) {
	rows, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]OvertimeResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *mapToResponse(&rows[i]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*OvertimeResponse, error) {
	o, err := s.findOne(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapToResponse(o), nil
}

func (s *service) Approve(ctx context.Context, id string, approverID string) (*OvertimeResponse, error) {
	return s.decide(ctx, id, approverID, StatusApproved)
}

func (s *service) Reject(ctx context.Context, id string, approverID string) (*OvertimeResponse, error) {
	return s.decide(ctx, id, approverID, StatusRejected)
}

func (s *service) Cancel(ctx context.Context, id string) (*OvertimeResponse, error) {
	o, err := s.findOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusPending {
		return nil, overtimeerrors.ErrAlreadyDecided
	}

	o.Status = StatusCancelled
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return mapToResponse(o), nil
}

func (s *service) decide(ctx context.Context, id string, approverID string, status string) (*OvertimeResponse, error) {
	o, err := s.findOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusPending {
		return nil, overtimeerrors.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	o.Status = status
	o.ApprovedAt = &now
	if approver, err := uuid.Parse(approverID); err == nil {
		o.ApprovedBy = &approver
	}

	if err := s.repo.Update(ctx, o); err != nil {
		s.logger.Error("failed to update overtime entry",
			zap.String("overtime_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("overtime entry decided",
		zap.String("overtime_id", id),
		zap.String("status", status))
	return mapToResponse(o), nil
}

func (s *service) findOne(ctx context.Context, id string) (*Overtime, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, overtimeerrors.ErrOvertimeNotFound
	}
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, overtimeerrors.ErrOvertimeNotFound
		}
		return nil, err
	}
	return o, nil
}

func mapToResponse(o *Overtime) *OvertimeResponse {
	resp := &OvertimeResponse{
		ID:             o.ID.String(),
		EmployeeID:     o.EmployeeID.String(),
		Date:           o.Date.Format(period.DateLayout),
		Month:          o.Month,
		Hours:          o.Hours,
		RateType:       o.RateType,
		Amount:         o.Amount,
		BaseHourlyRate: o.BaseHourlyRate,
		Status:         o.Status,
		Reason:         o.Reason,
	}
	if o.Employee != nil {
		resp.EmployeeName = o.Employee.FirstName + " " + o.Employee.LastName
	}
	return resp
}
