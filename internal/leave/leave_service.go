package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-paie/internal/employee"
	employeeerrors "go-paie/internal/employee/errors"
	leaveerrors "go-paie/internal/leave/errors"
	"go-paie/internal/shared/period"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateLeaveRequest) (*LeaveResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (*LeaveResponse, error)
	Approve(ctx context.Context, id string, approverID string) (*LeaveResponse, error)
	Reject(ctx context.Context, id string, approverID string) (*LeaveResponse, error)
	Cancel(ctx context.Context, id string, requesterEmployeeID string) (*LeaveResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{db: db, repo: repo, employees: employees, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateLeaveRequest) (*LeaveResponse, error) {
	empID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
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

	start, err := period.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := period.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, leaveerrors.ErrInvalidDateRange
	}

	l := &Leave{
		EmployeeID:    empID,
		LeaveType:     req.LeaveType,
		StartDate:     start,
		EndDate:       end,
		DaysRequested: daysInclusive(start, end),
		Status:        StatusPending,
		Reason:        req.Reason,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("failed to create leave request", zap.Error(err))
		return nil, err
	}

	s.logger.Info("leave request created",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", empID.String()),
		zap.Float64("days", l.DaysRequested))
	return mapToResponse(l), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]LeaveResponse, error) {
	rows, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]LeaveResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *mapToResponse(&rows[i]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*LeaveResponse, error) {
	l, err := s.findOne(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapToResponse(l), nil
}

func (s *service) Approve(ctx context.Context, id string, approverID string) (*LeaveResponse, error) {
	return s.decide(ctx, id, approverID, StatusApproved)
}

func (s *service) Reject(ctx context.Context, id string, approverID string) (*LeaveResponse, error) {
	return s.decide(ctx, id, approverID, StatusRejected)
}

func (s *service) Cancel(ctx context.Context, id string, requesterEmployeeID string) (*LeaveResponse, error) {
	l, err := s.findOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != StatusPending {
		return nil, leaveerrors.ErrAlreadyDecided
	}
	if requesterEmployeeID != "" && l.EmployeeID.String() != requesterEmployeeID {
		return nil, leaveerrors.ErrNotRequestOwner
	}

	l.Status = StatusCancelled
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return mapToResponse(l), nil
}

// decide moves a pending request to approved or rejected and stamps the
// decider. Decisions are final, transitions out of any other status fail.
func (s *service) decide(ctx context.Context, id string, approverID string, status string) (*LeaveResponse, error) {
	l, err := s.findOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Status != StatusPending {
		return nil, leaveerrors.ErrAlreadyDecided
	}

	now := time.Now().UTC()
	l.Status = status
	l.ApprovedAt = &now
	if approver, err := uuid.Parse(approverID); err == nil {
		l.ApprovedBy = &approver
	}

	if err := s.repo.Update(ctx, l); err != nil {
		s.logger.Error("failed to update leave request",
			zap.String("leave_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("leave request decided",
		zap.String("leave_id", id),
		zap.String("status", status))
	return mapToResponse(l), nil
}

func (s *service) findOne(ctx context.Context, id string) (*Leave, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrLeaveNotFound
	}
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
}

// daysInclusive counts calendar days in [start, end], both ends included.
func daysInclusive(start, end time.Time) float64 {
	return float64(int(end.Sub(start).Hours()/24)) + 1
}

func mapToResponse(l *Leave) *LeaveResponse {
	resp := &LeaveResponse{
		ID:            l.ID.String(),
		EmployeeID:    l.EmployeeID.String(),
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format(period.DateLayout),
		EndDate:       l.EndDate.Format(period.DateLayout),
		DaysRequested: l.DaysRequested,
		Status:        l.Status,
		Reason:        l.Reason,
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FirstName + " " + l.Employee.LastName
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}
