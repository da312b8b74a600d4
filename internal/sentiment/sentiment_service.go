package sentiment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-paie/internal/attendance"
	"go-paie/internal/employee"
	"go-paie/internal/events"
	"go-paie/internal/leave"
	"go-paie/internal/messaging/kafka"
	payrollconfig "go-paie/internal/payroll/config"
	sentimenterrors "go-paie/internal/sentiment/errors"
	"go-paie/internal/shared/contextutil"
	"go-paie/internal/shared/period"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	GenerateMonthly(ctx context.Context, month string) (*BatchResult, error)
	GetAll(ctx context.Context, filter ListFilter) ([]SentimentResponse, error)
	GetAlerts(ctx context.Context, limit int) ([]SentimentResponse, error)
	GetPersonal(ctx context.Context, employeeID string, limit int) ([]SentimentResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  employee.Repository
	attendance attendance.Repository
	leaves     leave.Repository
	outbox     kafka.OutboxRepository
	cfg        payrollconfig.Config
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	attendanceRepo attendance.Repository,
	leaveRepo leave.Repository,
	cfg payrollconfig.Config,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, employees, attendanceRepo, leaveRepo, nil, cfg, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	attendanceRepo attendance.Repository,
	leaveRepo leave.Repository,
	outboxRepo kafka.OutboxRepository,
	cfg payrollconfig.Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("sentiment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sentiment.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		employees:  employees,
		attendance: attendanceRepo,
		leaves:     leaveRepo,
		outbox:     outboxRepo,
		cfg:        cfg,
		logger:     l,
	}
}

// GenerateMonthly scores every active employee for the month. Like payroll
// generation it is idempotent per (employee, month) and a single failure
// degrades to a per-employee error.
func (s *service) GenerateMonthly(ctx context.Context, month string) (*BatchResult, error) {
	monthStart, monthEnd, err := period.MonthRange(month)
	if err != nil {
		return nil, err
	}

	actives, err := s.employees.FindActive(ctx)
	if err != nil {
		s.logger.Error("generate sentiment list active employees failed", zap.Error(err))
		return nil, err
	}

	result := &BatchResult{Month: month, Results: make([]BatchEmployeeResult, 0, len(actives))}
	for i := range actives {
		emp := &actives[i]
		line := BatchEmployeeResult{
			EmployeeID:   emp.ID.String(),
			EmployeeName: emp.FullName(),
		}

		record, err := s.scoreOne(ctx, emp, month, monthStart, monthEnd)
		switch {
		case errors.Is(err, sentimenterrors.ErrSentimentAlreadyExists):
			line.Status = BatchAlreadyExists
			result.AlreadyExists++
		case err != nil:
			line.Status = BatchFailed
			line.Error = err.Error()
			result.Failed++
			s.logger.Error("generate sentiment employee failed",
				zap.String("employee_id", line.EmployeeID),
				zap.String("month", month),
				zap.Error(err),
			)
		default:
			line.Status = BatchGenerated
			line.OverallScore = record.OverallScore
			line.RiskLevel = record.RiskLevel
			result.Generated++
		}
		result.Results = append(result.Results, line)
	}

	s.logger.Info("generate monthly sentiment done",
		zap.String("month", month),
		zap.Int("generated", result.Generated),
		zap.Int("already_exists", result.AlreadyExists),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *service) scoreOne(ctx context.Context, emp *employee.Employee, month string, monthStart, monthEnd time.Time) (*Sentiment, error) {
	if _, err := s.repo.FindByEmployeeAndMonth(ctx, emp.ID.String(), month); err == nil {
		return nil, sentimenterrors.ErrSentimentAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	records, err := s.attendance.FindByEmployeeAndRange(ctx, emp.ID.String(), monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	approvedLeaves, err := s.leaves.FindApprovedOverlapping(ctx, emp.ID.String(), monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	m := Metrics{WorkingDays: int(s.cfg.WorkingDaysPerMonth)}
	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusPresent:
			m.PresentDays++
		case attendance.StatusLate:
			m.PresentDays++
			m.LateDays++
		case attendance.StatusAbsent:
			m.AbsentDays++
		}
	}
	for _, l := range approvedLeaves {
		m.LeaveDays += l.DaysRequested
	}

	score := CalculateScore(m)

	var previous *int
	if prevMonth, err := period.PreviousMonth(month); err == nil {
		if prev, err := s.repo.FindByEmployeeAndMonth(ctx, emp.ID.String(), prevMonth); err == nil {
			previous = &prev.OverallScore
		}
	}

	record := &Sentiment{
		ID:               uuid.New(),
		EmployeeID:       emp.ID,
		Month:            month,
		AttendanceScore:  score.AttendanceScore,
		PunctualityScore: score.PunctualityScore,
		AssiduityScore:   score.AssiduityScore,
		WorkloadScore:    score.WorkloadScore,
		OverallScore:     score.OverallScore,
		Sentiment:        score.Sentiment,
		RiskLevel:        score.RiskLevel,
		Trend:            TrendAgainst(score.OverallScore, previous),
		Recommendations:  score.Recommendations,
		Metrics:          score.Metrics,
		GeneratedAt:      time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, record); err != nil {
		if isUniqueViolation(err) {
			return nil, sentimenterrors.ErrSentimentAlreadyExists
		}
		return nil, err
	}

	// High risk scores raise an alert for HR in the same commit.
	if s.outbox != nil && record.RiskLevel == RiskHigh {
		event := events.SentimentAlertEvent{
			EventType:    "sentiment_alert",
			EmployeeID:   emp.ID.String(),
			Month:        month,
			OverallScore: float64(record.OverallScore),
			RiskLevel:    record.RiskLevel,
			OccurredAt:   time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     contextutil.GetRequestID(ctx),
			AggregateType: "sentiment",
			AggregateID:   record.ID.String(),
			EventType:     event.EventType,
			Topic:         events.SentimentAlertTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("sentiment alert outbox persist failed",
				zap.String("sentiment_id", record.ID.String()),
				zap.Error(err),
			)
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]SentimentResponse, error) {
	rows, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetAlerts(ctx context.Context, limit int) ([]SentimentResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.repo.FindAlerts(ctx, limit)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetPersonal(ctx context.Context, employeeID string, limit int) ([]SentimentResponse, error) {
	if limit <= 0 {
		limit = 12
	}
	rows, err := s.repo.FindByEmployee(ctx, employeeID, limit)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToResponse(rec *Sentiment) SentimentResponse {
	resp := SentimentResponse{
		ID:               rec.ID.String(),
		EmployeeID:       rec.EmployeeID.String(),
		Month:            rec.Month,
		AttendanceScore:  rec.AttendanceScore,
		PunctualityScore: rec.PunctualityScore,
		AssiduityScore:   rec.AssiduityScore,
		WorkloadScore:    rec.WorkloadScore,
		OverallScore:     rec.OverallScore,
		Sentiment:        rec.Sentiment,
		RiskLevel:        rec.RiskLevel,
		Trend:            rec.Trend,
		Recommendations:  rec.Recommendations,
		Metrics:          rec.Metrics,
		GeneratedAt:      rec.GeneratedAt.Format(time.RFC3339),
	}
	if rec.Employee != nil {
		resp.EmployeeName = rec.Employee.FirstName + " " + rec.Employee.LastName
		resp.Department = rec.Employee.Department
	}
	return resp
}

func mapToListResponse(rows []Sentiment) []SentimentResponse {
	out := make([]SentimentResponse, len(rows))
	for i := range rows {
		out[i] = mapToResponse(&rows[i])
	}
	return out
}
