package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"time"

	"go-paie/internal/attendance"
	"go-paie/internal/employee"
	employeeerrors "go-paie/internal/employee/errors"
	"go-paie/internal/events"
	"go-paie/internal/messaging/kafka"
	"go-paie/internal/overtime"
	payrollconfig "go-paie/internal/payroll/config"
	payrollerrors "go-paie/internal/payroll/errors"
	"go-paie/internal/shared/contextutil"
	"go-paie/internal/shared/period"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type Service interface {
	Calculate(ctx context.Context, employeeID, month string) (*PayslipResponse, error)
	GenerateMonthly(ctx context.Context, month string) (*BatchResult, error)
	GetAll(ctx context.Context, filter ListFilter) ([]PayslipResponse, error)
	GetByID(ctx context.Context, id string) (*PayslipResponse, error)
	MarkPaid(ctx context.Context, id string) (*PayslipResponse, error)
	MonthlyReport(ctx context.Context, month string) (*MonthlyReport, error)
	CNSSReport(ctx context.Context, month string) (*CNSSReport, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  employee.Repository
	attendance attendance.Repository
	overtime   overtime.Repository
	outbox     kafka.OutboxRepository
	engine     *Engine
	cfg        payrollconfig.Config
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	attendanceRepo attendance.Repository,
	overtimeRepo overtime.Repository,
	cfg payrollconfig.Config,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, employees, attendanceRepo, overtimeRepo, nil, cfg, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	attendanceRepo attendance.Repository,
	overtimeRepo overtime.Repository,
	outboxRepo kafka.OutboxRepository,
	cfg payrollconfig.Config,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		employees:  employees,
		attendance: attendanceRepo,
		overtime:   overtimeRepo,
		outbox:     outboxRepo,
		engine:     NewEngine(cfg),
		cfg:        cfg,
		sf:         &singleflight.Group{},
		logger:     l,
	}
}

// Calculate generates and persists the payslip for one employee and month.
// An existing payslip for the pair is a hard conflict here; the batch path
// treats the same condition as a benign skip.
func (s *service) Calculate(ctx context.Context, employeeID, month string) (*PayslipResponse, error) {
	emp, err := s.findEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	payslip, err := s.generateOne(ctx, emp, month)
	if err != nil {
		return nil, err
	}
	return mapToResponse(payslip), nil
}

// GenerateMonthly runs payroll for every active employee. Each employee is
// committed independently: an existing payslip reports already_exists, a
// computation failure degrades to a per-employee error, and neither rolls
// back the others.
func (s *service) GenerateMonthly(ctx context.Context, month string) (*BatchResult, error) {
	if _, _, err := period.MonthRange(month); err != nil {
		return nil, err
	}

	actives, err := s.employees.FindActive(ctx)
	if err != nil {
		s.logger.Error("generate monthly list active employees failed", zap.Error(err))
		return nil, err
	}

	result := &BatchResult{Month: month, Results: make([]BatchEmployeeResult, 0, len(actives))}
	for i := range actives {
		emp := &actives[i]
		line := BatchEmployeeResult{
			EmployeeID:   emp.ID.String(),
			EmployeeName: emp.FullName(),
		}

		payslip, err := s.generateOne(ctx, emp, month)
		switch {
		case errors.Is(err, payrollerrors.ErrPayslipAlreadyExists):
			line.Status = BatchAlreadyExists
			result.AlreadyExists++
		case err != nil:
			line.Status = BatchFailed
			line.Error = err.Error()
			result.Failed++
			s.logger.Error("generate monthly employee failed",
				zap.String("employee_id", line.EmployeeID),
				zap.String("month", month),
				zap.Error(err),
			)
		default:
			line.Status = BatchGenerated
			line.PayslipID = payslip.ID.String()
			result.Generated++
		}
		result.Results = append(result.Results, line)
	}

	s.logger.Info("generate monthly payroll done",
		zap.String("month", month),
		zap.Int("generated", result.Generated),
		zap.Int("already_exists", result.AlreadyExists),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]PayslipResponse, error) {
	rows, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]PayslipResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *mapToResponse(&rows[i]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*PayslipResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrPayslipNotFound
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrPayslipNotFound
		}
		return nil, err
	}
	return mapToResponse(p), nil
}

// MarkPaid is the only mutation a generated payslip admits.
func (s *service) MarkPaid(ctx context.Context, id string) (*PayslipResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrPayslipNotFound
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrPayslipNotFound
		}
		return nil, err
	}
	if p.Status == StatusPaid {
		return nil, payrollerrors.ErrPayslipAlreadyPaid
	}

	now := time.Now().UTC()
	p.Status = StatusPaid
	p.PaidAt = &now
	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("mark payslip paid failed", zap.String("payslip_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("payslip marked paid", zap.String("payslip_id", id))
	return mapToResponse(p), nil
}

// MonthlyReport sums generated payslips for regulatory filing. Concurrent
// identical requests collapse onto one query via singleflight.
func (s *service) MonthlyReport(ctx context.Context, month string) (*MonthlyReport, error) {
	if _, _, err := period.MonthRange(month); err != nil {
		return nil, err
	}

	v, err, _ := s.sf.Do("monthly-report:"+month, func() (any, error) {
		rows, err := s.repo.FindByMonth(ctx, month)
		if err != nil {
			return nil, err
		}

		report := &MonthlyReport{Month: month, PayslipCount: len(rows)}
		for i := range rows {
			p := &rows[i]
			report.TotalGross += p.TotalGross
			report.TotalDeductions += p.TotalDeductions
			report.TotalNet += p.NetSalary
			report.TotalIncomeTax += p.Deductions.IncomeTax
			report.TotalCSS += p.Deductions.CSS
			report.CNSSEmployeeSum += p.Deductions.CNSS
			report.CNSSEmployerSum += p.TotalGross * s.cfg.CNSSEmployerRate
		}
		report.TotalGross = round3(report.TotalGross)
		report.TotalDeductions = round3(report.TotalDeductions)
		report.TotalNet = round3(report.TotalNet)
		report.TotalIncomeTax = round3(report.TotalIncomeTax)
		report.TotalCSS = round3(report.TotalCSS)
		report.CNSSEmployeeSum = round3(report.CNSSEmployeeSum)
		report.CNSSEmployerSum = round3(report.CNSSEmployerSum)
		report.CNSSContribution = round3(report.CNSSEmployeeSum + report.CNSSEmployerSum)
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*MonthlyReport), nil
}

// CNSSReport itemizes per-employee social contributions for the quarterly
// declaration.
func (s *service) CNSSReport(ctx context.Context, month string) (*CNSSReport, error) {
	if _, _, err := period.MonthRange(month); err != nil {
		return nil, err
	}

	v, err, _ := s.sf.Do("cnss-report:"+month, func() (any, error) {
		rows, err := s.repo.FindByMonth(ctx, month)
		if err != nil {
			return nil, err
		}

		report := &CNSSReport{
			Month:        month,
			EmployerRate: s.cfg.CNSSEmployerRate,
			EmployeeRate: s.cfg.CNSSEmployeeRate,
			Lines:        make([]CNSSReportLine, 0, len(rows)),
		}
		for i := range rows {
			p := &rows[i]
			line := CNSSReportLine{
				EmployeeID:    p.EmployeeID.String(),
				Gross:         p.TotalGross,
				EmployeeShare: p.Deductions.CNSS,
				EmployerShare: round3(p.TotalGross * s.cfg.CNSSEmployerRate),
			}
			if p.Employee != nil {
				line.EmployeeName = p.Employee.FirstName + " " + p.Employee.LastName
			}
			report.TotalGross += line.Gross
			report.TotalEmployee += line.EmployeeShare
			report.TotalEmployer += line.EmployerShare
			report.Lines = append(report.Lines, line)
		}
		report.TotalGross = round3(report.TotalGross)
		report.TotalEmployee = round3(report.TotalEmployee)
		report.TotalEmployer = round3(report.TotalEmployer)
		report.TotalContributed = round3(report.TotalEmployee + report.TotalEmployer)
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CNSSReport), nil
}

// generateOne computes and persists a single payslip inside its own
// transaction, queueing the generated event in the same commit. A unique
// violation from a concurrent writer maps to the same conflict as the
// upfront existence check.
func (s *service) generateOne(ctx context.Context, emp *employee.Employee, month string) (*Payslip, error) {
	monthStart, monthEnd, err := period.MonthRange(month)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmployeeAndMonth(ctx, emp.ID.String(), month); err == nil {
		return nil, payrollerrors.ErrPayslipAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	records, err := s.attendance.FindByEmployeeAndRange(ctx, emp.ID.String(), monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	approved, err := s.overtime.FindApproved(ctx, emp.ID.String(), month)
	if err != nil {
		return nil, err
	}

	comp := s.engine.Calculate(EngineInput{
		Employee:   emp,
		Month:      month,
		MonthEnd:   monthEnd,
		Attendance: records,
		Overtime:   approved,
	})
	payslip := buildPayslip(emp.ID, month, comp)

	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, payslip); err != nil {
		if isUniqueViolation(err) {
			return nil, payrollerrors.ErrPayslipAlreadyExists
		}
		s.logger.Error("persist payslip failed",
			zap.String("employee_id", emp.ID.String()),
			zap.String("month", month),
			zap.Error(err),
		)
		return nil, err
	}

	if s.outbox != nil {
		event := events.PayslipGeneratedEvent{
			EventType:  "payslip_generated",
			PayslipID:  payslip.ID.String(),
			EmployeeID: emp.ID.String(),
			Month:      month,
			NetSalary:  payslip.NetSalary,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal payslip event failed", zap.String("request_id", rid), zap.Error(err))
			return nil, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "payslip",
			AggregateID:   payslip.ID.String(),
			EventType:     event.EventType,
			Topic:         events.PayslipGeneratedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("payslip outbox persist failed",
				zap.String("payslip_id", payslip.ID.String()),
				zap.Error(err),
			)
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return nil, err
	}

	s.logger.Info("payslip generated",
		zap.String("request_id", rid),
		zap.String("payslip_id", payslip.ID.String()),
		zap.String("employee_id", emp.ID.String()),
		zap.String("month", month),
	)
	return payslip, nil
}

func (s *service) findEmployee(ctx context.Context, employeeID string) (*employee.Employee, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return emp, nil
}

// buildPayslip rounds the computation to currency precision. Totals are
// recomputed from the rounded parts so net == gross - deductions holds
// exactly on the stored row.
func buildPayslip(employeeID uuid.UUID, month string, c Computation) *Payslip {
	p := &Payslip{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Month:      month,
		BaseSalary: round3(c.BaseSalary),

		OvertimeHours: c.OvertimeHours,
		OvertimePay:   round3(c.OvertimePay),

		Bonuses: BonusBreakdown{
			Seniority:      round3(c.SeniorityBonus),
			SeniorityYears: c.SeniorityYears,
			Attendance:     round3(c.AttendanceBonus),
			Other:          round3(c.OtherBonus),
			Total:          round3(c.TotalBonuses),
		},
		Allowances: AllowanceBreakdown{
			Transport: round3(c.TransportAllowance),
			Presence:  round3(c.PresenceBonus),
			Other:     round3(c.OtherAllowance),
			Total:     round3(c.TotalAllowances),
		},
		Deductions: DeductionBreakdown{
			CNSS:      round3(c.CNSSEmployee),
			IncomeTax: round3(c.MonthlyIncomeTax),
			CSS:       round3(c.CSS),
			Absence:   round3(c.AbsenceDeduction),
			Other:     round3(c.OtherDeduction),
			Total:     round3(c.TotalDeductions),
		},
		Attendance: AttendanceSummary{
			WorkingDays: c.WorkingDays,
			PresentDays: c.PresentDays,
			AbsentDays:  c.AbsentDays,
			LateDays:    c.LateDays,
		},
		Tax: TaxTrace{
			TaxableIncome:         round3(c.TaxableIncome),
			ProfessionalExpense:   round3(c.ProfessionalExpense),
			FamilyDeductionAnnual: round3(c.FamilyDeductionAnnual),
			AnnualTaxableBase:     round3(c.AnnualTaxableBase),
			AnnualTax:             round3(c.AnnualTax),
			MonthlyTax:            round3(c.MonthlyIncomeTax),
		},

		TotalGross:      round3(c.TotalGross),
		TotalDeductions: round3(c.TotalDeductions),
		Status:          StatusGenerated,
	}
	for _, line := range c.OvertimeDetail {
		line.HourlyRate = round3(line.HourlyRate)
		line.Amount = round3(line.Amount)
		p.OvertimeDetail = append(p.OvertimeDetail, line)
	}
	p.NetSalary = round3(p.TotalGross - p.TotalDeductions)
	return p
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToResponse(p *Payslip) *PayslipResponse {
	resp := &PayslipResponse{
		ID:              p.ID.String(),
		EmployeeID:      p.EmployeeID.String(),
		Month:           p.Month,
		BaseSalary:      p.BaseSalary,
		OvertimeHours:   p.OvertimeHours,
		OvertimePay:     p.OvertimePay,
		OvertimeDetail:  p.OvertimeDetail,
		Bonuses:         p.Bonuses,
		Allowances:      p.Allowances,
		Deductions:      p.Deductions,
		Attendance:      p.Attendance,
		Tax:             p.Tax,
		TotalGross:      p.TotalGross,
		TotalDeductions: p.TotalDeductions,
		NetSalary:       p.NetSalary,
		Status:          p.Status,
	}
	if p.Employee != nil {
		resp.Employee = p.Employee.FirstName + " " + p.Employee.LastName
		resp.Department = p.Employee.Department
		resp.Position = p.Employee.Position
	}
	if p.PaidAt != nil {
		v := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	return resp
}
