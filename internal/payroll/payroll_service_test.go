package payroll_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-paie/internal/attendance"
	"go-paie/internal/employee"
	employeeerrors "go-paie/internal/employee/errors"
	"go-paie/internal/events"
	"go-paie/internal/messaging/kafka"
	"go-paie/internal/overtime"
	"go-paie/internal/payroll"
	payrollconfig "go-paie/internal/payroll/config"
	payrollerrors "go-paie/internal/payroll/errors"
	"go-paie/internal/shared/period"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	withTxFn                 func(tx *sql.Tx) payroll.Repository
	createFn                 func(ctx context.Context, p *payroll.Payslip) error
	findByIDFn               func(ctx context.Context, id string) (*payroll.Payslip, error)
	findByEmployeeAndMonthFn func(ctx context.Context, employeeID, month string) (*payroll.Payslip, error)
	findByMonthFn            func(ctx context.Context, month string) ([]payroll.Payslip, error)
	findFn                   func(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payslip, error)
	updateFn                 func(ctx context.Context, p *payroll.Payslip) error
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) Create(ctx context.Context, p *payroll.Payslip) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) FindByID(ctx context.Context, id string) (*payroll.Payslip, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindByEmployeeAndMonth(ctx context.Context, employeeID, month string) (*payroll.Payslip, error) {
	if f.findByEmployeeAndMonthFn != nil {
		return f.findByEmployeeAndMonthFn(ctx, employeeID, month)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindByMonth(ctx context.Context, month string) ([]payroll.Payslip, error) {
	if f.findByMonthFn != nil {
		return f.findByMonthFn(ctx, month)
	}
	return nil, nil
}

func (f *fakePayrollRepository) Find(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payslip, error) {
	if f.findFn != nil {
		return f.findFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakePayrollRepository) Update(ctx context.Context, p *payroll.Payslip) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

type fakeEmployeeRepository struct {
	findByIDFn   func(ctx context.Context, id string) (*employee.Employee, error)
	findActiveFn func(ctx context.Context) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error { return nil }

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindActive(ctx context.Context) ([]employee.Employee, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error { return nil }

type fakeAttendanceRepository struct {
	findByEmployeeAndRangeFn func(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error)
}

func (f *fakeAttendanceRepository) WithTx(tx *sql.Tx) attendance.Repository { return f }

func (f *fakeAttendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	return nil
}

func (f *fakeAttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepository) FindByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	if f.findByEmployeeAndRangeFn != nil {
		return f.findByEmployeeAndRangeFn(ctx, employeeID, from, to)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) Find(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepository) InsertManyIgnoreConflicts(ctx context.Context, rows []attendance.Attendance) (int64, error) {
	return 0, nil
}

func (f *fakeAttendanceRepository) Update(ctx context.Context, a *attendance.Attendance) error {
	return nil
}

type fakeOvertimeRepository struct {
	findApprovedFn func(ctx context.Context, employeeID, month string) ([]overtime.Overtime, error)
}

func (f *fakeOvertimeRepository) WithTx(tx *sql.Tx) overtime.Repository { return f }

func (f *fakeOvertimeRepository) Create(ctx context.Context, o *overtime.Overtime) error { return nil }

func (f *fakeOvertimeRepository) FindByID(ctx context.Context, id string) (*overtime.Overtime, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOvertimeRepository) Find(ctx context.Context, filter overtime.ListFilter) ([]overtime.Overtime, error) {
	return nil, nil
}

func (f *fakeOvertimeRepository) FindApproved(ctx context.Context, employeeID, month string) ([]overtime.Overtime, error) {
	if f.findApprovedFn != nil {
		return f.findApprovedFn(ctx, employeeID, month)
	}
	return nil, nil
}

func (f *fakeOvertimeRepository) Update(ctx context.Context, o *overtime.Overtime) error { return nil }

type fakeOutboxRepository struct {
	withTxFn func(tx *sql.Tx) kafka.OutboxRepository
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type payrollServiceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	service    payroll.Service
	repo       *fakePayrollRepository
	employees  *fakeEmployeeRepository
	attendance *fakeAttendanceRepository
	overtime   *fakeOvertimeRepository
	outbox     *fakeOutboxRepository
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &payrollServiceDeps{
		db:         db,
		sqlMock:    sqlMock,
		repo:       &fakePayrollRepository{},
		employees:  &fakeEmployeeRepository{},
		attendance: &fakeAttendanceRepository{},
		overtime:   &fakeOvertimeRepository{},
		outbox:     &fakeOutboxRepository{},
	}
	deps.service = payroll.NewServiceWithOutbox(
		db,
		deps.repo,
		deps.employees,
		deps.attendance,
		deps.overtime,
		deps.outbox,
		payrollconfig.Default(),
	)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func activeEmployee(base float64) *employee.Employee {
	hire := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return &employee.Employee{
		ID:            uuid.New(),
		FirstName:     "Sana",
		LastName:      "Trabelsi",
		Status:        employee.StatusActive,
		HireDate:      &hire,
		BaseSalary:    base,
		MaritalStatus: employee.MaritalSingle,
		WorkStartTime: "08:00",
	}
}

func TestPayrollService_Calculate(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	emp := activeEmployee(2000)
	deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		assert.Equal(t, emp.ID.String(), id)
		return emp, nil
	}

	var created *payroll.Payslip
	deps.repo.createFn = func(ctx context.Context, p *payroll.Payslip) error {
		created = p
		return nil
	}
	var queued kafka.OutboxEvent
	deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
		queued = event
		return nil
	}

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.Calculate(ctx, emp.ID.String(), "2026-06")

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, "2026-06", resp.Month)
	assert.Equal(t, payroll.StatusGenerated, resp.Status)

	// No attendance records at all: the attendance bonus still applies.
	assert.InDelta(t, 2165.850, created.TotalGross, 0.001)
	assert.InDelta(t, 100, created.Bonuses.Attendance, 0.001)
	assert.InDelta(t, 60, created.Allowances.Transport, 0.001)
	assert.InDelta(t, created.TotalGross-created.TotalDeductions, created.NetSalary, 1e-9)

	assert.Equal(t, events.PayslipGeneratedTopic, queued.Topic)
	assert.Equal(t, "payslip_generated", queued.EventType)
	assert.Equal(t, "payslip", queued.AggregateType)
	assert.Equal(t, created.ID.String(), queued.AggregateID)

	var event events.PayslipGeneratedEvent
	assert.NoError(t, json.Unmarshal(queued.Payload, &event))
	assert.Equal(t, "2026-06", event.Month)
	assert.Equal(t, created.NetSalary, event.NetSalary)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Calculate_Conflict(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	emp := activeEmployee(2000)
	deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	deps.repo.findByEmployeeAndMonthFn = func(ctx context.Context, employeeID, month string) (*payroll.Payslip, error) {
		return &payroll.Payslip{ID: uuid.New()}, nil
	}

	_, err := deps.service.Calculate(ctx, emp.ID.String(), "2026-06")

	assert.ErrorIs(t, err, payrollerrors.ErrPayslipAlreadyExists)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Calculate_ConcurrentUniqueViolation(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	emp := activeEmployee(2000)
	deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	deps.repo.createFn = func(ctx context.Context, p *payroll.Payslip) error {
		return &pgconn.PgError{Code: "23505"}
	}

	expectTx(t, deps.sqlMock, false)
	_, err := deps.service.Calculate(ctx, emp.ID.String(), "2026-06")

	assert.ErrorIs(t, err, payrollerrors.ErrPayslipAlreadyExists)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Calculate_EmployeeChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid employee id", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Calculate(ctx, "not-a-uuid", "2026-06")
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Calculate(ctx, uuid.New().String(), "2026-06")
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestPayrollService_GenerateMonthly_Idempotent(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	first := activeEmployee(1800)
	second := activeEmployee(2400)
	deps.employees.findActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
		return []employee.Employee{*first, *second}, nil
	}

	store := map[string]*payroll.Payslip{}
	deps.repo.findByEmployeeAndMonthFn = func(ctx context.Context, employeeID, month string) (*payroll.Payslip, error) {
		if p, ok := store[employeeID]; ok {
			return p, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	deps.repo.createFn = func(ctx context.Context, p *payroll.Payslip) error {
		store[p.EmployeeID.String()] = p
		return nil
	}

	expectTx(t, deps.sqlMock, true)
	expectTx(t, deps.sqlMock, true)
	result, err := deps.service.GenerateMonthly(ctx, "2026-06")

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Generated)
	assert.Zero(t, result.AlreadyExists)
	assert.Len(t, store, 2)

	// Second run touches no transaction and creates nothing.
	result, err = deps.service.GenerateMonthly(ctx, "2026-06")

	assert.NoError(t, err)
	assert.Zero(t, result.Generated)
	assert.Equal(t, 2, result.AlreadyExists)
	for _, line := range result.Results {
		assert.Equal(t, payroll.BatchAlreadyExists, line.Status)
	}
	assert.Len(t, store, 2)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_GenerateMonthly_PartialFailure(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	broken := activeEmployee(1800)
	healthy := activeEmployee(2400)
	deps.employees.findActiveFn = func(ctx context.Context) ([]employee.Employee, error) {
		return []employee.Employee{*broken, *healthy}, nil
	}
	deps.repo.createFn = func(ctx context.Context, p *payroll.Payslip) error {
		if p.EmployeeID == broken.ID {
			return errors.New("write failed")
		}
		return nil
	}

	expectTx(t, deps.sqlMock, false)
	expectTx(t, deps.sqlMock, true)
	result, err := deps.service.GenerateMonthly(ctx, "2026-06")

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, payroll.BatchFailed, result.Results[0].Status)
	assert.Equal(t, "write failed", result.Results[0].Error)
	assert.Equal(t, payroll.BatchGenerated, result.Results[1].Status)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_GenerateMonthly_InvalidMonth(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.GenerateMonthly(context.Background(), "June 2026")
	assert.ErrorIs(t, err, period.ErrInvalidMonth)
}

func TestPayrollService_MarkPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("generated payslip transitions to paid", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, pid string) (*payroll.Payslip, error) {
			return &payroll.Payslip{ID: id, EmployeeID: uuid.New(), Month: "2026-06", Status: payroll.StatusGenerated}, nil
		}
		var updated *payroll.Payslip
		deps.repo.updateFn = func(ctx context.Context, p *payroll.Payslip) error {
			updated = p
			return nil
		}

		resp, err := deps.service.MarkPaid(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusPaid, resp.Status)
		assert.NotNil(t, updated)
		assert.NotNil(t, updated.PaidAt)
	})

	t.Run("already paid", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, pid string) (*payroll.Payslip, error) {
			return &payroll.Payslip{ID: uuid.MustParse(pid), Status: payroll.StatusPaid}, nil
		}

		_, err := deps.service.MarkPaid(ctx, uuid.New().String())
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipAlreadyPaid)
	})

	t.Run("unknown payslip", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.MarkPaid(ctx, uuid.New().String())
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotFound)
	})
}

func TestPayrollService_MonthlyReport(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.repo.findByMonthFn = func(ctx context.Context, month string) ([]payroll.Payslip, error) {
		return []payroll.Payslip{
			{
				TotalGross:      2165.850,
				TotalDeductions: 300.250,
				NetSalary:       1865.600,
				Deductions:      payroll.DeductionBreakdown{CNSS: 198.825, IncomeTax: 100.921, CSS: 0.504},
			},
			{
				TotalGross:      1500.000,
				TotalDeductions: 180.500,
				NetSalary:       1319.500,
				Deductions:      payroll.DeductionBreakdown{CNSS: 137.700, IncomeTax: 42.587, CSS: 0.213},
			},
		}, nil
	}

	report, err := deps.service.MonthlyReport(context.Background(), "2026-06")

	assert.NoError(t, err)
	assert.Equal(t, 2, report.PayslipCount)
	assert.InDelta(t, 3665.850, report.TotalGross, 0.001)
	assert.InDelta(t, 480.750, report.TotalDeductions, 0.001)
	assert.InDelta(t, 3185.100, report.TotalNet, 0.001)
	assert.InDelta(t, 336.525, report.CNSSEmployeeSum, 0.001)
	assert.InDelta(t, 3665.850*0.1657, report.CNSSEmployerSum, 0.001)
	assert.InDelta(t, report.CNSSEmployeeSum+report.CNSSEmployerSum, report.CNSSContribution, 0.001)
}

func TestPayrollService_CNSSReport(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	empID := uuid.New()
	deps.repo.findByMonthFn = func(ctx context.Context, month string) ([]payroll.Payslip, error) {
		return []payroll.Payslip{{
			EmployeeID: empID,
			TotalGross: 2000,
			Deductions: payroll.DeductionBreakdown{CNSS: 183.600},
			Employee:   &payroll.EmployeeRef{FirstName: "Sana", LastName: "Trabelsi"},
		}}, nil
	}

	report, err := deps.service.CNSSReport(context.Background(), "2026-06")

	assert.NoError(t, err)
	assert.Len(t, report.Lines, 1)
	assert.Equal(t, "Sana Trabelsi", report.Lines[0].EmployeeName)
	assert.InDelta(t, 183.600, report.Lines[0].EmployeeShare, 0.001)
	assert.InDelta(t, 331.400, report.Lines[0].EmployerShare, 0.001)
	assert.InDelta(t, 515.000, report.TotalContributed, 0.001)
}
