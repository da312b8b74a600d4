package attendance_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-paie/internal/attendance"
	attendanceerrors "go-paie/internal/attendance/errors"
	"go-paie/internal/employee"
	employeeerrors "go-paie/internal/employee/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAttendanceRepository struct {
	withTxFn                 func(tx *sql.Tx) attendance.Repository
	createFn                 func(ctx context.Context, a *attendance.Attendance) error
	findByEmployeeAndDateFn  func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error)
	findByDateFn             func(ctx context.Context, date time.Time) ([]attendance.Attendance, error)
	findByEmployeeAndRangeFn func(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error)
	findFn                   func(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error)
	insertManyFn             func(ctx context.Context, rows []attendance.Attendance) (int64, error)
	updateFn                 func(ctx context.Context, a *attendance.Attendance) error
}

func (f *fakeAttendanceRepository) WithTx(tx *sql.Tx) attendance.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeAttendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeAttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	if f.findByEmployeeAndDateFn != nil {
		return f.findByEmployeeAndDateFn(ctx, employeeID, date)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	if f.findByDateFn != nil {
		return f.findByDateFn(ctx, date)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) FindByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	if f.findByEmployeeAndRangeFn != nil {
		return f.findByEmployeeAndRangeFn(ctx, employeeID, from, to)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) Find(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	if f.findFn != nil {
		return f.findFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) InsertManyIgnoreConflicts(ctx context.Context, rows []attendance.Attendance) (int64, error) {
	if f.insertManyFn != nil {
		return f.insertManyFn(ctx, rows)
	}
	return int64(len(rows)), nil
}

func (f *fakeAttendanceRepository) Update(ctx context.Context, a *attendance.Attendance) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, a)
	}
	return nil
}

type fakeEmployeeRepository struct {
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
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
	return nil, nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error { return nil }

type attendanceServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   attendance.Service
	repo      *fakeAttendanceRepository
	employees *fakeEmployeeRepository
}

func setupAttendanceServiceTest(t *testing.T) *attendanceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &attendanceServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		repo:      &fakeAttendanceRepository{},
		employees: &fakeEmployeeRepository{},
	}
	deps.service = attendance.NewService(db, deps.repo, deps.employees)
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

func lateShiftEmployee() *employee.Employee {
	return &employee.Employee{
		ID:     uuid.New(),
		Status: employee.StatusActive,
		// Shift start in the last minute of the day keeps the check-in on
		// time no matter when the test runs.
		WorkStartTime: "23:59",
	}
}

func TestAttendanceService_CheckIn(t *testing.T) {
	ctx := context.Background()
	deps := setupAttendanceServiceTest(t)
	defer deps.db.Close()

	emp := lateShiftEmployee()
	deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	var created *attendance.Attendance
	deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
		created = a
		return nil
	}

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.CheckIn(ctx, emp.ID.String(), attendance.CheckInRequest{})

	assert.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Zero(t, resp.DelayMinutes)
	assert.NotNil(t, created)
	assert.NotNil(t, created.CheckInTime)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestAttendanceService_CheckIn_Duplicate(t *testing.T) {
	ctx := context.Background()
	deps := setupAttendanceServiceTest(t)
	defer deps.db.Close()

	emp := lateShiftEmployee()
	deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
		return &attendance.Attendance{EmployeeID: emp.ID, Date: date}, nil
	}

	expectTx(t, deps.sqlMock, false)
	_, err := deps.service.CheckIn(ctx, emp.ID.String(), attendance.CheckInRequest{})

	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestAttendanceService_CheckIn_RaceMapsToConflict(t *testing.T) {
	ctx := context.Background()
	deps := setupAttendanceServiceTest(t)
	defer deps.db.Close()

	emp := lateShiftEmployee()
	deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}
	deps.repo.createFn = func(ctx context.Context, a *attendance.Attendance) error {
		return &pgconn.PgError{Code: "23505"}
	}

	expectTx(t, deps.sqlMock, false)
	_, err := deps.service.CheckIn(ctx, emp.ID.String(), attendance.CheckInRequest{})

	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestAttendanceService_CheckIn_Geofence(t *testing.T) {
	ctx := context.Background()
	deps := setupAttendanceServiceTest(t)
	defer deps.db.Close()

	// Tunis city center workplace, check-in attempt from Sousse.
	wpLat, wpLng := 36.8065, 10.1815
	farLat, farLng := 35.8256, 10.6084

	emp := lateShiftEmployee()
	emp.WorkplaceLat = &wpLat
	emp.WorkplaceLng = &wpLng
	deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}

	expectTx(t, deps.sqlMock, false)
	_, err := deps.service.CheckIn(ctx, emp.ID.String(), attendance.CheckInRequest{
		Latitude:  &farLat,
		Longitude: &farLng,
	})

	assert.ErrorIs(t, err, attendanceerrors.ErrOutsideWorkplace)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestAttendanceService_CheckIn_InactiveEmployee(t *testing.T) {
	ctx := context.Background()
	deps := setupAttendanceServiceTest(t)
	defer deps.db.Close()

	emp := lateShiftEmployee()
	emp.Status = employee.StatusTerminated
	deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return emp, nil
	}

	expectTx(t, deps.sqlMock, false)
	_, err := deps.service.CheckIn(ctx, emp.ID.String(), attendance.CheckInRequest{})

	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeInactive)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestAttendanceService_CheckOut(t *testing.T) {
	ctx := context.Background()

	t.Run("closes the open day", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		checkIn := time.Now().UTC().Add(-4 * time.Hour)
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{
				EmployeeID:  uuid.MustParse(employeeID),
				Date:        date,
				CheckInTime: &checkIn,
				Status:      attendance.StatusPresent,
			}, nil
		}
		var updated *attendance.Attendance
		deps.repo.updateFn = func(ctx context.Context, a *attendance.Attendance) error {
			updated = a
			return nil
		}

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.CheckOut(ctx, uuid.New().String())

		assert.NoError(t, err)
		assert.NotNil(t, resp.CheckOutTime)
		assert.NotNil(t, updated)
		assert.NotNil(t, updated.CheckOutTime)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("no check-in today", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.CheckOut(ctx, uuid.New().String())

		assert.ErrorIs(t, err, attendanceerrors.ErrNoCheckInToday)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("deriver row cannot check out", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{EmployeeID: uuid.MustParse(employeeID), Date: date, Status: attendance.StatusAbsent}, nil
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.CheckOut(ctx, uuid.New().String())

		assert.ErrorIs(t, err, attendanceerrors.ErrNoCheckInToday)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("already checked out", func(t *testing.T) {
		deps := setupAttendanceServiceTest(t)
		defer deps.db.Close()

		checkIn := time.Now().UTC().Add(-9 * time.Hour)
		checkOut := time.Now().UTC().Add(-time.Hour)
		deps.repo.findByEmployeeAndDateFn = func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{
				EmployeeID:   uuid.MustParse(employeeID),
				Date:         date,
				CheckInTime:  &checkIn,
				CheckOutTime: &checkOut,
			}, nil
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.CheckOut(ctx, uuid.New().String())

		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedOut)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestDelayAndStatus(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2026, 6, 15, h, m, 0, 0, time.UTC)
	}

	cases := []struct {
		name      string
		workStart string
		at        time.Time
		delay     int
		status    string
	}{
		{"on time", "08:00", day(7, 45), 0, attendance.StatusPresent},
		{"exactly on the minute", "08:00", day(8, 0), 0, attendance.StatusPresent},
		{"thirty minutes late", "08:00", day(8, 30), 30, attendance.StatusLate},
		{"afternoon shift", "14:00", day(13, 50), 0, attendance.StatusPresent},
		{"unparseable start falls back to 08:00", "morning", day(9, 0), 60, attendance.StatusLate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			delay, status := attendance.DelayAndStatus(tc.workStart, tc.at)
			assert.Equal(t, tc.delay, delay)
			assert.Equal(t, tc.status, status)
		})
	}
}
