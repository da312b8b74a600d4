package attendance_test

import (
	"context"
	"testing"
	"time"

	"go-paie/internal/attendance"
	"go-paie/internal/employee"
	"go-paie/internal/leave"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeActiveLookup struct {
	findActiveFn func(ctx context.Context) ([]employee.Employee, error)
}

func (f *fakeActiveLookup) FindActive(ctx context.Context) ([]employee.Employee, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx)
	}
	return nil, nil
}

type fakeLeaveLookup struct {
	findApprovedCoveringFn func(ctx context.Context, date time.Time) ([]leave.Leave, error)
}

func (f *fakeLeaveLookup) FindApprovedCovering(ctx context.Context, date time.Time) ([]leave.Leave, error) {
	if f.findApprovedCoveringFn != nil {
		return f.findApprovedCoveringFn(ctx, date)
	}
	return nil, nil
}

func TestDeriver_MarkAbsencesForDate(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	checkedIn := employee.Employee{ID: uuid.New(), Status: employee.StatusActive}
	onLeave := employee.Employee{ID: uuid.New(), Status: employee.StatusActive}
	missing := employee.Employee{ID: uuid.New(), Status: employee.StatusActive}

	repo := &fakeAttendanceRepository{}
	repo.findByDateFn = func(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
		assert.Equal(t, day, date)
		return []attendance.Attendance{{EmployeeID: checkedIn.ID, Date: day, Status: attendance.StatusPresent}}, nil
	}
	var inserted []attendance.Attendance
	repo.insertManyFn = func(ctx context.Context, rows []attendance.Attendance) (int64, error) {
		inserted = rows
		return int64(len(rows)), nil
	}

	employees := &fakeActiveLookup{findActiveFn: func(ctx context.Context) ([]employee.Employee, error) {
		return []employee.Employee{checkedIn, onLeave, missing}, nil
	}}
	leaves := &fakeLeaveLookup{findApprovedCoveringFn: func(ctx context.Context, date time.Time) ([]leave.Leave, error) {
		return []leave.Leave{{EmployeeID: onLeave.ID, Status: leave.StatusApproved}}, nil
	}}

	deriver := attendance.NewDeriver(repo, employees, leaves)
	created, err := deriver.MarkAbsencesForDate(ctx, day)

	assert.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Len(t, inserted, 1)
	assert.Equal(t, missing.ID, inserted[0].EmployeeID)
	assert.Equal(t, attendance.StatusAbsent, inserted[0].Status)
	assert.Equal(t, day, inserted[0].Date)
	assert.Zero(t, inserted[0].DelayMinutes)
	assert.Nil(t, inserted[0].CheckInTime)
}

func TestDeriver_MarkAbsencesForDate_Idempotent(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	emp := employee.Employee{ID: uuid.New(), Status: employee.StatusActive}

	repo := &fakeAttendanceRepository{}
	// The previous run already wrote the absent row.
	repo.findByDateFn = func(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
		return []attendance.Attendance{{EmployeeID: emp.ID, Date: day, Status: attendance.StatusAbsent}}, nil
	}
	repo.insertManyFn = func(ctx context.Context, rows []attendance.Attendance) (int64, error) {
		t.Fatal("no rows should be inserted on a re-run")
		return 0, nil
	}

	employees := &fakeActiveLookup{findActiveFn: func(ctx context.Context) ([]employee.Employee, error) {
		return []employee.Employee{emp}, nil
	}}

	deriver := attendance.NewDeriver(repo, employees, &fakeLeaveLookup{})
	created, err := deriver.MarkAbsencesForDate(ctx, day)

	assert.NoError(t, err)
	assert.Zero(t, created)
}

func TestDeriver_MarkAbsencesForDate_TruncatesToCalendarDay(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 6, 15, 22, 47, 12, 0, time.UTC)
	emp := employee.Employee{ID: uuid.New(), Status: employee.StatusActive}

	repo := &fakeAttendanceRepository{}
	var inserted []attendance.Attendance
	repo.insertManyFn = func(ctx context.Context, rows []attendance.Attendance) (int64, error) {
		inserted = rows
		return int64(len(rows)), nil
	}
	employees := &fakeActiveLookup{findActiveFn: func(ctx context.Context) ([]employee.Employee, error) {
		return []employee.Employee{emp}, nil
	}}

	deriver := attendance.NewDeriver(repo, employees, &fakeLeaveLookup{})
	created, err := deriver.MarkAbsencesForDate(ctx, at)

	assert.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), inserted[0].Date)
}

func TestDeriver_NoActiveEmployees(t *testing.T) {
	repo := &fakeAttendanceRepository{}
	repo.findByDateFn = func(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
		t.Fatal("ledger should not be read when there is nobody to mark")
		return nil, nil
	}

	deriver := attendance.NewDeriver(repo, &fakeActiveLookup{}, &fakeLeaveLookup{})
	created, err := deriver.MarkAbsencesForDate(context.Background(), time.Now().UTC())

	assert.NoError(t, err)
	assert.Zero(t, created)
}
