package attendance

import (
	"context"
	"time"

	"go-paie/internal/employee"
	"go-paie/internal/leave"
	"go-paie/internal/shared/period"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActiveEmployeeLookup is the slice of the employee repository the deriver
// needs; employee.Repository satisfies it.
type ActiveEmployeeLookup interface {
	FindActive(ctx context.Context) ([]employee.Employee, error)
}

// ApprovedLeaveLookup is satisfied by leave.Repository.
type ApprovedLeaveLookup interface {
	FindApprovedCovering(ctx context.Context, date time.Time) ([]leave.Leave, error)
}

// Deriver closes each day's ledger: every active employee with neither an
// attendance row nor an approved leave covering the date gets an absent row.
// Safe to re-run; insert races against live check-ins are swallowed by the
// ledger's unique index.
type Deriver struct {
	repo      Repository
	employees ActiveEmployeeLookup
	leaves    ApprovedLeaveLookup
	logger    *zap.Logger
}

func NewDeriver(repo Repository, employees ActiveEmployeeLookup, leaves ApprovedLeaveLookup, logger ...*zap.Logger) *Deriver {
	l := zap.L().Named("attendance.deriver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.deriver")
	}
	return &Deriver{repo: repo, employees: employees, leaves: leaves, logger: l}
}

func (d *Deriver) MarkAbsencesForDate(ctx context.Context, date time.Time) (int, error) {
	day := period.Today(date)

	active, err := d.employees.FindActive(ctx)
	if err != nil {
		return 0, err
	}
	if len(active) == 0 {
		return 0, nil
	}

	// Any existing row counts as accounted for, whatever its status.
	existing, err := d.repo.FindByDate(ctx, day)
	if err != nil {
		return 0, err
	}
	attended := make(map[uuid.UUID]struct{}, len(existing))
	for _, a := range existing {
		attended[a.EmployeeID] = struct{}{}
	}

	onLeave, err := d.leaves.FindApprovedCovering(ctx, day)
	if err != nil {
		return 0, err
	}
	leaveSet := make(map[uuid.UUID]struct{}, len(onLeave))
	for _, l := range onLeave {
		leaveSet[l.EmployeeID] = struct{}{}
	}

	var toCreate []Attendance
	for _, e := range active {
		if _, ok := attended[e.ID]; ok {
			continue
		}
		if _, ok := leaveSet[e.ID]; ok {
			continue
		}
		toCreate = append(toCreate, Attendance{
			EmployeeID:   e.ID,
			Date:         day,
			Status:       StatusAbsent,
			DelayMinutes: 0,
		})
	}

	if len(toCreate) == 0 {
		return 0, nil
	}

	created, err := d.repo.InsertManyIgnoreConflicts(ctx, toCreate)
	if err != nil {
		return 0, err
	}

	d.logger.Info("absences marked",
		zap.String("date", day.Format(period.DateLayout)),
		zap.Int("candidates", len(toCreate)),
		zap.Int64("created", created),
	)
	return int(created), nil
}

// EnsureAbsencesUpToDate backfills the last daysBack calendar days, oldest
// first. Used when the nightly run was missed; each day is independently
// idempotent.
func (d *Deriver) EnsureAbsencesUpToDate(ctx context.Context, daysBack int) ([]MarkAbsencesResult, error) {
	if daysBack < 1 {
		daysBack = 1
	}

	now := time.Now().UTC()
	results := make([]MarkAbsencesResult, 0, daysBack)
	for i := daysBack; i >= 1; i-- {
		day := period.Today(now.AddDate(0, 0, -i))
		created, err := d.MarkAbsencesForDate(ctx, day)
		if err != nil {
			return results, err
		}
		results = append(results, MarkAbsencesResult{
			Date:    day.Format(period.DateLayout),
			Created: created,
		})
	}
	return results, nil
}
