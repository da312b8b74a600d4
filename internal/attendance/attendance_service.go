package attendance

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	attendanceerrors "go-paie/internal/attendance/errors"
	"go-paie/internal/employee"
	employeeerrors "go-paie/internal/employee/errors"
	"go-paie/internal/shared/period"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Check-ins farther than this from the configured workplace are rejected.
const geofenceRadiusKm = 0.5

type Service interface {
	CheckIn(ctx context.Context, employeeID string, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, employeeID string) (AttendanceResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	logger       *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employeeRepo employee.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, employeeRepo: employeeRepo, logger: l}
}

func (s *service) CheckIn(ctx context.Context, employeeID string, req CheckInRequest) (AttendanceResponse, error) {
	if employeeID == "" {
		return AttendanceResponse{}, attendanceerrors.ErrEmployeeRequired
	}
	s.logger.Debug("check-in requested", zap.String("employee_id", employeeID))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check-in begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return AttendanceResponse{}, err
	}
	if emp.Status != employee.StatusActive {
		return AttendanceResponse{}, employeeerrors.ErrEmployeeInactive
	}

	now := time.Now().UTC()
	today := period.Today(now)

	existing, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if err == nil && existing != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	}

	if emp.WorkplaceLat != nil && emp.WorkplaceLng != nil && req.Latitude != nil && req.Longitude != nil {
		distance := haversineKm(*emp.WorkplaceLat, *emp.WorkplaceLng, *req.Latitude, *req.Longitude)
		if distance > geofenceRadiusKm {
			s.logger.Warn("check-in outside workplace",
				zap.String("employee_id", employeeID),
				zap.Float64("distance_km", distance),
			)
			return AttendanceResponse{}, attendanceerrors.ErrOutsideWorkplace
		}
	}

	delay, status := DelayAndStatus(emp.WorkStartTime, now)

	row := &Attendance{
		EmployeeID:   emp.ID,
		Date:         today,
		CheckInTime:  &now,
		Status:       status,
		DelayMinutes: delay,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		DeviceName:   req.DeviceName,
		Notes:        req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		// Lost a race with a concurrent check-in for the same day.
		if isUniqueViolation(err) {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
		}
		s.logger.Error("check-in persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("check-in commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("check-in success",
		zap.String("employee_id", employeeID),
		zap.String("status", status),
		zap.Int("delay_minutes", delay),
	)
	return mapToResponse(*row), nil
}

func (s *service) CheckOut(ctx context.Context, employeeID string) (AttendanceResponse, error) {
	if employeeID == "" {
		return AttendanceResponse{}, attendanceerrors.ErrEmployeeRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check-out begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()
	today := period.Today(now)

	row, err := qtx.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoCheckInToday
		}
		return AttendanceResponse{}, err
	}
	// Deriver rows carry no check-in; an absent employee cannot check out.
	if row.CheckInTime == nil {
		return AttendanceResponse{}, attendanceerrors.ErrNoCheckInToday
	}
	if row.CheckOutTime != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	row.CheckOutTime = &now
	if err := qtx.Update(ctx, row); err != nil {
		s.logger.Error("check-out persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("check-out commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("check-out success", zap.String("employee_id", employeeID))
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error) {
	rows, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

// DelayAndStatus measures minutes past the configured "HH:MM" shift start.
// An unparseable shift start falls back to 08:00 rather than blocking the
// check-in; the profile validation should have caught it at write time.
func DelayAndStatus(workStart string, at time.Time) (int, string) {
	h, m := 8, 0
	if t, err := time.Parse("15:04", workStart); err == nil {
		h, m = t.Hour(), t.Minute()
	}
	shiftStart := time.Date(at.Year(), at.Month(), at.Day(), h, m, 0, 0, at.Location())
	if at.After(shiftStart) {
		delay := int(at.Sub(shiftStart).Minutes())
		if delay > 0 {
			return delay, StatusLate
		}
	}
	return 0, StatusPresent
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           a.ID.String(),
		EmployeeID:   a.EmployeeID.String(),
		Date:         a.Date.Format(period.DateLayout),
		Status:       a.Status,
		DelayMinutes: a.DelayMinutes,
		Latitude:     a.Latitude,
		Longitude:    a.Longitude,
		DeviceName:   a.DeviceName,
		Notes:        a.Notes,
	}
	if a.CheckInTime != nil {
		v := a.CheckInTime.Format(time.RFC3339)
		resp.CheckInTime = &v
	}
	if a.CheckOutTime != nil {
		v := a.CheckOutTime.Format(time.RFC3339)
		resp.CheckOutTime = &v
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FirstName + " " + a.Employee.LastName
	}
	return resp
}
