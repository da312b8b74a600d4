package attendanceerrors

import (
	"net/http"

	"go-paie/internal/shared/apperror"
)

var (
	ErrEmployeeRequired = apperror.New(
		apperror.CodeInvalidInput,
		"employee_id is required",
		http.StatusBadRequest,
	)
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeConflict,
		"already checked in for this date",
		http.StatusConflict,
	)
	ErrNoCheckInToday = apperror.New(
		apperror.CodeInvalidState,
		"no check-in found for today",
		http.StatusBadRequest,
	)
	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodeInvalidState,
		"already checked out for today",
		http.StatusBadRequest,
	)
	ErrOutsideWorkplace = apperror.New(
		apperror.CodeForbidden,
		"location mismatch, check-in must happen at the workplace",
		http.StatusForbidden,
	)
)
