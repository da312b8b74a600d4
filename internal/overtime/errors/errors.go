package overtimeerrors

import (
	"net/http"

	"go-paie/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidHours = apperror.New(
		apperror.CodeInvalidInput,
		"hours must be greater than 0 and at most 12",
		http.StatusBadRequest,
	)
	ErrInvalidRateType = apperror.New(
		apperror.CodeInvalidInput,
		"rate_type must be one of 125%, 150%, 200%",
		http.StatusBadRequest,
	)
	ErrOvertimeNotFound = apperror.New(
		apperror.CodeNotFound,
		"overtime entry not found",
		http.StatusNotFound,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"overtime entry has already been decided",
		http.StatusBadRequest,
	)
)
