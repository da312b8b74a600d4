package employeeerrors

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
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyUsed = apperror.New(
		apperror.CodeConflict,
		"email is already used by another employee",
		http.StatusConflict,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hire_date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidWorkStartTime = apperror.New(
		apperror.CodeInvalidInput,
		"invalid work_start_time, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrEmployeeInactive = apperror.New(
		apperror.CodeInvalidState,
		"employee is not active",
		http.StatusBadRequest,
	)
)
