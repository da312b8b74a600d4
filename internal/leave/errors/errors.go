package leaveerrors

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
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been decided",
		http.StatusBadRequest,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requesting employee may cancel a pending request",
		http.StatusForbidden,
	)
)
