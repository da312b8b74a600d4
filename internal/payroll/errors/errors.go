package payrollerrors

import (
	"net/http"

	"go-paie/internal/shared/apperror"
)

var (
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrPayslipAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"payslip already exists for this employee and month",
		http.StatusConflict,
	)
	ErrPayslipAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"payslip has already been marked as paid",
		http.StatusBadRequest,
	)
)
