package sentimenterrors

import (
	"net/http"

	"go-paie/internal/shared/apperror"
)

var ErrSentimentAlreadyExists = apperror.New(
	apperror.CodeConflict,
	"sentiment already exists for this employee and month",
	http.StatusConflict,
)
