// Package period holds the date arithmetic shared by the payroll engine, the
// absence deriver and the sentiment scorer. All dates are calendar dates in
// UTC; months are "YYYY-MM" strings as stored on ledger rows.
package period

import (
	"net/http"
	"time"

	"go-paie/internal/shared/apperror"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

var ErrInvalidMonth = apperror.New(
	apperror.CodeInvalidInput,
	"invalid month format, expected YYYY-MM",
	http.StatusBadRequest,
)

var ErrInvalidDate = apperror.New(
	apperror.CodeInvalidInput,
	"invalid date format, expected YYYY-MM-DD",
	http.StatusBadRequest,
)

func ParseDate(v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// MonthRange returns the first and last calendar day of a "YYYY-MM" month.
func MonthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

// MonthOf derives the "YYYY-MM" bucket of a date, as stored on overtime rows.
func MonthOf(date time.Time) string {
	return date.Format(MonthLayout)
}

// PreviousMonth returns the "YYYY-MM" immediately before month.
func PreviousMonth(month string) (string, error) {
	start, err := time.Parse(MonthLayout, month)
	if err != nil {
		return "", ErrInvalidMonth
	}
	return start.AddDate(0, -1, 0).Format(MonthLayout), nil
}

// YearsSince counts full years elapsed between from and now, the way a
// seniority clause reads it: the year increments on the anniversary day.
func YearsSince(from, now time.Time) int {
	years := now.Year() - from.Year()
	anniversary := from.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// Today truncates now to its calendar date in UTC.
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
