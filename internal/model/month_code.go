package model

import (
	"strconv"
	"strings"
	"time"

	"rollpanel/internal/errors"
	"rollpanel/pkg/exception"
)

const monthLetters = "FGHJKMNQUVXZ"

// DateFromMonthCode returns the first day of the month a futures month code
// names, e.g. "H14" is 2014-03-01 UTC.
func DateFromMonthCode(code string) (time.Time, error) {
	if len(code) < 2 {
		return time.Time{}, errors.Wrapf(exception.ErrSourceInvalidMonth, "code %q", code)
	}

	month := strings.IndexByte(monthLetters, code[0])
	if month < 0 {
		return time.Time{}, errors.Wrapf(exception.ErrSourceInvalidMonth, "month letter %q", code[:1])
	}

	year, err := strconv.Atoi(code[1:])
	if err != nil || year < 0 {
		return time.Time{}, errors.Wrapf(exception.ErrSourceInvalidMonth, "year %q", code[1:])
	}

	return time.Date(2000+year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC), nil
}

// MonthCodeFromDate ignores everything but the year and month of t.
func MonthCodeFromDate(t time.Time) string {
	return string(monthLetters[t.Month()-1]) + strconv.Itoa(t.Year()-2000)
}
