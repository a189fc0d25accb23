// Package daterange generates ordered calendar-day sequences for charting
// windows. All dates are normalized to midnight UTC so sequences compare by
// calendar day, not by instant.
package daterange

import (
	"time"

	"github.com/tphakala/daylight-go/internal/errors"
)

// DefaultHalfWindow is the half-window used for a chart centered on a date,
// roughly half a year to either side.
const DefaultHalfWindow = 183

// NotFound is the sentinel returned by IndexForDate when the target day is
// absent. Callers must check for it before indexing.
const NotFound = -1

// Normalize truncates t to its calendar day at midnight UTC.
func Normalize(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	aYear, aMonth, aDay := a.Date()
	bYear, bMonth, bDay := b.Date()
	return aYear == bYear && aMonth == bMonth && aDay == bDay
}

// DaysBetween returns one entry per calendar day from start to end, both
// inclusive, strictly ascending. An error is returned when start is after
// end.
func DaysBetween(start, end time.Time) ([]time.Time, error) {
	start = Normalize(start)
	end = Normalize(end)

	if start.After(end) {
		return nil, errors.Newf("start date %s is after end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02")).
			Component("daterange").
			Category(errors.CategoryDateRange).
			Build()
	}

	days := int(end.Sub(start).Hours()/24) + 1
	dates := make([]time.Time, 0, days)
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		dates = append(dates, current)
	}
	return dates, nil
}

// YearDays returns every calendar day of the given year, Jan 1 through
// Dec 31 inclusive (365 or 366 entries).
func YearDays(year int) []time.Time {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	// start <= end always holds here
	dates, _ := DaysBetween(start, end)
	return dates
}

// DaysAround returns the window of halfWindow days to either side of
// center, inclusive of both endpoints, crossing year boundaries freely.
func DaysAround(center time.Time, halfWindow int) []time.Time {
	if halfWindow < 0 {
		halfWindow = 0
	}
	center = Normalize(center)
	start := center.AddDate(0, 0, -halfWindow)
	end := center.AddDate(0, 0, halfWindow)

	dates, _ := DaysBetween(start, end)
	return dates
}

// IndexForDate returns the position of the first entry sharing target's
// calendar day, or NotFound when absent.
func IndexForDate(dates []time.Time, target time.Time) int {
	for i, date := range dates {
		if SameDay(date, target) {
			return i
		}
	}
	return NotFound
}
