package report

import (
	"fmt"
	"time"
)

// Period is a named reporting period.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// ResolveRange turns explicit dates or a named period into a date
// range. Explicit dates win; with neither set the current month is
// used. now supplies "today" so callers can pin time in tests.
func ResolveRange(now time.Time, period Period, startDate, endDate string) (DateRange, error) {
	if startDate != "" || endDate != "" {
		if startDate == "" || endDate == "" {
			return DateRange{}, ErrPartialRange
		}
		start, err := time.Parse(dateLayout, startDate)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidDate, startDate)
		}
		end, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidDate, endDate)
		}
		if start.After(end) {
			return DateRange{}, ErrInvalidRange
		}
		return DateRange{Start: start, End: end}, nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch period {
	case PeriodWeek:
		// Monday through Sunday of the current week.
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return DateRange{Start: start, End: start.AddDate(0, 0, 6)}, nil
	case PeriodMonth, "":
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: start.AddDate(0, 1, -1)}, nil
	case PeriodQuarter:
		quarterMonth := time.Month((int(today.Month())-1)/3*3 + 1)
		start := time.Date(today.Year(), quarterMonth, 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: start.AddDate(0, 3, -1)}, nil
	case PeriodYear:
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)}, nil
	}
	return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, period)
}
