package report

import "errors"

var (
	// ErrInvalidDate is returned when a date parameter is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrInvalidRange is returned when the start date is after the end date.
	ErrInvalidRange = errors.New("start date is after end date")
	// ErrPartialRange is returned when only one of start/end is given.
	ErrPartialRange = errors.New("both start_date and end_date are required when either is set")
	// ErrUnknownPeriod is returned for a period outside week/month/quarter/year.
	ErrUnknownPeriod = errors.New("unknown period")
	// ErrUnknownSortKey is returned for a sort key outside profit/revenue/margin/hours.
	ErrUnknownSortKey = errors.New("unknown sort key")
)
