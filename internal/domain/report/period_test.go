package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/calegria/toggl-admin-mcp/internal/domain/report"
)

var now = time.Date(2025, time.August, 20, 15, 30, 0, 0, time.UTC)

func TestResolveRange_ExplicitDates(t *testing.T) {
	rng, err := report.ResolveRange(now, "", "2025-01-10", "2025-01-20")
	require.NoError(t, err)
	require.Equal(t, "2025-01-10", rng.Since())
	require.Equal(t, "2025-01-20", rng.Until())
	require.Equal(t, 11, rng.Days())
}

func TestResolveRange_PartialRange(t *testing.T) {
	_, err := report.ResolveRange(now, "", "2025-01-10", "")
	require.ErrorIs(t, err, report.ErrPartialRange)
}

func TestResolveRange_InvalidDate(t *testing.T) {
	_, err := report.ResolveRange(now, "", "10/01/2025", "2025-01-20")
	require.ErrorIs(t, err, report.ErrInvalidDate)
}

func TestResolveRange_StartAfterEnd(t *testing.T) {
	_, err := report.ResolveRange(now, "", "2025-01-20", "2025-01-10")
	require.ErrorIs(t, err, report.ErrInvalidRange)
}

func TestResolveRange_Week(t *testing.T) {
	// 2025-08-20 is a Wednesday; the week runs Mon 18th to Sun 24th.
	rng, err := report.ResolveRange(now, report.PeriodWeek, "", "")
	require.NoError(t, err)
	require.Equal(t, "2025-08-18", rng.Since())
	require.Equal(t, "2025-08-24", rng.Until())
}

func TestResolveRange_WeekOnMonday(t *testing.T) {
	monday := time.Date(2025, time.August, 18, 0, 0, 0, 0, time.UTC)
	rng, err := report.ResolveRange(monday, report.PeriodWeek, "", "")
	require.NoError(t, err)
	require.Equal(t, "2025-08-18", rng.Since())
}

func TestResolveRange_WeekOnSunday(t *testing.T) {
	sunday := time.Date(2025, time.August, 24, 0, 0, 0, 0, time.UTC)
	rng, err := report.ResolveRange(sunday, report.PeriodWeek, "", "")
	require.NoError(t, err)
	require.Equal(t, "2025-08-18", rng.Since())
	require.Equal(t, "2025-08-24", rng.Until())
}

func TestResolveRange_MonthIsDefault(t *testing.T) {
	rng, err := report.ResolveRange(now, "", "", "")
	require.NoError(t, err)
	require.Equal(t, "2025-08-01", rng.Since())
	require.Equal(t, "2025-08-31", rng.Until())
}

func TestResolveRange_Quarter(t *testing.T) {
	rng, err := report.ResolveRange(now, report.PeriodQuarter, "", "")
	require.NoError(t, err)
	require.Equal(t, "2025-07-01", rng.Since())
	require.Equal(t, "2025-09-30", rng.Until())
}

func TestResolveRange_Year(t *testing.T) {
	rng, err := report.ResolveRange(now, report.PeriodYear, "", "")
	require.NoError(t, err)
	require.Equal(t, "2025-01-01", rng.Since())
	require.Equal(t, "2025-12-31", rng.Until())
}

func TestResolveRange_UnknownPeriod(t *testing.T) {
	_, err := report.ResolveRange(now, "fortnight", "", "")
	require.ErrorIs(t, err, report.ErrUnknownPeriod)
}

func TestDateRange_Previous(t *testing.T) {
	rng, err := report.ResolveRange(now, "", "2025-08-01", "2025-08-31")
	require.NoError(t, err)

	prev := rng.Previous()
	require.Equal(t, "2025-07-01", prev.Since())
	require.Equal(t, "2025-07-31", prev.Until())
	require.Equal(t, rng.Days(), prev.Days())
}
