package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/calegria/toggl-admin-mcp/internal/domain/report"
	"github.com/calegria/toggl-admin-mcp/internal/toggl"
)

func int64Ptr(v int64) *int64 { return &v }

func testRange(t *testing.T) report.DateRange {
	t.Helper()
	rng, err := report.ResolveRange(now, "", "2025-08-01", "2025-08-31")
	require.NoError(t, err)
	return rng
}

func TestAggregator_ProfitabilityTotals(t *testing.T) {
	agg := report.NewAggregator(0.6, nil)

	rows := []toggl.SearchTimeEntriesRow{
		{
			HourlyRateInCents:     10000,
			BillableAmountInCents: 100000,
			TimeEntries: []toggl.SearchTimeEntry{
				{Seconds: 18000},
				{Seconds: 18000},
			},
		},
	}

	totals := agg.ProfitabilityTotals(rows, "USD")
	require.Equal(t, 1000.0, totals.TotalRevenue)
	require.Equal(t, 600.0, totals.TotalLaborCost)
	require.Equal(t, 400.0, totals.TotalProfit)
	require.Equal(t, 40.0, totals.ProfitMargin)
	require.Equal(t, 10.0, totals.TotalHours)
	require.Equal(t, 100.0, totals.AverageHourlyRate)
	require.Equal(t, "USD", totals.Currency)
}

func TestAggregator_ProfitabilityTotalsEmpty(t *testing.T) {
	agg := report.NewAggregator(0.6, nil)

	totals := agg.ProfitabilityTotals(nil, "USD")
	require.Zero(t, totals.TotalRevenue)
	require.Zero(t, totals.ProfitMargin)
	require.Zero(t, totals.AverageHourlyRate)
}

func TestAggregator_OrganizationSummary(t *testing.T) {
	agg := report.NewAggregator(0.6, nil)
	ws := &toggl.Workspace{ID: 42, Name: "Acme", DefaultCurrency: "USD"}

	projects := &toggl.SummaryReport{
		TotalGrand:      36_000_000,
		TotalBillable:   27_000_000,
		TotalCurrencies: []toggl.CurrencyAmount{{Currency: "USD", Amount: 1000}},
		Data: []toggl.SummaryGroup{
			{
				ID:    int64Ptr(1),
				Items: []toggl.SummaryItem{{Time: 36_000_000, Rate: 50}},
			},
		},
	}
	users := &toggl.SummaryReport{Data: []toggl.SummaryGroup{
		{ID: int64Ptr(10)},
		{ID: int64Ptr(11)},
		{ID: nil},
	}}
	clients := &toggl.SummaryReport{Data: []toggl.SummaryGroup{{ID: int64Ptr(7)}}}

	summary := agg.OrganizationSummary(ws, projects, users, clients, testRange(t))
	require.Equal(t, int64(42), summary.WorkspaceID)
	require.Equal(t, 10.0, summary.TotalHours)
	require.Equal(t, 7.5, summary.BillableHours)
	require.Equal(t, 2.5, summary.NonBillableHours)
	require.Equal(t, 1000.0, summary.TotalRevenue)
	require.Equal(t, 300.0, summary.TotalLaborCost)
	require.Equal(t, 700.0, summary.TotalProfit)
	require.Equal(t, 133.33, summary.AverageHourlyRate)
	require.Equal(t, 1, summary.ActiveProjects)
	require.Equal(t, 2, summary.ActiveUsers)
	require.Equal(t, 1, summary.ActiveClients)
}

func TestAggregator_ProjectProfitability(t *testing.T) {
	agg := report.NewAggregator(0.6, nil)

	summary := &toggl.SummaryReport{Data: []toggl.SummaryGroup{
		{
			ID:              int64Ptr(1),
			Title:           toggl.GroupTitle{Project: "Site", Client: "Acme"},
			Time:            18_000_000,
			TotalCurrencies: []toggl.CurrencyAmount{{Currency: "USD", Amount: 500}},
			Items:           []toggl.SummaryItem{{Time: 18_000_000, Rate: 80}},
		},
		{ID: nil, Time: 7_200_000},
	}}

	projects := agg.ProjectProfitability(summary, "USD", testRange(t))
	require.Len(t, projects, 1)

	p := projects[0]
	require.Equal(t, int64(1), p.ProjectID)
	require.Equal(t, "Site", p.ProjectName)
	require.Equal(t, "Acme", p.ClientName)
	require.Equal(t, 5.0, p.TotalHours)
	require.Equal(t, 500.0, p.Revenue)
	require.Equal(t, 240.0, p.LaborCost)
	require.Equal(t, 260.0, p.Profit)
	require.Equal(t, 52.0, p.ProfitMargin)
	require.Equal(t, 100.0, p.BillableRate)
}

func TestAggregator_ProjectsSortedByProfit(t *testing.T) {
	agg := report.NewAggregator(0.6, nil)

	summary := &toggl.SummaryReport{Data: []toggl.SummaryGroup{
		{
			ID:              int64Ptr(1),
			Title:           toggl.GroupTitle{Project: "Low"},
			Time:            3_600_000,
			TotalCurrencies: []toggl.CurrencyAmount{{Currency: "USD", Amount: 100}},
		},
		{
			ID:              int64Ptr(2),
			Title:           toggl.GroupTitle{Project: "High"},
			Time:            3_600_000,
			TotalCurrencies: []toggl.CurrencyAmount{{Currency: "USD", Amount: 900}},
		},
	}}

	projects := agg.ProjectProfitability(summary, "USD", testRange(t))
	require.Equal(t, "High", projects[0].ProjectName)
	require.Equal(t, "Low", projects[1].ProjectName)
}

func TestAggregator_ClientProfitability(t *testing.T) {
	agg := report.NewAggregator(0.6, nil)

	summary := &toggl.SummaryReport{Data: []toggl.SummaryGroup{
		{
			ID:              int64Ptr(5),
			Title:           toggl.GroupTitle{Client: "Globex"},
			Time:            36_000_000,
			TotalCurrencies: []toggl.CurrencyAmount{{Currency: "USD", Amount: 2000}},
			Items:           []toggl.SummaryItem{{Time: 36_000_000, Rate: 100}},
		},
	}}

	clients := agg.ClientProfitability(summary, "USD", testRange(t))
	require.Len(t, clients, 1)
	require.Equal(t, "Globex", clients[0].ClientName)
	require.Equal(t, 10.0, clients[0].TotalHours)
	require.Equal(t, 2000.0, clients[0].Revenue)
	require.Equal(t, 600.0, clients[0].LaborCost)
	require.Equal(t, 1400.0, clients[0].Profit)
	require.Equal(t, 70.0, clients[0].ProfitMargin)
}

func TestAggregator_TeamMetrics(t *testing.T) {
	agg := report.NewAggregator(0.6, nil)

	employees := []report.EmployeeProfitability{
		{UserID: 1, Username: "ada", TotalHours: 150, BillableHours: 120, RevenueGenerated: 12000},
		{UserID: 2, Username: "bob", TotalHours: 90, BillableHours: 45, RevenueGenerated: 4500},
	}

	team := agg.TeamMetrics(employees, 42, 160)
	require.Equal(t, 2, team.TeamSize)
	require.Equal(t, 320.0, team.TotalCapacityHours)
	require.Equal(t, 240.0, team.ActualHours)
	require.Equal(t, 165.0, team.BillableHours)
	require.Equal(t, 75.0, team.CapacityUtilization)
	require.Equal(t, 68.75, team.BillableUtilization)
	require.Equal(t, 51.56, team.OverallEfficiency)
	require.Equal(t, 100.0, team.TeamAverageRate)

	require.Len(t, team.TopPerformers, 2)
	require.Equal(t, "ada", team.TopPerformers[0].Username)

	require.Len(t, team.Underperformers, 1)
	require.Equal(t, "bob", team.Underperformers[0].Username)
}

func TestAggregator_TopPerformersCapped(t *testing.T) {
	agg := report.NewAggregator(0.6, nil)

	var employees []report.EmployeeProfitability
	for i := 0; i < 8; i++ {
		employees = append(employees, report.EmployeeProfitability{
			UserID:        int64(i),
			TotalHours:    100,
			BillableHours: float64(100 - i),
		})
	}

	team := agg.TeamMetrics(employees, 42, 160)
	require.Len(t, team.TopPerformers, 5)
	require.Equal(t, int64(0), team.TopPerformers[0].UserID)
}

func TestAggregator_FinancialSummaryAndCompare(t *testing.T) {
	agg := report.NewAggregator(0.6, nil)
	rng := testRange(t)

	current := agg.FinancialSummary(&toggl.SummaryReport{
		TotalGrand:      72_000_000,
		TotalBillable:   54_000_000,
		TotalCurrencies: []toggl.CurrencyAmount{{Currency: "USD", Amount: 3000}},
	}, "USD", "Acme", rng)
	require.Equal(t, 20.0, current.TotalHours)
	require.Equal(t, 15.0, current.BillableHours)
	require.Equal(t, 75.0, current.UtilizationRate)

	previous := agg.FinancialSummary(&toggl.SummaryReport{
		TotalGrand:      36_000_000,
		TotalCurrencies: []toggl.CurrencyAmount{{Currency: "USD", Amount: 2000}},
	}, "USD", "Acme", rng.Previous())

	report.Compare(&current, previous)
	require.NotNil(t, current.Previous)
	require.Equal(t, 10.0, current.Previous.HoursDelta)
	require.Equal(t, 100.0, current.Previous.HoursDeltaPct)
	require.Equal(t, 1000.0, current.Previous.RevenueDelta)
	require.Equal(t, 50.0, current.Previous.RevenueDeltaPct)
}

func TestAggregator_TimePatternInsights(t *testing.T) {
	agg := report.NewAggregator(0.6, nil)

	monday := time.Date(2025, time.August, 18, 9, 0, 0, 0, time.UTC)
	entries := []toggl.DetailedEntry{
		{Start: monday, Duration: 10_800_000, Project: "Alpha"},
		{Start: monday.Add(5 * time.Hour), Duration: 1_200_000},
	}

	insights := agg.TimePatternInsights(entries)
	require.Equal(t, 2, insights.EntryCount)
	require.Equal(t, []int{9, 14}, insights.PeakHours)
	require.Equal(t, []string{"Monday"}, insights.PeakWeekdays)
	require.Equal(t, 100.0, insights.AverageSessionMinutes)
	require.Equal(t, 1, insights.DeepWorkSessions)
	require.Equal(t, 50.0, insights.FragmentedSharePct)
	require.Equal(t, 2.0, insights.AvgSwitchesPerDay)
	require.Equal(t, 90.1, insights.ProjectDistribution["Alpha"])
	require.Equal(t, 9.9, insights.ProjectDistribution["No Project"])
}

func TestAggregator_TimePatternInsightsEmpty(t *testing.T) {
	agg := report.NewAggregator(0.6, nil)

	insights := agg.TimePatternInsights(nil)
	require.Zero(t, insights.EntryCount)
	require.Empty(t, insights.PeakHours)
	require.Empty(t, insights.ProjectDistribution)
}
