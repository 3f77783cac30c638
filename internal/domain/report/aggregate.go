package report

import (
	"log/slog"
	"math"
	"sort"

	"github.com/calegria/toggl-admin-mcp/internal/toggl"
)

// Aggregator computes derived metrics from raw report data. It holds
// no state beyond configuration and is safe for concurrent use.
type Aggregator struct {
	// laborCostShare is the fraction of the billing rate assumed to be
	// labor cost when the API exposes no cost rates.
	laborCostShare float64
	log            *slog.Logger
}

// DefaultLaborCostShare assumes labor costs 60% of the billing rate.
const DefaultLaborCostShare = 0.6

func NewAggregator(laborCostShare float64, log *slog.Logger) *Aggregator {
	if laborCostShare <= 0 || laborCostShare >= 1 {
		laborCostShare = DefaultLaborCostShare
	}
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{laborCostShare: laborCostShare, log: log}
}

func msToHours(ms int64) float64 {
	if ms <= 0 {
		return 0
	}
	return round2(float64(ms) / 3_600_000)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// currencyAmount picks the total for the given currency; when that
// currency is absent the first listed total is used.
func currencyAmount(totals []toggl.CurrencyAmount, currency string) float64 {
	for _, t := range totals {
		if t.Currency == currency {
			return t.Amount
		}
	}
	if len(totals) > 0 {
		return totals[0].Amount
	}
	return 0
}

// itemsLaborCost sums hours x rate x laborCostShare over summary items.
func (a *Aggregator) itemsLaborCost(items []toggl.SummaryItem) float64 {
	var cost float64
	for _, item := range items {
		cost += msToHours(item.Time) * item.Rate * a.laborCostShare
	}
	return round2(cost)
}

// checkPlausible logs aggregates that exceed the wall-clock capacity of
// the range. The value is reported as-is.
func (a *Aggregator) checkPlausible(hours float64, rng DateRange, scope string) {
	if limit := float64(rng.Days()) * 24; hours > limit {
		a.log.Warn("tracked hours exceed range capacity", "scope", scope, "hours", hours, "range", rng.String())
	}
}

// ProfitabilityTotals computes revenue, labor cost and profit from
// Reports v3 rows, which carry exact cent amounts per entry group.
func (a *Aggregator) ProfitabilityTotals(rows []toggl.SearchTimeEntriesRow, currency string) ProfitabilityTotals {
	var revenue, laborCost, hours float64
	for _, row := range rows {
		revenue += float64(row.BillableAmountInCents) / 100
		laborRate := float64(row.HourlyRateInCents) / 100 * a.laborCostShare
		for _, entry := range row.TimeEntries {
			h := float64(entry.Seconds) / 3600
			laborCost += laborRate * h
			hours += h
		}
	}

	revenue = round2(revenue)
	laborCost = round2(laborCost)
	profit := round2(revenue - laborCost)

	var avgRate float64
	if hours > 0 {
		avgRate = round2(revenue / hours)
	}
	return ProfitabilityTotals{
		TotalRevenue:      revenue,
		TotalLaborCost:    laborCost,
		TotalProfit:       profit,
		ProfitMargin:      round2(margin(profit, revenue)),
		TotalHours:        round2(hours),
		AverageHourlyRate: avgRate,
		Currency:          currency,
		LaborCostShare:    a.laborCostShare,
	}
}

// OrganizationSummary combines the project, user and client groupings
// of one period into the workspace-wide view.
func (a *Aggregator) OrganizationSummary(ws *toggl.Workspace, projects, users, clients *toggl.SummaryReport, rng DateRange) OrganizationSummary {
	totalHours := msToHours(projects.TotalGrand)
	billableHours := msToHours(projects.TotalBillable)
	a.checkPlausible(totalHours, rng, "organization")

	revenue := round2(currencyAmount(projects.TotalCurrencies, ws.DefaultCurrency))

	var laborCost float64
	var entryCount int
	for _, group := range projects.Data {
		laborCost += a.itemsLaborCost(group.Items)
		entryCount += len(group.Items)
	}
	laborCost = round2(laborCost)

	var avgRate float64
	if billableHours > 0 {
		avgRate = round2(revenue / billableHours)
	}

	return OrganizationSummary{
		WorkspaceID:       ws.ID,
		WorkspaceName:     ws.Name,
		DateRange:         rng.String(),
		Currency:          ws.DefaultCurrency,
		TotalHours:        totalHours,
		BillableHours:     billableHours,
		NonBillableHours:  round2(totalHours - billableHours),
		TotalRevenue:      revenue,
		TotalLaborCost:    laborCost,
		TotalProfit:       round2(revenue - laborCost),
		AverageHourlyRate: avgRate,
		ActiveProjects:    countGroups(projects),
		ActiveUsers:       countGroups(users),
		ActiveClients:     countGroups(clients),
		TotalTimeEntries:  entryCount,
	}
}

func countGroups(summary *toggl.SummaryReport) int {
	if summary == nil {
		return 0
	}
	n := 0
	for _, group := range summary.Data {
		if group.ID != nil {
			n++
		}
	}
	return n
}

// ProjectProfitability derives per-project metrics from a
// projects-grouped summary. Ungrouped rows are skipped.
func (a *Aggregator) ProjectProfitability(summary *toggl.SummaryReport, currency string, rng DateRange) []ProjectProfitability {
	var projects []ProjectProfitability
	for _, group := range summary.Data {
		if group.ID == nil {
			continue
		}

		totalHours := msToHours(group.Time)
		a.checkPlausible(totalHours, rng, "project")
		// The summary grouping carries no billable split per group;
		// treat all grouped time as billable, as the source data does.
		billableHours := totalHours

		revenue := round2(currencyAmount(group.TotalCurrencies, currency))
		laborCost := a.itemsLaborCost(group.Items)
		profit := round2(revenue - laborCost)

		var rate float64
		if billableHours > 0 {
			rate = round2(revenue / billableHours)
		}

		projects = append(projects, ProjectProfitability{
			ProjectID:        *group.ID,
			ProjectName:      groupName(group.Title, "Unknown Project"),
			ClientName:       group.Title.Client,
			TotalHours:       totalHours,
			BillableHours:    billableHours,
			NonBillableHours: round2(totalHours - billableHours),
			Revenue:          revenue,
			LaborCost:        laborCost,
			Profit:           profit,
			ProfitMargin:     round2(margin(profit, revenue)),
			BillableRate:     rate,
			Currency:         currency,
			ActiveUsers:      1,
			TimeEntryCount:   len(group.Items),
		})
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Profit > projects[j].Profit
	})
	return projects
}

// EmployeeProfitability derives per-user metrics from a users-grouped
// summary, sorted by utilization.
func (a *Aggregator) EmployeeProfitability(summary *toggl.SummaryReport, currency string, rng DateRange) []EmployeeProfitability {
	var employees []EmployeeProfitability
	for _, group := range summary.Data {
		if group.ID == nil {
			continue
		}

		totalHours := msToHours(group.Time)
		a.checkPlausible(totalHours, rng, "user")
		billableHours := totalHours

		revenue := round2(currencyAmount(group.TotalCurrencies, currency))
		laborCost := a.itemsLaborCost(group.Items)

		var rate float64
		if billableHours > 0 {
			rate = round2(revenue / billableHours)
		}

		employees = append(employees, EmployeeProfitability{
			UserID:           *group.ID,
			Username:         groupName(group.Title, "Unknown User"),
			TotalHours:       totalHours,
			BillableHours:    billableHours,
			NonBillableHours: round2(totalHours - billableHours),
			BillableRate:     rate,
			LaborCost:        laborCost,
			RevenueGenerated: revenue,
			ProjectsWorked:   len(group.Items),
			TimeEntryCount:   len(group.Items),
		})
	}
	sort.SliceStable(employees, func(i, j int) bool {
		return employees[i].UtilizationRate() > employees[j].UtilizationRate()
	})
	return employees
}

// ClientProfitability derives per-client metrics from a clients-grouped
// summary, sorted by profit.
func (a *Aggregator) ClientProfitability(summary *toggl.SummaryReport, currency string, rng DateRange) []ClientProfitability {
	var clients []ClientProfitability
	for _, group := range summary.Data {
		if group.ID == nil {
			continue
		}

		totalHours := msToHours(group.Time)
		a.checkPlausible(totalHours, rng, "client")

		revenue := round2(currencyAmount(group.TotalCurrencies, currency))
		laborCost := a.itemsLaborCost(group.Items)
		profit := round2(revenue - laborCost)

		clients = append(clients, ClientProfitability{
			ClientID:       *group.ID,
			ClientName:     groupName(group.Title, "No Client"),
			TotalHours:     totalHours,
			BillableHours:  totalHours,
			Revenue:        revenue,
			LaborCost:      laborCost,
			Profit:         profit,
			ProfitMargin:   round2(margin(profit, revenue)),
			ActiveProjects: len(group.Items),
			Currency:       currency,
		})
	}
	sort.SliceStable(clients, func(i, j int) bool {
		return clients[i].Profit > clients[j].Profit
	})
	return clients
}

const underperformerUtilization = 60.0

// TeamMetrics computes team-wide capacity and utilization from employee
// rows. expectedHours is the per-person capacity for the period.
func (a *Aggregator) TeamMetrics(employees []EmployeeProfitability, workspaceID int64, expectedHours float64) TeamProductivityMetrics {
	teamSize := len(employees)
	capacity := float64(teamSize) * expectedHours

	var actual, billable, revenue float64
	for _, e := range employees {
		actual += e.TotalHours
		billable += e.BillableHours
		revenue += e.RevenueGenerated
	}

	var capacityUtil, efficiency float64
	if capacity > 0 {
		capacityUtil = actual / capacity * 100
		efficiency = billable / capacity * 100
	}

	var avgRate float64
	if billable > 0 {
		avgRate = round2(revenue / billable)
	}

	sorted := append([]EmployeeProfitability(nil), employees...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UtilizationRate() > sorted[j].UtilizationRate()
	})
	top := sorted
	if len(top) > 5 {
		top = top[:5]
	}
	var under []EmployeeProfitability
	for _, e := range employees {
		if e.UtilizationRate() < underperformerUtilization {
			under = append(under, e)
		}
	}

	return TeamProductivityMetrics{
		WorkspaceID:         workspaceID,
		TeamSize:            teamSize,
		TotalCapacityHours:  capacity,
		ActualHours:         round2(actual),
		BillableHours:       round2(billable),
		CapacityUtilization: round2(capacityUtil),
		BillableUtilization: round2(utilization(billable, actual)),
		OverallEfficiency:   round2(efficiency),
		TeamAverageRate:     avgRate,
		TopPerformers:       top,
		Underperformers:     under,
	}
}

// FinancialSummary derives the high-level hour and revenue split for
// one period.
func (a *Aggregator) FinancialSummary(summary *toggl.SummaryReport, currency, workspaceName string, rng DateRange) FinancialSummary {
	totalHours := msToHours(summary.TotalGrand)
	billableHours := msToHours(summary.TotalBillable)
	a.checkPlausible(totalHours, rng, "financial")

	return FinancialSummary{
		Range:            rng,
		WorkspaceName:    workspaceName,
		Currency:         currency,
		TotalHours:       totalHours,
		BillableHours:    billableHours,
		NonBillableHours: round2(totalHours - billableHours),
		TotalRevenue:     round2(currencyAmount(summary.TotalCurrencies, currency)),
		UtilizationRate:  round2(utilization(billableHours, totalHours)),
	}
}

// Compare fills the previous-period comparison of a financial summary.
func Compare(current *FinancialSummary, previous FinancialSummary) {
	cmp := &PeriodComparison{
		Range:        previous.Range,
		TotalHours:   previous.TotalHours,
		TotalRevenue: previous.TotalRevenue,
		HoursDelta:   round2(current.TotalHours - previous.TotalHours),
		RevenueDelta: round2(current.TotalRevenue - previous.TotalRevenue),
	}
	if previous.TotalHours > 0 {
		cmp.HoursDeltaPct = round2(cmp.HoursDelta / previous.TotalHours * 100)
	}
	if previous.TotalRevenue > 0 {
		cmp.RevenueDeltaPct = round2(cmp.RevenueDelta / previous.TotalRevenue * 100)
	}
	current.Previous = cmp
}

const (
	deepWorkMinutes   = 120
	fragmentedMinutes = 30
)

// TimePatternInsights analyzes individual entry rows for tracking
// patterns: peak hours and days, session lengths, fragmentation and
// per-project distribution.
func (a *Aggregator) TimePatternInsights(entries []toggl.DetailedEntry) TimePatternInsights {
	if len(entries) == 0 {
		return TimePatternInsights{ProjectDistribution: map[string]float64{}}
	}

	hourTotals := make(map[int]float64)
	dayTotals := make(map[string]float64)
	projectHours := make(map[string]float64)
	switchesPerDay := make(map[string]int)

	var sessionMinutesSum float64
	var deepWork, fragmented int

	for _, entry := range entries {
		hours := msToHours(entry.Duration)
		start := entry.Start

		hourTotals[start.Hour()] += hours
		dayTotals[start.Weekday().String()] += hours

		minutes := float64(entry.Duration) / 60_000
		sessionMinutesSum += minutes
		if minutes >= deepWorkMinutes {
			deepWork++
		}
		if minutes < fragmentedMinutes {
			fragmented++
		}

		project := entry.Project
		if project == "" {
			project = "No Project"
		}
		projectHours[project] += hours

		switchesPerDay[start.Format(dateLayout)]++
	}

	var totalProjectHours float64
	for _, h := range projectHours {
		totalProjectHours += h
	}
	distribution := make(map[string]float64, len(projectHours))
	if totalProjectHours > 0 {
		for project, h := range projectHours {
			distribution[project] = math.Round(h/totalProjectHours*1000) / 10
		}
	}

	var switchesTotal int
	for _, n := range switchesPerDay {
		switchesTotal += n
	}

	return TimePatternInsights{
		PeakHours:             topHours(hourTotals, 8),
		PeakWeekdays:          topDays(dayTotals, 3),
		AverageSessionMinutes: round2(sessionMinutesSum / float64(len(entries))),
		DeepWorkSessions:      deepWork,
		FragmentedSharePct:    round2(float64(fragmented) / float64(len(entries)) * 100),
		ProjectDistribution:   distribution,
		AvgSwitchesPerDay:     round2(float64(switchesTotal) / float64(len(switchesPerDay))),
		EntryCount:            len(entries),
	}
}

func topHours(totals map[int]float64, n int) []int {
	hours := make([]int, 0, len(totals))
	for h := range totals {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool {
		if totals[hours[i]] != totals[hours[j]] {
			return totals[hours[i]] > totals[hours[j]]
		}
		return hours[i] < hours[j]
	})
	if len(hours) > n {
		hours = hours[:n]
	}
	return hours
}

func topDays(totals map[string]float64, n int) []string {
	days := make([]string, 0, len(totals))
	for d := range totals {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		if totals[days[i]] != totals[days[j]] {
			return totals[days[i]] > totals[days[j]]
		}
		return days[i] < days[j]
	})
	if len(days) > n {
		days = days[:n]
	}
	return days
}

func groupName(title toggl.GroupTitle, fallback string) string {
	if name := title.Name(); name != "" {
		return name
	}
	return fallback
}
