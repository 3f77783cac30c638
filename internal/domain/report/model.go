package report

import (
	"fmt"
	"sort"
	"time"
)

// DateRange is an inclusive calendar date range for a report.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

const dateLayout = "2006-01-02"

// Since returns the start date in API format.
func (r DateRange) Since() string { return r.Start.Format(dateLayout) }

// Until returns the end date in API format.
func (r DateRange) Until() string { return r.End.Format(dateLayout) }

// Days returns the number of calendar days covered, inclusive.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s to %s", r.Since(), r.Until())
}

// Previous returns the range of equal length immediately before this one.
func (r DateRange) Previous() DateRange {
	days := r.Days()
	end := r.Start.AddDate(0, 0, -1)
	return DateRange{Start: end.AddDate(0, 0, -(days - 1)), End: end}
}

// OrganizationSummary is the workspace-wide view over one date range.
type OrganizationSummary struct {
	WorkspaceID       int64   `json:"workspace_id"`
	WorkspaceName     string  `json:"workspace_name"`
	DateRange         string  `json:"date_range"`
	Currency          string  `json:"currency"`
	TotalHours        float64 `json:"total_hours"`
	BillableHours     float64 `json:"billable_hours"`
	NonBillableHours  float64 `json:"non_billable_hours"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalLaborCost    float64 `json:"total_labor_cost"`
	TotalProfit       float64 `json:"total_profit"`
	AverageHourlyRate float64 `json:"average_hourly_rate"`
	ActiveProjects    int     `json:"active_projects"`
	ActiveClients     int     `json:"active_clients"`
	ActiveUsers       int     `json:"active_users"`
	TotalTimeEntries  int     `json:"total_time_entries"`
}

// AverageProjectSize returns mean tracked hours per active project.
func (s OrganizationSummary) AverageProjectSize() float64 {
	if s.ActiveProjects == 0 {
		return 0
	}
	return s.TotalHours / float64(s.ActiveProjects)
}

// AverageUserHours returns mean tracked hours per active user.
func (s OrganizationSummary) AverageUserHours() float64 {
	if s.ActiveUsers == 0 {
		return 0
	}
	return s.TotalHours / float64(s.ActiveUsers)
}

// ProjectProfitability is the per-project derived view.
type ProjectProfitability struct {
	ProjectID        int64   `json:"project_id"`
	ProjectName      string  `json:"project_name"`
	ClientName       string  `json:"client_name,omitempty"`
	TotalHours       float64 `json:"total_hours"`
	BillableHours    float64 `json:"billable_hours"`
	NonBillableHours float64 `json:"non_billable_hours"`
	Revenue          float64 `json:"revenue"`
	LaborCost        float64 `json:"labor_cost"`
	Profit           float64 `json:"profit"`
	ProfitMargin     float64 `json:"profit_margin"`
	BillableRate     float64 `json:"billable_rate"`
	Currency         string  `json:"currency"`
	ActiveUsers      int     `json:"active_users"`
	TimeEntryCount   int     `json:"time_entry_count"`
}

// UtilizationRate returns billable hours as a percentage of total.
func (p ProjectProfitability) UtilizationRate() float64 {
	return utilization(p.BillableHours, p.TotalHours)
}

// EmployeeProfitability is the per-user derived view.
type EmployeeProfitability struct {
	UserID           int64   `json:"user_id"`
	Username         string  `json:"username"`
	TotalHours       float64 `json:"total_hours"`
	BillableHours    float64 `json:"billable_hours"`
	NonBillableHours float64 `json:"non_billable_hours"`
	BillableRate     float64 `json:"billable_rate"`
	LaborCost        float64 `json:"labor_cost"`
	RevenueGenerated float64 `json:"revenue_generated"`
	ProjectsWorked   int     `json:"projects_worked"`
	TimeEntryCount   int     `json:"time_entry_count"`
}

// UtilizationRate returns billable hours as a percentage of total.
func (e EmployeeProfitability) UtilizationRate() float64 {
	return utilization(e.BillableHours, e.TotalHours)
}

// Profit returns revenue minus labor cost.
func (e EmployeeProfitability) Profit() float64 {
	return e.RevenueGenerated - e.LaborCost
}

// ProfitMargin returns profit as a percentage of revenue.
func (e EmployeeProfitability) ProfitMargin() float64 {
	return margin(e.Profit(), e.RevenueGenerated)
}

// ClientProfitability is the per-client derived view.
type ClientProfitability struct {
	ClientID       int64   `json:"client_id"`
	ClientName     string  `json:"client_name"`
	TotalHours     float64 `json:"total_hours"`
	BillableHours  float64 `json:"billable_hours"`
	Revenue        float64 `json:"revenue"`
	LaborCost      float64 `json:"labor_cost"`
	Profit         float64 `json:"profit"`
	ProfitMargin   float64 `json:"profit_margin"`
	ActiveProjects int     `json:"active_projects"`
	Currency       string  `json:"currency"`
}

// TeamProductivityMetrics summarizes team capacity and utilization.
type TeamProductivityMetrics struct {
	WorkspaceID         int64                   `json:"workspace_id"`
	TeamSize            int                     `json:"team_size"`
	TotalCapacityHours  float64                 `json:"total_capacity_hours"`
	ActualHours         float64                 `json:"actual_hours"`
	BillableHours       float64                 `json:"billable_hours"`
	CapacityUtilization float64                 `json:"capacity_utilization"`
	BillableUtilization float64                 `json:"billable_utilization"`
	OverallEfficiency   float64                 `json:"overall_efficiency"`
	TeamAverageRate     float64                 `json:"team_average_rate"`
	TopPerformers       []EmployeeProfitability `json:"top_performers"`
	Underperformers     []EmployeeProfitability `json:"underperformers"`
}

// ProfitabilityTotals is computed from Reports v3 entry rows, which
// carry exact per-entry billing amounts and rates.
type ProfitabilityTotals struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalLaborCost    float64 `json:"total_labor_cost"`
	TotalProfit       float64 `json:"total_profit"`
	ProfitMargin      float64 `json:"profit_margin"`
	TotalHours        float64 `json:"total_hours"`
	AverageHourlyRate float64 `json:"average_hourly_rate"`
	Currency          string  `json:"currency"`
	LaborCostShare    float64 `json:"labor_cost_share"`
}

// PeriodComparison carries deltas against the preceding period.
type PeriodComparison struct {
	Range           DateRange `json:"range"`
	TotalHours      float64   `json:"total_hours"`
	TotalRevenue    float64   `json:"total_revenue"`
	HoursDelta      float64   `json:"hours_delta"`
	HoursDeltaPct   float64   `json:"hours_delta_pct"`
	RevenueDelta    float64   `json:"revenue_delta"`
	RevenueDeltaPct float64   `json:"revenue_delta_pct"`
}

// FinancialSummary is the high-level financial view for one period.
type FinancialSummary struct {
	Range            DateRange         `json:"range"`
	WorkspaceName    string            `json:"workspace_name"`
	Currency         string            `json:"currency"`
	TotalHours       float64           `json:"total_hours"`
	BillableHours    float64           `json:"billable_hours"`
	NonBillableHours float64           `json:"non_billable_hours"`
	TotalRevenue     float64           `json:"total_revenue"`
	UtilizationRate  float64           `json:"utilization_rate"`
	Previous         *PeriodComparison `json:"previous,omitempty"`
}

// TimePatternInsights describes tracking patterns derived from
// individual entries.
type TimePatternInsights struct {
	PeakHours             []int              `json:"peak_hours"`
	PeakWeekdays          []string           `json:"peak_weekdays"`
	AverageSessionMinutes float64            `json:"average_session_minutes"`
	DeepWorkSessions      int                `json:"deep_work_sessions"`
	FragmentedSharePct    float64            `json:"fragmented_share_pct"`
	ProjectDistribution   map[string]float64 `json:"project_distribution"`
	AvgSwitchesPerDay     float64            `json:"avg_switches_per_day"`
	EntryCount            int                `json:"entry_count"`
}

// ProductivityInsights is the output of the productivity insights
// operation; Patterns is present only when detailed analysis was asked.
type ProductivityInsights struct {
	Range         DateRange            `json:"range"`
	WorkspaceName string               `json:"workspace_name"`
	Totals        ProfitabilityTotals  `json:"totals"`
	Patterns      *TimePatternInsights `json:"patterns,omitempty"`
}

// ProjectAnalysis is the output of the project profitability operation.
type ProjectAnalysis struct {
	Range    DateRange              `json:"range"`
	Currency string                 `json:"currency"`
	SortedBy SortKey                `json:"sorted_by"`
	MinHours float64                `json:"min_hours"`
	Projects []ProjectProfitability `json:"projects"`
}

// TeamReport is the output of the team productivity operation.
type TeamReport struct {
	Range    DateRange               `json:"range"`
	Currency string                  `json:"currency"`
	Members  []EmployeeProfitability `json:"members,omitempty"`
	Team     TeamProductivityMetrics `json:"team"`
}

// ClientAnalysis is the output of the client profitability operation.
type ClientAnalysis struct {
	Range      DateRange             `json:"range"`
	Currency   string                `json:"currency"`
	MinRevenue float64               `json:"min_revenue"`
	Clients    []ClientProfitability `json:"clients"`
}

// AdminReport is the composite organization dashboard.
type AdminReport struct {
	ID            string                  `json:"id"`
	WorkspaceID   int64                   `json:"workspace_id"`
	WorkspaceName string                  `json:"workspace_name"`
	Range         DateRange               `json:"range"`
	GeneratedAt   time.Time               `json:"generated_at"`
	Organization  OrganizationSummary     `json:"organization"`
	Totals        ProfitabilityTotals     `json:"totals"`
	Projects      []ProjectProfitability  `json:"projects"`
	Employees     []EmployeeProfitability `json:"employees"`
	Clients       []ClientProfitability   `json:"clients"`
	Team          TeamProductivityMetrics `json:"team"`
}

// TopProjectsByProfit returns up to n projects ordered by profit.
func (r *AdminReport) TopProjectsByProfit(n int) []ProjectProfitability {
	projects := append([]ProjectProfitability(nil), r.Projects...)
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Profit > projects[j].Profit
	})
	if len(projects) > n {
		projects = projects[:n]
	}
	return projects
}

// TopEmployeesByUtilization returns up to n employees ordered by
// utilization rate.
func (r *AdminReport) TopEmployeesByUtilization(n int) []EmployeeProfitability {
	employees := append([]EmployeeProfitability(nil), r.Employees...)
	sort.SliceStable(employees, func(i, j int) bool {
		return employees[i].UtilizationRate() > employees[j].UtilizationRate()
	})
	if len(employees) > n {
		employees = employees[:n]
	}
	return employees
}

// UnderperformingProjects returns projects whose margin is below the
// threshold, worst first.
func (r *AdminReport) UnderperformingProjects(marginBelow float64) []ProjectProfitability {
	var out []ProjectProfitability
	for _, p := range r.Projects {
		if p.ProfitMargin < marginBelow {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ProfitMargin < out[j].ProfitMargin
	})
	return out
}

func utilization(billable, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return billable / total * 100
}

func margin(profit, revenue float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return profit / revenue * 100
}
