package mcp

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/calegria/toggl-admin-mcp/internal/domain/report"
	"github.com/calegria/toggl-admin-mcp/internal/domain/tracking"
	"github.com/calegria/toggl-admin-mcp/internal/toggl"
)

// money formats an amount with thousands separators and two decimals.
func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(frac)
	return b.String()
}

func hours(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "h"
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func renderStarted(entry *toggl.TimeEntry) string {
	return fmt.Sprintf("Started tracking %q (entry %d, workspace %d).", entry.Description, entry.ID, entry.WorkspaceID)
}

func renderStopped(entry *toggl.TimeEntry) string {
	dur := time.Duration(entry.Duration) * time.Second
	return fmt.Sprintf("Stopped tracking %q after %s.", entry.Description, dur)
}

func renderCurrent(entry *toggl.TimeEntry) string {
	if entry == nil {
		return "No time entry is currently running."
	}
	elapsed := time.Since(entry.Start).Round(time.Second)
	return fmt.Sprintf("Currently tracking %q (started %s, %s elapsed).",
		entry.Description, entry.Start.Format(time.RFC3339), elapsed)
}

func renderWorkspaces(workspaces []toggl.Workspace) string {
	if len(workspaces) == 0 {
		return "No workspaces available."
	}
	var b strings.Builder
	b.WriteString("Available workspaces:\n")
	for _, ws := range workspaces {
		fmt.Fprintf(&b, "- %s (ID: %d)\n", ws.Name, ws.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderConnectionTest(status *tracking.Status) string {
	var b strings.Builder
	b.WriteString("**Connection Test**\n")
	fmt.Fprintf(&b, "- Account: %s (%s)\n", status.User.Fullname, status.User.Email)
	fmt.Fprintf(&b, "- Default workspace: %d\n", status.User.DefaultWorkspaceID)
	fmt.Fprintf(&b, "- Workspaces visible: %d\n", status.WorkspaceCount)
	b.WriteString("- Status: connected")
	return b.String()
}

func renderDashboard(r *report.AdminReport) string {
	org := r.Organization
	cur := org.Currency

	var b strings.Builder
	fmt.Fprintf(&b, "**ORGANIZATION DASHBOARD** - %s\n", r.WorkspaceName)
	fmt.Fprintf(&b, "Period: %s\n\n", r.Range.String())

	b.WriteString("**KEY METRICS**\n")
	fmt.Fprintf(&b, "- Total Hours: %s\n", hours(r.Totals.TotalHours))
	fmt.Fprintf(&b, "- Total Revenue: %s %s\n", cur, money(r.Totals.TotalRevenue))
	fmt.Fprintf(&b, "- Total Labor Cost: %s %s\n", cur, money(r.Totals.TotalLaborCost))
	fmt.Fprintf(&b, "- Total Profit: %s %s (%s margin)\n", cur, money(r.Totals.TotalProfit), pct(r.Totals.ProfitMargin))
	fmt.Fprintf(&b, "- Average Rate: %s %s/hour\n", cur, money(r.Totals.AverageHourlyRate))
	fmt.Fprintf(&b, "- Labor Cost Share: %.0f%% of billing rate\n\n", r.Totals.LaborCostShare*100)

	b.WriteString("**ORGANIZATIONAL HEALTH**\n")
	fmt.Fprintf(&b, "- Active Projects: %d\n", org.ActiveProjects)
	fmt.Fprintf(&b, "- Active Team Members: %d\n", org.ActiveUsers)
	fmt.Fprintf(&b, "- Active Clients: %d\n", org.ActiveClients)
	fmt.Fprintf(&b, "- Time Entries: %d\n", org.TotalTimeEntries)
	fmt.Fprintf(&b, "- Avg Hours/Project: %s\n", hours(org.AverageProjectSize()))
	fmt.Fprintf(&b, "- Avg Hours/Person: %s\n\n", hours(org.AverageUserHours()))

	b.WriteString("**TOP PROJECTS** (by profit)\n")
	top := r.TopProjectsByProfit(5)
	if len(top) == 0 {
		b.WriteString("- none\n")
	}
	for _, p := range top {
		fmt.Fprintf(&b, "- %s: %s %s (%s margin)\n", p.ProjectName, cur, money(p.Profit), pct(p.ProfitMargin))
	}

	b.WriteString("\n**TOP PERFORMERS** (by utilization)\n")
	performers := r.TopEmployeesByUtilization(5)
	if len(performers) == 0 {
		b.WriteString("- none\n")
	}
	for _, e := range performers {
		fmt.Fprintf(&b, "- %s: %s utilization, %s\n", e.Username, pct(e.UtilizationRate()), hours(e.TotalHours))
	}

	b.WriteString("\n**AREAS FOR ATTENTION**\n")
	under := r.UnderperformingProjects(20)
	if len(under) > 3 {
		under = under[:3]
	}
	if len(under) == 0 {
		b.WriteString("- none")
	}
	for i, p := range under {
		fmt.Fprintf(&b, "- %s: %s margin (low profitability)", p.ProjectName, pct(p.ProfitMargin))
		if i < len(under)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderProjectAnalysis(a *report.ProjectAnalysis) string {
	if len(a.Projects) == 0 {
		return "No projects found matching the criteria."
	}
	cur := a.Currency

	var b strings.Builder
	b.WriteString("**PROJECT PROFITABILITY ANALYSIS**\n")
	fmt.Fprintf(&b, "Period: %s\n", a.Range.String())
	fmt.Fprintf(&b, "Showing %d projects (min %sh, sorted by %s)\n", len(a.Projects), strconv.FormatFloat(a.MinHours, 'f', -1, 64), a.SortedBy)

	shown := a.Projects
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for i, p := range shown {
		fmt.Fprintf(&b, "\n**%d. %s**\n", i+1, p.ProjectName)
		if p.ClientName != "" {
			fmt.Fprintf(&b, "   Client: %s\n", p.ClientName)
		}
		fmt.Fprintf(&b, "   - Hours: %s total, %s billable (%s util)\n", hours(p.TotalHours), hours(p.BillableHours), pct(p.UtilizationRate()))
		fmt.Fprintf(&b, "   - Revenue: %s %s\n", cur, money(p.Revenue))
		fmt.Fprintf(&b, "   - Profit: %s %s (%s margin)\n", cur, money(p.Profit), pct(p.ProfitMargin))
		fmt.Fprintf(&b, "   - Rate: %s %s/hour (avg)\n", cur, money(p.BillableRate))
		fmt.Fprintf(&b, "   - Entries: %d\n", p.TimeEntryCount)
	}

	var totalRevenue, totalProfit, marginSum float64
	for _, p := range a.Projects {
		totalRevenue += p.Revenue
		totalProfit += p.Profit
		marginSum += p.ProfitMargin
	}
	avgMargin := marginSum / float64(len(a.Projects))

	b.WriteString("\n**SUMMARY STATISTICS**\n")
	fmt.Fprintf(&b, "- Total Revenue: %s %s\n", cur, money(totalRevenue))
	fmt.Fprintf(&b, "- Total Profit: %s %s\n", cur, money(totalProfit))
	fmt.Fprintf(&b, "- Average Margin: %s\n", pct(avgMargin))
	fmt.Fprintf(&b, "- Most Profitable: %s (%s margin)", a.Projects[0].ProjectName, pct(a.Projects[0].ProfitMargin))
	return b.String()
}

func renderTeamReport(r *report.TeamReport) string {
	if r.Team.TeamSize == 0 {
		return "No team members found or data available for this period."
	}
	cur := r.Currency

	var b strings.Builder
	b.WriteString("**TEAM PRODUCTIVITY REPORT**\n")
	fmt.Fprintf(&b, "Period: %s\n", r.Range.String())
	fmt.Fprintf(&b, "Team size: %d members\n\n", r.Team.TeamSize)

	b.WriteString("**TEAM CAPACITY**\n")
	fmt.Fprintf(&b, "- Capacity: %s\n", hours(r.Team.TotalCapacityHours))
	fmt.Fprintf(&b, "- Actual: %s (%s of capacity)\n", hours(r.Team.ActualHours), pct(r.Team.CapacityUtilization))
	fmt.Fprintf(&b, "- Billable: %s (%s of actual)\n", hours(r.Team.BillableHours), pct(r.Team.BillableUtilization))
	fmt.Fprintf(&b, "- Overall Efficiency: %s\n", pct(r.Team.OverallEfficiency))
	fmt.Fprintf(&b, "- Average Rate: %s %s/hour\n", cur, money(r.Team.TeamAverageRate))

	for i, e := range r.Members {
		fmt.Fprintf(&b, "\n**%d. %s**\n", i+1, e.Username)
		fmt.Fprintf(&b, "   - Total Hours: %s\n", hours(e.TotalHours))
		fmt.Fprintf(&b, "   - Billable Hours: %s (%s util)\n", hours(e.BillableHours), pct(e.UtilizationRate()))
		fmt.Fprintf(&b, "   - Revenue: %s %s\n", cur, money(e.RevenueGenerated))
		fmt.Fprintf(&b, "   - Profit: %s %s (%s margin)\n", cur, money(e.Profit()), pct(e.ProfitMargin()))
		fmt.Fprintf(&b, "   - Rate: %s %s/hour (avg)\n", cur, money(e.BillableRate))
		fmt.Fprintf(&b, "   - Projects: %d\n", e.ProjectsWorked)
	}

	if len(r.Team.Underperformers) > 0 {
		b.WriteString("\n**BELOW 60% UTILIZATION**\n")
		for _, e := range r.Team.Underperformers {
			fmt.Fprintf(&b, "- %s: %s\n", e.Username, pct(e.UtilizationRate()))
		}
	}

	if len(r.Team.TopPerformers) > 0 {
		best := r.Team.TopPerformers[0]
		fmt.Fprintf(&b, "\nMost productive: %s (%s util)", best.Username, pct(best.UtilizationRate()))
	}
	return b.String()
}

func renderClientAnalysis(a *report.ClientAnalysis) string {
	if len(a.Clients) == 0 {
		return "No clients found matching the criteria."
	}
	cur := a.Currency

	var b strings.Builder
	b.WriteString("**CLIENT PROFITABILITY ANALYSIS**\n")
	fmt.Fprintf(&b, "Period: %s\n", a.Range.String())
	fmt.Fprintf(&b, "Showing %d clients\n", len(a.Clients))

	shown := a.Clients
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for i, c := range shown {
		fmt.Fprintf(&b, "\n**%d. %s**\n", i+1, c.ClientName)
		fmt.Fprintf(&b, "   - Total Revenue: %s %s\n", cur, money(c.Revenue))
		fmt.Fprintf(&b, "   - Total Profit: %s %s (%s margin)\n", cur, money(c.Profit), pct(c.ProfitMargin))
		fmt.Fprintf(&b, "   - Projects: %d\n", c.ActiveProjects)
	}

	var totalRevenue, totalProfit, marginSum float64
	for _, c := range a.Clients {
		totalRevenue += c.Revenue
		totalProfit += c.Profit
		marginSum += c.ProfitMargin
	}
	avgMargin := marginSum / float64(len(a.Clients))

	b.WriteString("\n**SUMMARY STATISTICS**\n")
	fmt.Fprintf(&b, "- Total Revenue: %s %s\n", cur, money(totalRevenue))
	fmt.Fprintf(&b, "- Total Profit: %s %s\n", cur, money(totalProfit))
	fmt.Fprintf(&b, "- Average Margin: %s\n", pct(avgMargin))
	fmt.Fprintf(&b, "- Most Profitable: %s (%s margin)", a.Clients[0].ClientName, pct(a.Clients[0].ProfitMargin))
	return b.String()
}

func renderFinancialSummary(s *report.FinancialSummary) string {
	cur := s.Currency

	var b strings.Builder
	b.WriteString("**FINANCIAL SUMMARY**\n")
	fmt.Fprintf(&b, "Period: %s\n", s.Range.String())
	fmt.Fprintf(&b, "Workspace: %s\n\n", s.WorkspaceName)

	fmt.Fprintf(&b, "- Total Hours: %s\n", hours(s.TotalHours))
	fmt.Fprintf(&b, "- Billable Hours: %s\n", hours(s.BillableHours))
	fmt.Fprintf(&b, "- Non-Billable Hours: %s\n", hours(s.NonBillableHours))
	fmt.Fprintf(&b, "- Total Revenue: %s %s\n", cur, money(s.TotalRevenue))
	fmt.Fprintf(&b, "- Utilization Rate: %s", pct(s.UtilizationRate))

	if prev := s.Previous; prev != nil {
		b.WriteString("\n\n**COMPARISON WITH PREVIOUS PERIOD**\n")
		fmt.Fprintf(&b, "Previous period: %s\n", prev.Range.String())
		fmt.Fprintf(&b, "- Hours: %s, change %+.1fh (%+.1f%%)\n", hours(prev.TotalHours), prev.HoursDelta, prev.HoursDeltaPct)
		fmt.Fprintf(&b, "- Revenue: %s %s, change %+.2f (%+.1f%%)", cur, money(prev.TotalRevenue), prev.RevenueDelta, prev.RevenueDeltaPct)
	}
	return b.String()
}

func renderInsights(s *report.ProductivityInsights) string {
	cur := s.Totals.Currency

	var b strings.Builder
	b.WriteString("**PRODUCTIVITY INSIGHTS**\n")
	fmt.Fprintf(&b, "Period: %s\n", s.Range.String())
	fmt.Fprintf(&b, "Workspace: %s\n\n", s.WorkspaceName)

	b.WriteString("**PROFITABILITY METRICS**\n")
	fmt.Fprintf(&b, "- Total Hours: %s\n", hours(s.Totals.TotalHours))
	fmt.Fprintf(&b, "- Average Hourly Rate: %s %s\n", cur, money(s.Totals.AverageHourlyRate))
	fmt.Fprintf(&b, "- Total Revenue: %s %s\n", cur, money(s.Totals.TotalRevenue))
	fmt.Fprintf(&b, "- Total Labor Cost: %s %s\n", cur, money(s.Totals.TotalLaborCost))
	fmt.Fprintf(&b, "- Total Profit: %s %s\n", cur, money(s.Totals.TotalProfit))
	fmt.Fprintf(&b, "- Profit Margin: %s\n", pct(s.Totals.ProfitMargin))
	fmt.Fprintf(&b, "- Labor Cost Share: %.0f%% of billing rate", s.Totals.LaborCostShare*100)

	if p := s.Patterns; p != nil {
		b.WriteString("\n\n**TIME TRACKING PATTERNS**\n")
		fmt.Fprintf(&b, "- Entries analyzed: %d\n", p.EntryCount)
		fmt.Fprintf(&b, "- Peak hours: %s\n", joinInts(p.PeakHours))
		fmt.Fprintf(&b, "- Peak weekdays: %s\n", strings.Join(p.PeakWeekdays, ", "))
		fmt.Fprintf(&b, "- Average session: %.0f minutes\n", p.AverageSessionMinutes)
		fmt.Fprintf(&b, "- Deep work sessions (2h+): %d\n", p.DeepWorkSessions)
		fmt.Fprintf(&b, "- Fragmented entries (<30m): %s\n", pct(p.FragmentedSharePct))
		fmt.Fprintf(&b, "- Context switches per day: %.1f", p.AvgSwitchesPerDay)
	}
	return b.String()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%02d:00", v)
	}
	return strings.Join(parts, ", ")
}
