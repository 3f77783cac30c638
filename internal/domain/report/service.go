package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/calegria/toggl-admin-mcp/internal/toggl"
)

// SortKey selects the ordering of a project profitability analysis.
type SortKey string

const (
	SortByProfit  SortKey = "profit"
	SortByRevenue SortKey = "revenue"
	SortByMargin  SortKey = "margin"
	SortByHours   SortKey = "hours"
)

// ParseSortKey validates a sort key string; empty defaults to profit.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortByProfit, nil
	case SortByProfit, SortByRevenue, SortByMargin, SortByHours:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

func sortProjects(projects []ProjectProfitability, key SortKey) {
	sort.SliceStable(projects, func(i, j int) bool {
		a, b := projects[i], projects[j]
		switch key {
		case SortByRevenue:
			return a.Revenue > b.Revenue
		case SortByMargin:
			return a.ProfitMargin > b.ProfitMargin
		case SortByHours:
			return a.TotalHours > b.TotalHours
		}
		return a.Profit > b.Profit
	})
}

// MonthlyCapacityHours is the assumed per-person capacity for one month.
const MonthlyCapacityHours = 160.0

// Service builds admin reports by fetching the raw data and running it
// through the aggregator.
type Service struct {
	track                TrackAPI
	reports              ReportsAPI
	agg                  *Aggregator
	monthlyCapacityHours float64
	now                  func() time.Time
	log                  *slog.Logger
}

func NewService(track TrackAPI, reports ReportsAPI, agg *Aggregator, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		track:                track,
		reports:              reports,
		agg:                  agg,
		monthlyCapacityHours: MonthlyCapacityHours,
		now:                  time.Now,
		log:                  log,
	}
}

// workspace fetches workspace metadata; on failure it logs and falls
// back to a placeholder so a report can still be produced.
func (s *Service) workspace(ctx context.Context, id int64) *toggl.Workspace {
	ws, err := s.track.Workspace(ctx, id)
	if err != nil {
		s.log.Error("failed to fetch workspace, using fallback", "workspace_id", id, "error", err)
		return &toggl.Workspace{ID: id, Name: "Unknown", DefaultCurrency: "USD"}
	}
	if ws.DefaultCurrency == "" {
		ws.DefaultCurrency = "USD"
	}
	return ws
}

// expectedHours scales monthly capacity to the length of the range,
// using a 30-day month.
func (s *Service) expectedHours(rng DateRange) float64 {
	return s.monthlyCapacityHours * float64(rng.Days()) / 30
}

// DashboardOptions selects the period of an organization dashboard.
type DashboardOptions struct {
	Period    Period
	StartDate string
	EndDate   string
}

// OrganizationDashboard fetches all three groupings plus the v3 entry
// rows and assembles the full composite report.
func (s *Service) OrganizationDashboard(ctx context.Context, workspaceID int64, opts DashboardOptions) (*AdminReport, error) {
	rng, err := ResolveRange(s.now(), opts.Period, opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, err
	}

	ws := s.workspace(ctx, workspaceID)

	projects, err := s.reports.Summary(ctx, workspaceID, rng.Since(), rng.Until(), toggl.GroupProjects)
	if err != nil {
		return nil, fmt.Errorf("project summary: %w", err)
	}
	users, err := s.reports.Summary(ctx, workspaceID, rng.Since(), rng.Until(), toggl.GroupUsers)
	if err != nil {
		return nil, fmt.Errorf("user summary: %w", err)
	}
	clients, err := s.reports.Summary(ctx, workspaceID, rng.Since(), rng.Until(), toggl.GroupClients)
	if err != nil {
		return nil, fmt.Errorf("client summary: %w", err)
	}
	rows, err := s.reports.SearchTimeEntries(ctx, workspaceID, rng.Since(), rng.Until(), false)
	if err != nil {
		return nil, fmt.Errorf("time entry search: %w", err)
	}

	employees := s.agg.EmployeeProfitability(users, ws.DefaultCurrency, rng)

	return &AdminReport{
		ID:            uuid.NewString(),
		WorkspaceID:   ws.ID,
		WorkspaceName: ws.Name,
		Range:         rng,
		GeneratedAt:   s.now().UTC(),
		Organization:  s.agg.OrganizationSummary(ws, projects, users, clients, rng),
		Totals:        s.agg.ProfitabilityTotals(rows, ws.DefaultCurrency),
		Projects:      s.agg.ProjectProfitability(projects, ws.DefaultCurrency, rng),
		Employees:     employees,
		Clients:       s.agg.ClientProfitability(clients, ws.DefaultCurrency, rng),
		Team:          s.agg.TeamMetrics(employees, ws.ID, s.expectedHours(rng)),
	}, nil
}

// ProjectAnalysisOptions controls the project profitability analysis.
type ProjectAnalysisOptions struct {
	Period    Period
	StartDate string
	EndDate   string
	SortBy    SortKey
	MinHours  float64
}

// ProjectProfitabilityAnalysis returns per-project metrics filtered by
// minimum hours and sorted by the requested key.
func (s *Service) ProjectProfitabilityAnalysis(ctx context.Context, workspaceID int64, opts ProjectAnalysisOptions) (*ProjectAnalysis, error) {
	rng, err := ResolveRange(s.now(), opts.Period, opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, err
	}
	sortBy, err := ParseSortKey(string(opts.SortBy))
	if err != nil {
		return nil, err
	}

	ws := s.workspace(ctx, workspaceID)
	summary, err := s.reports.Summary(ctx, workspaceID, rng.Since(), rng.Until(), toggl.GroupProjects)
	if err != nil {
		return nil, fmt.Errorf("project summary: %w", err)
	}

	projects := s.agg.ProjectProfitability(summary, ws.DefaultCurrency, rng)
	if opts.MinHours > 0 {
		filtered := projects[:0]
		for _, p := range projects {
			if p.TotalHours >= opts.MinHours {
				filtered = append(filtered, p)
			}
		}
		projects = filtered
	}
	sortProjects(projects, sortBy)

	return &ProjectAnalysis{
		Range:    rng,
		Currency: ws.DefaultCurrency,
		SortedBy: sortBy,
		MinHours: opts.MinHours,
		Projects: projects,
	}, nil
}

// TeamReportOptions controls the team productivity report.
type TeamReportOptions struct {
	Period            Period
	StartDate         string
	EndDate           string
	IncludeIndividual bool
}

// TeamProductivityReport returns team-level capacity metrics, with
// individual member rows when asked.
func (s *Service) TeamProductivityReport(ctx context.Context, workspaceID int64, opts TeamReportOptions) (*TeamReport, error) {
	rng, err := ResolveRange(s.now(), opts.Period, opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, err
	}

	ws := s.workspace(ctx, workspaceID)
	summary, err := s.reports.Summary(ctx, workspaceID, rng.Since(), rng.Until(), toggl.GroupUsers)
	if err != nil {
		return nil, fmt.Errorf("user summary: %w", err)
	}

	employees := s.agg.EmployeeProfitability(summary, ws.DefaultCurrency, rng)
	out := &TeamReport{
		Range:    rng,
		Currency: ws.DefaultCurrency,
		Team:     s.agg.TeamMetrics(employees, ws.ID, s.expectedHours(rng)),
	}
	if opts.IncludeIndividual {
		out.Members = employees
	}
	return out, nil
}

// ClientAnalysisOptions controls the client profitability analysis.
type ClientAnalysisOptions struct {
	Period     Period
	StartDate  string
	EndDate    string
	MinRevenue float64
}

// ClientProfitabilityAnalysis returns per-client metrics filtered by a
// minimum revenue, most profitable first.
func (s *Service) ClientProfitabilityAnalysis(ctx context.Context, workspaceID int64, opts ClientAnalysisOptions) (*ClientAnalysis, error) {
	rng, err := ResolveRange(s.now(), opts.Period, opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, err
	}

	ws := s.workspace(ctx, workspaceID)
	summary, err := s.reports.Summary(ctx, workspaceID, rng.Since(), rng.Until(), toggl.GroupClients)
	if err != nil {
		return nil, fmt.Errorf("client summary: %w", err)
	}

	clients := s.agg.ClientProfitability(summary, ws.DefaultCurrency, rng)
	if opts.MinRevenue > 0 {
		filtered := clients[:0]
		for _, c := range clients {
			if c.Revenue >= opts.MinRevenue {
				filtered = append(filtered, c)
			}
		}
		clients = filtered
	}

	return &ClientAnalysis{
		Range:      rng,
		Currency:   ws.DefaultCurrency,
		MinRevenue: opts.MinRevenue,
		Clients:    clients,
	}, nil
}

// FinancialOptions controls the financial summary.
type FinancialOptions struct {
	Period          Period
	StartDate       string
	EndDate         string
	ComparePrevious bool
}

// FinancialSummary returns the hour and revenue split for the period,
// optionally with deltas against the preceding period of equal length.
func (s *Service) FinancialSummary(ctx context.Context, workspaceID int64, opts FinancialOptions) (*FinancialSummary, error) {
	rng, err := ResolveRange(s.now(), opts.Period, opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, err
	}

	ws := s.workspace(ctx, workspaceID)
	summary, err := s.reports.Summary(ctx, workspaceID, rng.Since(), rng.Until(), toggl.GroupProjects)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	current := s.agg.FinancialSummary(summary, ws.DefaultCurrency, ws.Name, rng)

	if opts.ComparePrevious {
		prevRng := rng.Previous()
		prevSummary, err := s.reports.Summary(ctx, workspaceID, prevRng.Since(), prevRng.Until(), toggl.GroupProjects)
		if err != nil {
			// Comparison is best effort; the current period still reports.
			s.log.Warn("failed to fetch previous period, skipping comparison", "error", err)
		} else {
			Compare(&current, s.agg.FinancialSummary(prevSummary, ws.DefaultCurrency, ws.Name, prevRng))
		}
	}

	return &current, nil
}

// InsightsOptions controls the productivity insights report.
type InsightsOptions struct {
	Period          Period
	StartDate       string
	EndDate         string
	IncludeDetailed bool
}

// ProductivityInsights returns profitability totals from the v3 entry
// rows, plus time pattern analysis when detailed analysis was asked.
// The detailed fetch pages through every entry and can be slow on busy
// workspaces.
func (s *Service) ProductivityInsights(ctx context.Context, workspaceID int64, opts InsightsOptions) (*ProductivityInsights, error) {
	rng, err := ResolveRange(s.now(), opts.Period, opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, err
	}

	ws := s.workspace(ctx, workspaceID)
	rows, err := s.reports.SearchTimeEntries(ctx, workspaceID, rng.Since(), rng.Until(), false)
	if err != nil {
		return nil, fmt.Errorf("time entry search: %w", err)
	}

	out := &ProductivityInsights{
		Range:         rng,
		WorkspaceName: ws.Name,
		Totals:        s.agg.ProfitabilityTotals(rows, ws.DefaultCurrency),
	}

	if opts.IncludeDetailed {
		entries, err := s.reports.AllDetailed(ctx, workspaceID, rng.Since(), rng.Until())
		if err != nil {
			return nil, fmt.Errorf("detailed entries: %w", err)
		}
		patterns := s.agg.TimePatternInsights(entries)
		out.Patterns = &patterns
	}

	return out, nil
}
