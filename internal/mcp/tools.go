package mcp

import (
	"context"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/calegria/toggl-admin-mcp/internal/domain/report"
	"github.com/calegria/toggl-admin-mcp/internal/domain/tracking"
)

var errMissingWorkspace = errors.New("workspace_id is required (no default workspace configured)")

type startTrackingInput struct {
	Description string   `json:"description" jsonschema:"Description of the time entry"`
	WorkspaceID int64    `json:"workspace_id,omitempty" jsonschema:"Workspace ID (omit to use the default workspace)"`
	ProjectID   *int64   `json:"project_id,omitempty" jsonschema:"Project ID to assign the entry to"`
	Tags        []string `json:"tags,omitempty" jsonschema:"Tags to attach to the entry"`
	Billable    bool     `json:"billable,omitempty" jsonschema:"Whether the entry is billable"`
}

type emptyInput struct{}

type reportPeriodInput struct {
	WorkspaceID int64  `json:"workspace_id,omitempty" jsonschema:"Workspace ID (omit to use the configured default)"`
	Period      string `json:"period,omitempty" jsonschema:"Named period: week, month, quarter or year (default month)"`
	StartDate   string `json:"start_date,omitempty" jsonschema:"Start date YYYY-MM-DD (overrides period, requires end_date)"`
	EndDate     string `json:"end_date,omitempty" jsonschema:"End date YYYY-MM-DD (overrides period, requires start_date)"`
}

type projectAnalysisInput struct {
	reportPeriodInput
	SortBy   string  `json:"sort_by,omitempty" jsonschema:"Sort key: profit, revenue, margin or hours (default profit)"`
	MinHours float64 `json:"min_hours,omitempty" jsonschema:"Hide projects with fewer tracked hours"`
}

type teamReportInput struct {
	reportPeriodInput
	IncludeIndividualMetrics bool `json:"include_individual_metrics,omitempty" jsonschema:"Include per-member metrics"`
}

type clientAnalysisInput struct {
	reportPeriodInput
	MinRevenue float64 `json:"min_revenue,omitempty" jsonschema:"Hide clients below this revenue"`
}

type financialSummaryInput struct {
	reportPeriodInput
	ComparePrevious bool `json:"compare_previous,omitempty" jsonschema:"Compare against the preceding period of equal length"`
}

type insightsInput struct {
	reportPeriodInput
	IncludeDetailedAnalysis bool `json:"include_detailed_analysis,omitempty" jsonschema:"Include time pattern analysis (pages through all entries, slower)"`
}

func textResult(text string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
	}
}

func errorResult(err error) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: errorText(err)}},
	}
}

func registerTools(server *sdkmcp.Server, services Services, defaultWorkspaceID int64) {
	workspaceID := func(requested int64) (int64, error) {
		if requested != 0 {
			return requested, nil
		}
		if defaultWorkspaceID != 0 {
			return defaultWorkspaceID, nil
		}
		return 0, errMissingWorkspace
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_tracking",
		Description: "Start tracking time for a task",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, input startTrackingInput) (*sdkmcp.CallToolResult, any, error) {
		entry, err := services.Tracking.Start(ctx, tracking.StartRequest{
			Description: input.Description,
			WorkspaceID: input.WorkspaceID,
			ProjectID:   input.ProjectID,
			Tags:        input.Tags,
			Billable:    input.Billable,
		})
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(renderStarted(entry)), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "stop_tracking",
		Description: "Stop the currently running time entry",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, input emptyInput) (*sdkmcp.CallToolResult, any, error) {
		entry, err := services.Tracking.Stop(ctx)
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(renderStopped(entry)), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "show_current_time_entry",
		Description: "Show the currently running time entry, if any",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, input emptyInput) (*sdkmcp.CallToolResult, any, error) {
		entry, err := services.Tracking.Current(ctx)
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(renderCurrent(entry)), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_workspaces",
		Description: "List all workspaces available to the configured account",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, input emptyInput) (*sdkmcp.CallToolResult, any, error) {
		workspaces, err := services.Tracking.Workspaces(ctx)
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(renderWorkspaces(workspaces)), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "test_connection",
		Description: "Verify the Toggl API token and connectivity",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, input emptyInput) (*sdkmcp.CallToolResult, any, error) {
		status, err := services.Tracking.TestConnection(ctx)
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(renderConnectionTest(status)), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_organization_dashboard",
		Description: "Organization-wide dashboard: hours, revenue, profit, top projects and performers",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, input reportPeriodInput) (*sdkmcp.CallToolResult, any, error) {
		ws, err := workspaceID(input.WorkspaceID)
		if err != nil {
			return errorResult(err), nil, nil
		}
		out, err := services.Reports.OrganizationDashboard(ctx, ws, report.DashboardOptions{
			Period:    report.Period(input.Period),
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		})
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(renderDashboard(out)), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project_profitability_analysis",
		Description: "Per-project profitability: hours, revenue, profit and margin",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, input projectAnalysisInput) (*sdkmcp.CallToolResult, any, error) {
		ws, err := workspaceID(input.WorkspaceID)
		if err != nil {
			return errorResult(err), nil, nil
		}
		out, err := services.Reports.ProjectProfitabilityAnalysis(ctx, ws, report.ProjectAnalysisOptions{
			Period:    report.Period(input.Period),
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
			SortBy:    report.SortKey(input.SortBy),
			MinHours:  input.MinHours,
		})
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(renderProjectAnalysis(out)), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_team_productivity_report",
		Description: "Team capacity and utilization, with optional per-member metrics",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, input teamReportInput) (*sdkmcp.CallToolResult, any, error) {
		ws, err := workspaceID(input.WorkspaceID)
		if err != nil {
			return errorResult(err), nil, nil
		}
		out, err := services.Reports.TeamProductivityReport(ctx, ws, report.TeamReportOptions{
			Period:            report.Period(input.Period),
			StartDate:         input.StartDate,
			EndDate:           input.EndDate,
			IncludeIndividual: input.IncludeIndividualMetrics,
		})
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(renderTeamReport(out)), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_client_profitability_analysis",
		Description: "Per-client revenue, profit and margin",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, input clientAnalysisInput) (*sdkmcp.CallToolResult, any, error) {
		ws, err := workspaceID(input.WorkspaceID)
		if err != nil {
			return errorResult(err), nil, nil
		}
		out, err := services.Reports.ClientProfitabilityAnalysis(ctx, ws, report.ClientAnalysisOptions{
			Period:     report.Period(input.Period),
			StartDate:  input.StartDate,
			EndDate:    input.EndDate,
			MinRevenue: input.MinRevenue,
		})
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(renderClientAnalysis(out)), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_financial_summary",
		Description: "High-level financial summary with optional previous-period comparison",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, input financialSummaryInput) (*sdkmcp.CallToolResult, any, error) {
		ws, err := workspaceID(input.WorkspaceID)
		if err != nil {
			return errorResult(err), nil, nil
		}
		out, err := services.Reports.FinancialSummary(ctx, ws, report.FinancialOptions{
			Period:          report.Period(input.Period),
			StartDate:       input.StartDate,
			EndDate:         input.EndDate,
			ComparePrevious: input.ComparePrevious,
		})
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(renderFinancialSummary(out)), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_productivity_insights",
		Description: "Profitability totals and, optionally, time tracking pattern analysis",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, input insightsInput) (*sdkmcp.CallToolResult, any, error) {
		ws, err := workspaceID(input.WorkspaceID)
		if err != nil {
			return errorResult(err), nil, nil
		}
		out, err := services.Reports.ProductivityInsights(ctx, ws, report.InsightsOptions{
			Period:          report.Period(input.Period),
			StartDate:       input.StartDate,
			EndDate:         input.EndDate,
			IncludeDetailed: input.IncludeDetailedAnalysis,
		})
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(renderInsights(out)), nil, nil
	})
}
