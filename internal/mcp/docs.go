package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `toggl-admin-mcp exposes Toggl time tracking and admin reporting as tools.

Two tool families:
- Tracking: start_tracking, stop_tracking, show_current_time_entry, list_workspaces, test_connection.
- Admin reports: get_organization_dashboard, get_project_profitability_analysis, get_team_productivity_report, get_client_profitability_analysis, get_financial_summary, get_productivity_insights.

Rules of engagement:
1) Start with test_connection to verify the API token, then list_workspaces to find workspace IDs.
2) Report tools accept either a named period (week, month, quarter, year; default month) or explicit start_date/end_date as YYYY-MM-DD. Explicit dates win and must be given together.
3) workspace_id can be omitted when the server is configured with a default workspace.
4) Profitability numbers are estimates: labor cost is derived from billing rates via a configured share (default 60%), not from actual payroll data.
5) get_productivity_insights with include_detailed_analysis pages through every time entry and can take a while on busy workspaces.

Docs:
- toggl-admin://docs/index (tool surface at a glance)
- toggl-admin://docs/reporting (periods, metrics and how they are computed)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "toggl-admin://docs/index",
		Name:        "docs_index",
		Title:       "toggl-admin-mcp docs index",
		Description: "Entry point: which tools exist and when to use them.",
		Content: `# toggl-admin-mcp: Docs Index

## Tracking tools

- ` + "`test_connection`" + ` verifies the token and shows the account.
- ` + "`list_workspaces`" + ` lists workspace names and IDs.
- ` + "`start_tracking`" + ` / ` + "`stop_tracking`" + ` / ` + "`show_current_time_entry`" + ` manage the running entry.

## Admin report tools

- ` + "`get_organization_dashboard`" + ` is the widest view: totals, health, top projects and performers.
- ` + "`get_project_profitability_analysis`" + ` ranks projects by profit, revenue, margin or hours.
- ` + "`get_team_productivity_report`" + ` shows team capacity and utilization.
- ` + "`get_client_profitability_analysis`" + ` ranks clients by profit.
- ` + "`get_financial_summary`" + ` is the fastest overview, with optional previous-period comparison.
- ` + "`get_productivity_insights`" + ` adds exact per-entry profitability and, on request, time pattern analysis.

All report tools share the same period parameters; see ` + "`toggl-admin://docs/reporting`" + `.
`,
	},
	{
		URI:         "toggl-admin://docs/reporting",
		Name:        "docs_reporting",
		Title:       "Reporting: periods and metrics",
		Description: "How periods resolve and how profitability metrics are computed.",
		Content: `# Reporting: periods and metrics

## Periods

- ` + "`period`" + `: one of ` + "`week`" + ` (Monday through Sunday), ` + "`month`" + ` (calendar, the default), ` + "`quarter`" + `, ` + "`year`" + `.
- Explicit ` + "`start_date`" + `/` + "`end_date`" + ` (YYYY-MM-DD, inclusive) override the period and must be given together.
- The previous-period comparison uses the range of equal length immediately before the current one.

## Metrics

- Hours come from the reporting API in milliseconds and are rounded to two decimals.
- Revenue is the billable amount reported by Toggl.
- Labor cost is estimated as billing rate times a configured share (default 60%) times hours worked. It is not payroll data.
- Profit = revenue - labor cost; margin = profit / revenue.
- Utilization = billable hours / total hours.
- Team capacity assumes 160 hours per person per month, scaled to the period length.

## Caveats

- Summary groupings treat all grouped time as billable; the per-entry tools are exact.
- Rows without a project/user/client ID are excluded from per-group metrics.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
