package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/calegria/toggl-admin-mcp/internal/domain/report"
	"github.com/calegria/toggl-admin-mcp/internal/domain/tracking"
	"github.com/calegria/toggl-admin-mcp/internal/toggl"
)

// TrackingService defines tracking operations needed by MCP.
type TrackingService interface {
	Start(ctx context.Context, req tracking.StartRequest) (*toggl.TimeEntry, error)
	Stop(ctx context.Context) (*toggl.TimeEntry, error)
	Current(ctx context.Context) (*toggl.TimeEntry, error)
	Workspaces(ctx context.Context) ([]toggl.Workspace, error)
	TestConnection(ctx context.Context) (*tracking.Status, error)
}

// ReportService defines admin reporting operations needed by MCP.
type ReportService interface {
	OrganizationDashboard(ctx context.Context, workspaceID int64, opts report.DashboardOptions) (*report.AdminReport, error)
	ProjectProfitabilityAnalysis(ctx context.Context, workspaceID int64, opts report.ProjectAnalysisOptions) (*report.ProjectAnalysis, error)
	TeamProductivityReport(ctx context.Context, workspaceID int64, opts report.TeamReportOptions) (*report.TeamReport, error)
	ClientProfitabilityAnalysis(ctx context.Context, workspaceID int64, opts report.ClientAnalysisOptions) (*report.ClientAnalysis, error)
	FinancialSummary(ctx context.Context, workspaceID int64, opts report.FinancialOptions) (*report.FinancialSummary, error)
	ProductivityInsights(ctx context.Context, workspaceID int64, opts report.InsightsOptions) (*report.ProductivityInsights, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Tracking TrackingService
	Reports  ReportService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// TokenConfigured gates all tools except test_connection; without a
	// token the server still starts so clients get a clear answer.
	TokenConfigured bool
	// DefaultWorkspaceID is used by report tools when the call omits
	// workspace_id. Zero means the caller must provide one.
	DefaultWorkspaceID int64
	Logger             *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and
// middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "toggl-admin-mcp",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(readinessMiddleware(cfg.TokenConfigured))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.DefaultWorkspaceID)

	return server
}
