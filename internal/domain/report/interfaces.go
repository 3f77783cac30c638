package report

import (
	"context"

	"github.com/calegria/toggl-admin-mcp/internal/toggl"
)

// ReportsAPI is the slice of the Reports API the service needs.
type ReportsAPI interface {
	Summary(ctx context.Context, workspaceID int64, since, until, grouping string) (*toggl.SummaryReport, error)
	AllDetailed(ctx context.Context, workspaceID int64, since, until string) ([]toggl.DetailedEntry, error)
	SearchTimeEntries(ctx context.Context, workspaceID int64, startDate, endDate string, hideAmounts bool) ([]toggl.SearchTimeEntriesRow, error)
}

// TrackAPI is the slice of the Track API the service needs.
type TrackAPI interface {
	Workspace(ctx context.Context, id int64) (*toggl.Workspace, error)
}
