package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/calegria/toggl-admin-mcp/internal/toggl"
)

// ReportsAPI is a mock for report.ReportsAPI.
type ReportsAPI struct {
	mock.Mock
}

func (m *ReportsAPI) Summary(ctx context.Context, workspaceID int64, since, until, grouping string) (*toggl.SummaryReport, error) {
	args := m.Called(ctx, workspaceID, since, until, grouping)
	if report, ok := args.Get(0).(*toggl.SummaryReport); ok {
		return report, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportsAPI) AllDetailed(ctx context.Context, workspaceID int64, since, until string) ([]toggl.DetailedEntry, error) {
	args := m.Called(ctx, workspaceID, since, until)
	if entries, ok := args.Get(0).([]toggl.DetailedEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportsAPI) SearchTimeEntries(ctx context.Context, workspaceID int64, startDate, endDate string, hideAmounts bool) ([]toggl.SearchTimeEntriesRow, error) {
	args := m.Called(ctx, workspaceID, startDate, endDate, hideAmounts)
	if rows, ok := args.Get(0).([]toggl.SearchTimeEntriesRow); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

// TrackAPI is a mock for report.TrackAPI.
type TrackAPI struct {
	mock.Mock
}

func (m *TrackAPI) Workspace(ctx context.Context, id int64) (*toggl.Workspace, error) {
	args := m.Called(ctx, id)
	if ws, ok := args.Get(0).(*toggl.Workspace); ok {
		return ws, args.Error(1)
	}
	return nil, args.Error(1)
}
