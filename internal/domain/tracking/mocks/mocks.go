package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/calegria/toggl-admin-mcp/internal/toggl"
)

// TrackAPI is a mock for tracking.TrackAPI.
type TrackAPI struct {
	mock.Mock
}

func (m *TrackAPI) Me(ctx context.Context) (*toggl.User, error) {
	args := m.Called(ctx)
	if user, ok := args.Get(0).(*toggl.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrackAPI) Workspaces(ctx context.Context) ([]toggl.Workspace, error) {
	args := m.Called(ctx)
	if workspaces, ok := args.Get(0).([]toggl.Workspace); ok {
		return workspaces, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrackAPI) CurrentTimeEntry(ctx context.Context) (*toggl.TimeEntry, error) {
	args := m.Called(ctx)
	if entry, ok := args.Get(0).(*toggl.TimeEntry); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrackAPI) StartTimeEntry(ctx context.Context, req toggl.StartTimeEntryRequest) (*toggl.TimeEntry, error) {
	args := m.Called(ctx, req)
	if entry, ok := args.Get(0).(*toggl.TimeEntry); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrackAPI) StopTimeEntry(ctx context.Context, workspaceID, entryID int64) (*toggl.TimeEntry, error) {
	args := m.Called(ctx, workspaceID, entryID)
	if entry, ok := args.Get(0).(*toggl.TimeEntry); ok {
		return entry, args.Error(1)
	}
	return nil, args.Error(1)
}
