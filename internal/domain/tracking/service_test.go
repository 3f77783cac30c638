package tracking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/calegria/toggl-admin-mcp/internal/domain/tracking"
	"github.com/calegria/toggl-admin-mcp/internal/domain/tracking/mocks"
	"github.com/calegria/toggl-admin-mcp/internal/toggl"
)

func TestService_StartRequiresDescription(t *testing.T) {
	svc := tracking.NewService(&mocks.TrackAPI{}, 0, nil)
	_, err := svc.Start(context.Background(), tracking.StartRequest{})
	require.ErrorIs(t, err, tracking.ErrMissingDescription)
}

func TestService_StartUsesRequestWorkspace(t *testing.T) {
	ctx := context.Background()
	api := &mocks.TrackAPI{}
	api.On("StartTimeEntry", ctx, mock.MatchedBy(func(req toggl.StartTimeEntryRequest) bool {
		return req.WorkspaceID == 7 && req.Description == "write docs"
	})).Return(&toggl.TimeEntry{ID: 100, WorkspaceID: 7}, nil)

	svc := tracking.NewService(api, 3, nil)
	entry, err := svc.Start(ctx, tracking.StartRequest{Description: "write docs", WorkspaceID: 7})
	require.NoError(t, err)
	require.Equal(t, int64(100), entry.ID)
}

func TestService_StartFallsBackToConfiguredWorkspace(t *testing.T) {
	ctx := context.Background()
	api := &mocks.TrackAPI{}
	api.On("StartTimeEntry", ctx, mock.MatchedBy(func(req toggl.StartTimeEntryRequest) bool {
		return req.WorkspaceID == 3
	})).Return(&toggl.TimeEntry{ID: 100, WorkspaceID: 3}, nil)

	svc := tracking.NewService(api, 3, nil)
	_, err := svc.Start(ctx, tracking.StartRequest{Description: "write docs"})
	require.NoError(t, err)
	api.AssertNotCalled(t, "Me", mock.Anything)
}

func TestService_StartFallsBackToAccountDefault(t *testing.T) {
	ctx := context.Background()
	api := &mocks.TrackAPI{}
	api.On("Me", ctx).Return(&toggl.User{ID: 1, DefaultWorkspaceID: 9}, nil)
	api.On("StartTimeEntry", ctx, mock.MatchedBy(func(req toggl.StartTimeEntryRequest) bool {
		return req.WorkspaceID == 9
	})).Return(&toggl.TimeEntry{ID: 100, WorkspaceID: 9}, nil)

	svc := tracking.NewService(api, 0, nil)
	_, err := svc.Start(ctx, tracking.StartRequest{Description: "write docs"})
	require.NoError(t, err)
}

func TestService_StopNoRunningEntry(t *testing.T) {
	ctx := context.Background()
	api := &mocks.TrackAPI{}
	api.On("CurrentTimeEntry", ctx).Return((*toggl.TimeEntry)(nil), nil)

	svc := tracking.NewService(api, 0, nil)
	_, err := svc.Stop(ctx)
	require.ErrorIs(t, err, tracking.ErrNoRunningEntry)
}

func TestService_StopRunningEntry(t *testing.T) {
	ctx := context.Background()
	api := &mocks.TrackAPI{}
	api.On("CurrentTimeEntry", ctx).Return(&toggl.TimeEntry{ID: 55, WorkspaceID: 7, Duration: -1}, nil)
	api.On("StopTimeEntry", ctx, int64(7), int64(55)).Return(&toggl.TimeEntry{ID: 55, Duration: 1200}, nil)

	svc := tracking.NewService(api, 0, nil)
	entry, err := svc.Stop(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1200), entry.Duration)
}

func TestService_TestConnection(t *testing.T) {
	ctx := context.Background()
	api := &mocks.TrackAPI{}
	api.On("Me", ctx).Return(&toggl.User{ID: 1, Email: "ada@example.com"}, nil)
	api.On("Workspaces", ctx).Return([]toggl.Workspace{{ID: 1}, {ID: 2}}, nil)

	svc := tracking.NewService(api, 0, nil)
	status, err := svc.TestConnection(ctx)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", status.User.Email)
	require.Equal(t, 2, status.WorkspaceCount)
}

func TestService_TestConnectionAuthFailure(t *testing.T) {
	ctx := context.Background()
	api := &mocks.TrackAPI{}
	api.On("Me", ctx).Return((*toggl.User)(nil), toggl.ErrAuthFailed)

	svc := tracking.NewService(api, 0, nil)
	_, err := svc.TestConnection(ctx)
	require.ErrorIs(t, err, toggl.ErrAuthFailed)
}
