package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/calegria/toggl-admin-mcp/internal/toggl"
)

// ErrNoRunningEntry is returned by Stop when nothing is being tracked.
var ErrNoRunningEntry = errors.New("no time entry is currently running")

// ErrMissingDescription is returned when Start is called without a title.
var ErrMissingDescription = errors.New("description is required")

// TrackAPI is the slice of the Track API the service needs.
type TrackAPI interface {
	Me(ctx context.Context) (*toggl.User, error)
	Workspaces(ctx context.Context) ([]toggl.Workspace, error)
	CurrentTimeEntry(ctx context.Context) (*toggl.TimeEntry, error)
	StartTimeEntry(ctx context.Context, req toggl.StartTimeEntryRequest) (*toggl.TimeEntry, error)
	StopTimeEntry(ctx context.Context, workspaceID, entryID int64) (*toggl.TimeEntry, error)
}

// Service implements the live time tracking operations.
type Service struct {
	api                TrackAPI
	defaultWorkspaceID int64
	log                *slog.Logger
}

// NewService creates a tracking service. defaultWorkspaceID of 0 means
// the account's own default workspace is used.
func NewService(api TrackAPI, defaultWorkspaceID int64, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{api: api, defaultWorkspaceID: defaultWorkspaceID, log: log}
}

// StartRequest holds the parameters for starting an entry.
type StartRequest struct {
	Description string
	WorkspaceID int64
	ProjectID   *int64
	Tags        []string
	Billable    bool
}

// Start begins tracking a new entry. The workspace is resolved from the
// request, then the configured default, then the account default.
func (s *Service) Start(ctx context.Context, req StartRequest) (*toggl.TimeEntry, error) {
	if req.Description == "" {
		return nil, ErrMissingDescription
	}

	workspaceID := req.WorkspaceID
	if workspaceID == 0 {
		workspaceID = s.defaultWorkspaceID
	}
	if workspaceID == 0 {
		user, err := s.api.Me(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving default workspace: %w", err)
		}
		workspaceID = user.DefaultWorkspaceID
	}

	entry, err := s.api.StartTimeEntry(ctx, toggl.StartTimeEntryRequest{
		Description: req.Description,
		WorkspaceID: workspaceID,
		ProjectID:   req.ProjectID,
		Tags:        req.Tags,
		Billable:    req.Billable,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("started time entry", "entry_id", entry.ID, "workspace_id", workspaceID)
	return entry, nil
}

// Stop stops the currently running entry.
func (s *Service) Stop(ctx context.Context) (*toggl.TimeEntry, error) {
	current, err := s.api.CurrentTimeEntry(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking current entry: %w", err)
	}
	if current == nil {
		return nil, ErrNoRunningEntry
	}

	stopped, err := s.api.StopTimeEntry(ctx, current.WorkspaceID, current.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info("stopped time entry", "entry_id", stopped.ID, "duration_s", stopped.Duration)
	return stopped, nil
}

// Current returns the running entry, or nil when idle.
func (s *Service) Current(ctx context.Context) (*toggl.TimeEntry, error) {
	return s.api.CurrentTimeEntry(ctx)
}

// Workspaces lists the workspaces visible to the token.
func (s *Service) Workspaces(ctx context.Context) ([]toggl.Workspace, error) {
	return s.api.Workspaces(ctx)
}

// Status verifies the API token by fetching the account and counting
// its workspaces.
type Status struct {
	User           *toggl.User
	WorkspaceCount int
}

// TestConnection checks that the token is valid and the API reachable.
func (s *Service) TestConnection(ctx context.Context) (*Status, error) {
	user, err := s.api.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("verifying credentials: %w", err)
	}
	workspaces, err := s.api.Workspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	return &Status{User: user, WorkspaceCount: len(workspaces)}, nil
}
