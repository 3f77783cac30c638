package toggl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the Toggl Track API v9.
type Client struct {
	baseURL string
	core    *core
}

// NewClient creates a Track API client. baseURL falls back to the
// public endpoint when empty.
func NewClient(baseURL, apiToken string, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultTrackURL
	}
	return &Client{
		baseURL: baseURL,
		core:    newCore(apiToken, log),
	}
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.core.do(ctx, http.MethodGet, c.baseURL+"/me", nil, nil, &user); err != nil {
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &user, nil
}

// Workspaces returns all workspaces visible to the token.
func (c *Client) Workspaces(ctx context.Context) ([]Workspace, error) {
	var workspaces []Workspace
	if err := c.core.do(ctx, http.MethodGet, c.baseURL+"/workspaces", nil, nil, &workspaces); err != nil {
		return nil, fmt.Errorf("fetching workspaces: %w", err)
	}
	return workspaces, nil
}

// Workspace returns a single workspace by ID.
func (c *Client) Workspace(ctx context.Context, id int64) (*Workspace, error) {
	var ws Workspace
	u := fmt.Sprintf("%s/workspaces/%d", c.baseURL, id)
	if err := c.core.do(ctx, http.MethodGet, u, nil, nil, &ws); err != nil {
		return nil, fmt.Errorf("fetching workspace %d: %w", id, err)
	}
	return &ws, nil
}

// Projects returns the projects of a workspace.
func (c *Client) Projects(ctx context.Context, workspaceID int64) ([]Project, error) {
	var projects []Project
	u := fmt.Sprintf("%s/workspaces/%d/projects", c.baseURL, workspaceID)
	if err := c.core.do(ctx, http.MethodGet, u, nil, nil, &projects); err != nil {
		return nil, fmt.Errorf("fetching projects: %w", err)
	}
	return projects, nil
}

// WorkspaceClients returns the billing clients of a workspace.
func (c *Client) WorkspaceClients(ctx context.Context, workspaceID int64) ([]WorkspaceClient, error) {
	var clients []WorkspaceClient
	u := fmt.Sprintf("%s/workspaces/%d/clients", c.baseURL, workspaceID)
	if err := c.core.do(ctx, http.MethodGet, u, nil, nil, &clients); err != nil {
		return nil, fmt.Errorf("fetching clients: %w", err)
	}
	return clients, nil
}

// CurrentTimeEntry returns the running entry, or nil when nothing is
// being tracked. The API answers "null" in that case.
func (c *Client) CurrentTimeEntry(ctx context.Context) (*TimeEntry, error) {
	var entry TimeEntry
	if err := c.core.do(ctx, http.MethodGet, c.baseURL+"/me/time_entries/current", nil, nil, &entry); err != nil {
		return nil, fmt.Errorf("fetching current entry: %w", err)
	}
	if entry.ID == 0 {
		return nil, nil
	}
	return &entry, nil
}

// TimeEntries returns the user's entries in [from, to].
func (c *Client) TimeEntries(ctx context.Context, from, to time.Time) ([]TimeEntry, error) {
	q := url.Values{}
	q.Set("start_date", from.Format(time.RFC3339))
	q.Set("end_date", to.Format(time.RFC3339))

	var entries []TimeEntry
	if err := c.core.do(ctx, http.MethodGet, c.baseURL+"/me/time_entries", q, nil, &entries); err != nil {
		return nil, fmt.Errorf("fetching time entries: %w", err)
	}
	return entries, nil
}

// StartTimeEntry creates a running entry. Callers normally go through
// tracking.Service which fills in defaults.
func (c *Client) StartTimeEntry(ctx context.Context, req StartTimeEntryRequest) (*TimeEntry, error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}
	req.Duration = -1
	req.Start = time.Now().UTC().Format(time.RFC3339)
	req.CreatedWith = createdWith

	var entry TimeEntry
	u := fmt.Sprintf("%s/workspaces/%d/time_entries", c.baseURL, req.WorkspaceID)
	if err := c.core.do(ctx, http.MethodPost, u, nil, req, &entry); err != nil {
		return nil, fmt.Errorf("starting time entry: %w", err)
	}
	return &entry, nil
}

// StopTimeEntry stops a running entry.
func (c *Client) StopTimeEntry(ctx context.Context, workspaceID, entryID int64) (*TimeEntry, error) {
	var entry TimeEntry
	u := fmt.Sprintf("%s/workspaces/%d/time_entries/%d/stop", c.baseURL, workspaceID, entryID)
	if err := c.core.do(ctx, http.MethodPatch, u, nil, nil, &entry); err != nil {
		return nil, fmt.Errorf("stopping time entry %d: %w", entryID, err)
	}
	return &entry, nil
}
