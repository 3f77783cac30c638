package toggl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Report groupings accepted by the summary and weekly endpoints.
const (
	GroupProjects = "projects"
	GroupUsers    = "users"
	GroupClients  = "clients"
)

const (
	detailedPageSize = 50
	// The detailed endpoint allows one request per second.
	defaultPageDelay = 1100 * time.Millisecond
)

// ReportsClient talks to the Toggl Reports API (v2 aggregates, v3
// detailed search).
type ReportsClient struct {
	v2URL     string
	v3URL     string
	core      *core
	pageDelay time.Duration
}

// NewReportsClient creates a Reports API client. Empty URLs fall back
// to the public endpoints.
func NewReportsClient(v2URL, v3URL, apiToken string, log *slog.Logger) *ReportsClient {
	if v2URL == "" {
		v2URL = defaultReportsV2URL
	}
	if v3URL == "" {
		v3URL = defaultReportsV3URL
	}
	return &ReportsClient{
		v2URL:     v2URL,
		v3URL:     v3URL,
		core:      newCore(apiToken, log),
		pageDelay: defaultPageDelay,
	}
}

// Summary returns aggregated totals for a workspace grouped by
// projects, users or clients. Dates are YYYY-MM-DD.
func (c *ReportsClient) Summary(ctx context.Context, workspaceID int64, since, until, grouping string) (*SummaryReport, error) {
	if grouping == "" {
		grouping = GroupProjects
	}
	q := url.Values{}
	q.Set("workspace_id", strconv.FormatInt(workspaceID, 10))
	q.Set("since", since)
	q.Set("until", until)
	q.Set("grouping", grouping)

	var report SummaryReport
	if err := c.core.do(ctx, http.MethodGet, c.v2URL+"/summary", q, nil, &report); err != nil {
		return nil, fmt.Errorf("fetching summary report: %w", err)
	}
	return &report, nil
}

// Detailed returns one page of time entry rows. firstRow of 0 means
// the first page; pageSize is capped at the API maximum of 50.
func (c *ReportsClient) Detailed(ctx context.Context, workspaceID int64, since, until string, firstRow, pageSize int) (*DetailedReport, error) {
	if pageSize <= 0 || pageSize > detailedPageSize {
		pageSize = detailedPageSize
	}
	q := url.Values{}
	q.Set("workspace_id", strconv.FormatInt(workspaceID, 10))
	q.Set("since", since)
	q.Set("until", until)
	q.Set("page_size", strconv.Itoa(pageSize))
	if firstRow > 0 {
		q.Set("first_row_number", strconv.Itoa(firstRow))
	}

	var report DetailedReport
	if err := c.core.do(ctx, http.MethodGet, c.v2URL+"/detailed", q, nil, &report); err != nil {
		return nil, fmt.Errorf("fetching detailed report: %w", err)
	}
	return &report, nil
}

// AllDetailed walks detailed report pagination and returns every row,
// pausing between pages to stay under the endpoint's rate limit.
func (c *ReportsClient) AllDetailed(ctx context.Context, workspaceID int64, since, until string) ([]DetailedEntry, error) {
	var entries []DetailedEntry
	firstRow := 0
	for {
		page, err := c.Detailed(ctx, workspaceID, since, until, firstRow, detailedPageSize)
		if err != nil {
			return nil, err
		}
		entries = append(entries, page.Data...)
		if page.NextRowNumber == nil {
			return entries, nil
		}
		firstRow = *page.NextRowNumber

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pageDelay):
		}
	}
}

type searchTimeEntriesRequest struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	HideAmounts bool   `json:"hide_amounts"`
}

// SearchTimeEntries fetches detailed entries with billing amounts and
// rates from the Reports API v3.
func (c *ReportsClient) SearchTimeEntries(ctx context.Context, workspaceID int64, startDate, endDate string, hideAmounts bool) ([]SearchTimeEntriesRow, error) {
	body := searchTimeEntriesRequest{
		StartDate:   startDate,
		EndDate:     endDate,
		HideAmounts: hideAmounts,
	}

	var rows []SearchTimeEntriesRow
	u := fmt.Sprintf("%s/workspace/%d/search/time_entries", c.v3URL, workspaceID)
	if err := c.core.do(ctx, http.MethodPost, u, nil, body, &rows); err != nil {
		return nil, fmt.Errorf("searching time entries: %w", err)
	}
	return rows, nil
}

// Weekly returns the weekly aggregated report.
func (c *ReportsClient) Weekly(ctx context.Context, workspaceID int64, since, until, grouping string) (*WeeklyReport, error) {
	if grouping == "" {
		grouping = GroupProjects
	}
	q := url.Values{}
	q.Set("workspace_id", strconv.FormatInt(workspaceID, 10))
	q.Set("since", since)
	q.Set("until", until)
	q.Set("grouping", grouping)

	var report WeeklyReport
	if err := c.core.do(ctx, http.MethodGet, c.v2URL+"/weekly", q, nil, &report); err != nil {
		return nil, fmt.Errorf("fetching weekly report: %w", err)
	}
	return &report, nil
}
