package toggl

import "time"

// Workspace is a Toggl Track workspace (API v9).
type Workspace struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Premium           bool     `json:"premium"`
	Admin             bool     `json:"admin"`
	DefaultHourlyRate *float64 `json:"default_hourly_rate"`
	DefaultCurrency   string   `json:"default_currency"`
	Rounding          int      `json:"rounding"`
	RoundingMinutes   int      `json:"rounding_minutes"`
}

// User is the authenticated Toggl account (GET /me).
type User struct {
	ID                 int64  `json:"id"`
	Email              string `json:"email"`
	Fullname           string `json:"fullname"`
	Timezone           string `json:"timezone"`
	DefaultWorkspaceID int64  `json:"default_workspace_id"`
	BeginningOfWeek    int    `json:"beginning_of_week"`
}

// TimeEntry is a Toggl Track time entry. Duration is in seconds and
// negative while the entry is still running.
type TimeEntry struct {
	ID          int64      `json:"id"`
	WorkspaceID int64      `json:"workspace_id"`
	ProjectID   *int64     `json:"project_id"`
	UserID      int64      `json:"user_id"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	Stop        *time.Time `json:"stop"`
	Duration    int64      `json:"duration"`
	Billable    bool       `json:"billable"`
	Tags        []string   `json:"tags"`
	CreatedWith string     `json:"created_with,omitempty"`
}

// Running reports whether the entry has no stop time yet.
func (e *TimeEntry) Running() bool {
	return e.Stop == nil || e.Duration < 0
}

// Project is a Toggl Track project.
type Project struct {
	ID          int64     `json:"id"`
	WorkspaceID int64     `json:"workspace_id"`
	ClientID    *int64    `json:"client_id"`
	Name        string    `json:"name"`
	Active      bool      `json:"active"`
	Billable    *bool     `json:"billable"`
	ActualHours int64     `json:"actual_hours"`
	At          time.Time `json:"at"`
}

// WorkspaceClient is a billing client attached to a workspace.
type WorkspaceClient struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"wid"`
	Name        string `json:"name"`
}

// StartTimeEntryRequest holds the fields posted when starting an entry.
type StartTimeEntryRequest struct {
	Description string   `json:"description"`
	WorkspaceID int64    `json:"workspace_id"`
	ProjectID   *int64   `json:"project_id,omitempty"`
	Tags        []string `json:"tags"`
	Billable    bool     `json:"billable"`
	Duration    int64    `json:"duration"`
	Start       string   `json:"start"`
	CreatedWith string   `json:"created_with"`
}

// CurrencyAmount is a per-currency monetary total in report responses.
type CurrencyAmount struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// SummaryReport is the Reports API v2 summary response. All durations
// are milliseconds.
type SummaryReport struct {
	TotalGrand      int64            `json:"total_grand"`
	TotalBillable   int64            `json:"total_billable"`
	TotalCurrencies []CurrencyAmount `json:"total_currencies"`
	Data            []SummaryGroup   `json:"data"`
}

// SummaryGroup is one group (project, user or client) in a summary
// report. A nil ID marks the ungrouped remainder row.
type SummaryGroup struct {
	ID              *int64           `json:"id"`
	Title           GroupTitle       `json:"title"`
	Time            int64            `json:"time"`
	TotalCurrencies []CurrencyAmount `json:"total_currencies"`
	Items           []SummaryItem    `json:"items"`
}

// GroupTitle carries the display name of a summary group; which field
// is set depends on the requested grouping.
type GroupTitle struct {
	Project string `json:"project"`
	Client  string `json:"client"`
	User    string `json:"user"`
}

// Name returns whichever title field the grouping populated.
func (t GroupTitle) Name() string {
	switch {
	case t.Project != "":
		return t.Project
	case t.User != "":
		return t.User
	case t.Client != "":
		return t.Client
	}
	return ""
}

// SummaryItem is one aggregated row inside a summary group. Time is
// milliseconds, Rate the hourly billing rate, Sum the billed amount.
type SummaryItem struct {
	Title    map[string]string `json:"title"`
	Time     int64             `json:"time"`
	Currency string            `json:"cur"`
	Sum      float64           `json:"sum"`
	Rate     float64           `json:"rate"`
}

// DetailedReport is one page of the Reports API v2 detailed endpoint.
type DetailedReport struct {
	TotalGrand    int64           `json:"total_grand"`
	TotalBillable int64           `json:"total_billable"`
	TotalCount    int             `json:"total_count"`
	PerPage       int             `json:"per_page"`
	NextRowNumber *int            `json:"next_row_number"`
	Data          []DetailedEntry `json:"data"`
}

// DetailedEntry is a single time entry row in a detailed report.
// Duration is milliseconds; BillableAmount is money, IsBillable the flag.
type DetailedEntry struct {
	ID             int64     `json:"id"`
	ProjectID      *int64    `json:"pid"`
	UserID         int64     `json:"uid"`
	User           string    `json:"user"`
	Project        string    `json:"project"`
	Client         string    `json:"client"`
	Description    string    `json:"description"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Duration       int64     `json:"dur"`
	IsBillable     bool      `json:"is_billable"`
	BillableAmount float64   `json:"billable"`
	Currency       string    `json:"cur"`
}

// SearchTimeEntriesRow is one grouped row from the Reports API v3
// time-entry search. Monetary fields are in cents.
type SearchTimeEntriesRow struct {
	UserID                int64             `json:"user_id"`
	Username              string            `json:"username"`
	ProjectID             *int64            `json:"project_id"`
	Description           string            `json:"description"`
	Billable              bool              `json:"billable"`
	HourlyRateInCents     int64             `json:"hourly_rate_in_cents"`
	BillableAmountInCents int64             `json:"billable_amount_in_cents"`
	Currency              string            `json:"currency"`
	TimeEntries           []SearchTimeEntry `json:"time_entries"`
}

// SearchTimeEntry is a concrete entry nested in a search row.
type SearchTimeEntry struct {
	ID      int64     `json:"id"`
	Seconds int64     `json:"seconds"`
	Start   time.Time `json:"start"`
	Stop    time.Time `json:"stop"`
}

// WeeklyReport is the Reports API v2 weekly response.
type WeeklyReport struct {
	TotalGrand int64         `json:"total_grand"`
	WeekTotals []*int64      `json:"week_totals"`
	Data       []WeeklyGroup `json:"data"`
}

// WeeklyGroup holds per-day millisecond totals for one group; the last
// cell is the row total. Days without tracked time are null.
type WeeklyGroup struct {
	Title  GroupTitle `json:"title"`
	Totals []*int64   `json:"totals"`
}
