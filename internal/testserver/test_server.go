// Package testserver wires the full stack against a fake Toggl API for
// functional tests: fake upstream, real clients, real services, real
// MCP server.
package testserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/calegria/toggl-admin-mcp/internal/domain/report"
	"github.com/calegria/toggl-admin-mcp/internal/domain/tracking"
	"github.com/calegria/toggl-admin-mcp/internal/mcp"
	"github.com/calegria/toggl-admin-mcp/internal/toggl"
)

const (
	WorkspaceID = int64(42)
	APIToken    = "test-token"
)

// TestServer is a fully wired MCP server backed by a fake Toggl API.
type TestServer struct {
	Upstream *httptest.Server
	HTTP     *httptest.Server
	Server   *sdkmcp.Server

	mu      sync.Mutex
	running *toggl.TimeEntry
	nextID  int64
}

func New(t *testing.T) *TestServer {
	t.Helper()

	ts := &TestServer{nextID: 1000}
	ts.Upstream = httptest.NewServer(requireToken(ts.upstreamMux()))
	t.Cleanup(ts.Upstream.Close)

	trackClient := toggl.NewClient(ts.Upstream.URL+"/api/v9", APIToken, nil)
	reportsClient := toggl.NewReportsClient(
		ts.Upstream.URL+"/reports/api/v2",
		ts.Upstream.URL+"/reports/api/v3",
		APIToken, nil)

	trackingSvc := tracking.NewService(trackClient, 0, nil)
	reportSvc := report.NewService(trackClient, reportsClient, report.NewAggregator(0.6, nil), nil)

	ts.Server = mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Tracking: trackingSvc,
			Reports:  reportSvc,
		},
		TokenConfigured:    true,
		DefaultWorkspaceID: WorkspaceID,
	})

	ts.HTTP = httptest.NewServer(mcp.NewHTTPHandler(ts.Server))
	t.Cleanup(ts.HTTP.Close)

	return ts
}

// Connect returns a client session speaking to the server over
// in-memory transports.
func (ts *TestServer) Connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	_, err := ts.Server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	return session
}

func (ts *TestServer) upstreamMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v9/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"id": 1, "email": "ada@example.com", "fullname": "Ada",
			"default_workspace_id": WorkspaceID,
		})
	})

	mux.HandleFunc("GET /api/v9/workspaces", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{
			{"id": WorkspaceID, "name": "Acme Consulting", "default_currency": "USD"},
		})
	})

	mux.HandleFunc("GET /api/v9/workspaces/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"id": WorkspaceID, "name": "Acme Consulting", "default_currency": "USD",
		})
	})

	mux.HandleFunc("GET /api/v9/me/time_entries/current", func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		if ts.running == nil {
			w.Write([]byte("null"))
			return
		}
		writeJSON(w, ts.running)
	})

	mux.HandleFunc("POST /api/v9/workspaces/{id}/time_entries", func(w http.ResponseWriter, r *http.Request) {
		var req toggl.StartTimeEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		ts.mu.Lock()
		defer ts.mu.Unlock()
		ts.nextID++
		ts.running = &toggl.TimeEntry{
			ID:          ts.nextID,
			WorkspaceID: req.WorkspaceID,
			Description: req.Description,
			Start:       time.Now().UTC(),
			Duration:    -1,
			Billable:    req.Billable,
			Tags:        req.Tags,
		}
		writeJSON(w, ts.running)
	})

	mux.HandleFunc("PATCH /api/v9/workspaces/{wid}/time_entries/{id}/stop", func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		if ts.running == nil {
			http.Error(w, `{"message":"no running entry"}`, http.StatusNotFound)
			return
		}
		stopped := *ts.running
		now := time.Now().UTC()
		stopped.Stop = &now
		stopped.Duration = 90
		ts.running = nil
		writeJSON(w, stopped)
	})

	mux.HandleFunc("GET /reports/api/v2/summary", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("grouping") {
		case toggl.GroupUsers:
			writeJSON(w, map[string]any{
				"total_grand": 36_000_000, "total_billable": 36_000_000,
				"total_currencies": []map[string]any{{"currency": "USD", "amount": 1000}},
				"data": []map[string]any{{
					"id": 9, "title": map[string]any{"user": "Ada"},
					"time":             36_000_000,
					"total_currencies": []map[string]any{{"currency": "USD", "amount": 1000}},
					"items":            []map[string]any{{"time": 36_000_000, "rate": 100, "sum": 1000, "cur": "USD"}},
				}},
			})
		case toggl.GroupClients:
			writeJSON(w, map[string]any{
				"total_grand": 36_000_000, "total_billable": 36_000_000,
				"total_currencies": []map[string]any{{"currency": "USD", "amount": 1000}},
				"data": []map[string]any{{
					"id": 7, "title": map[string]any{"client": "Globex"},
					"time":             36_000_000,
					"total_currencies": []map[string]any{{"currency": "USD", "amount": 1000}},
					"items":            []map[string]any{{"time": 36_000_000, "rate": 100, "sum": 1000, "cur": "USD"}},
				}},
			})
		default:
			writeJSON(w, map[string]any{
				"total_grand": 36_000_000, "total_billable": 27_000_000,
				"total_currencies": []map[string]any{{"currency": "USD", "amount": 1000}},
				"data": []map[string]any{{
					"id": 1, "title": map[string]any{"project": "Website", "client": "Globex"},
					"time":             36_000_000,
					"total_currencies": []map[string]any{{"currency": "USD", "amount": 1000}},
					"items":            []map[string]any{{"time": 36_000_000, "rate": 100, "sum": 1000, "cur": "USD"}},
				}},
			})
		}
	})

	mux.HandleFunc("GET /reports/api/v2/detailed", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"total_grand": 36_000_000, "total_billable": 36_000_000,
			"total_count": 1, "per_page": 50, "next_row_number": nil,
			"data": []map[string]any{{
				"id": 501, "uid": 9, "user": "Ada", "project": "Website",
				"description": "build pages",
				"start":       "2025-08-04T09:00:00Z", "end": "2025-08-04T12:00:00Z",
				"dur": 10_800_000, "is_billable": true, "billable": 300, "cur": "USD",
			}},
		})
	})

	mux.HandleFunc("POST /reports/api/v3/workspace/{id}/search/time_entries", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]any{{
			"user_id": 9, "username": "Ada", "project_id": 1,
			"description": "build pages", "billable": true,
			"hourly_rate_in_cents": 10000, "billable_amount_in_cents": 100000,
			"currency": "USD",
			"time_entries": []map[string]any{
				{"id": 501, "seconds": 18000, "start": "2025-08-04T09:00:00Z", "stop": "2025-08-04T14:00:00Z"},
				{"id": 502, "seconds": 18000, "start": "2025-08-05T09:00:00Z", "stop": "2025-08-05T14:00:00Z"},
			},
		}})
	})

	return mux
}

// requireToken enforces the Toggl basic auth scheme (token as username,
// literal "api_token" as password).
func requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != APIToken || pass != "api_token" {
			http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
