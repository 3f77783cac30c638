package toggl_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/calegria/toggl-admin-mcp/internal/toggl"
)

func TestClient_SendsBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		w.Write([]byte(`{"id":1,"email":"ada@example.com"}`))
	}))
	defer srv.Close()

	client := toggl.NewClient(srv.URL, "secret", nil)
	user, err := client.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, "secret", gotUser)
	require.Equal(t, "api_token", gotPass)
}

func TestClient_MissingToken(t *testing.T) {
	client := toggl.NewClient("http://localhost:1", "", nil)
	_, err := client.Me(context.Background())
	require.ErrorIs(t, err, toggl.ErrMissingToken)
}

func TestClient_ProjectsAndClients(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/workspaces/7/projects":
			w.Write([]byte(`[{"id":3,"workspace_id":7,"client_id":9,"name":"Website","active":true}]`))
		case "/workspaces/7/clients":
			w.Write([]byte(`[{"id":9,"wid":7,"name":"Globex"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := toggl.NewClient(srv.URL, "secret", nil)

	projects, err := client.Projects(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "Website", projects[0].Name)
	require.NotNil(t, projects[0].ClientID)
	require.Equal(t, int64(9), *projects[0].ClientID)

	clients, err := client.WorkspaceClients(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	require.Equal(t, "Globex", clients[0].Name)
	require.Equal(t, int64(7), clients[0].WorkspaceID)
}

func TestClient_TimeEntriesRange(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[{"id":1,"duration":3600},{"id":2,"duration":1800}]`))
	}))
	defer srv.Close()

	from := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 31, 23, 59, 59, 0, time.UTC)

	client := toggl.NewClient(srv.URL, "secret", nil)
	entries, err := client.TimeEntries(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "2025-08-01T00:00:00Z", gotQuery.Get("start_date"))
	require.Equal(t, "2025-08-31T23:59:59Z", gotQuery.Get("end_date"))
}

func TestClient_CurrentTimeEntryNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	}))
	defer srv.Close()

	client := toggl.NewClient(srv.URL, "secret", nil)
	entry, err := client.CurrentTimeEntry(context.Background())
	require.NoError(t, err)
	require.Nil(t, entry)
}

func TestClient_StartTimeEntryFillsDefaults(t *testing.T) {
	var gotMethod, gotPath string
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"id":99,"workspace_id":7,"duration":-1}`))
	}))
	defer srv.Close()

	client := toggl.NewClient(srv.URL, "secret", nil)
	entry, err := client.StartTimeEntry(context.Background(), toggl.StartTimeEntryRequest{
		Description: "write docs",
		WorkspaceID: 7,
	})
	require.NoError(t, err)
	require.Equal(t, int64(99), entry.ID)

	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/workspaces/7/time_entries", gotPath)
	require.Equal(t, float64(-1), got["duration"])
	require.NotEmpty(t, got["start"])
	require.NotEmpty(t, got["created_with"])
	require.NotNil(t, got["tags"], "tags must be an empty array, not null")
}

func TestClient_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Incorrect username and/or password"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	client := toggl.NewClient(srv.URL, "bad", nil)
	_, err := client.Workspaces(context.Background())
	require.ErrorIs(t, err, toggl.ErrAuthFailed)

	var apiErr *toggl.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.Contains(t, apiErr.Message, "Incorrect username")
}

func TestClient_PremiumRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"upgrade required"}`, http.StatusPaymentRequired)
	}))
	defer srv.Close()

	client := toggl.NewClient(srv.URL, "secret", nil)
	_, err := client.Workspaces(context.Background())
	require.ErrorIs(t, err, toggl.ErrPremiumRequired)
}

func TestClient_RetriesRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"id":1,"name":"Acme"}]`))
	}))
	defer srv.Close()

	client := toggl.NewClient(srv.URL, "secret", nil)
	workspaces, err := client.Workspaces(context.Background())
	require.NoError(t, err)
	require.Len(t, workspaces, 1)
	require.Equal(t, 2, calls)
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := toggl.NewClient(srv.URL, "secret", nil)
	_, err := client.Workspace(context.Background(), 5)
	require.ErrorIs(t, err, toggl.ErrNotFound)
	require.Equal(t, 1, calls)
}

func TestClient_RetriesNetworkErrorOnGet(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			conn, _, err := w.(http.Hijacker).Hijack()
			if err == nil {
				conn.Close()
			}
			return
		}
		w.Write([]byte(`[{"id":1,"name":"Acme"}]`))
	}))
	defer srv.Close()

	client := toggl.NewClient(srv.URL, "secret", nil)
	workspaces, err := client.Workspaces(context.Background())
	require.NoError(t, err)
	require.Len(t, workspaces, 1)
	require.Equal(t, 2, calls)
}

func TestClient_NoNetworkRetryOnPost(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		// Drop the connection mid-request; the client must not replay a
		// write the server may already have applied.
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}))
	defer srv.Close()

	client := toggl.NewClient(srv.URL, "secret", nil)
	_, err := client.StartTimeEntry(context.Background(), toggl.StartTimeEntryRequest{
		Description: "write docs",
		WorkspaceID: 7,
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}
