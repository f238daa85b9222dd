package ticktick

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickops/ticktick-mcp/internal/auth"
	"github.com/tickops/ticktick-mcp/internal/config"
)

func authenticated(t *testing.T) *auth.Authenticator {
	t.Helper()
	tokenPath := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(tokenPath,
		[]byte(`{"access_token":"test-token","token_type":"bearer"}`), 0600))
	return auth.New(config.Credentials{
		AccountType:  config.AccountGlobal,
		ClientID:     "id",
		ClientSecret: "secret",
	}, auth.WithTokenPath(tokenPath))
}

func unauthenticated(t *testing.T) *auth.Authenticator {
	t.Helper()
	return auth.New(config.Credentials{
		AccountType:  config.AccountGlobal,
		ClientID:     "id",
		ClientSecret: "secret",
	}, auth.WithTokenPath(filepath.Join(t.TempDir(), "token.json")))
}

// apiServer counts requests so tests can assert which calls never hit the
// network.
func apiServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestRequestUnauthenticatedShortCircuits(t *testing.T) {
	srv, calls := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	c := NewClient(unauthenticated(t), WithBaseURL(srv.URL))
	res := c.GetAllProjects(context.Background())

	msg, failed := IsErr(res)
	require.True(t, failed)
	assert.Contains(t, msg, "Not authenticated")
	assert.Equal(t, int64(0), calls.Load(), "unauthenticated calls must not hit the network")
}

func TestRequestSendsBearerToken(t *testing.T) {
	srv, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"p1"}`))
	})

	c := NewClient(authenticated(t), WithBaseURL(srv.URL))
	res := c.GetProject(context.Background(), "p1")

	_, failed := IsErr(res)
	assert.False(t, failed)
}

func TestRequestUnauthorizedInvalidatesToken(t *testing.T) {
	srv, calls := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	a := authenticated(t)
	c := NewClient(a, WithBaseURL(srv.URL))

	res := c.GetAllProjects(context.Background())
	msg, failed := IsErr(res)
	require.True(t, failed)
	assert.Contains(t, msg, "expired")
	assert.False(t, a.IsAuthenticated())

	// The next call short-circuits locally instead of retrying the API.
	res = c.GetAllProjects(context.Background())
	msg, failed = IsErr(res)
	require.True(t, failed)
	assert.Contains(t, msg, "Not authenticated")
	assert.Equal(t, int64(1), calls.Load())
}

func TestRequestNoContentBecomesEmptyObject(t *testing.T) {
	srv, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	c := NewClient(authenticated(t), WithBaseURL(srv.URL))
	res := c.DeleteTask(context.Background(), "p1", "t1")

	_, failed := IsErr(res)
	assert.False(t, failed)
	assert.Equal(t, map[string]any{}, res)
}

func TestRequestEmptyBodyBecomesEmptyObject(t *testing.T) {
	srv, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := NewClient(authenticated(t), WithBaseURL(srv.URL))
	res := c.CompleteTask(context.Background(), "p1", "t1")

	_, failed := IsErr(res)
	assert.False(t, failed)
	assert.Equal(t, map[string]any{}, res)
}

func TestRequestSuccessPassesJSONThrough(t *testing.T) {
	srv, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"p1","name":"Inbox"},{"id":"p2","name":"Work"}]`))
	})

	c := NewClient(authenticated(t), WithBaseURL(srv.URL))
	res := c.GetAllProjects(context.Background())

	list, ok := res.([]any)
	require.True(t, ok, "project list should decode as a JSON array")
	assert.Len(t, list, 2)
}

func TestRequestServerErrorBecomesFailure(t *testing.T) {
	srv, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	c := NewClient(authenticated(t), WithBaseURL(srv.URL))
	res := c.GetAllProjects(context.Background())

	msg, failed := IsErr(res)
	require.True(t, failed)
	assert.Contains(t, msg, "500")
}

func TestRequestMalformedBodyBecomesFailure(t *testing.T) {
	srv, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": `))
	})

	c := NewClient(authenticated(t), WithBaseURL(srv.URL))
	res := c.GetProject(context.Background(), "p1")

	msg, failed := IsErr(res)
	require.True(t, failed)
	assert.Contains(t, msg, "decode")
}

func TestCreateTaskSendsPayload(t *testing.T) {
	var gotPath, gotBody string
	srv, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		buf := make([]byte, 4096)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.Write([]byte(`{"id":"t1"}`))
	})

	prio := 5
	c := NewClient(authenticated(t), WithBaseURL(srv.URL))
	res := c.CreateTask(context.Background(), TaskPayload{
		Title:     "Ship release",
		ProjectID: "p1",
		DueDate:   "2026-09-01T17:00:00+0000",
		Priority:  &prio,
	})

	_, failed := IsErr(res)
	require.False(t, failed)
	assert.Equal(t, "POST /task", gotPath)
	assert.Contains(t, gotBody, `"title":"Ship release"`)
	assert.Contains(t, gotBody, `"projectId":"p1"`)
	assert.Contains(t, gotBody, `"priority":5`)
	// Unset optional fields stay off the wire entirely.
	assert.NotContains(t, gotBody, "parentId")
	assert.NotContains(t, gotBody, "repeatFlag")
}

func TestUpdateProjectPostsToProjectPath(t *testing.T) {
	var gotPath, gotBody string
	srv, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		buf := make([]byte, 4096)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.Write([]byte(`{"id":"p1"}`))
	})

	c := NewClient(authenticated(t), WithBaseURL(srv.URL))
	res := c.UpdateProject(context.Background(), "p1", ProjectPayload{Name: "Renamed"})

	_, failed := IsErr(res)
	require.False(t, failed)
	assert.Equal(t, "POST /project/p1", gotPath)
	assert.Contains(t, gotBody, `"name":"Renamed"`)
}

func TestCreateSubtaskSetsParentID(t *testing.T) {
	var gotPath, gotBody string
	srv, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		buf := make([]byte, 4096)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.Write([]byte(`{"id":"t2"}`))
	})

	c := NewClient(authenticated(t), WithBaseURL(srv.URL))
	res := c.CreateSubtask(context.Background(), "t1", TaskPayload{
		Title:     "Child",
		ProjectID: "p1",
	})

	_, failed := IsErr(res)
	require.False(t, failed)
	assert.Equal(t, "POST /task", gotPath)
	assert.Contains(t, gotBody, `"parentId":"t1"`)
	assert.Contains(t, gotBody, `"projectId":"p1"`)
}

func TestTaskPayloadPriorityZeroIsSent(t *testing.T) {
	var gotBody string
	srv, _ := apiServer(t, func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 4096)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.Write([]byte(`{"id":"t1"}`))
	})

	none := 0
	c := NewClient(authenticated(t), WithBaseURL(srv.URL))
	c.CreateTask(context.Background(), TaskPayload{Title: "x", ProjectID: "p1", Priority: &none})

	assert.Contains(t, gotBody, `"priority":0`)
}

func TestIsErr(t *testing.T) {
	tests := []struct {
		name    string
		res     Result
		wantMsg string
		wantErr bool
	}{
		{name: "failure map", res: Failure("nope"), wantMsg: "nope", wantErr: true},
		{name: "success map", res: map[string]any{"id": "t1"}, wantErr: false},
		{name: "empty map", res: map[string]any{}, wantErr: false},
		{name: "list", res: []any{1, 2}, wantErr: false},
		{name: "non-string error value", res: map[string]any{"error": 42}, wantMsg: "unknown error", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg, failed := IsErr(tc.res)
			assert.Equal(t, tc.wantErr, failed)
			assert.Equal(t, tc.wantMsg, msg)
		})
	}
}
