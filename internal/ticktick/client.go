package ticktick

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tickops/ticktick-mcp/internal/auth"
	"github.com/tickops/ticktick-mcp/internal/logging"
)

const (
	msgNotAuthenticated = "Not authenticated with TickTick. Run 'ticktick-mcp auth login' or use the ticktick_start_authentication tool first."
	msgTokenExpired     = "TickTick access token expired or was revoked. Please re-authenticate."
)

// API is the surface tool handlers and CLI commands program against. The
// concrete implementation is Client; tests substitute a fake.
type API interface {
	GetAllProjects(ctx context.Context) Result
	GetProject(ctx context.Context, projectID string) Result
	GetProjectWithData(ctx context.Context, projectID string) Result
	CreateProject(ctx context.Context, p ProjectPayload) Result
	UpdateProject(ctx context.Context, projectID string, p ProjectPayload) Result
	DeleteProject(ctx context.Context, projectID string) Result

	GetTask(ctx context.Context, projectID, taskID string) Result
	CreateTask(ctx context.Context, t TaskPayload) Result
	CreateSubtask(ctx context.Context, parentTaskID string, t TaskPayload) Result
	UpdateTask(ctx context.Context, taskID string, t TaskPayload) Result
	CompleteTask(ctx context.Context, projectID, taskID string) Result
	DeleteTask(ctx context.Context, projectID, taskID string) Result
}

// Client talks to the TickTick Open API on behalf of one authenticated
// session. All methods funnel through request, so the failure contract and
// token handling live in exactly one place.
type Client struct {
	auth       *auth.Authenticator
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a gateway bound to the given authenticator. The base URL
// follows the authenticator's region so a global token is never sent to the
// China deployment or vice versa.
func NewClient(a *auth.Authenticator, opts ...ClientOption) *Client {
	c := &Client{
		auth:       a,
		baseURL:    a.Endpoints().APIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request performs one API call and maps every possible outcome onto the
// uniform Result contract. It never returns a Go error.
func (c *Client) request(ctx context.Context, method, path string, body any) Result {
	if !c.auth.IsAuthenticated() {
		return Failure(msgNotAuthenticated)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return Failure(fmt.Sprintf("failed to encode request body: %v", err))
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return Failure(fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.auth.AccessToken())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed",
			logging.Operation(method+" "+path), logging.Err(err))
		return Failure(fmt.Sprintf("request to TickTick API failed: %v", err))
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		logging.Operation(method+" "+path),
		"status_code", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		// Drop the in-memory token so later calls fail fast locally
		// instead of hammering the API with a dead token.
		c.auth.Invalidate()
		return Failure(msgTokenExpired)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failure(fmt.Sprintf("failed to read response body: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("TickTick API error: %s", resp.Status)
		if len(data) > 0 {
			msg = fmt.Sprintf("%s: %s", msg, truncate(string(data), 200))
		}
		return Failure(msg)
	}

	// Deletes and completes answer 204 or an empty body; normalize to an
	// empty object so success is always valid JSON.
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Failure(fmt.Sprintf("failed to decode API response: %v", err))
	}
	return decoded
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// GetAllProjects lists every project visible to the account.
func (c *Client) GetAllProjects(ctx context.Context) Result {
	return c.request(ctx, http.MethodGet, "/project", nil)
}

// GetProject fetches one project by ID.
func (c *Client) GetProject(ctx context.Context, projectID string) Result {
	return c.request(ctx, http.MethodGet, "/project/"+projectID, nil)
}

// GetProjectWithData fetches a project together with its undone tasks and
// columns.
func (c *Client) GetProjectWithData(ctx context.Context, projectID string) Result {
	return c.request(ctx, http.MethodGet, "/project/"+projectID+"/data", nil)
}

// CreateProject creates a new project.
func (c *Client) CreateProject(ctx context.Context, p ProjectPayload) Result {
	return c.request(ctx, http.MethodPost, "/project", p)
}

// UpdateProject updates an existing project. Only the fields set in the
// payload are sent.
func (c *Client) UpdateProject(ctx context.Context, projectID string, p ProjectPayload) Result {
	return c.request(ctx, http.MethodPost, "/project/"+projectID, p)
}

// DeleteProject deletes a project by ID.
func (c *Client) DeleteProject(ctx context.Context, projectID string) Result {
	return c.request(ctx, http.MethodDelete, "/project/"+projectID, nil)
}

// GetTask fetches one task by project and task ID.
func (c *Client) GetTask(ctx context.Context, projectID, taskID string) Result {
	return c.request(ctx, http.MethodGet, "/project/"+projectID+"/task/"+taskID, nil)
}

// CreateTask creates a task (or a subtask, when ParentID is set).
func (c *Client) CreateTask(ctx context.Context, t TaskPayload) Result {
	return c.request(ctx, http.MethodPost, "/task", t)
}

// CreateSubtask creates a task nested under the given parent. Parent and
// child must live in the same project.
func (c *Client) CreateSubtask(ctx context.Context, parentTaskID string, t TaskPayload) Result {
	t.ParentID = parentTaskID
	return c.request(ctx, http.MethodPost, "/task", t)
}

// UpdateTask updates an existing task. The payload must carry the task and
// project IDs the API expects in the body as well.
func (c *Client) UpdateTask(ctx context.Context, taskID string, t TaskPayload) Result {
	return c.request(ctx, http.MethodPost, "/task/"+taskID, t)
}

// CompleteTask marks a task as done.
func (c *Client) CompleteTask(ctx context.Context, projectID, taskID string) Result {
	return c.request(ctx, http.MethodPost, "/project/"+projectID+"/task/"+taskID+"/complete", nil)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, projectID, taskID string) Result {
	return c.request(ctx, http.MethodDelete, "/project/"+projectID+"/task/"+taskID, nil)
}
