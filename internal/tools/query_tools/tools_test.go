package query_tools

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickops/ticktick-mcp/internal/server"
	"github.com/tickops/ticktick-mcp/internal/ticktick"
)

// fakeAPI serves canned query results keyed by project ID.
type fakeAPI struct {
	task        ticktick.Result
	projects    ticktick.Result
	projectData map[string]ticktick.Result
}

func (f *fakeAPI) GetAllProjects(context.Context) ticktick.Result { return f.projects }
func (f *fakeAPI) GetProject(context.Context, string) ticktick.Result {
	return map[string]any{}
}
func (f *fakeAPI) GetProjectWithData(_ context.Context, projectID string) ticktick.Result {
	if r, ok := f.projectData[projectID]; ok {
		return r
	}
	return map[string]any{"project": map[string]any{}, "tasks": []any{}}
}
func (f *fakeAPI) CreateProject(context.Context, ticktick.ProjectPayload) ticktick.Result {
	return map[string]any{}
}
func (f *fakeAPI) UpdateProject(context.Context, string, ticktick.ProjectPayload) ticktick.Result {
	return map[string]any{}
}
func (f *fakeAPI) DeleteProject(context.Context, string) ticktick.Result {
	return map[string]any{}
}
func (f *fakeAPI) GetTask(context.Context, string, string) ticktick.Result { return f.task }
func (f *fakeAPI) CreateTask(context.Context, ticktick.TaskPayload) ticktick.Result {
	return map[string]any{}
}
func (f *fakeAPI) CreateSubtask(context.Context, string, ticktick.TaskPayload) ticktick.Result {
	return map[string]any{}
}
func (f *fakeAPI) UpdateTask(context.Context, string, ticktick.TaskPayload) ticktick.Result {
	return map[string]any{}
}
func (f *fakeAPI) CompleteTask(context.Context, string, string) ticktick.Result {
	return map[string]any{}
}
func (f *fakeAPI) DeleteTask(context.Context, string, string) ticktick.Result {
	return map[string]any{}
}

func newServerContext(t *testing.T, api ticktick.API) *server.ServerContext {
	t.Helper()
	t.Setenv("TICKTICK_CONFIG_DIR", t.TempDir())
	t.Setenv("TICKTICK_DISPLAY_TIMEZONE", "")

	sc, err := server.NewServerContext(context.Background())
	require.NoError(t, err)
	sc.SetTickTickClient(api)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return tc.Text
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "ticktick_query_tasks",
			Arguments: args,
		},
	}
}

// dueAt returns an RFC 3339 due date at noon local time, days from today.
// Noon keeps the test stable no matter when it runs.
func dueAt(days int) string {
	now := time.Now()
	noon := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.Local)
	return noon.AddDate(0, 0, days).Format(time.RFC3339)
}

func TestRegisterQueryTools(t *testing.T) {
	sc := newServerContext(t, &fakeAPI{})
	s := mcpserver.NewMCPServer("test", "0.0.0")

	assert.NoError(t, RegisterQueryTools(s, sc))
}

func TestQueryTasksHandler_InvalidPriority(t *testing.T) {
	sc := newServerContext(t, &fakeAPI{})

	result, err := queryTasksHandler(sc)(context.Background(), callRequest(map[string]interface{}{
		"priority": "urgent",
	}))
	require.NoError(t, err)
	assert.Equal(t, `Invalid priority 'urgent'. Must be one of: "none", "low", "medium", "high"`, resultText(t, result))
}

func TestQueryTasksHandler_InvalidDateFilter(t *testing.T) {
	sc := newServerContext(t, &fakeAPI{})

	result, err := queryTasksHandler(sc)(context.Background(), callRequest(map[string]interface{}{
		"date_filter": "yesterday",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Invalid date_filter. Must be one of: today, tomorrow, overdue, next_7_days, custom", resultText(t, result))
}

func TestQueryTasksHandler_CustomRequiresDays(t *testing.T) {
	sc := newServerContext(t, &fakeAPI{})

	result, err := queryTasksHandler(sc)(context.Background(), callRequest(map[string]interface{}{
		"date_filter": "custom",
	}))
	require.NoError(t, err)
	assert.Equal(t, "custom_days parameter is required when date_filter='custom'", resultText(t, result))

	result, err = queryTasksHandler(sc)(context.Background(), callRequest(map[string]interface{}{
		"date_filter": "custom",
		"custom_days": float64(-1),
	}))
	require.NoError(t, err)
	assert.Equal(t, "custom_days must be a non-negative integer", resultText(t, result))
}

func TestQueryTasksHandler_EmptySearchTerm(t *testing.T) {
	sc := newServerContext(t, &fakeAPI{})

	result, err := queryTasksHandler(sc)(context.Background(), callRequest(map[string]interface{}{
		"search_term": "   ",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Search term cannot be empty.", resultText(t, result))
}

func TestQueryTasksHandler_DirectLookup(t *testing.T) {
	api := &fakeAPI{task: map[string]any{
		"id":       "t1",
		"title":    "Plan sprint",
		"priority": float64(5),
	}}
	sc := newServerContext(t, api)

	result, err := queryTasksHandler(sc)(context.Background(), callRequest(map[string]interface{}{
		"task_id":    "t1",
		"project_id": "p1",
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "Title: Plan sprint")
}

func TestQueryTasksHandler_DirectLookupFilterMismatch(t *testing.T) {
	api := &fakeAPI{task: map[string]any{
		"id":       "t1",
		"title":    "Plan sprint",
		"priority": float64(1),
	}}
	sc := newServerContext(t, api)

	result, err := queryTasksHandler(sc)(context.Background(), callRequest(map[string]interface{}{
		"task_id":    "t1",
		"project_id": "p1",
		"priority":   "high",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Task t1 found but does not match the specified filters (priority='high').", resultText(t, result))
}

func TestQueryTasksHandler_DirectLookupError(t *testing.T) {
	api := &fakeAPI{task: ticktick.Failure("task not found")}
	sc := newServerContext(t, api)

	result, err := queryTasksHandler(sc)(context.Background(), callRequest(map[string]interface{}{
		"task_id":    "gone",
		"project_id": "p1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Error fetching task: task not found", resultText(t, result))
}

func TestQueryTasksHandler_ProjectScanWithPriority(t *testing.T) {
	api := &fakeAPI{projectData: map[string]ticktick.Result{
		"p1": map[string]any{
			"project": map[string]any{"id": "p1", "name": "Work"},
			"tasks": []any{
				map[string]any{"id": "t1", "title": "Urgent thing", "priority": float64(5)},
				map[string]any{"id": "t2", "title": "Someday", "priority": float64(0)},
			},
		},
	}}
	sc := newServerContext(t, api)

	result, err := queryTasksHandler(sc)(context.Background(), callRequest(map[string]interface{}{
		"project_id": "p1",
		"priority":   "high",
	}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "Found 1 tasks (priority High AND in project 'Work'):")
	assert.Contains(t, text, "Title: Urgent thing")
	assert.NotContains(t, text, "Someday")
}

func TestQueryTasksHandler_ProjectScanNoMatch(t *testing.T) {
	api := &fakeAPI{projectData: map[string]ticktick.Result{
		"p1": map[string]any{
			"project": map[string]any{"id": "p1", "name": "Work"},
			"tasks": []any{
				map[string]any{"id": "t1", "title": "Someday", "priority": float64(0)},
			},
		},
	}}
	sc := newServerContext(t, api)

	result, err := queryTasksHandler(sc)(context.Background(), callRequest(map[string]interface{}{
		"project_id": "p1",
		"priority":   "high",
	}))
	require.NoError(t, err)
	assert.Equal(t, "No tasks found (priority High AND in project 'Work').", resultText(t, result))
}

func TestQueryTasksHandler_FullScanDueToday(t *testing.T) {
	api := &fakeAPI{
		projects: []any{
			map[string]any{"id": "p1", "name": "Work"},
			map[string]any{"id": "p2", "name": "Archive", "closed": true},
		},
		projectData: map[string]ticktick.Result{
			"p1": map[string]any{
				"project": map[string]any{"id": "p1", "name": "Work"},
				"tasks": []any{
					map[string]any{"id": "t1", "title": "Due now", "dueDate": dueAt(0)},
					map[string]any{"id": "t2", "title": "Due later", "dueDate": dueAt(3)},
				},
			},
			"inbox": map[string]any{
				"project": map[string]any{"id": "inbox-id", "name": "Inbox"},
				"tasks": []any{
					map[string]any{"id": "t3", "title": "Inbox today", "dueDate": dueAt(0)},
				},
			},
		},
	}
	sc := newServerContext(t, api)

	result, err := queryTasksHandler(sc)(context.Background(), callRequest(map[string]interface{}{
		"date_filter": "today",
	}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "Found 2 projects + Inbox:")
	assert.Contains(t, text, "Project 1:")
	assert.Contains(t, text, "With 1 tasks that are to be 'due today' in this project :")
	assert.Contains(t, text, "Title: Due now")
	assert.NotContains(t, text, "Title: Due later")

	// Closed projects are skipped entirely
	assert.NotContains(t, text, "Archive")

	assert.Contains(t, text, "ID: inbox")
	assert.Contains(t, text, "Title: Inbox today")
}

func TestQueryTasksHandler_FullScanTaskIDOnly(t *testing.T) {
	api := &fakeAPI{
		projects: []any{
			map[string]any{"id": "p1", "name": "Work"},
		},
		projectData: map[string]ticktick.Result{
			"p1": map[string]any{
				"project": map[string]any{"id": "p1", "name": "Work"},
				"tasks": []any{
					map[string]any{"id": "t1", "title": "Wanted"},
					map[string]any{"id": "t2", "title": "Other"},
				},
			},
		},
	}
	sc := newServerContext(t, api)

	result, err := queryTasksHandler(sc)(context.Background(), callRequest(map[string]interface{}{
		"task_id": "t1",
	}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "With 1 tasks that are to be 'task ID 't1'' in this project :")
	assert.Contains(t, text, "Title: Wanted")
	assert.NotContains(t, text, "Title: Other")
}

func TestQueryTasksHandler_SearchMatchesSubtaskTitle(t *testing.T) {
	api := &fakeAPI{projectData: map[string]ticktick.Result{
		"p1": map[string]any{
			"project": map[string]any{"id": "p1", "name": "Work"},
			"tasks": []any{
				map[string]any{
					"id":    "t1",
					"title": "Weekly chores",
					"items": []any{
						map[string]any{"title": "Water the plants"},
					},
				},
				map[string]any{"id": "t2", "title": "Unrelated"},
			},
		},
	}}
	sc := newServerContext(t, api)

	result, err := queryTasksHandler(sc)(context.Background(), callRequest(map[string]interface{}{
		"project_id":  "p1",
		"search_term": "PLANTS",
	}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "Found 1 tasks (matching 'PLANTS' AND in project 'Work'):")
	assert.Contains(t, text, "Title: Weekly chores")
	assert.NotContains(t, text, "Unrelated")
}

func TestQueryTasksHandler_AllTasksDescription(t *testing.T) {
	api := &fakeAPI{projectData: map[string]ticktick.Result{
		"p1": map[string]any{
			"project": map[string]any{"id": "p1", "name": "Work"},
			"tasks":   []any{},
		},
	}}
	sc := newServerContext(t, api)

	result, err := queryTasksHandler(sc)(context.Background(), callRequest(map[string]interface{}{
		"project_id": "p1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "No tasks found (in project 'Work').", resultText(t, result))
}
