package query_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tickops/ticktick-mcp/internal/batch"
	"github.com/tickops/ticktick-mcp/internal/dates"
	"github.com/tickops/ticktick-mcp/internal/format"
	"github.com/tickops/ticktick-mcp/internal/instrumentation"
	"github.com/tickops/ticktick-mcp/internal/server"
	"github.com/tickops/ticktick-mcp/internal/ticktick"
	"github.com/tickops/ticktick-mcp/internal/tools/common"
)

var validDateFilters = []string{"today", "tomorrow", "overdue", "next_7_days", "custom"}

// RegisterQueryTools registers the unified task query tool. Querying never
// writes, so it is available in read-only mode too.
func RegisterQueryTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	queryTasksTool := mcp.NewTool("ticktick_query_tasks",
		mcp.WithDescription("Unified task query with flexible multi-dimensional filtering. All parameters are optional; with none, every task is returned. Filters combine with AND logic: a task must match all of them. task_id plus project_id does a direct lookup; task_id alone searches every project."),
		mcp.WithString("task_id",
			mcp.Description("Get a specific task by ID"),
		),
		mcp.WithString("project_id",
			mcp.Description("Limit the search to one project (\"inbox\" for the Inbox)"),
		),
		mcp.WithString("date_filter",
			mcp.Description("One of: today, tomorrow, overdue, next_7_days, custom"),
		),
		mcp.WithNumber("custom_days",
			mcp.Description("Days from today, only with date_filter=\"custom\" (0 = today, 1 = tomorrow)"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority level: none, low, medium, or high (case-insensitive)"),
		),
		mcp.WithString("search_term",
			mcp.Description("Keyword matched against title, content, and subtask titles (case-insensitive)"),
		),
	)
	s.AddTool(queryTasksTool, common.InstrumentedToolHandlerWithOperation("ticktick_query_tasks", instrumentation.OperationQuery, sc, queryTasksHandler(sc)))

	return nil
}

// filter holds one validated query. Zero values mean "criterion not set".
type filter struct {
	taskID     string
	dateFilter string
	customDays int
	priority   *int
	searchTerm string
	hasSearch  bool
}

// matchesCriteria applies the date, priority, and search criteria. The task
// ID criterion is separate because the direct-lookup path already resolved it.
func (f filter) matchesCriteria(task map[string]any) bool {
	switch f.dateFilter {
	case "today":
		if !dueInDays(task, 0) {
			return false
		}
	case "tomorrow":
		if !dueInDays(task, 1) {
			return false
		}
	case "overdue":
		if !overdue(task) {
			return false
		}
	case "next_7_days":
		if !dueWithinWeek(task) {
			return false
		}
	case "custom":
		if !dueInDays(task, f.customDays) {
			return false
		}
	}

	if f.priority != nil && taskPriority(task) != *f.priority {
		return false
	}

	if f.hasSearch && !matchesSearch(task, f.searchTerm) {
		return false
	}
	return true
}

// matches additionally applies the task ID criterion, for paths that scan
// task lists rather than fetching one task directly.
func (f filter) matches(task map[string]any) bool {
	if f.taskID != "" {
		if id, _ := task["id"].(string); id != f.taskID {
			return false
		}
	}
	return f.matchesCriteria(task)
}

func queryTasksHandler(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		taskID, _ := args["task_id"].(string)
		projectID, _ := args["project_id"].(string)
		dateFilter, _ := args["date_filter"].(string)
		searchTerm, _ := args["search_term"].(string)

		f := filter{taskID: taskID, dateFilter: dateFilter}

		// The original string spelling of the priority is kept for messages.
		prioritySpec := ""
		if raw, present := args["priority"]; present && raw != nil {
			prioritySpec = fmt.Sprintf("%v", raw)
			p, ok := batch.NormalizePriority(raw)
			if !ok {
				return mcp.NewToolResultText(fmt.Sprintf(`Invalid priority '%s'. Must be one of: "none", "low", "medium", "high"`, prioritySpec)), nil
			}
			f.priority = &p
		}

		if dateFilter != "" && !contains(validDateFilters, dateFilter) {
			return mcp.NewToolResultText("Invalid date_filter. Must be one of: " + strings.Join(validDateFilters, ", ")), nil
		}

		if dateFilter == "custom" {
			raw, present := args["custom_days"]
			if !present || raw == nil {
				return mcp.NewToolResultText("custom_days parameter is required when date_filter='custom'"), nil
			}
			days, ok := asNonNegativeInt(raw)
			if !ok {
				return mcp.NewToolResultText("custom_days must be a non-negative integer"), nil
			}
			f.customDays = days
		}

		if raw, present := args["search_term"]; present && raw != nil {
			if strings.TrimSpace(searchTerm) == "" {
				return mcp.NewToolResultText("Search term cannot be empty."), nil
			}
			f.searchTerm = searchTerm
			f.hasSearch = true
		}

		api := sc.TickTick()

		// Direct lookup: both IDs known, single API call.
		if taskID != "" && projectID != "" {
			result := api.GetTask(ctx, projectID, taskID)
			if msg, failed := ticktick.IsErr(result); failed {
				return mcp.NewToolResultText(fmt.Sprintf("Error fetching task: %s", msg)), nil
			}

			task, _ := result.(map[string]any)
			if !f.matchesCriteria(task) {
				var parts []string
				if dateFilter != "" {
					parts = append(parts, "date_filter="+dateFilter)
				}
				if f.priority != nil {
					parts = append(parts, fmt.Sprintf("priority='%s'", prioritySpec))
				}
				if f.hasSearch {
					parts = append(parts, fmt.Sprintf("search_term='%s'", f.searchTerm))
				}
				return mcp.NewToolResultText(fmt.Sprintf("Task %s found but does not match the specified filters (%s).", taskID, strings.Join(parts, ", "))), nil
			}
			return mcp.NewToolResultText(format.Task(task)), nil
		}

		description := f.describe(prioritySpec)

		// Single project scan.
		if projectID != "" {
			result := api.GetProjectWithData(ctx, projectID)
			if msg, failed := ticktick.IsErr(result); failed {
				return mcp.NewToolResultText(fmt.Sprintf("Error fetching project data: %s", msg)), nil
			}

			data, _ := result.(map[string]any)
			project, _ := data["project"].(map[string]any)
			tasks, _ := data["tasks"].([]any)

			projectName := projectID
			if name, ok := project["name"].(string); ok && name != "" {
				projectName = name
			}
			description = joinNonEmpty(description, fmt.Sprintf("in project '%s'", projectName))

			var matched []map[string]any
			for _, raw := range tasks {
				task, _ := raw.(map[string]any)
				if f.matches(task) {
					matched = append(matched, task)
				}
			}
			if len(matched) == 0 {
				return mcp.NewToolResultText(fmt.Sprintf("No tasks found (%s).", description)), nil
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Found %d tasks (%s):\n\n", len(matched), description)
			for i, task := range matched {
				fmt.Fprintf(&b, "Task %d:\n%s\n", i+1, format.Task(task))
			}
			return mcp.NewToolResultText(b.String()), nil
		}

		// Full scan over every project plus the Inbox.
		result := api.GetAllProjects(ctx)
		if msg, failed := ticktick.IsErr(result); failed {
			return mcp.NewToolResultText(fmt.Sprintf("Error fetching projects: %s", msg)), nil
		}

		projects, _ := result.([]any)
		if len(projects) == 0 {
			return mcp.NewToolResultText("No projects found."), nil
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Found %d projects + Inbox:\n\n", len(projects))

		for i, raw := range projects {
			project, _ := raw.(map[string]any)
			if closed, _ := project["closed"].(bool); closed {
				continue
			}

			id, _ := project["id"].(string)
			data, _ := api.GetProjectWithData(ctx, id).(map[string]any)
			tasks, _ := data["tasks"].([]any)

			fmt.Fprintf(&b, "Project %d:\n%s", i+1, format.Project(project))
			if len(tasks) == 0 {
				fmt.Fprintf(&b, "With 0 tasks that are to be '%s' in this project :\n\n\n", description)
				continue
			}

			writeFilteredTasks(&b, tasks, f, description)
			b.WriteString("\n\n")
		}

		inbox := api.GetProjectWithData(ctx, "inbox")
		if msg, failed := ticktick.IsErr(inbox); failed {
			fmt.Fprintf(&b, "Inbox: Error fetching inbox: %s\n", msg)
		} else {
			data, _ := inbox.(map[string]any)
			project, _ := data["project"].(map[string]any)
			tasks, _ := data["tasks"].([]any)

			inboxName := "Inbox"
			if name, ok := project["name"].(string); ok && name != "" {
				inboxName = name
			}

			b.WriteString("Inbox:\n")
			fmt.Fprintf(&b, "Name: %s\n", inboxName)
			b.WriteString("ID: inbox\n")
			writeFilteredTasks(&b, tasks, f, description)
			b.WriteString("\n")
		}

		return mcp.NewToolResultText(b.String()), nil
	}
}

// writeFilteredTasks renders the matching tasks of one project, keeping each
// task's original 1-based position in the project.
func writeFilteredTasks(b *strings.Builder, tasks []any, f filter, description string) {
	type positioned struct {
		pos  int
		task map[string]any
	}
	var matched []positioned
	for i, raw := range tasks {
		task, _ := raw.(map[string]any)
		if f.matches(task) {
			matched = append(matched, positioned{pos: i + 1, task: task})
		}
	}

	fmt.Fprintf(b, "With %d tasks that are to be '%s' in this project :\n", len(matched), description)
	for _, m := range matched {
		fmt.Fprintf(b, "Task %d:\n%s\n", m.pos, format.Task(m.task))
	}
}

// describe builds the human-readable AND-joined filter description used in
// result headers, e.g. "due today AND priority High".
func (f filter) describe(prioritySpec string) string {
	var parts []string

	if f.taskID != "" {
		parts = append(parts, fmt.Sprintf("task ID '%s'", f.taskID))
	}

	switch f.dateFilter {
	case "today":
		parts = append(parts, "due today")
	case "tomorrow":
		parts = append(parts, "due tomorrow")
	case "overdue":
		parts = append(parts, "overdue")
	case "next_7_days":
		parts = append(parts, "due within next 7 days")
	case "custom":
		switch f.customDays {
		case 0:
			parts = append(parts, "due today")
		case 1:
			parts = append(parts, "due in 1 day")
		default:
			parts = append(parts, fmt.Sprintf("due in %d days", f.customDays))
		}
	}

	if f.priority != nil {
		parts = append(parts, "priority "+capitalize(prioritySpec))
	}

	if f.hasSearch {
		parts = append(parts, fmt.Sprintf("matching '%s'", f.searchTerm))
	}

	if len(parts) == 0 {
		return "all tasks"
	}
	return strings.Join(parts, " AND ")
}

func joinNonEmpty(description, part string) string {
	if description == "all tasks" {
		return part
	}
	return description + " AND " + part
}

// dueInDays reports whether the task's due date falls exactly days from
// today, compared in the configured display zone. Tasks without a parseable
// due date never match a date filter.
func dueInDays(task map[string]any, days int) bool {
	due, _ := task["dueDate"].(string)
	if due == "" {
		return false
	}
	t, err := dates.Parse(due)
	if err != nil {
		return false
	}
	return dates.SameDay(t, dates.Today().AddDate(0, 0, days))
}

func overdue(task map[string]any) bool {
	due, _ := task["dueDate"].(string)
	if due == "" {
		return false
	}
	t, err := dates.Parse(due)
	if err != nil {
		return false
	}
	return t.Before(time.Now())
}

func dueWithinWeek(task map[string]any) bool {
	for day := 0; day < 7; day++ {
		if dueInDays(task, day) {
			return true
		}
	}
	return false
}

func taskPriority(task map[string]any) int {
	switch v := task["priority"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// matchesSearch checks the term against title, content, and subtask titles,
// case-insensitively.
func matchesSearch(task map[string]any, term string) bool {
	term = strings.ToLower(term)

	if title, _ := task["title"].(string); strings.Contains(strings.ToLower(title), term) {
		return true
	}
	if content, _ := task["content"].(string); strings.Contains(strings.ToLower(content), term) {
		return true
	}
	if items, ok := task["items"].([]any); ok {
		for _, raw := range items {
			item, _ := raw.(map[string]any)
			if title, _ := item["title"].(string); strings.Contains(strings.ToLower(title), term) {
				return true
			}
		}
	}
	return false
}

func asNonNegativeInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, n >= 0
	case float64:
		i := int(n)
		if float64(i) != n || i < 0 {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
