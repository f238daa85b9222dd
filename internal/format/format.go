package format

import (
	"fmt"
	"strings"

	"github.com/tickops/ticktick-mcp/internal/batch"
	"github.com/tickops/ticktick-mcp/internal/dates"
)

func str(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func num(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// Task renders one task object, converting dates into the task's own
// timezone (falling back to the configured display zone).
func Task(task map[string]any) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ID: %s\n", str(task, "id", "No ID"))
	fmt.Fprintf(&b, "Title: %s\n", str(task, "title", "No title"))
	fmt.Fprintf(&b, "Project ID: %s\n", str(task, "projectId", "None"))

	tz := str(task, "timeZone", "")
	if start := str(task, "startDate", ""); start != "" {
		fmt.Fprintf(&b, "Start Date: %s\n", dates.DisplayIn(start, tz))
	}
	if due := str(task, "dueDate", ""); due != "" {
		fmt.Fprintf(&b, "Due Date: %s\n", dates.DisplayIn(due, tz))
	}
	if tz != "" {
		fmt.Fprintf(&b, "Task Timezone: %s\n", tz)
	}

	priority, _ := num(task, "priority")
	fmt.Fprintf(&b, "Priority: %s\n", capitalize(batch.PriorityName(priority)))

	status := "Active"
	if s, ok := num(task, "status"); ok && s == 2 {
		status = "Completed"
	}
	fmt.Fprintf(&b, "Status: %s\n", status)

	if content := str(task, "content", ""); content != "" {
		fmt.Fprintf(&b, "\nContent:\n%s\n", content)
	}

	if items, ok := task["items"].([]any); ok && len(items) > 0 {
		fmt.Fprintf(&b, "\nSubtasks (%d):\n", len(items))
		for i, raw := range items {
			item, _ := raw.(map[string]any)
			mark := "□"
			if s, ok := num(item, "status"); ok && s == 1 {
				mark = "✓"
			}
			fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, mark, str(item, "title", "No title"))
		}
	}

	return b.String()
}

// Project renders one project object.
func Project(project map[string]any) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Name: %s\n", str(project, "name", "No name"))
	fmt.Fprintf(&b, "ID: %s\n", str(project, "id", "No ID"))

	if color := str(project, "color", ""); color != "" {
		fmt.Fprintf(&b, "Color: %s\n", color)
	}
	if viewMode := str(project, "viewMode", ""); viewMode != "" {
		fmt.Fprintf(&b, "View Mode: %s\n", viewMode)
	}
	if closed, ok := project["closed"].(bool); ok {
		if closed {
			b.WriteString("Closed: Yes\n")
		} else {
			b.WriteString("Closed: No\n")
		}
	}
	if kind := str(project, "kind", ""); kind != "" {
		fmt.Fprintf(&b, "Kind: %s\n", kind)
	}

	return b.String()
}

// Tasks renders a numbered list of tasks, or a "none found" message.
func Tasks(tasks []any, title string) string {
	lower := strings.ToLower(title)
	if len(tasks) == 0 {
		return fmt.Sprintf("No %s found.", lower)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s:\n\n", len(tasks), lower)
	for i, raw := range tasks {
		task, _ := raw.(map[string]any)
		fmt.Fprintf(&b, "Task %d:\n%s\n", i+1, Task(task))
	}
	return b.String()
}

// Projects renders a numbered list of projects, or a "none found" message.
func Projects(projects []any, title string) string {
	lower := strings.ToLower(title)
	if len(projects) == 0 {
		return fmt.Sprintf("No %s found.", lower)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s:\n\n", len(projects), lower)
	for i, raw := range projects {
		project, _ := raw.(map[string]any)
		fmt.Fprintf(&b, "Project %d:\n%s\n", i+1, Project(project))
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
