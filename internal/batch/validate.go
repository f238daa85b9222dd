package batch

import (
	"fmt"
	"time"

	"github.com/tickops/ticktick-mcp/internal/dates"
)

// ValidateDate checks an optional date field. Dates must be ISO-8601 with an
// explicit UTC offset; a parseable timestamp that merely lacks the offset
// gets its own message so the caller knows what to add.
func ValidateDate(item Item, field string, index int) string {
	raw := item.String(field)
	if raw == "" {
		return ""
	}

	if _, err := dates.Parse(raw); err != nil {
		if _, bare := time.Parse("2006-01-02T15:04:05", dates.Normalize(raw)); bare == nil {
			return fmt.Sprintf("Task %d: %s must include timezone offset (e.g., +08:00 or +0000)", index+1, field)
		}
		return fmt.Sprintf("Task %d: Invalid %s format '%s'. Use ISO with timezone, e.g., YYYY-MM-DDTHH:mm:ss+0000", index+1, field, raw)
	}
	return ""
}

// ValidateCreateTask checks one task object for batch creation: required
// title and project_id, a known priority level, well-formed dates, and a
// list-shaped items field.
func ValidateCreateTask(item Item, index int) []string {
	if item == nil {
		return []string{fmt.Sprintf("Task %d: Must be a dictionary", index+1)}
	}

	var errs []string
	if !item.Has("title") {
		errs = append(errs, fmt.Sprintf("Task %d: 'title' is required and cannot be empty", index+1))
	}
	if !item.Has("project_id") {
		errs = append(errs, fmt.Sprintf("Task %d: 'project_id' is required and cannot be empty", index+1))
	}

	if msg := ValidatePriority(item["priority"], index); msg != "" {
		errs = append(errs, msg)
	}

	for _, field := range []string{"start_date", "due_date"} {
		if msg := ValidateDate(item, field, index); msg != "" {
			errs = append(errs, msg)
		}
	}

	if items, present := item["items"]; present && items != nil {
		if _, ok := items.([]any); !ok {
			errs = append(errs, fmt.Sprintf("Task %d: 'items' must be a list", index+1))
		}
	}

	return errs
}

// ValidateUpdateTask checks one task object for batch update: required IDs,
// plus the same optional priority and date checks as creation.
func ValidateUpdateTask(item Item, index int) []string {
	errs := RequireFields(item, []string{"task_id", "project_id"}, index, "Task")
	if len(errs) > 0 {
		return errs
	}

	if msg := ValidatePriority(item["priority"], index); msg != "" {
		errs = append(errs, msg)
	}
	for _, field := range []string{"start_date", "due_date"} {
		if msg := ValidateDate(item, field, index); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

// ValidateTaskRef checks one {project_id, task_id} reference, as used by
// complete and delete.
func ValidateTaskRef(item Item, index int) []string {
	return RequireFields(item, []string{"task_id", "project_id"}, index, "Task")
}
