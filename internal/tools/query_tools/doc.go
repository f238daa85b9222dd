// Package query_tools provides the unified task query MCP tool.
//
// ticktick_query_tasks filters tasks by any combination of task ID, project,
// due date (today, tomorrow, overdue, next 7 days, or a custom day offset),
// priority, and a free-text search term. Criteria combine with AND logic.
// Date comparisons happen in the configured display timezone.
//
// The tool only reads, so it is registered in read-only mode as well.
package query_tools
