package task_tools

import (
	"context"
	"fmt"
	"strings"

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

// RegisterTaskTools registers all task mutation tools with the MCP server.
// Every one of them writes, so nothing is registered in read-only mode.
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	createTasksTool := mcp.NewTool("ticktick_create_tasks",
		mcp.WithDescription("Create one or more tasks in TickTick. Pass a single task object or a list of task objects. Each task requires 'title' and 'project_id'; optional fields: content, desc, start_date, due_date (ISO datetime WITH timezone offset, e.g. 2025-12-16T16:00:00+0800), time_zone (IANA name), priority (none/low/medium/high), repeat_flag, items (subtask checklist)."),
		mcp.WithObject("tasks",
			mcp.Required(),
			mcp.Description("Task object or list of task objects"),
		),
	)
	s.AddTool(createTasksTool, common.InstrumentedToolHandlerWithOperation("ticktick_create_tasks", instrumentation.OperationCreate, sc, createTasksHandler(sc)))

	updateTasksTool := mcp.NewTool("ticktick_update_tasks",
		mcp.WithDescription("Update one or more existing tasks in TickTick. Pass a single task object or a list of task objects. Each task requires 'task_id' and 'project_id'; the remaining fields are optional and only the provided ones change."),
		mcp.WithObject("tasks",
			mcp.Required(),
			mcp.Description("Task object or list of task objects"),
		),
	)
	s.AddTool(updateTasksTool, common.InstrumentedToolHandlerWithOperation("ticktick_update_tasks", instrumentation.OperationUpdate, sc, updateTasksHandler(sc)))

	completeTasksTool := mcp.NewTool("ticktick_complete_tasks",
		mcp.WithDescription("Mark one or more tasks as complete. Pass a single {project_id, task_id} object or a list of them."),
		mcp.WithObject("tasks",
			mcp.Required(),
			mcp.Description("Task reference object or list of task reference objects"),
		),
	)
	s.AddTool(completeTasksTool, common.InstrumentedToolHandlerWithOperation("ticktick_complete_tasks", instrumentation.OperationComplete, sc, completeTasksHandler(sc)))

	deleteTasksTool := mcp.NewTool("ticktick_delete_tasks",
		mcp.WithDescription("Delete one or more tasks. Pass a single {project_id, task_id} object or a list of them."),
		mcp.WithObject("tasks",
			mcp.Required(),
			mcp.Description("Task reference object or list of task reference objects"),
		),
	)
	s.AddTool(deleteTasksTool, common.InstrumentedToolHandlerWithOperation("ticktick_delete_tasks", instrumentation.OperationDelete, sc, deleteTasksHandler(sc)))

	createSubtasksTool := mcp.NewTool("ticktick_create_subtasks",
		mcp.WithDescription("Create one or more subtasks under existing parent tasks. Each subtask requires 'subtask_title', 'parent_task_id' and 'project_id' (parent and subtask must share the project); optional: content, priority."),
		mcp.WithObject("subtasks",
			mcp.Required(),
			mcp.Description("Subtask object or list of subtask objects"),
		),
	)
	s.AddTool(createSubtasksTool, common.InstrumentedToolHandlerWithOperation("ticktick_create_subtasks", instrumentation.OperationCreate, sc, createSubtasksHandler(sc)))

	return nil
}

// checklistItems converts a raw items list into checklist entries. Shape was
// validated beforehand; non-object entries are skipped.
func checklistItems(raw any) []ticktick.ChecklistItem {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	items := make([]ticktick.ChecklistItem, 0, len(list))
	for _, elem := range list {
		m, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		item := ticktick.ChecklistItem{}
		if title, ok := m["title"].(string); ok {
			item.Title = title
		}
		switch s := m["status"].(type) {
		case float64:
			item.Status = int(s)
		case int:
			item.Status = s
		}
		items = append(items, item)
	}
	return items
}

func resultField(result ticktick.Result, key, fallback string) string {
	if m, ok := result.(map[string]any); ok {
		if v, ok := m[key].(string); ok && v != "" {
			return v
		}
	}
	return fallback
}

func formatResult(result ticktick.Result) string {
	m, _ := result.(map[string]any)
	return format.Task(m)
}

func createTasksHandler(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, single, errMsg := batch.Normalize(request.GetArguments()["tasks"], "Task")
		if errMsg != "" {
			return mcp.NewToolResultText(errMsg), nil
		}

		if errs := batch.ValidateAll(items, batch.ValidateCreateTask); len(errs) > 0 {
			return mcp.NewToolResultText(batch.ValidationFailure(errs)), nil
		}

		api := sc.TickTick()
		succeeded, failed := batch.Process(items, func(i int, item batch.Item) (batch.Success, error) {
			title := item.String("title")
			priority, _ := batch.NormalizePriority(item["priority"])

			payload := ticktick.TaskPayload{
				Title:      title,
				ProjectID:  item.String("project_id"),
				Content:    item.String("content"),
				Desc:       item.String("desc"),
				StartDate:  dates.ToWire(item.String("start_date")),
				DueDate:    dates.ToWire(item.String("due_date")),
				TimeZone:   dates.EffectiveTimeZone(item.String("time_zone")),
				Priority:   &priority,
				RepeatFlag: item.String("repeat_flag"),
				Items:      checklistItems(item["items"]),
			}

			result := api.CreateTask(ctx, payload)
			if msg, isErr := ticktick.IsErr(result); isErr {
				return batch.Success{}, fmt.Errorf("Task %d ('%s'): %s", i+1, title, msg)
			}

			detail := fmt.Sprintf("%d. %s (ID: %s)", i+1, title, resultField(result, "id", "Unknown"))
			if single {
				detail = "Task created successfully:\n\n" + formatResult(result)
			}
			return batch.Success{Position: i + 1, Label: title, Detail: detail}, nil
		})

		report := batch.Report{Single: single, ItemName: "task", Operation: batch.OpCreate, Succeeded: succeeded, Failed: failed}
		return mcp.NewToolResultText(report.Format()), nil
	}
}

func updateTasksHandler(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, single, errMsg := batch.Normalize(request.GetArguments()["tasks"], "Task")
		if errMsg != "" {
			return mcp.NewToolResultText(errMsg), nil
		}

		if errs := batch.ValidateAll(items, batch.ValidateUpdateTask); len(errs) > 0 {
			return mcp.NewToolResultText(batch.ValidationFailure(errs)), nil
		}

		api := sc.TickTick()
		succeeded, failed := batch.Process(items, func(i int, item batch.Item) (batch.Success, error) {
			taskID := item.String("task_id")
			startDate := dates.ToWire(item.String("start_date"))
			dueDate := dates.ToWire(item.String("due_date"))

			// A date change without an explicit zone falls back to the
			// configured default so the instant does not silently shift.
			timeZone := item.String("time_zone")
			if timeZone == "" && (startDate != "" || dueDate != "") {
				timeZone = dates.EffectiveTimeZone("")
			}

			payload := ticktick.TaskPayload{
				ID:         taskID,
				ProjectID:  item.String("project_id"),
				Title:      item.String("title"),
				Content:    item.String("content"),
				Desc:       item.String("desc"),
				StartDate:  startDate,
				DueDate:    dueDate,
				TimeZone:   timeZone,
				RepeatFlag: item.String("repeat_flag"),
				Items:      checklistItems(item["items"]),
			}
			if p, ok := batch.NormalizePriority(item["priority"]); ok {
				payload.Priority = &p
			}

			result := api.UpdateTask(ctx, taskID, payload)
			if msg, isErr := ticktick.IsErr(result); isErr {
				return batch.Success{}, fmt.Errorf("Task %d (ID: %s): %s", i+1, taskID, msg)
			}

			detail := fmt.Sprintf("%d. %s (ID: %s)", i+1, resultField(result, "title", "Unknown"), taskID)
			if single {
				detail = "Task updated successfully:\n\n" + formatResult(result)
			}
			return batch.Success{Position: i + 1, Label: taskID, Detail: detail}, nil
		})

		report := batch.Report{Single: single, ItemName: "task", Operation: batch.OpUpdate, Succeeded: succeeded, Failed: failed}
		return mcp.NewToolResultText(report.Format()), nil
	}
}

func completeTasksHandler(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, single, errMsg := batch.Normalize(request.GetArguments()["tasks"], "Task")
		if errMsg != "" {
			return mcp.NewToolResultText(errMsg), nil
		}

		if errs := batch.ValidateAll(items, batch.ValidateTaskRef); len(errs) > 0 {
			return mcp.NewToolResultText(batch.ValidationFailure(errs)), nil
		}

		api := sc.TickTick()
		succeeded, failed := batch.Process(items, func(i int, item batch.Item) (batch.Success, error) {
			taskID := item.String("task_id")

			result := api.CompleteTask(ctx, item.String("project_id"), taskID)
			if msg, isErr := ticktick.IsErr(result); isErr {
				return batch.Success{}, fmt.Errorf("Task %d (ID: %s): %s", i+1, taskID, msg)
			}

			detail := fmt.Sprintf("%d. Task ID: %s", i+1, taskID)
			if single {
				detail = fmt.Sprintf("Task %s marked as complete.", taskID)
			}
			return batch.Success{Position: i + 1, Label: taskID, Detail: detail}, nil
		})

		report := batch.Report{Single: single, ItemName: "task", Operation: batch.OpComplete, Succeeded: succeeded, Failed: failed}
		return mcp.NewToolResultText(report.Format()), nil
	}
}

func deleteTasksHandler(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, single, errMsg := batch.Normalize(request.GetArguments()["tasks"], "Task")
		if errMsg != "" {
			return mcp.NewToolResultText(errMsg), nil
		}

		if errs := batch.ValidateAll(items, batch.ValidateTaskRef); len(errs) > 0 {
			return mcp.NewToolResultText(batch.ValidationFailure(errs)), nil
		}

		api := sc.TickTick()
		succeeded, failed := batch.Process(items, func(i int, item batch.Item) (batch.Success, error) {
			taskID := item.String("task_id")

			result := api.DeleteTask(ctx, item.String("project_id"), taskID)
			if msg, isErr := ticktick.IsErr(result); isErr {
				return batch.Success{}, fmt.Errorf("Task %d (ID: %s): %s", i+1, taskID, msg)
			}

			detail := fmt.Sprintf("%d. Task ID: %s", i+1, taskID)
			if single {
				detail = fmt.Sprintf("Task %s deleted successfully.", taskID)
			}
			return batch.Success{Position: i + 1, Label: taskID, Detail: detail}, nil
		})

		report := batch.Report{Single: single, ItemName: "task", Operation: batch.OpDelete, Succeeded: succeeded, Failed: failed}
		return mcp.NewToolResultText(report.Format()), nil
	}
}

func validateSubtask(item batch.Item, index int) []string {
	errs := batch.RequireFields(item, []string{"subtask_title", "parent_task_id", "project_id"}, index, "Subtask")
	if len(errs) > 0 {
		return errs
	}
	if msg := batch.ValidatePriority(item["priority"], index); msg != "" {
		errs = append(errs, strings.Replace(msg, "Task", "Subtask", 1))
	}
	return errs
}

func createSubtasksHandler(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, single, errMsg := batch.Normalize(request.GetArguments()["subtasks"], "Subtask")
		if errMsg != "" {
			return mcp.NewToolResultText(errMsg), nil
		}

		if errs := batch.ValidateAll(items, validateSubtask); len(errs) > 0 {
			return mcp.NewToolResultText(batch.ValidationFailure(errs)), nil
		}

		api := sc.TickTick()
		succeeded, failed := batch.Process(items, func(i int, item batch.Item) (batch.Success, error) {
			title := item.String("subtask_title")
			priority, _ := batch.NormalizePriority(item["priority"])

			payload := ticktick.TaskPayload{
				Title:     title,
				ProjectID: item.String("project_id"),
				Content:   item.String("content"),
				Priority:  &priority,
			}

			result := api.CreateSubtask(ctx, item.String("parent_task_id"), payload)
			if msg, isErr := ticktick.IsErr(result); isErr {
				return batch.Success{}, fmt.Errorf("Subtask %d ('%s'): %s", i+1, title, msg)
			}

			detail := fmt.Sprintf("%d. %s (ID: %s)", i+1, title, resultField(result, "id", "Unknown"))
			if single {
				detail = "Subtask created successfully:\n\n" + formatResult(result)
			}
			return batch.Success{Position: i + 1, Label: title, Detail: detail}, nil
		})

		report := batch.Report{Single: single, ItemName: "subtask", Operation: batch.OpCreate, Succeeded: succeeded, Failed: failed}
		return mcp.NewToolResultText(report.Format()), nil
	}
}
