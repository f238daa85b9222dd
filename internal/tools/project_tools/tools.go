package project_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tickops/ticktick-mcp/internal/batch"
	"github.com/tickops/ticktick-mcp/internal/format"
	"github.com/tickops/ticktick-mcp/internal/instrumentation"
	"github.com/tickops/ticktick-mcp/internal/server"
	"github.com/tickops/ticktick-mcp/internal/ticktick"
	"github.com/tickops/ticktick-mcp/internal/tools/common"
)

const sectionRule = "============================================================"

// RegisterProjectTools registers all project-related tools with the MCP
// server. Create and delete are withheld in read-only mode.
func RegisterProjectTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getAllProjectsTool := mcp.NewTool("ticktick_get_all_projects",
		mcp.WithDescription("Get all projects from TickTick. This does not include the special \"Inbox\" project; use ticktick_get_project_info with project_id=\"inbox\" for that."),
	)
	s.AddTool(getAllProjectsTool, common.InstrumentedToolHandlerWithOperation("ticktick_get_all_projects", instrumentation.OperationList, sc, getAllProjectsHandler(sc)))

	getProjectInfoTool := mcp.NewTool("ticktick_get_project_info",
		mcp.WithDescription("Get comprehensive information about a project, including its details and all tasks."),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("ID of the project, or \"inbox\" to get inbox information"),
		),
	)
	s.AddTool(getProjectInfoTool, common.InstrumentedToolHandlerWithOperation("ticktick_get_project_info", instrumentation.OperationGet, sc, getProjectInfoHandler(sc)))

	if !readOnly {
		createProjectTool := mcp.NewTool("ticktick_create_project",
			mcp.WithDescription("Create a new project in TickTick."),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Project name"),
			),
			mcp.WithString("color",
				mcp.Description("Color code (hex format, default \"#F18181\")"),
			),
			mcp.WithString("view_mode",
				mcp.Description("View mode - one of list, kanban, or timeline (default \"list\")"),
			),
		)
		s.AddTool(createProjectTool, common.InstrumentedToolHandlerWithOperation("ticktick_create_project", instrumentation.OperationCreate, sc, createProjectHandler(sc)))

		deleteProjectsTool := mcp.NewTool("ticktick_delete_projects",
			mcp.WithDescription("Delete one or more projects. Pass a project ID string for a single project, or a list of project ID strings for batch deletion."),
			mcp.WithString("projects",
				mcp.Required(),
				mcp.Description("Project ID string or list of project ID strings"),
			),
		)
		s.AddTool(deleteProjectsTool, common.InstrumentedToolHandlerWithOperation("ticktick_delete_projects", instrumentation.OperationDelete, sc, deleteProjectsHandler(sc)))
	}

	return nil
}

func getAllProjectsHandler(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := sc.TickTick().GetAllProjects(ctx)
		if msg, failed := ticktick.IsErr(result); failed {
			return mcp.NewToolResultText(fmt.Sprintf("Error fetching projects: %s", msg)), nil
		}

		projects, _ := result.([]any)
		return mcp.NewToolResultText(format.Projects(projects, "Projects")), nil
	}
}

func getProjectInfoHandler(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		projectID, ok := args["project_id"].(string)
		if !ok || projectID == "" {
			return mcp.NewToolResultError("project_id is required"), nil
		}

		result := sc.TickTick().GetProjectWithData(ctx, projectID)
		if msg, failed := ticktick.IsErr(result); failed {
			return mcp.NewToolResultText(fmt.Sprintf("Error fetching project data: %s", msg)), nil
		}

		data, _ := result.(map[string]any)
		project, _ := data["project"].(map[string]any)
		tasks, _ := data["tasks"].([]any)
		projectName := projectID
		if project != nil {
			if name, ok := project["name"].(string); ok && name != "" {
				projectName = name
			}
		}

		var b strings.Builder
		b.WriteString(sectionRule + "\n")
		b.WriteString("📁 PROJECT INFORMATION\n")
		b.WriteString(sectionRule + "\n\n")
		b.WriteString(format.Project(project))
		b.WriteString("\n" + sectionRule + "\n")
		fmt.Fprintf(&b, "📋 TASKS IN '%s' (%d tasks)\n", projectName, len(tasks))
		b.WriteString(sectionRule + "\n\n")

		switch {
		case strings.EqualFold(projectID, "inbox") && len(tasks) == 0:
			b.WriteString("Your inbox is empty. 📭 Great job staying organized!\n")
		case len(tasks) == 0:
			b.WriteString("No tasks found in this project.\n")
		default:
			for i, raw := range tasks {
				task, _ := raw.(map[string]any)
				fmt.Fprintf(&b, "Task %d:\n%s\n", i+1, format.Task(task))
			}
		}

		return mcp.NewToolResultText(b.String()), nil
	}
}

func createProjectHandler(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		name, ok := args["name"].(string)
		if !ok || name == "" {
			return mcp.NewToolResultError("name is required"), nil
		}

		color := "#F18181"
		if c, ok := args["color"].(string); ok && c != "" {
			color = c
		}

		viewMode := "list"
		if v, ok := args["view_mode"].(string); ok && v != "" {
			viewMode = v
		}
		switch viewMode {
		case "list", "kanban", "timeline":
		default:
			return mcp.NewToolResultText("Invalid view_mode. Must be one of: list, kanban, timeline."), nil
		}

		result := sc.TickTick().CreateProject(ctx, ticktick.ProjectPayload{
			Name:     name,
			Color:    color,
			ViewMode: viewMode,
			Kind:     "TASK",
		})
		if msg, failed := ticktick.IsErr(result); failed {
			return mcp.NewToolResultText(fmt.Sprintf("Error creating project: %s", msg)), nil
		}

		project, _ := result.(map[string]any)
		return mcp.NewToolResultText("Project created successfully:\n\n" + format.Project(project)), nil
	}
}

func deleteProjectsHandler(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		projectIDs, single, errMsg := normalizeProjectIDs(args["projects"])
		if errMsg != "" {
			return mcp.NewToolResultText(errMsg), nil
		}

		var succeeded []batch.Success
		var failed []string
		for i, projectID := range projectIDs {
			result := sc.TickTick().DeleteProject(ctx, projectID)
			if msg, isErr := ticktick.IsErr(result); isErr {
				failed = append(failed, fmt.Sprintf("Project %d (ID: %s): %s", i+1, projectID, msg))
				continue
			}

			detail := fmt.Sprintf("%d. Project ID: %s", i+1, projectID)
			if single {
				detail = fmt.Sprintf("Project %s deleted successfully.", projectID)
			}
			succeeded = append(succeeded, batch.Success{Position: i + 1, Label: projectID, Detail: detail})
		}

		report := batch.Report{
			Single:    single,
			ItemName:  "project",
			Operation: batch.OpDelete,
			Succeeded: succeeded,
			Failed:    failed,
		}
		return mcp.NewToolResultText(report.Format()), nil
	}
}

// normalizeProjectIDs folds a single project ID or a list of IDs into a
// slice. Deleting projects takes bare ID strings, unlike the task batches
// which take objects.
func normalizeProjectIDs(input any) (ids []string, single bool, errMsg string) {
	var raw []any
	switch v := input.(type) {
	case string:
		raw = []any{v}
		single = true
	case []any:
		if len(v) == 0 {
			return nil, false, "No projects provided. Please provide at least one project to delete."
		}
		raw = v
	default:
		return nil, false, "Invalid input. Projects must be a string or list of strings."
	}

	var errs []string
	ids = make([]string, 0, len(raw))
	for i, elem := range raw {
		s, ok := elem.(string)
		if !ok {
			errs = append(errs, fmt.Sprintf("Project %d: Must be a string (project ID)", i+1))
			continue
		}
		if strings.TrimSpace(s) == "" {
			errs = append(errs, fmt.Sprintf("Project %d: Project ID cannot be empty", i+1))
			continue
		}
		ids = append(ids, s)
	}
	if len(errs) > 0 {
		return nil, false, batch.ValidationFailure(errs)
	}
	return ids, single, ""
}
