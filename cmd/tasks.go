package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickops/ticktick-mcp/internal/batch"
	"github.com/tickops/ticktick-mcp/internal/dates"
	"github.com/tickops/ticktick-mcp/internal/format"
	"github.com/tickops/ticktick-mcp/internal/ticktick"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage TickTick tasks",
	}

	cmd.AddCommand(newTasksListCmd())
	cmd.AddCommand(newTasksTodayCmd())
	cmd.AddCommand(newTasksOverdueCmd())
	cmd.AddCommand(newTasksViewCmd())
	cmd.AddCommand(newTasksCreateCmd())
	cmd.AddCommand(newTasksCompleteCmd())
	cmd.AddCommand(newTasksDeleteCmd())
	return cmd
}

func newTasksListCmd() *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			result := client.GetProjectWithData(cmd.Context(), projectID)
			if err := resultErr(result); err != nil {
				return fmt.Errorf("failed to fetch project data: %w", err)
			}

			data, _ := result.(map[string]any)
			tasks, _ := data["tasks"].([]any)
			fmt.Print(format.Tasks(tasks, "Tasks"))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "inbox", "Project ID (default: the Inbox)")
	return cmd
}

func newTasksTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "List tasks due today across all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFilteredTasks(cmd.Context(), "tasks due today", func(task map[string]any) bool {
				t, ok := taskDue(task)
				return ok && dates.SameDay(t, dates.Today())
			})
		},
	}
}

func newTasksOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List overdue tasks across all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFilteredTasks(cmd.Context(), "overdue tasks", func(task map[string]any) bool {
				t, ok := taskDue(task)
				return ok && t.Before(time.Now())
			})
		},
	}
}

func taskDue(task map[string]any) (time.Time, bool) {
	due, _ := task["dueDate"].(string)
	if due == "" {
		return time.Time{}, false
	}
	t, err := dates.Parse(due)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// listFilteredTasks scans every open project plus the Inbox and prints the
// tasks accepted by match.
func listFilteredTasks(ctx context.Context, title string, match func(task map[string]any) bool) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	result := client.GetAllProjects(ctx)
	if err := resultErr(result); err != nil {
		return fmt.Errorf("failed to fetch projects: %w", err)
	}
	projects, _ := result.([]any)

	projectIDs := []string{"inbox"}
	for _, raw := range projects {
		project, _ := raw.(map[string]any)
		if closed, _ := project["closed"].(bool); closed {
			continue
		}
		if id, ok := project["id"].(string); ok && id != "" {
			projectIDs = append(projectIDs, id)
		}
	}

	var matched []any
	for _, id := range projectIDs {
		data, _ := client.GetProjectWithData(ctx, id).(map[string]any)
		tasks, _ := data["tasks"].([]any)
		for _, raw := range tasks {
			task, _ := raw.(map[string]any)
			if match(task) {
				matched = append(matched, raw)
			}
		}
	}

	fmt.Print(format.Tasks(matched, title))
	return nil
}

func newTasksViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <project-id> <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			result := client.GetTask(cmd.Context(), args[0], args[1])
			if err := resultErr(result); err != nil {
				return fmt.Errorf("failed to fetch task: %w", err)
			}

			task, _ := result.(map[string]any)
			fmt.Print(format.Task(task))
			return nil
		},
	}
}

func newTasksCreateCmd() *cobra.Command {
	var (
		projectID string
		content   string
		priority  string
		startDate string
		dueDate   string
		timeZone  string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := batch.NormalizePriority(priority)
			if !ok {
				return fmt.Errorf("invalid priority %q: must be one of none, low, medium, high", priority)
			}

			for _, d := range []string{startDate, dueDate} {
				if d == "" {
					continue
				}
				if _, err := dates.Parse(d); err != nil {
					return err
				}
			}

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			result := client.CreateTask(cmd.Context(), ticktick.TaskPayload{
				Title:     args[0],
				ProjectID: projectID,
				Content:   content,
				StartDate: dates.ToWire(startDate),
				DueDate:   dates.ToWire(dueDate),
				TimeZone:  dates.EffectiveTimeZone(timeZone),
				Priority:  &p,
			})
			if err := resultErr(result); err != nil {
				return fmt.Errorf("failed to create task: %w", err)
			}

			task, _ := result.(map[string]any)
			fmt.Println("Task created:")
			fmt.Println()
			fmt.Print(format.Task(task))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "inbox", "Project ID (default: the Inbox)")
	cmd.Flags().StringVar(&content, "content", "", "Task content/notes")
	cmd.Flags().StringVar(&priority, "priority", "none", "Priority: none, low, medium, or high")
	cmd.Flags().StringVar(&startDate, "start", "", "Start date, ISO-8601 with timezone offset (e.g. 2025-12-16T09:00:00+0800)")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date, ISO-8601 with timezone offset")
	cmd.Flags().StringVar(&timeZone, "time-zone", "", "IANA timezone for the task (default: TICKTICK_DISPLAY_TIMEZONE)")

	return cmd
}

func newTasksCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <project-id> <task-id>",
		Short: "Mark a task complete",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			if err := resultErr(client.CompleteTask(cmd.Context(), args[0], args[1])); err != nil {
				return fmt.Errorf("failed to complete task: %w", err)
			}
			fmt.Printf("✅ Task %s marked as complete.\n", args[1])
			return nil
		},
	}
}

func newTasksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id> <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			if err := resultErr(client.DeleteTask(cmd.Context(), args[0], args[1])); err != nil {
				return fmt.Errorf("failed to delete task: %w", err)
			}
			fmt.Printf("Task %s deleted.\n", args[1])
			return nil
		},
	}
}
