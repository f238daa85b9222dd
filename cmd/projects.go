package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tickops/ticktick-mcp/internal/format"
	"github.com/tickops/ticktick-mcp/internal/ticktick"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage TickTick projects",
	}

	cmd.AddCommand(newProjectsListCmd())
	cmd.AddCommand(newProjectsViewCmd())
	cmd.AddCommand(newProjectsCreateCmd())
	cmd.AddCommand(newProjectsDeleteCmd())
	return cmd
}

func newProjectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			result := client.GetAllProjects(cmd.Context())
			if err := resultErr(result); err != nil {
				return fmt.Errorf("failed to fetch projects: %w", err)
			}

			projects, _ := result.([]any)
			fmt.Print(format.Projects(projects, "Projects"))
			return nil
		},
	}
}

func newProjectsViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <project-id>",
		Short: "Show a project and its tasks (\"inbox\" for the Inbox)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			result := client.GetProjectWithData(cmd.Context(), args[0])
			if err := resultErr(result); err != nil {
				return fmt.Errorf("failed to fetch project data: %w", err)
			}

			data, _ := result.(map[string]any)
			project, _ := data["project"].(map[string]any)
			tasks, _ := data["tasks"].([]any)

			fmt.Print(format.Project(project))
			fmt.Println()
			fmt.Print(format.Tasks(tasks, "Tasks"))
			return nil
		},
	}
}

func newProjectsCreateCmd() *cobra.Command {
	var (
		color    string
		viewMode string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch viewMode {
			case "list", "kanban", "timeline":
			default:
				return fmt.Errorf("invalid view mode %q: must be one of list, kanban, timeline", viewMode)
			}

			client, err := newAPIClient()
			if err != nil {
				return err
			}

			result := client.CreateProject(cmd.Context(), ticktick.ProjectPayload{
				Name:     args[0],
				Color:    color,
				ViewMode: viewMode,
				Kind:     "TASK",
			})
			if err := resultErr(result); err != nil {
				return fmt.Errorf("failed to create project: %w", err)
			}

			project, _ := result.(map[string]any)
			fmt.Println("Project created:")
			fmt.Println()
			fmt.Print(format.Project(project))
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "#F18181", "Project color (hex)")
	cmd.Flags().StringVar(&viewMode, "view-mode", "list", "View mode: list, kanban, or timeline")

	return cmd
}

func newProjectsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>...",
		Short: "Delete one or more projects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}

			var failures int
			for _, projectID := range args {
				result := client.DeleteProject(cmd.Context(), projectID)
				if err := resultErr(result); err != nil {
					failures++
					fmt.Printf("❌ %s: %v\n", projectID, err)
					continue
				}
				fmt.Printf("✅ %s deleted\n", projectID)
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d deletions failed", failures, len(args))
			}
			return nil
		},
	}
}
