// Package project_tools provides MCP tools for managing TickTick projects.
//
// # Available Tools
//
//   - ticktick_get_all_projects: List all projects (excluding the Inbox)
//   - ticktick_get_project_info: Project details plus all of its tasks;
//     accepts "inbox" as the project ID
//   - ticktick_create_project: Create a project (write mode only)
//   - ticktick_delete_projects: Delete one or more projects by ID
//     (write mode only, batch with per-item outcomes)
package project_tools
