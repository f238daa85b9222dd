// Package task_tools provides MCP tools for creating and mutating TickTick
// tasks. Every tool accepts either a single object or a list of objects; a
// batch is validated exhaustively before anything is dispatched, and partial
// failures are reported per item without stopping the rest of the batch.
//
// # Available Tools
//
//   - ticktick_create_tasks: Create tasks
//   - ticktick_update_tasks: Update existing tasks
//   - ticktick_complete_tasks: Mark tasks complete
//   - ticktick_delete_tasks: Delete tasks
//   - ticktick_create_subtasks: Create subtasks under parent tasks
//
// All of these write, so none are registered in read-only mode.
package task_tools
