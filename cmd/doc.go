// Package cmd implements the command-line interface for ticktick-mcp.
//
// This package provides the following commands:
//   - auth: Log in to TickTick via OAuth, check status, log out
//   - projects: List, view, create, and delete projects
//   - tasks: List, filter, create, complete, and delete tasks
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
