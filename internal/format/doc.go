// Package format renders decoded API objects as human-readable text for MCP
// tool results and CLI output.
package format
