// Package resources provides MCP resources for exposing account and session
// data. Resources are read-only data sources that MCP clients can fetch:
// the current account's configuration/authentication state and its project
// list.
package resources
