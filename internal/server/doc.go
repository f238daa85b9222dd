// Package server provides the MCP server context and the operational
// HTTP endpoints for the ticktick-mcp application.
//
// # Key Components
//
// ServerContext owns the shared dependencies of a server run: the
// TickTick OAuth authenticator, the API client bound to it, and the
// optional metrics recorder and audit logger. Shutdown stops the OAuth
// callback listener and cancels the run context.
//
// MetricsServer serves Prometheus metrics on a dedicated port, keeping
// operational traffic off the MCP transport.
//
// HealthChecker provides the /healthz and /readyz probes, served on the
// metrics port. Readiness reflects the ServerContext shutdown state.
package server
