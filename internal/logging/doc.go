// Package logging provides structured logging utilities for ticktick-mcp.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Token sanitization (length indicator only, never content)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "tasks.create")
//	logger.Info("task created",
//	    logging.Project(projectID),
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("token saved",
//	    "token", logging.SanitizeToken(accessToken))
//
// # Security Considerations
//
// Access tokens are never logged directly; only their length is recorded so
// operators can distinguish an empty token from a truncated one.
package logging
