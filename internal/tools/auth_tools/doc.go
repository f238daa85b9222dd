// Package auth_tools provides MCP tools for the TickTick OAuth login flow.
//
// # Available Tools
//
//   - ticktick_status: Report whether the server is authenticated
//   - ticktick_start_authentication: Start the browser authorization flow
//     (prints the authorization URL and starts the local callback listener)
//   - ticktick_finish_authentication: Complete the flow with a manually
//     copied authorization code
//
// The tools are registered unconditionally: they must work before any token
// exists, and they are what an agent uses to recover from an expired token.
package auth_tools
