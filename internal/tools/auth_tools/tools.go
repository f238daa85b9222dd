package auth_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tickops/ticktick-mcp/internal/server"
	"github.com/tickops/ticktick-mcp/internal/tools/common"
)

// RegisterAuthTools registers the authentication tools with the MCP server.
// These are always available, even in read-only mode: without them a fresh
// install has no way to log in.
func RegisterAuthTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	statusTool := mcp.NewTool("ticktick_status",
		mcp.WithDescription("Check the current connection status with TickTick. Returns whether the server is authenticated and ready to use."),
	)
	s.AddTool(statusTool, common.InstrumentedToolHandler("ticktick_status", sc, statusHandler(sc)))

	startAuthTool := mcp.NewTool("ticktick_start_authentication",
		mcp.WithDescription("Start the authentication process. Returns a URL that the user must visit to authorize the application."),
	)
	s.AddTool(startAuthTool, common.InstrumentedToolHandler("ticktick_start_authentication", sc, startAuthenticationHandler(sc)))

	finishAuthTool := mcp.NewTool("ticktick_finish_authentication",
		mcp.WithDescription("Complete the authentication process using the code obtained from the browser."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("The authorization code copied from the redirect URL."),
		),
	)
	s.AddTool(finishAuthTool, common.InstrumentedToolHandler("ticktick_finish_authentication", sc, finishAuthenticationHandler(sc)))

	return nil
}

func statusHandler(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		a := sc.Auth()
		if !a.IsConfigured() {
			return mcp.NewToolResultText("Error: Missing Client ID or Client Secret in configuration."), nil
		}
		if a.IsAuthenticated() {
			return mcp.NewToolResultText(fmt.Sprintf("✅ Connected to TickTick (%s account). Ready to manage tasks.", sc.AccountType())), nil
		}
		return mcp.NewToolResultText("❌ Not Authenticated. Please use the 'ticktick_start_authentication' tool to log in."), nil
	}
}

func startAuthenticationHandler(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		a := sc.Auth()

		// Start the local callback listener first so the redirect has
		// somewhere to land. A failed bind degrades to manual code entry.
		a.StartCallbackListener()

		url, err := a.AuthURL()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error generating auth URL: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf(`Please open the following URL in your browser to authorize TickTick:

%s

**Automatic Login:**
After you authorize, you will be automatically redirected to a local page confirming success.
You do NOT need to copy any code. Just close the window and return here.

**Manual Fallback:**
If the automatic login fails (e.g., page connection refused), please copy the 'code' parameter from the redirected URL and use the 'ticktick_finish_authentication' tool manually.
`, url)), nil
	}
}

func finishAuthenticationHandler(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		code, ok := args["code"].(string)
		if !ok || code == "" {
			return mcp.NewToolResultError("code is required"), nil
		}

		if sc.Auth().ExchangeCode(ctx, code) {
			return mcp.NewToolResultText("✅ Authentication successful! Token saved locally. You can now use all task tools."), nil
		}
		return mcp.NewToolResultText("❌ Authentication failed. The code might be invalid or expired. Please try 'ticktick_start_authentication' again."), nil
	}
}
