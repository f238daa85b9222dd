package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tickops/ticktick-mcp/internal/server"
	"github.com/tickops/ticktick-mcp/internal/ticktick"
)

// RegisterUserResources registers session-specific user resources.
// These resources describe the current account and its projects.
func RegisterUserResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	accountResource := mcp.NewResource(
		"ticktick://account",
		"Current Account",
		mcp.WithResourceDescription("Configuration and authentication state of the current TickTick account"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(accountResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleAccount(ctx, request, sc)
	})

	projectsResource := mcp.NewResource(
		"ticktick://projects",
		"Projects",
		mcp.WithResourceDescription("All projects of the current TickTick account"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(projectsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleProjects(ctx, request, sc)
	})

	return nil
}

// handleAccount returns the account configuration and authentication state.
// It never includes the token itself.
func handleAccount(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	a := sc.Auth()

	accountData := map[string]interface{}{
		"accountType":   sc.AccountType(),
		"configured":    a.IsConfigured(),
		"authenticated": a.IsAuthenticated(),
		"apiBaseURL":    a.Endpoints().APIBaseURL,
		"description":   "TickTick account state",
	}

	jsonData, err := json.MarshalIndent(accountData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleProjects returns the project list as JSON.
func handleProjects(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	result := sc.TickTick().GetAllProjects(ctx)
	if msg, failed := ticktick.IsErr(result); failed {
		return nil, fmt.Errorf("failed to fetch projects: %s", msg)
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal projects: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
