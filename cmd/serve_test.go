package cmd

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/tickops/ticktick-mcp/internal/server"
)

func TestRegisterAllTools(t *testing.T) {
	t.Setenv("TICKTICK_CONFIG_DIR", t.TempDir())

	sc, err := server.NewServerContext(context.Background())
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })

	for _, readOnly := range []bool{true, false} {
		mcpSrv := mcpserver.NewMCPServer("test", "0.0.0")
		if err := registerAllTools(mcpSrv, sc, readOnly); err != nil {
			t.Errorf("registerAllTools(readOnly=%v) error = %v", readOnly, err)
		}
	}
}

func TestGetCategoryFromToolName(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		expected string
	}{
		{
			name:     "status tool",
			tool:     "ticktick_status",
			expected: "Authentication Tools",
		},
		{
			name:     "start authentication",
			tool:     "ticktick_start_authentication",
			expected: "Authentication Tools",
		},
		{
			name:     "finish authentication",
			tool:     "ticktick_finish_authentication",
			expected: "Authentication Tools",
		},
		{
			name:     "project tool",
			tool:     "ticktick_get_all_projects",
			expected: "Project Tools",
		},
		{
			name:     "query tool",
			tool:     "ticktick_query_tasks",
			expected: "Query Tools",
		},
		{
			name:     "task tool",
			tool:     "ticktick_create_tasks",
			expected: "Task Tools",
		},
		{
			name:     "unknown tool",
			tool:     "something_else",
			expected: "Other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getCategoryFromToolName(tt.tool); got != tt.expected {
				t.Errorf("getCategoryFromToolName(%q) = %q, want %q", tt.tool, got, tt.expected)
			}
		})
	}
}
