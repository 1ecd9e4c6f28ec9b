package mindtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/calebreid/mindweave/internal/mind"
	"github.com/mark3labs/mcp-go/mcp"
)

// GroundTool handles the mind_ground MCP tool.
type GroundTool struct {
	store *mind.Store
}

// NewGroundTool creates a GroundTool.
func NewGroundTool(store *mind.Store) *GroundTool {
	return &GroundTool{store: store}
}

// Definition returns the MCP tool definition for mind_ground.
func (t *GroundTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_ground",
		mcp.WithDescription(
			"Ground in what's ongoing: active threads by priority and the most recent journal entries.",
		),
	)
}

// Handle processes the mind_ground tool call.
func (t *GroundTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	threads, err := t.store.ListThreads("active")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ground failed: %v", err)), nil
	}
	journals, err := t.store.RecentJournals(3)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ground failed: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString("=== GROUNDING ===\n\n")

	b.WriteString("## Active Threads\n")
	if len(threads) == 0 {
		b.WriteString("No active threads.\n")
	}
	for _, th := range threads {
		fmt.Fprintf(&b, "- [%s] %s\n", th.Priority, th.Content)
	}

	b.WriteString("\n## Recent Journals\n")
	if len(journals) == 0 {
		b.WriteString("No journals yet.\n")
	}
	for _, j := range journals {
		fmt.Fprintf(&b, "- %s: %s\n", j.EntryDate, mind.Truncate(j.Content, 200))
	}

	return mcp.NewToolResultText(b.String()), nil
}
