package mindtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/calebreid/mindweave/internal/daemon"
	"github.com/mark3labs/mcp-go/mcp"
)

// ProcessTool handles the mind_process MCP tool: a manual trigger for the
// subconscious run, for when waiting an hour is too long.
type ProcessTool struct {
	daemon *daemon.Daemon
}

// NewProcessTool creates a ProcessTool.
func NewProcessTool(d *daemon.Daemon) *ProcessTool {
	return &ProcessTool{daemon: d}
}

// Definition returns the MCP tool definition for mind_process.
func (t *ProcessTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_process",
		mcp.WithDescription(
			"Run the subconscious pass now: rescore warmth and mood, reanalyze the graph, "+
				"and publish a fresh snapshot.",
		),
	)
}

// Handle processes the mind_process tool call.
func (t *ProcessTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := t.daemon.Run(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("subconscious run failed: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString("Subconscious processed.\n\n")
	fmt.Fprintf(&b, "Window observations: %d\n", snap.WindowObsCount)
	fmt.Fprintf(&b, "Mood: %s (%s confidence)\n", snap.Mood.Tone, snap.Mood.Confidence)
	fmt.Fprintf(&b, "Hot entities: %d\n", len(snap.HotEntities))
	fmt.Fprintf(&b, "Graph: %d nodes, %d edges, %d clusters\n",
		snap.GraphStats.Nodes, snap.GraphStats.Edges, snap.GraphStats.Clusters)
	if len(snap.CentralNodes) > 0 {
		fmt.Fprintf(&b, "Most central: %s (%d connections)\n",
			snap.CentralNodes[0].Name, snap.CentralNodes[0].Connections)
	}
	return mcp.NewToolResultText(b.String()), nil
}
