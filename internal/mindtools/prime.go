package mindtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/calebreid/mindweave/internal/mind"
	"github.com/calebreid/mindweave/internal/search"
	"github.com/mark3labs/mcp-go/mcp"
)

// PrimeTool handles the mind_prime MCP tool.
type PrimeTool struct {
	searcher *search.Searcher
}

// NewPrimeTool creates a PrimeTool.
func NewPrimeTool(searcher *search.Searcher) *PrimeTool {
	return &PrimeTool{searcher: searcher}
}

// Definition returns the MCP tool definition for mind_prime.
func (t *PrimeTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_prime",
		mcp.WithDescription(
			"Prime memory for a topic before diving in: semantic matches, entities whose "+
				"names match, and recent literal mentions.",
		),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("The topic to prime for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max items per section (default: 5)"),
		),
	)
}

// Handle processes the mind_prime tool call.
func (t *PrimeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := req.GetString("topic", "")
	if topic == "" {
		return mcp.NewToolResultError("'topic' is required"), nil
	}

	primed, err := t.searcher.Prime(ctx, topic, intArg(req, "limit", 5))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("prime failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== PRIMED: %s ===\n\n", topic)

	b.WriteString("## Semantic matches\n")
	if len(primed.Semantic) == 0 {
		b.WriteString("None.\n")
	}
	for _, r := range primed.Semantic {
		fmt.Fprintf(&b, "- (%.2f) %s: %s\n", r.Score, r.Entity, mind.Truncate(r.Content, 200))
	}

	b.WriteString("\n## Matching entities\n")
	if len(primed.Entities) == 0 {
		b.WriteString("None.\n")
	}
	for _, e := range primed.Entities {
		fmt.Fprintf(&b, "- %s (%s) [%s]\n", e.Name, e.Type, e.Context)
	}

	b.WriteString("\n## Recent mentions\n")
	if len(primed.Mentions) == 0 {
		b.WriteString("None.\n")
	}
	for _, m := range primed.Mentions {
		fmt.Fprintf(&b, "- %s — %s: %s\n", m.Source, m.Entity, mind.Truncate(m.Content, 200))
	}

	return mcp.NewToolResultText(b.String()), nil
}
