package mindtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/calebreid/mindweave/internal/mind"
	"github.com/calebreid/mindweave/internal/search"
	"github.com/mark3labs/mcp-go/mcp"
)

// SearchTool handles the mind_search MCP tool.
type SearchTool struct {
	searcher *search.Searcher
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(searcher *search.Searcher) *SearchTool {
	return &SearchTool{searcher: searcher}
}

// Definition returns the MCP tool definition for mind_search.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_search",
		mcp.WithDescription(
			"Search memory semantically. The query is tinted by the current mood; "+
				"when nothing semantic matches, a literal text search runs instead.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query — natural language or keywords"),
		),
		mcp.WithNumber("n_results",
			mcp.Description("Max results (default: 10)"),
		),
	)
}

// Handle processes the mind_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}
	limit := intArg(req, "n_results", 10)

	results, mood, err := t.searcher.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No memories found matching your query."), nil
	}

	var b strings.Builder
	if mood != "" {
		fmt.Fprintf(&b, "*Search tinted by current mood: %s*\n\n", mood)
	}
	fmt.Fprintf(&b, "Found %d memories:\n\n", len(results))
	for i, r := range results {
		emotion := ""
		if r.Emotion != "" {
			emotion = fmt.Sprintf(" | feeling: %s", r.Emotion)
		}
		score := ""
		if r.Semantic {
			score = fmt.Sprintf(" (%.2f)", r.Score)
		}
		fmt.Fprintf(&b, "[%d] %s — %s%s%s\n    %s\n\n",
			i+1, r.Source, r.Entity, score, emotion, mind.Truncate(r.Content, 300))
	}
	return mcp.NewToolResultText(b.String()), nil
}
