package mindtools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calebreid/mindweave/internal/mind"
	"github.com/mark3labs/mcp-go/mcp"
)

// ContextTool handles the mind_context MCP tool.
type ContextTool struct {
	store *mind.Store
}

// NewContextTool creates a ContextTool.
func NewContextTool(store *mind.Store) *ContextTool {
	return &ContextTool{store: store}
}

// Definition returns the MCP tool definition for mind_context.
func (t *ContextTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_context",
		mcp.WithDescription(
			"Manage the current-context layer: what's happening right now, scoped by topic. "+
				"Actions: read, set, update, clear.",
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("One of: read, set, update, clear"),
		),
		mcp.WithString("scope",
			mcp.Description("Scope label, e.g. session, project (required for set; optional filter for clear)"),
		),
		mcp.WithString("content",
			mcp.Description("Entry content (required for set and update)"),
		),
		mcp.WithString("entry_id",
			mcp.Description("Entry id (required for update)"),
		),
		mcp.WithString("links",
			mcp.Description("Linked entity names as a JSON array string"),
		),
	)
}

// Handle processes the mind_context tool call.
func (t *ContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	switch req.GetString("action", "") {
	case "read":
		entries, err := t.store.ContextEntries()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("read context failed: %v", err)), nil
		}
		if len(entries) == 0 {
			return mcp.NewToolResultText("No context entries."), nil
		}
		var b strings.Builder
		b.WriteString("## Current Context\n\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "**%s** [%s]\n%s\n\n", e.ID, e.Scope, e.Content)
		}
		return mcp.NewToolResultText(b.String()), nil

	case "set":
		scope := req.GetString("scope", "")
		content := req.GetString("content", "")
		if scope == "" || content == "" {
			return mcp.NewToolResultError("'scope' and 'content' are required for setting context"), nil
		}
		e, err := t.store.SetContextEntry(scope, content, req.GetString("links", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("set context failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Context entry created: %s [%s]", e.ID, e.Scope)), nil

	case "update":
		id := req.GetString("entry_id", "")
		content := req.GetString("content", "")
		if id == "" || content == "" {
			return mcp.NewToolResultError("'entry_id' and 'content' are required for updating context"), nil
		}
		e, err := t.store.UpdateContextEntry(id, content)
		if errors.Is(err, mind.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("context entry %q not found", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("update context failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Context entry updated: %s", e.ID)), nil

	case "clear":
		n, err := t.store.ClearContext(req.GetString("scope", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("clear context failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Cleared %d context entries.", n)), nil

	default:
		return mcp.NewToolResultError("'action' must be one of: read, set, update, clear"), nil
	}
}
