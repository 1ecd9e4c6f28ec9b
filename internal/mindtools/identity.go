package mindtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/calebreid/mindweave/internal/mind"
	"github.com/mark3labs/mcp-go/mcp"
)

// IdentityTool handles the mind_identity MCP tool.
type IdentityTool struct {
	store *mind.Store
}

// NewIdentityTool creates an IdentityTool.
func NewIdentityTool(store *mind.Store) *IdentityTool {
	return &IdentityTool{store: store}
}

// Definition returns the MCP tool definition for mind_identity.
func (t *IdentityTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_identity",
		mcp.WithDescription(
			"Read the identity graph, or add an entry to it (who you are, what you value, how you work).",
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("One of: read, write"),
		),
		mcp.WithString("section",
			mcp.Description("Section, e.g. core, values, voice (required for write; optional filter for read)"),
		),
		mcp.WithString("content",
			mcp.Description("Entry content (required for write)"),
		),
		mcp.WithNumber("weight",
			mcp.Description("How load-bearing this entry is, 0-1 (default: 0.7)"),
		),
		mcp.WithString("connections",
			mcp.Description("Related entity names, comma-separated"),
		),
	)
}

// Handle processes the mind_identity tool call.
func (t *IdentityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	switch req.GetString("action", "") {
	case "read":
		entries, err := t.store.IdentityEntries(req.GetString("section", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("read identity failed: %v", err)), nil
		}
		if len(entries) == 0 {
			return mcp.NewToolResultText("No identity entries yet."), nil
		}
		var b strings.Builder
		b.WriteString("## Identity\n\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "- [%s] (%.1f) %s\n", e.Section, e.Weight, e.Content)
			if e.Connections != "" {
				fmt.Fprintf(&b, "  connects: %s\n", e.Connections)
			}
		}
		return mcp.NewToolResultText(b.String()), nil

	case "write":
		section := req.GetString("section", "")
		content := req.GetString("content", "")
		if section == "" || content == "" {
			return mcp.NewToolResultError("'section' and 'content' are required for writing identity"), nil
		}
		e, err := t.store.AddIdentity(section, content,
			floatArg(req, "weight", 0), req.GetString("connections", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("write identity failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Identity entry #%d recorded in [%s]", e.ID, e.Section)), nil

	default:
		return mcp.NewToolResultError("'action' must be one of: read, write"), nil
	}
}
