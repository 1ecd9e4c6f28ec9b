package mindtools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calebreid/mindweave/internal/mind"
	"github.com/mark3labs/mcp-go/mcp"
)

// ThreadTool handles the mind_thread MCP tool.
type ThreadTool struct {
	store *mind.Store
}

// NewThreadTool creates a ThreadTool.
func NewThreadTool(store *mind.Store) *ThreadTool {
	return &ThreadTool{store: store}
}

// Definition returns the MCP tool definition for mind_thread.
func (t *ThreadTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_thread",
		mcp.WithDescription(
			"Manage open loops carried across sessions: list, add, resolve, or update a thread.",
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("One of: list, add, resolve, update"),
		),
		mcp.WithString("content",
			mcp.Description("Thread content (required for add)"),
		),
		mcp.WithString("thread_id",
			mcp.Description("Thread id (required for resolve and update)"),
		),
		mcp.WithString("thread_type",
			mcp.Description("Type for add: intention, question, commitment (default: intention)"),
		),
		mcp.WithString("context",
			mcp.Description("Optional context label for add"),
		),
		mcp.WithString("priority",
			mcp.Description("Priority: high, medium, low (default: medium)"),
		),
		mcp.WithString("status",
			mcp.Description("Status filter for list (default: active), or new status for update"),
		),
		mcp.WithString("resolution",
			mcp.Description("Resolution note for resolve"),
		),
	)
}

// Handle processes the mind_thread tool call.
func (t *ThreadTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action := req.GetString("action", "")

	switch action {
	case "list":
		return t.list(req.GetString("status", "active"))

	case "add":
		content := req.GetString("content", "")
		if content == "" {
			return mcp.NewToolResultError("'content' is required for adding a thread"), nil
		}
		th, err := t.store.AddThread(
			req.GetString("thread_type", ""),
			content,
			req.GetString("context", ""),
			req.GetString("priority", ""),
		)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("add thread failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Thread created: %s\n%s", th.ID, th.Content)), nil

	case "resolve":
		id := req.GetString("thread_id", "")
		if id == "" {
			return mcp.NewToolResultError("'thread_id' is required for resolving a thread"), nil
		}
		th, err := t.store.ResolveThread(id, req.GetString("resolution", ""))
		if errors.Is(err, mind.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("thread %q not found", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("resolve thread failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Thread resolved: %s\n%s", th.ID, th.Content)), nil

	case "update":
		id := req.GetString("thread_id", "")
		if id == "" {
			return mcp.NewToolResultError("'thread_id' is required for updating a thread"), nil
		}
		th, err := t.store.UpdateThread(id,
			req.GetString("content", ""),
			req.GetString("priority", ""),
			req.GetString("status", ""),
		)
		if errors.Is(err, mind.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("thread %q not found", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("update thread failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Thread updated: %s [%s/%s]\n%s",
			th.ID, th.Priority, th.Status, th.Content)), nil

	default:
		return mcp.NewToolResultError("'action' must be one of: list, add, resolve, update"), nil
	}
}

func (t *ThreadTool) list(status string) (*mcp.CallToolResult, error) {
	threads, err := t.store.ListThreads(status)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list threads failed: %v", err)), nil
	}
	if len(threads) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No %s threads found.", status)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s Threads\n\n", strings.ToUpper(status))
	for _, th := range threads {
		fmt.Fprintf(&b, "**%s** [%s] %s\n%s\n", th.ID, th.Priority, th.Type, th.Content)
		if th.Context != "" {
			fmt.Fprintf(&b, "Context: %s\n", th.Context)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
