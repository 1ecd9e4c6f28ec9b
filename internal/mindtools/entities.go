package mindtools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calebreid/mindweave/internal/mind"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListEntitiesTool handles the mind_list_entities MCP tool.
type ListEntitiesTool struct {
	store *mind.Store
}

// NewListEntitiesTool creates a ListEntitiesTool.
func NewListEntitiesTool(store *mind.Store) *ListEntitiesTool {
	return &ListEntitiesTool{store: store}
}

// Definition returns the MCP tool definition for mind_list_entities.
func (t *ListEntitiesTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_list_entities",
		mcp.WithDescription("List known entities, optionally filtered by type or context."),
		mcp.WithString("entity_type",
			mcp.Description("Filter by type, e.g. person, project, concept"),
		),
		mcp.WithString("context",
			mcp.Description("Filter by memory context"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 50)"),
		),
	)
}

// Handle processes the mind_list_entities tool call.
func (t *ListEntitiesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entities, err := t.store.ListEntities(
		req.GetString("entity_type", ""),
		req.GetString("context", ""),
		intArg(req, "limit", 50),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list entities failed: %v", err)), nil
	}
	if len(entities) == 0 {
		return mcp.NewToolResultText("No entities found."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d entities:\n\n", len(entities))
	for _, e := range entities {
		fmt.Fprintf(&b, "- %s (%s) [%s]\n", e.Name, e.Type, e.Context)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ReadEntityTool handles the mind_read_entity MCP tool.
type ReadEntityTool struct {
	store *mind.Store
}

// NewReadEntityTool creates a ReadEntityTool.
func NewReadEntityTool(store *mind.Store) *ReadEntityTool {
	return &ReadEntityTool{store: store}
}

// Definition returns the MCP tool definition for mind_read_entity.
func (t *ReadEntityTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_read_entity",
		mcp.WithDescription(
			"Read everything about one entity: its observations and the relations in both directions.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Entity name"),
		),
		mcp.WithString("context",
			mcp.Description("Memory context; omitted means the latest entity with that name"),
		),
	)
}

// Handle processes the mind_read_entity tool call.
func (t *ReadEntityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	e, err := t.store.GetEntity(name, req.GetString("context", ""))
	if errors.Is(err, mind.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("entity %q not found", name)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read entity failed: %v", err)), nil
	}

	obs, err := t.store.ObservationsFor(e.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read entity failed: %v", err)), nil
	}
	outgoing, err := t.store.RelationsFrom(e.Name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read entity failed: %v", err)), nil
	}
	incoming, err := t.store.RelationsTo(e.Name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read entity failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s) [%s]\n\n", e.Name, e.Type, e.Context)

	fmt.Fprintf(&b, "## Observations (%d)\n", len(obs))
	for _, o := range obs {
		tag := ""
		if o.Emotion != "" {
			tag = fmt.Sprintf(" {%s}", o.Emotion)
		}
		fmt.Fprintf(&b, "- [#%d, %s]%s %s\n", o.ID, o.Weight, tag, o.Content)
	}

	if len(outgoing) > 0 {
		b.WriteString("\n## Relations (outgoing)\n")
		for _, r := range outgoing {
			fmt.Fprintf(&b, "- %s -[%s]-> %s\n", r.From, r.Type, r.To)
		}
	}
	if len(incoming) > 0 {
		b.WriteString("\n## Relations (incoming)\n")
		for _, r := range incoming {
			fmt.Fprintf(&b, "- %s -[%s]-> %s\n", r.From, r.Type, r.To)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}
