package mindtools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calebreid/mindweave/internal/mind"
	"github.com/mark3labs/mcp-go/mcp"
)

// resolveNoteRef finds a note by id or, failing that, by text match.
func resolveNoteRef(store *mind.Store, req mcp.CallToolRequest) (*mind.Note, error) {
	if id := intArg(req, "note_id", 0); id > 0 {
		return store.GetNote(int64(id))
	}
	if text := req.GetString("text_match", ""); text != "" {
		return store.FindNoteByText(text)
	}
	return nil, fmt.Errorf("%w: 'note_id' or 'text_match' is required", mind.ErrInvalidArgument)
}

// SitTool handles the mind_sit MCP tool.
type SitTool struct {
	store *mind.Store
}

// NewSitTool creates a SitTool.
func NewSitTool(store *mind.Store) *SitTool {
	return &SitTool{store: store}
}

// Definition returns the MCP tool definition for mind_sit.
func (t *SitTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_sit",
		mcp.WithDescription(
			"Sit with a note: record a reflection on it. Sitting moves the charge from "+
				"fresh through active to processing; a metabolized note keeps its history growing "+
				"but stays metabolized.",
		),
		mcp.WithNumber("note_id",
			mcp.Description("Note id"),
		),
		mcp.WithString("text_match",
			mcp.Description("Find the note by content fragment instead of id"),
		),
		mcp.WithString("reflection",
			mcp.Required(),
			mcp.Description("What came up while sitting with it"),
		),
	)
}

// Handle processes the mind_sit tool call.
func (t *SitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reflection := req.GetString("reflection", "")
	if reflection == "" {
		return mcp.NewToolResultError("'reflection' is required"), nil
	}

	n, err := resolveNoteRef(t.store, req)
	if errors.Is(err, mind.ErrNotFound) {
		return mcp.NewToolResultError("note not found"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("sit failed: %v", err)), nil
	}

	updated, err := t.store.SitNote(n.ID, reflection)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("sit failed: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Sat with note #%d (sit %d, charge: %s)\n%s",
		updated.ID, updated.SitCount, updated.Charge, updated.Content)), nil
}

// ResolveTool handles the mind_resolve MCP tool.
type ResolveTool struct {
	store *mind.Store
}

// NewResolveTool creates a ResolveTool.
func NewResolveTool(store *mind.Store) *ResolveTool {
	return &ResolveTool{store: store}
}

// Definition returns the MCP tool definition for mind_resolve.
func (t *ResolveTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_resolve",
		mcp.WithDescription(
			"Resolve a note: mark it metabolized with a resolution. This is final; "+
				"a metabolized note never becomes active again.",
		),
		mcp.WithNumber("note_id",
			mcp.Description("Note id"),
		),
		mcp.WithString("text_match",
			mcp.Description("Find the note by content fragment instead of id"),
		),
		mcp.WithString("resolution",
			mcp.Required(),
			mcp.Description("How it resolved, what was understood"),
		),
		mcp.WithNumber("insight_id",
			mcp.Description("Observation id holding the insight this resolved into"),
		),
	)
}

// Handle processes the mind_resolve tool call.
func (t *ResolveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resolution := req.GetString("resolution", "")
	if resolution == "" {
		return mcp.NewToolResultError("'resolution' is required"), nil
	}

	n, err := resolveNoteRef(t.store, req)
	if errors.Is(err, mind.ErrNotFound) {
		return mcp.NewToolResultError("note not found"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolve failed: %v", err)), nil
	}

	updated, err := t.store.ResolveNote(n.ID, resolution, int64(intArg(req, "insight_id", 0)))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("resolve failed: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Note #%d metabolized.\n%s\nResolution: %s",
		updated.ID, updated.Content, updated.ResolutionNote)), nil
}

// SurfaceTool handles the mind_surface MCP tool.
type SurfaceTool struct {
	store *mind.Store
}

// NewSurfaceTool creates a SurfaceTool.
func NewSurfaceTool(store *mind.Store) *SurfaceTool {
	return &SurfaceTool{store: store}
}

// Definition returns the MCP tool definition for mind_surface.
func (t *SurfaceTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_surface",
		mcp.WithDescription(
			"Surface the notes that most need attention: heaviest and freshest first.",
		),
		mcp.WithNumber("limit",
			mcp.Description("Max notes to surface (default: 5)"),
		),
		mcp.WithBoolean("include_metabolized",
			mcp.Description("Include metabolized notes (default: false)"),
		),
	)
}

// Handle processes the mind_surface tool call.
func (t *SurfaceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := t.store.SurfaceNotes(
		intArg(req, "limit", 5),
		boolArg(req, "include_metabolized", false),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("surface failed: %v", err)), nil
	}
	if len(notes) == 0 {
		return mcp.NewToolResultText("Nothing held right now."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Holding %d notes:\n\n", len(notes))
	for _, n := range notes {
		emotion := ""
		if n.Emotion != "" {
			emotion = fmt.Sprintf(" {%s}", n.Emotion)
		}
		fmt.Fprintf(&b, "#%d [%s/%s]%s sits: %d\n%s\n", n.ID, n.Weight, n.Charge, emotion, n.SitCount, n.Content)
		if n.ResolutionNote != "" {
			fmt.Fprintf(&b, "Resolved: %s\n", n.ResolutionNote)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
