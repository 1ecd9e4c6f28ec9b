package mindtools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calebreid/mindweave/internal/mind"
	"github.com/calebreid/mindweave/internal/search"
	"github.com/mark3labs/mcp-go/mcp"
)

// WriteTool handles the mind_write MCP tool: the single entry point for
// persisting entities, observations, relations, journals, and notes.
type WriteTool struct {
	store    *mind.Store
	searcher *search.Searcher
}

// NewWriteTool creates a WriteTool.
func NewWriteTool(store *mind.Store, searcher *search.Searcher) *WriteTool {
	return &WriteTool{store: store, searcher: searcher}
}

// Definition returns the MCP tool definition for mind_write.
func (t *WriteTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_write",
		mcp.WithDescription(
			"Write to memory. Types: entity (create/update with observations), observation "+
				"(add to existing entity), relation (connect two entities), journal (dated entry), "+
				"note (emotionally charged item to metabolize later).",
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("What to write: entity, observation, relation, journal, note"),
		),
		mcp.WithString("name",
			mcp.Description("Entity name (entity, observation)"),
		),
		mcp.WithString("entity_type",
			mcp.Description("Entity type, e.g. person, project, concept (default: concept)"),
		),
		mcp.WithString("context",
			mcp.Description("Memory context, e.g. personal, work (default: default)"),
		),
		mcp.WithArray("observations",
			mcp.Description("Observation contents to record"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("emotion",
			mcp.Description("Emotion tag for observations, journals, and notes"),
		),
		mcp.WithString("weight",
			mcp.Description("Weight: light, medium, heavy (default: medium)"),
		),
		mcp.WithString("from",
			mcp.Description("Relation source entity name"),
		),
		mcp.WithString("to",
			mcp.Description("Relation target entity name"),
		),
		mcp.WithString("relation_type",
			mcp.Description("Relation type, e.g. knows, works_on, part_of"),
		),
		mcp.WithString("content",
			mcp.Description("Journal or note content"),
		),
		mcp.WithString("entry_date",
			mcp.Description("Journal entry date YYYY-MM-DD (default: today)"),
		),
		mcp.WithString("tags",
			mcp.Description("Journal tags as a JSON array string"),
		),
	)
}

// Handle processes the mind_write tool call.
func (t *WriteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	switch req.GetString("type", "") {
	case "entity":
		return t.writeEntity(ctx, req)
	case "observation":
		return t.writeObservations(ctx, req)
	case "relation":
		return t.writeRelation(req)
	case "journal":
		return t.writeJournal(ctx, req)
	case "note":
		return t.writeNote(req)
	default:
		return mcp.NewToolResultError("'type' must be one of: entity, observation, relation, journal, note"), nil
	}
}

func (t *WriteTool) writeEntity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required for an entity"), nil
	}

	e, err := t.store.UpsertEntity(name, req.GetString("entity_type", ""), req.GetString("context", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("write entity failed: %v", err)), nil
	}

	applied, total, err := t.addObservations(ctx, e, stringsArg(req, "observations"),
		req.GetString("emotion", ""), req.GetString("weight", ""))

	var b strings.Builder
	fmt.Fprintf(&b, "Entity recorded: %s (%s) in context %q\n", e.Name, e.Type, e.Context)
	if total > 0 {
		fmt.Fprintf(&b, "Observations added: %d of %d\n", applied, total)
	}
	if err != nil {
		fmt.Fprintf(&b, "Stopped early: %v\n", err)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (t *WriteTool) writeObservations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required for an observation"), nil
	}
	contents := stringsArg(req, "observations")
	if single := req.GetString("content", ""); single != "" && len(contents) == 0 {
		contents = []string{single}
	}
	if len(contents) == 0 {
		return mcp.NewToolResultError("'observations' is required"), nil
	}

	e, err := t.store.GetEntity(name, req.GetString("context", ""))
	if errors.Is(err, mind.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"entity %q not found; write it first with type=entity", name)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("write observation failed: %v", err)), nil
	}

	applied, total, err := t.addObservations(ctx, e, contents,
		req.GetString("emotion", ""), req.GetString("weight", ""))

	var b strings.Builder
	fmt.Fprintf(&b, "Observations added to %s: %d of %d\n", e.Name, applied, total)
	if err != nil {
		fmt.Fprintf(&b, "Stopped early: %v\n", err)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// addObservations applies a batch one row at a time. A failure stops the
// batch but leaves earlier rows applied; the caller reports the count.
func (t *WriteTool) addObservations(ctx context.Context, e *mind.Entity, contents []string, emotion, weight string) (applied, total int, err error) {
	total = len(contents)
	for _, content := range contents {
		obs, aerr := t.store.AddObservation(e.ID, content, emotion, weight)
		if aerr != nil {
			return applied, total, aerr
		}
		applied++
		// Index failures don't undo the durable row.
		if ierr := t.searcher.IndexObservation(ctx, obs, e.Name, e.Context); ierr != nil {
			return applied, total, ierr
		}
	}
	return applied, total, nil
}

func (t *WriteTool) writeRelation(req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, err := t.store.AddRelation(
		req.GetString("from", ""),
		req.GetString("to", ""),
		req.GetString("relation_type", ""),
		req.GetString("context", ""),
		req.GetString("context", ""),
	)
	if errors.Is(err, mind.ErrInvalidArgument) {
		return mcp.NewToolResultError("'from', 'to', and 'relation_type' are required for a relation"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("write relation failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Relation recorded: %s -[%s]-> %s", r.From, r.Type, r.To)), nil
}

func (t *WriteTool) writeJournal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := req.GetString("content", "")
	if content == "" {
		return mcp.NewToolResultError("'content' is required for a journal entry"), nil
	}

	j, err := t.store.AddJournal(
		req.GetString("entry_date", ""),
		content,
		req.GetString("tags", ""),
		req.GetString("emotion", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("write journal failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Journal entry recorded for %s\n", j.EntryDate)
	if err := t.searcher.IndexJournal(ctx, j); err != nil {
		fmt.Fprintf(&b, "Entry saved but not indexed: %v\n", err)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (t *WriteTool) writeNote(req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := req.GetString("content", "")
	if content == "" {
		return mcp.NewToolResultError("'content' is required for a note"), nil
	}
	n, err := t.store.CreateNote(content, req.GetString("weight", ""), req.GetString("emotion", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("write note failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Note #%d recorded [%s, %s]\n%s", n.ID, n.Weight, n.Charge, n.Content)), nil
}
