package mindtools

import (
	"context"
	"errors"
	"fmt"

	"github.com/calebreid/mindweave/internal/mind"
	"github.com/mark3labs/mcp-go/mcp"
)

// EditTool handles the mind_edit MCP tool.
type EditTool struct {
	store *mind.Store
}

// NewEditTool creates an EditTool.
func NewEditTool(store *mind.Store) *EditTool {
	return &EditTool{store: store}
}

// Definition returns the MCP tool definition for mind_edit.
func (t *EditTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_edit",
		mcp.WithDescription(
			"Edit an observation by id or by matching its text. Only provided fields change.",
		),
		mcp.WithNumber("observation_id",
			mcp.Description("Observation id"),
		),
		mcp.WithString("text_match",
			mcp.Description("Find the latest observation containing this text instead of using an id"),
		),
		mcp.WithString("content",
			mcp.Description("New content"),
		),
		mcp.WithString("emotion",
			mcp.Description("New emotion tag"),
		),
		mcp.WithString("weight",
			mcp.Description("New weight: light, medium, heavy"),
		),
	)
}

// Handle processes the mind_edit tool call.
func (t *EditTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	obs, result := t.findObservation(req)
	if result != nil {
		return result, nil
	}

	content := req.GetString("content", "")
	emotion := req.GetString("emotion", "")
	weight := req.GetString("weight", "")
	if content == "" && emotion == "" && weight == "" {
		return mcp.NewToolResultError("nothing to change: provide 'content', 'emotion', or 'weight'"), nil
	}

	updated, err := t.store.UpdateObservation(obs.ID, content, emotion, weight)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("edit failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Observation #%d updated [%s]\n%s", updated.ID, updated.Weight, updated.Content)), nil
}

func (t *EditTool) findObservation(req mcp.CallToolRequest) (*mind.Observation, *mcp.CallToolResult) {
	if id := intArg(req, "observation_id", 0); id > 0 {
		obs, err := t.store.GetObservation(int64(id))
		if errors.Is(err, mind.ErrNotFound) {
			return nil, mcp.NewToolResultError(fmt.Sprintf("observation #%d not found", id))
		}
		if err != nil {
			return nil, mcp.NewToolResultError(fmt.Sprintf("edit failed: %v", err))
		}
		return obs, nil
	}

	text := req.GetString("text_match", "")
	if text == "" {
		return nil, mcp.NewToolResultError("'observation_id' or 'text_match' is required")
	}
	obs, err := t.store.FindObservationByText(text)
	if errors.Is(err, mind.ErrNotFound) {
		return nil, mcp.NewToolResultError(fmt.Sprintf("no observation matches %q", text))
	}
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("edit failed: %v", err))
	}
	return obs, nil
}

// DeleteTool handles the mind_delete MCP tool.
type DeleteTool struct {
	store *mind.Store
}

// NewDeleteTool creates a DeleteTool.
func NewDeleteTool(store *mind.Store) *DeleteTool {
	return &DeleteTool{store: store}
}

// Definition returns the MCP tool definition for mind_delete.
func (t *DeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_delete",
		mcp.WithDescription(
			"Delete an observation (by id or text match) or an entire entity. "+
				"Deleting an entity removes its observations and every relation naming it.",
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("What to delete: observation or entity"),
		),
		mcp.WithNumber("observation_id",
			mcp.Description("Observation id"),
		),
		mcp.WithString("text_match",
			mcp.Description("Find the latest observation containing this text"),
		),
		mcp.WithString("name",
			mcp.Description("Entity name (for type=entity)"),
		),
		mcp.WithString("context",
			mcp.Description("Entity context (for type=entity)"),
		),
	)
}

// Handle processes the mind_delete tool call.
func (t *DeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	switch req.GetString("type", "") {
	case "observation":
		id := int64(intArg(req, "observation_id", 0))
		if id == 0 {
			text := req.GetString("text_match", "")
			if text == "" {
				return mcp.NewToolResultError("'observation_id' or 'text_match' is required"), nil
			}
			obs, err := t.store.FindObservationByText(text)
			if errors.Is(err, mind.ErrNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("no observation matches %q", text)), nil
			}
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
			}
			id = obs.ID
		}
		if err := t.store.DeleteObservation(id); err != nil {
			if errors.Is(err, mind.ErrNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("observation #%d not found", id)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Observation #%d deleted.", id)), nil

	case "entity":
		name := req.GetString("name", "")
		if name == "" {
			return mcp.NewToolResultError("'name' is required for deleting an entity"), nil
		}
		removed, err := t.store.DeleteEntity(name, req.GetString("context", ""))
		if errors.Is(err, mind.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("entity %q not found", name)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Entity %q deleted along with %d observations and its relations.", name, removed)), nil

	default:
		return mcp.NewToolResultError("'type' must be one of: observation, entity"), nil
	}
}
