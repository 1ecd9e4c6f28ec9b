package mindtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/calebreid/mindweave/internal/mind"
	"github.com/mark3labs/mcp-go/mcp"
)

// FeelTool handles the mind_feel_toward MCP tool.
type FeelTool struct {
	store *mind.Store
}

// NewFeelTool creates a FeelTool.
func NewFeelTool(store *mind.Store) *FeelTool {
	return &FeelTool{store: store}
}

// Definition returns the MCP tool definition for mind_feel_toward.
func (t *FeelTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_feel_toward",
		mcp.WithDescription(
			"Record how you feel toward a person right now, or read the recent felt states for them.",
		),
		mcp.WithString("person",
			mcp.Required(),
			mcp.Description("Who the feeling is toward"),
		),
		mcp.WithString("feeling",
			mcp.Description("The feeling to record; omit to read recent states instead"),
		),
		mcp.WithString("intensity",
			mcp.Description("Intensity: faint, present, strong (default: present)"),
		),
	)
}

// Handle processes the mind_feel_toward tool call.
func (t *FeelTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	person := req.GetString("person", "")
	if person == "" {
		return mcp.NewToolResultError("'person' is required"), nil
	}

	feeling := req.GetString("feeling", "")
	if feeling == "" {
		states, err := t.store.FeelingsFor(person, 5)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("read feelings failed: %v", err)), nil
		}
		if len(states) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No recorded feelings toward %s yet.", person)), nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Recent feelings toward %s:\n", person)
		for _, s := range states {
			fmt.Fprintf(&b, "- %s (%s) at %s\n", s.Feeling, s.Intensity, s.Timestamp)
		}
		return mcp.NewToolResultText(b.String()), nil
	}

	f, err := t.store.RecordFeeling(person, feeling, req.GetString("intensity", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("record feeling failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Recorded: feeling %s toward %s (%s)", f.Feeling, f.Person, f.Intensity)), nil
}
