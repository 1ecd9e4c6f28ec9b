package mindtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/calebreid/mindweave/internal/consolidate"
	"github.com/calebreid/mindweave/internal/daemon"
	"github.com/calebreid/mindweave/internal/mind"
	"github.com/mark3labs/mcp-go/mcp"
)

// maxReportedItems caps the duplicate and recurring-pattern lists in the
// consolidation report.
const maxReportedItems = 5

// ConsolidateTool handles the mind_consolidate MCP tool.
type ConsolidateTool struct {
	store *mind.Store
}

// NewConsolidateTool creates a ConsolidateTool.
func NewConsolidateTool(store *mind.Store) *ConsolidateTool {
	return &ConsolidateTool{store: store}
}

// Definition returns the MCP tool definition for mind_consolidate.
func (t *ConsolidateTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_consolidate",
		mcp.WithDescription(
			"Review recent memory for consolidation: volume, weight distribution, most active "+
				"entities, near-duplicate observations, and the recurring patterns the subconscious sees.",
		),
		mcp.WithNumber("days",
			mcp.Description("Window in days (default: 7)"),
		),
		mcp.WithString("context",
			mcp.Description("Limit to one memory context"),
		),
	)
}

// Handle processes the mind_consolidate tool call.
func (t *ConsolidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := intArg(req, "days", t.store.Config().ConsolidateWindowDays)
	obs, err := t.store.ObservationsSince(days, req.GetString("context", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("consolidate failed: %v", err)), nil
	}

	report := consolidate.Analyze(obs)

	var b strings.Builder
	fmt.Fprintf(&b, "=== CONSOLIDATION (%dd window) ===\n\n", days)
	fmt.Fprintf(&b, "Observations: %d across %d entities\n", report.Total, report.UniqueEntities)
	fmt.Fprintf(&b, "Weights: %d heavy, %d medium, %d light\n",
		report.Weights.Heavy, report.Weights.Medium, report.Weights.Light)

	if len(report.MostActive) > 0 {
		b.WriteString("\n## Most active\n")
		for _, a := range report.MostActive {
			fmt.Fprintf(&b, "- %s (%d observations)\n", a.Entity, a.Count)
		}
	}

	if len(report.Duplicates) > 0 {
		dupes := report.Duplicates
		if len(dupes) > maxReportedItems {
			dupes = dupes[:maxReportedItems]
		}
		b.WriteString("\n## Possible duplicates\n")
		for _, d := range dupes {
			fmt.Fprintf(&b, "- #%d / #%d (%.0f%% overlap)\n  a: %s\n  b: %s\n",
				d.AID, d.BID, d.Similarity*100,
				mind.Truncate(d.AContent, 120), mind.Truncate(d.BContent, 120))
		}
	} else {
		b.WriteString("\nNo near-duplicates flagged.\n")
	}

	// Daemon-detected themes, when a snapshot exists.
	if snap, serr := daemon.LoadSnapshot(t.store); serr == nil && snap != nil && len(snap.Recurring) > 0 {
		recurring := snap.Recurring
		if len(recurring) > maxReportedItems {
			recurring = recurring[:maxReportedItems]
		}
		b.WriteString("\n## Recurring patterns (subconscious)\n")
		for _, r := range recurring {
			fmt.Fprintf(&b, "- %s: %d mentions (%s)\n", r.Entity, r.Mentions, r.Note)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}
