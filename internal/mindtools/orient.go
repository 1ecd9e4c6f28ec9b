package mindtools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/calebreid/mindweave/internal/daemon"
	"github.com/calebreid/mindweave/internal/mind"
	"github.com/mark3labs/mcp-go/mcp"
)

// OrientTool handles the mind_orient MCP tool.
type OrientTool struct {
	store *mind.Store
}

// NewOrientTool creates an OrientTool.
func NewOrientTool(store *mind.Store) *OrientTool {
	return &OrientTool{store: store}
}

// Definition returns the MCP tool definition for mind_orient.
func (t *OrientTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_orient",
		mcp.WithDescription(
			"Orient at the start of a session: who you are, what's happening now, "+
				"how you feel toward people, and what's been alive in the subconscious.",
		),
	)
}

// Handle processes the mind_orient tool call.
func (t *OrientTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity, err := t.store.IdentityEntries("")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("orient failed: %v", err)), nil
	}
	contexts, err := t.store.ContextEntries()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("orient failed: %v", err)), nil
	}
	feelings, err := t.store.LatestFeelings()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("orient failed: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString("=== ORIENTATION ===\n\n")

	b.WriteString("## Identity Anchors\n")
	if len(identity) == 0 {
		b.WriteString("No identity entries yet.\n")
	}
	for i, e := range identity {
		if i >= 10 {
			break
		}
		fmt.Fprintf(&b, "- [%s] %s\n", e.Section, e.Content)
	}

	b.WriteString("\n## Current Context\n")
	if len(contexts) == 0 {
		b.WriteString("No context entries yet.\n")
	}
	for i, e := range contexts {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "- [%s] %s\n", e.Scope, e.Content)
	}

	b.WriteString("\n## Relational State\n")
	if len(feelings) == 0 {
		b.WriteString("No relational state recorded yet.\n")
	}
	for _, f := range feelings {
		fmt.Fprintf(&b, "%s: %s (%s)\n", f.Person, f.Feeling, f.Intensity)
	}

	// Snapshot section is best-effort; a broken snapshot never blocks
	// orientation.
	snap, err := daemon.LoadSnapshot(t.store)
	if err == nil && snap != nil {
		b.WriteString("\n## What's Alive (Subconscious)\n")
		if snap.Mood.Tone != "" {
			fmt.Fprintf(&b, "Mood: %s (%s confidence)\n", snap.Mood.Tone, snap.Mood.Confidence)
		}

		if len(snap.HotEntities) > 0 {
			b.WriteString("\nHot entities:\n")
			for i, e := range snap.HotEntities {
				if i >= 5 {
					break
				}
				fmt.Fprintf(&b, "- %s [%s] (%d mentions)\n", e.Name, warmthBar(e.Warmth), e.Mentions)
			}
		}

		if len(snap.CentralNodes) > 0 {
			b.WriteString("\nCentral to my world:\n")
			for i, n := range snap.CentralNodes {
				if i >= 3 {
					break
				}
				fmt.Fprintf(&b, "- %s (%d connections)\n", n.Name, n.Connections)
			}
		}

		if processed, perr := time.Parse(time.RFC3339, snap.ProcessedAt); perr == nil {
			hours := time.Since(processed).Hours()
			fmt.Fprintf(&b, "\n*Daemon last ran %.1fh ago*\n", hours)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}
