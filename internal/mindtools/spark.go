package mindtools

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/calebreid/mindweave/internal/daemon"
	"github.com/calebreid/mindweave/internal/mind"
	"github.com/mark3labs/mcp-go/mcp"
)

// SparkTool handles the mind_spark MCP tool.
type SparkTool struct {
	store *mind.Store
}

// NewSparkTool creates a SparkTool.
func NewSparkTool(store *mind.Store) *SparkTool {
	return &SparkTool{store: store}
}

// Definition returns the MCP tool definition for mind_spark.
func (t *SparkTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_spark",
		mcp.WithDescription(
			"Pull random memories for serendipity. About half come from entities the "+
				"subconscious currently marks hot, the rest from anywhere.",
		),
		mcp.WithNumber("count",
			mcp.Description("How many memories (default: 3)"),
		),
		mcp.WithString("context",
			mcp.Description("Limit to one memory context"),
		),
		mcp.WithBoolean("weighted",
			mcp.Description("Prefer heavy and medium observations (default: false)"),
		),
	)
}

// Handle processes the mind_spark tool call.
func (t *SparkTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count := intArg(req, "count", 3)
	if count <= 0 {
		count = 3
	}
	memContext := req.GetString("context", "")
	weighted := boolArg(req, "weighted", false)

	// Hot bias: half the pull (rounded up) comes from the snapshot's top
	// hot entities when a snapshot exists.
	var hotNames []string
	if snap, err := daemon.LoadSnapshot(t.store); err == nil && snap != nil {
		for i, e := range snap.HotEntities {
			if i >= 5 {
				break
			}
			hotNames = append(hotNames, e.Name)
		}
	}

	var picked []mind.ObservationView
	seen := make(map[int64]bool)
	if len(hotNames) > 0 {
		hotCount := (count + 1) / 2
		hot, err := t.store.RandomObservations(hotCount, memContext, weighted, hotNames)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("spark failed: %v", err)), nil
		}
		for _, o := range hot {
			picked = append(picked, o)
			seen[o.ID] = true
		}
	}

	rest, err := t.store.RandomObservations(count, memContext, weighted, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("spark failed: %v", err)), nil
	}
	for _, o := range rest {
		if len(picked) >= count {
			break
		}
		if !seen[o.ID] {
			picked = append(picked, o)
			seen[o.ID] = true
		}
	}

	if len(picked) == 0 {
		return mcp.NewToolResultText("Nothing to spark from yet."), nil
	}

	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	var b strings.Builder
	fmt.Fprintf(&b, "✨ %d sparks:\n\n", len(picked))
	for _, o := range picked {
		emotion := ""
		if o.Emotion != "" {
			emotion = fmt.Sprintf(" {%s}", o.Emotion)
		}
		fmt.Fprintf(&b, "- %s [%s]%s: %s\n", o.EntityName, o.Weight, emotion, o.Content)
	}
	return mcp.NewToolResultText(b.String()), nil
}
