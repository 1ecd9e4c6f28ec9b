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

// HealthTool handles the mind_health MCP tool.
type HealthTool struct {
	store *mind.Store
}

// NewHealthTool creates a HealthTool.
func NewHealthTool(store *mind.Store) *HealthTool {
	return &HealthTool{store: store}
}

// Definition returns the MCP tool definition for mind_health.
func (t *HealthTool) Definition() mcp.Tool {
	return mcp.NewTool("mind_health",
		mcp.WithDescription(
			"Check memory health: table counts, activity subscores, subconscious freshness, "+
				"and an overall percentage.",
		),
	)
}

// Handle processes the mind_health tool call.
func (t *HealthTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, err := t.store.Counts()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("health check failed: %v", err)), nil
	}

	subScore, subStatus, subAge := t.subconsciousHealth()
	subMood := "none detected"
	subHot := 0
	if snap, serr := daemon.LoadSnapshot(t.store); serr == nil && snap != nil {
		if snap.Mood.Tone != "" {
			subMood = fmt.Sprintf("%s (%s)", snap.Mood.Tone, snap.Mood.Confidence)
		}
		subHot = len(snap.HotEntities)
	}

	dbScore := (c.Entities*50)/100 + (c.Observations*50)/500
	if dbScore > 100 {
		dbScore = 100
	}

	threadScore := 50
	if c.ActiveThreads > 0 {
		switch {
		case c.StaleThreads < 3:
			threadScore = 100
		case c.StaleThreads < 6:
			threadScore = 60
		default:
			threadScore = 30
		}
	}

	journalScore := 0
	switch {
	case c.JournalsRecent >= 3:
		journalScore = 100
	case c.JournalsRecent >= 1:
		journalScore = 70
	case c.Journals > 0:
		journalScore = 40
	}

	identityScore := c.IdentityEntries * 100 / 50
	if identityScore > 100 {
		identityScore = 100
	}

	activityScore := c.RecentObs * 100 / 20
	if activityScore > 100 {
		activityScore = 100
	}

	overall := (dbScore + threadScore + journalScore + identityScore + activityScore + subScore) / 6

	bar := func(score int) string {
		filled := score / 10
		return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
	}
	icon := func(score int) string {
		switch {
		case score >= 70:
			return "🟢"
		case score >= 40:
			return "🟡"
		default:
			return "🔴"
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MIND HEALTH — %s\n\n", time.Now().UTC().Format("2006-01-02"))
	fmt.Fprintf(&b, "Overall: %s %d%%\n\n", bar(overall), overall)

	fmt.Fprintf(&b, "SUBCONSCIOUS %s\n", icon(subScore))
	fmt.Fprintf(&b, "  Last Processed: %s (%s)\n", subAge, subStatus)
	fmt.Fprintf(&b, "  Current Mood:   %s\n", subMood)
	fmt.Fprintf(&b, "  Hot Entities:   %d\n\n", subHot)

	fmt.Fprintf(&b, "DATABASE %s\n", icon(dbScore))
	fmt.Fprintf(&b, "  Entities:      %d\n", c.Entities)
	fmt.Fprintf(&b, "  Observations:  %d\n", c.Observations)
	fmt.Fprintf(&b, "  Relations:     %d\n", c.Relations)
	fmt.Fprintf(&b, "  Journals:      %d\n\n", c.Journals)

	fmt.Fprintf(&b, "THREADS %s\n", icon(threadScore))
	fmt.Fprintf(&b, "  Active:        %d\n", c.ActiveThreads)
	fmt.Fprintf(&b, "  Stale (7d+):   %d\n", c.StaleThreads)
	fmt.Fprintf(&b, "  Resolved (7d): %d\n\n", c.ResolvedRecent)

	fmt.Fprintf(&b, "JOURNALS %s\n", icon(journalScore))
	fmt.Fprintf(&b, "  Total:         %d\n", c.Journals)
	fmt.Fprintf(&b, "  This Week:     %d\n\n", c.JournalsRecent)

	fmt.Fprintf(&b, "IDENTITY %s\n", icon(identityScore))
	fmt.Fprintf(&b, "  Entries:       %d\n\n", c.IdentityEntries)

	fmt.Fprintf(&b, "ACTIVITY %s\n", icon(activityScore))
	fmt.Fprintf(&b, "  Recent Obs:    %d\n", c.RecentObs)
	fmt.Fprintf(&b, "  Active Notes:  %d (%d metabolized)\n", c.ActiveNotes, c.MetabolizedNotes)

	return mcp.NewToolResultText(b.String()), nil
}

// subconsciousHealth scores the snapshot's freshness: fresh under an hour,
// then recent, stale, very stale.
func (t *HealthTool) subconsciousHealth() (score int, status, age string) {
	updated, err := daemon.SnapshotUpdatedAt(t.store)
	if err != nil || updated == "" {
		return 0, "never run", "unknown"
	}
	ts, err := time.Parse("2006-01-02 15:04:05", updated)
	if err != nil {
		return 0, "never run", "unknown"
	}

	elapsed := time.Since(ts.UTC())
	if elapsed < time.Hour {
		age = fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	} else {
		age = fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	}

	switch {
	case elapsed < time.Hour:
		return 100, "fresh", age
	case elapsed < 2*time.Hour:
		return 70, "recent", age
	case elapsed < 6*time.Hour:
		return 40, "stale", age
	default:
		return 10, "very stale", age
	}
}
