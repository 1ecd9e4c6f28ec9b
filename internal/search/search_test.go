package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/calebreid/mindweave/internal/daemon"
	"github.com/calebreid/mindweave/internal/embed"
	"github.com/calebreid/mindweave/internal/mind"
	"github.com/calebreid/mindweave/internal/search"
	"github.com/calebreid/mindweave/internal/vector"
)

func newTestStore(t *testing.T) *mind.Store {
	t.Helper()
	cfg := mind.Config{
		DataDir:               t.TempDir(),
		RecencyWindow:         48 * time.Hour,
		ConsolidateWindowDays: 7,
		DaemonInterval:        time.Hour,
		MaxSearchResults:      10,
	}
	s, err := mind.New(cfg)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// emptyIndex is a vector.Index that never matches.
type emptyIndex struct{}

func (emptyIndex) Upsert(context.Context, string, []float32, map[string]string) error {
	return nil
}

func (emptyIndex) Query(context.Context, []float32, int) ([]vector.Match, error) {
	return nil, nil
}

// ─── TintQuery ──────────────────────────────────────────────────────────────

func TestTintQuery_AppendsMoodContext(t *testing.T) {
	snap := &daemon.Snapshot{Mood: daemon.Mood{Tone: "tender", Confidence: "medium"}}

	tinted, mood := search.TintQuery("our conversation", snap)
	want := "our conversation (context: warm, gentle, caring, soft)"
	if tinted != want {
		t.Errorf("tinted = %q, want %q", tinted, want)
	}
	if mood != "tender" {
		t.Errorf("mood = %q, want tender", mood)
	}
}

func TestTintQuery_LowConfidenceUntinted(t *testing.T) {
	snap := &daemon.Snapshot{Mood: daemon.Mood{Tone: "joy", Confidence: "low"}}

	tinted, mood := search.TintQuery("the garden", snap)
	if tinted != "the garden" || mood != "" {
		t.Errorf("got %q / %q, want untinted", tinted, mood)
	}
}

func TestTintQuery_NeutralUntinted(t *testing.T) {
	snap := &daemon.Snapshot{Mood: daemon.Mood{Tone: "neutral", Confidence: "medium"}}

	if tinted, _ := search.TintQuery("anything", snap); tinted != "anything" {
		t.Errorf("neutral mood tinted the query: %q", tinted)
	}
}

func TestTintQuery_NilSnapshotUntinted(t *testing.T) {
	if tinted, mood := search.TintQuery("anything", nil); tinted != "anything" || mood != "" {
		t.Errorf("nil snapshot changed the query: %q / %q", tinted, mood)
	}
}

func TestTintQuery_UnknownToneUsesToneItself(t *testing.T) {
	snap := &daemon.Snapshot{Mood: daemon.Mood{Tone: "restless", Confidence: "medium"}}

	tinted, _ := search.TintQuery("plans", snap)
	if tinted != "plans (context: restless)" {
		t.Errorf("tinted = %q", tinted)
	}
}

// ─── Search fallback ────────────────────────────────────────────────────────

func TestSearch_FallsBackToLiteral(t *testing.T) {
	s := newTestStore(t)
	e, _ := s.UpsertEntity("maya", "person", "")
	s.AddObservation(e.ID, "maya started pottery classes", "", "")

	searcher := search.New(s, emptyIndex{}, embed.NewHashEmbedder())
	results, _, err := searcher.Search(context.Background(), "pottery", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1 literal hit", len(results))
	}
	r := results[0]
	if r.Semantic {
		t.Error("fallback hit marked semantic")
	}
	if r.Entity != "maya" || r.Source != "observation" {
		t.Errorf("hit = %+v", r)
	}
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	s := newTestStore(t)
	searcher := search.New(s, emptyIndex{}, embed.NewHashEmbedder())
	if _, _, err := searcher.Search(context.Background(), "", 10); err == nil {
		t.Error("empty query should error")
	}
}

// ─── Prime ──────────────────────────────────────────────────────────────────

func TestPrime_NameMatchedEntities(t *testing.T) {
	s := newTestStore(t)
	s.UpsertEntity("garden", "project", "")
	s.UpsertEntity("garden fence", "project", "")
	s.UpsertEntity("maya", "person", "")

	searcher := search.New(s, emptyIndex{}, embed.NewHashEmbedder())
	primed, err := searcher.Prime(context.Background(), "garden", 5)
	if err != nil {
		t.Fatalf("prime: %v", err)
	}
	if len(primed.Entities) != 2 {
		t.Errorf("matched entities = %d, want 2", len(primed.Entities))
	}
}

// ─── End to end against a real index ────────────────────────────────────────

func TestSearch_SemanticRoundTrip(t *testing.T) {
	s := newTestStore(t)
	e, _ := s.UpsertEntity("maya", "person", "personal")
	obs, _ := s.AddObservation(e.ID, "maya started pottery classes", "joy", "")

	index, err := vector.NewChromemIndex(t.TempDir())
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	searcher := search.New(s, index, embed.NewHashEmbedder())

	ctx := context.Background()
	if err := searcher.IndexObservation(ctx, obs, "maya", "personal"); err != nil {
		t.Fatalf("index observation: %v", err)
	}

	results, _, err := searcher.Search(ctx, "maya: maya started pottery classes", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if !results[0].Semantic {
		t.Error("expected a semantic hit from the index")
	}
	if results[0].Content != "maya started pottery classes" {
		t.Errorf("content = %q", results[0].Content)
	}
}
