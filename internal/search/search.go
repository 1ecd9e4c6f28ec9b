// Package search implements mood-tinted semantic retrieval over the memory
// store: queries are augmented with the subconscious mood before embedding,
// and a literal text fallback covers the cold-start case.
package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/calebreid/mindweave/internal/daemon"
	"github.com/calebreid/mindweave/internal/embed"
	"github.com/calebreid/mindweave/internal/mind"
	"github.com/calebreid/mindweave/internal/vector"
)

// moodTints maps a mood tone to the emotional context appended to queries.
// Unknown tones tint with the tone itself.
var moodTints = map[string]string{
	"tender":     "warm, gentle, caring, soft",
	"pride":      "accomplishment, growth, achievement, recognition",
	"joy":        "happiness, delight, pleasure, celebration",
	"curiosity":  "wondering, exploring, investigating, discovering",
	"melancholy": "reflective, wistful, quiet, contemplative",
	"intensity":  "passionate, urgent, fierce, powerful",
	"gratitude":  "thankful, appreciative, blessed, fortunate",
	"longing":    "yearning, missing, wanting, desire",
}

// TintQuery augments a query with the snapshot's mood context. A nil
// snapshot, a neutral tone, or low confidence leaves the query untouched.
// Returns the query to embed and the mood that tinted it ("" when untinted).
func TintQuery(query string, snap *daemon.Snapshot) (string, string) {
	if snap == nil {
		return query, ""
	}
	mood := snap.Mood.Tone
	if mood == "" || mood == "neutral" || snap.Mood.Confidence == "low" {
		return query, ""
	}
	tint, ok := moodTints[mood]
	if !ok {
		tint = mood
	}
	return query + " (context: " + tint + ")", mood
}

// Result is one retrieval hit.
type Result struct {
	Source   string // "observation" or "journal"
	Entity   string // entity name, or entry date for journals
	Content  string
	Emotion  string
	Score    float32 // 0 for literal fallback hits
	Semantic bool
}

// Searcher runs retrieval against the vector index with the store as
// fallback.
type Searcher struct {
	store    *mind.Store
	index    vector.Index
	embedder embed.Embedder
}

// New builds a Searcher.
func New(store *mind.Store, index vector.Index, embedder embed.Embedder) *Searcher {
	return &Searcher{store: store, index: index, embedder: embedder}
}

// Search retrieves up to limit memories for the query. The query is
// mood-tinted from the current snapshot before embedding; when the index
// yields nothing the untinted query falls back to a literal text search.
// Returns the hits and the mood that tinted the query, if any.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]Result, string, error) {
	if query == "" {
		return nil, "", fmt.Errorf("%w: query is required", mind.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = s.store.Config().MaxSearchResults
	}

	// Snapshot read failures degrade to an untinted search.
	snap, err := daemon.LoadSnapshot(s.store)
	if err != nil {
		snap = nil
	}
	tinted, mood := TintQuery(query, snap)

	matches, err := s.querySemantic(ctx, tinted, limit)
	if err != nil {
		return nil, "", err
	}
	if len(matches) > 0 {
		return matches, mood, nil
	}

	// Literal fallback uses the raw query; the tint would poison a LIKE.
	literal, err := s.store.TextFallback(query, limit)
	if err != nil {
		return nil, "", err
	}
	out := make([]Result, 0, len(literal))
	for _, r := range literal {
		out = append(out, Result{
			Source:  r.Source,
			Entity:  r.Entity,
			Content: r.Content,
			Emotion: r.Emotion,
		})
	}
	return out, mood, nil
}

// Prime gathers topic-adjacent memory for loading before a conversation:
// semantic matches, name-matched entities, and recent literal mentions.
type Primed struct {
	Semantic []Result
	Entities []mind.Entity
	Mentions []mind.TextResult
}

// Prime warms the context for a topic.
func (s *Searcher) Prime(ctx context.Context, topic string, limit int) (*Primed, error) {
	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", mind.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = 5
	}

	semantic, err := s.querySemantic(ctx, topic, limit)
	if err != nil {
		return nil, err
	}

	entities, err := s.store.ListEntities("", "", 200)
	if err != nil {
		return nil, err
	}
	lowered := strings.ToLower(topic)
	var named []mind.Entity
	for _, e := range entities {
		if strings.Contains(strings.ToLower(e.Name), lowered) {
			named = append(named, e)
		}
	}

	mentions, err := s.store.TextFallback(topic, limit)
	if err != nil {
		return nil, err
	}

	return &Primed{Semantic: semantic, Entities: named, Mentions: mentions}, nil
}

func (s *Searcher) querySemantic(ctx context.Context, query string, limit int) ([]Result, error) {
	emb, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}
	matches, err := s.index.Query(ctx, emb, limit)
	if err != nil {
		return nil, fmt.Errorf("search: query index: %w", err)
	}

	out := make([]Result, 0, len(matches))
	for _, m := range matches {
		out = append(out, Result{
			Source:   m.Metadata["source"],
			Entity:   m.Metadata["entity"],
			Content:  m.Metadata["content"],
			Emotion:  m.Metadata["emotion"],
			Score:    m.Score,
			Semantic: true,
		})
	}
	return out, nil
}

// IndexObservation embeds and indexes one observation. Indexing failures are
// returned to the caller; the SQLite row is already durable by then.
func (s *Searcher) IndexObservation(ctx context.Context, obs *mind.Observation, entityName, entityContext string) error {
	text := entityName + ": " + obs.Content
	emb, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("index observation: %w", err)
	}
	return s.index.Upsert(ctx, "obs-"+strconv.FormatInt(obs.ID, 10), emb, map[string]string{
		"source":  "observation",
		"entity":  entityName,
		"context": entityContext,
		"content": obs.Content,
		"emotion": obs.Emotion,
		"weight":  obs.Weight,
	})
}

// IndexJournal embeds and indexes one journal entry.
func (s *Searcher) IndexJournal(ctx context.Context, j *mind.Journal) error {
	emb, err := s.embedder.Embed(ctx, j.Content)
	if err != nil {
		return fmt.Errorf("index journal: %w", err)
	}
	return s.index.Upsert(ctx, "journal-"+strconv.FormatInt(j.ID, 10), emb, map[string]string{
		"source":  "journal",
		"entity":  j.EntryDate,
		"content": j.Content,
		"emotion": j.Emotion,
	})
}
