package vector

import (
	"context"
	"fmt"

	"github.com/philippgille/chromem-go"
)

const collectionName = "mind"

// ChromemIndex is an Index backed by an embedded chromem-go collection
// persisted on disk.
type ChromemIndex struct {
	col *chromem.Collection
}

// NewChromemIndex opens (or creates) the persistent collection at path.
func NewChromemIndex(path string) (*ChromemIndex, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("vector: open persistent db: %w", err)
	}
	col, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector: open collection: %w", err)
	}
	return &ChromemIndex{col: col}, nil
}

// Upsert inserts or replaces a document carrying a precomputed embedding.
func (c *ChromemIndex) Upsert(ctx context.Context, id string, embedding []float32, metadata map[string]string) error {
	content := metadata["content"]
	err := c.col.AddDocument(ctx, chromem.Document{
		ID:        id,
		Content:   content,
		Embedding: embedding,
		Metadata:  metadata,
	})
	if err != nil {
		return fmt.Errorf("vector: upsert %q: %w", id, err)
	}
	return nil
}

// Query returns the topK nearest documents. topK is clamped to the
// collection size; an empty collection yields no matches.
func (c *ChromemIndex) Query(ctx context.Context, embedding []float32, topK int) ([]Match, error) {
	count := c.col.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}
	if topK <= 0 {
		topK = 1
	}

	results, err := c.col.QueryEmbedding(ctx, embedding, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector: query: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, Match{
			ID:       r.ID,
			Score:    r.Similarity,
			Metadata: r.Metadata,
		})
	}
	return matches, nil
}
