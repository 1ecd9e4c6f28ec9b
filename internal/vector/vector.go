// Package vector abstracts the semantic index that backs search and priming.
package vector

import "context"

// Match is one index hit, best first.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]string
}

// Index stores embeddings keyed by id and answers nearest-neighbor queries.
type Index interface {
	// Upsert inserts or replaces a vector with its metadata.
	Upsert(ctx context.Context, id string, embedding []float32, metadata map[string]string) error

	// Query returns up to topK matches by similarity, best first. An empty
	// index returns no matches and no error.
	Query(ctx context.Context, embedding []float32, topK int) ([]Match, error)
}
