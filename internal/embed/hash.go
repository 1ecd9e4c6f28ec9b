package embed

import (
	"context"
	"hash/fnv"
	"math"
)

const hashDimensions = 384

// HashEmbedder produces deterministic pseudo-embeddings from an FNV hash of
// the input. Identical text always maps to the identical unit vector, so
// exact-duplicate content clusters perfectly; it captures no semantics. It is
// the default when no embedding endpoint is configured, and it backs tests.
type HashEmbedder struct{}

// NewHashEmbedder returns a deterministic hash-based embedder.
func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{}
}

// Embed hashes the text into a seeded LCG stream and normalizes the result
// to unit length.
func (h *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	hasher := fnv.New64a()
	hasher.Write([]byte(text))
	state := hasher.Sum64()

	vec := make([]float32, hashDimensions)
	var norm float64
	for i := range vec {
		state = state*6364136223846793005 + 1442695040888963407
		// map the top bits into [-1, 1)
		v := float64(int64(state>>1))/float64(math.MaxInt64)*2 - 1
		vec[i] = float32(v)
		norm += v * v
	}

	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec, nil
}

// Dimensions reports the embedding width.
func (h *HashEmbedder) Dimensions() int {
	return hashDimensions
}
