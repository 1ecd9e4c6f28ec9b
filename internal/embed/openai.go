package embed

import (
	"context"
	"fmt"

	"github.com/philippgille/chromem-go"
)

// OpenAIEmbedder calls an OpenAI-compatible /embeddings endpoint.
type OpenAIEmbedder struct {
	fn         chromem.EmbeddingFunc
	dimensions int
}

// NewOpenAIEmbedder builds an embedder against an OpenAI-compatible API.
// dimensions must match what the model emits.
func NewOpenAIEmbedder(baseURL, apiKey, model string, dimensions int) *OpenAIEmbedder {
	normalized := true
	return &OpenAIEmbedder{
		fn:         chromem.NewEmbeddingFuncOpenAICompat(baseURL, apiKey, model, &normalized),
		dimensions: dimensions,
	}
}

// Embed requests an embedding for the given text.
func (o *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := o.fn(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	return vec, nil
}

// Dimensions reports the configured embedding width.
func (o *OpenAIEmbedder) Dimensions() int {
	return o.dimensions
}
