package service

import (
	"context"
)

// EmbeddingProvider defines the interface for converting free text into a
// fixed-dimension intent vector. Embedding generation itself lives in an
// external service; the engine only consumes the vectors.
type EmbeddingProvider interface {
	// Embed converts text into an embedding vector. The returned vector
	// has the provider's fixed dimension.
	Embed(ctx context.Context, text string) ([]float64, error)
}
