// Package compute abstracts the embedding model behind a single interface.
package compute

import (
	"context"
)

// EmbeddingComputer turns normalized image bytes into an embedding vector.
// Implementations are black boxes to the engine: it neither knows nor
// cares which model produced the vector.
type EmbeddingComputer interface {
	Compute(ctx context.Context, imageData []byte) ([]float32, error)
}
