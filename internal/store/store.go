// Package store defines the embedding persistence interface and its
// in-memory and bbolt-backed implementations.
package store

import (
	"context"
)

// EmbeddingStore persists one embedding record per photo. Implementations
// serialize writes; reads may run concurrently.
type EmbeddingStore interface {
	// Get retrieves the record for a photo ID, returns nil if not found.
	Get(ctx context.Context, photoID string) (*PhotoEmbedding, error)
	// Put stores the record, replacing any existing record for the same photo ID.
	Put(ctx context.Context, emb PhotoEmbedding) error
	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, photoID string) error
	// List returns a snapshot of all records ordered by photo ID.
	List(ctx context.Context) ([]PhotoEmbedding, error)
}
