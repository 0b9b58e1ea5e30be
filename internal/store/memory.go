package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps embeddings in a mutex-protected map. Used for tests
// and ephemeral runs where persistence is not needed.
type MemoryStore struct {
	mu         sync.RWMutex
	embeddings map[string]*PhotoEmbedding
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		embeddings: make(map[string]*PhotoEmbedding),
	}
}

// Get retrieves an embedding by photo ID, returns nil if not found.
func (m *MemoryStore) Get(ctx context.Context, photoID string) (*PhotoEmbedding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	emb, ok := m.embeddings[photoID]
	if !ok {
		return nil, nil
	}
	c := emb.Clone()
	return &c, nil
}

// Put stores an embedding, replacing any existing record for the photo ID.
func (m *MemoryStore) Put(ctx context.Context, emb PhotoEmbedding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := emb.Clone()
	m.embeddings[emb.PhotoID] = &c
	return nil
}

// Delete removes an embedding. Missing records are ignored.
func (m *MemoryStore) Delete(ctx context.Context, photoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.embeddings, photoID)
	return nil
}

// List returns a snapshot of all embeddings ordered by photo ID.
func (m *MemoryStore) List(ctx context.Context) ([]PhotoEmbedding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]PhotoEmbedding, 0, len(m.embeddings))
	for _, emb := range m.embeddings {
		out = append(out, emb.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PhotoID < out[j].PhotoID
	})
	return out, nil
}

// Verify interface compliance
var _ EmbeddingStore = (*MemoryStore)(nil)
