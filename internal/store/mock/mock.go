// Package mock provides a mock embedding store for testing.
package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/reminora/photovec/internal/store"
)

// MockStore is a mock implementation of store.EmbeddingStore with error
// injection and call tracking for tests.
type MockStore struct {
	mu         sync.RWMutex
	embeddings map[string]*store.PhotoEmbedding

	// Error injection
	GetError    error
	PutError    error
	DeleteError error
	ListError   error

	// Call tracking
	PutCalls    []string
	DeleteCalls []string
}

// NewMockStore creates a new empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		embeddings: make(map[string]*store.PhotoEmbedding),
	}
}

// Add seeds the mock with a record without going through Put tracking.
func (m *MockStore) Add(emb store.PhotoEmbedding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embeddings[emb.PhotoID] = &emb
}

// Len returns the number of stored records.
func (m *MockStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.embeddings)
}

// Get retrieves an embedding by photo ID, returns nil if not found.
func (m *MockStore) Get(ctx context.Context, photoID string) (*store.PhotoEmbedding, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	emb, ok := m.embeddings[photoID]
	if !ok {
		return nil, nil
	}
	c := emb.Clone()
	return &c, nil
}

// Put stores an embedding and records the call.
func (m *MockStore) Put(ctx context.Context, emb store.PhotoEmbedding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls = append(m.PutCalls, emb.PhotoID)
	if m.PutError != nil {
		return m.PutError
	}
	c := emb.Clone()
	m.embeddings[emb.PhotoID] = &c
	return nil
}

// Delete removes an embedding and records the call.
func (m *MockStore) Delete(ctx context.Context, photoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, photoID)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.embeddings, photoID)
	return nil
}

// List returns a snapshot of all embeddings ordered by photo ID.
func (m *MockStore) List(ctx context.Context) ([]store.PhotoEmbedding, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]store.PhotoEmbedding, 0, len(m.embeddings))
	for _, emb := range m.embeddings {
		out = append(out, emb.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PhotoID < out[j].PhotoID
	})
	return out, nil
}

// Verify interface compliance
var _ store.EmbeddingStore = (*MockStore)(nil)
