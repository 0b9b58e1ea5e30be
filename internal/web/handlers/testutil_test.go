package handlers

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/reminora/photovec/internal/compute"
	"github.com/reminora/photovec/internal/config"
	"github.com/reminora/photovec/internal/engine"
	"github.com/reminora/photovec/internal/source"
	"github.com/reminora/photovec/internal/store"
	"github.com/reminora/photovec/internal/store/mock"
)

// stubSource is an in-memory photo source for handler tests.
type stubSource struct {
	mu     sync.Mutex
	photos []source.PhotoDescriptor
	data   map[string][]byte

	// photosGate, when set, blocks Photos until the channel is closed or
	// the context is cancelled. Used to hold a background job open.
	photosGate chan struct{}
}

func newStubSource() *stubSource {
	return &stubSource{data: make(map[string][]byte)}
}

func (s *stubSource) addPhoto(photoID string, modifiedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos = append(s.photos, source.PhotoDescriptor{PhotoID: photoID, ModifiedAt: modifiedAt})
	s.data[photoID] = []byte("img-" + photoID)
}

func (s *stubSource) Photos(ctx context.Context) ([]source.PhotoDescriptor, error) {
	if s.photosGate != nil {
		select {
		case <-s.photosGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]source.PhotoDescriptor, len(s.photos))
	copy(out, s.photos)
	return out, nil
}

func (s *stubSource) Describe(ctx context.Context, photoID string) (*source.PhotoDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.photos {
		if p.PhotoID == photoID {
			d := p
			return &d, nil
		}
	}
	return nil, nil
}

func (s *stubSource) Decode(ctx context.Context, photoID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[photoID]
	if !ok {
		return nil, fmt.Errorf("photo %s not found", photoID)
	}
	return data, nil
}

func (s *stubSource) Exists(ctx context.Context, photoID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[photoID]
	return ok
}

var _ source.PhotoSource = (*stubSource)(nil)

// stubComputer returns canned vectors keyed by image bytes.
type stubComputer struct {
	mu      sync.Mutex
	vectors map[string][]float32
}

func newStubComputer() *stubComputer {
	return &stubComputer{vectors: make(map[string][]float32)}
}

func (c *stubComputer) setVector(imageData []byte, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vectors[string(imageData)] = vec
}

func (c *stubComputer) Compute(ctx context.Context, imageData []byte) ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if vec, ok := c.vectors[string(imageData)]; ok {
		return vec, nil
	}
	return []float32{1, 0, 0}, nil
}

var _ compute.EmbeddingComputer = (*stubComputer)(nil)

type testEnv struct {
	store    *mock.MockStore
	source   *stubSource
	computer *stubComputer
	engine   *engine.Engine
}

func newTestEnv() *testEnv {
	st := mock.NewMockStore()
	src := newStubSource()
	comp := newStubComputer()
	cfg := &config.Config{
		Embedding: config.EmbeddingConfig{Dim: 3},
		Engine: config.EngineConfig{
			SimilarThreshold:   0.90,
			DuplicateThreshold: 0.95,
			SearchLimit:        50,
		},
	}
	return &testEnv{
		store:    st,
		source:   src,
		computer: comp,
		engine:   engine.New(st, src, comp, cfg),
	}
}

// addEmbeddedPhoto registers a photo in the source and seeds the store
// with a fresh embedding using the given vector.
func (e *testEnv) addEmbeddedPhoto(photoID string, vec []float32) {
	modifiedAt := testTime()
	e.source.addPhoto(photoID, modifiedAt)
	e.store.Add(store.PhotoEmbedding{
		PhotoID:          photoID,
		Vector:           vec,
		ContentHash:      "hash-" + photoID,
		ComputedAt:       modifiedAt.Add(time.Hour),
		SourceModifiedAt: modifiedAt,
	})
}

func testTime() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

var errTestList = fmt.Errorf("store unavailable")

// orphanEmbedding builds a stored embedding with no matching photo.
func orphanEmbedding(photoID string) store.PhotoEmbedding {
	return store.PhotoEmbedding{
		PhotoID:          photoID,
		Vector:           []float32{1, 0, 0},
		ComputedAt:       testTime(),
		SourceModifiedAt: testTime(),
	}
}

// unit2 returns a unit vector at the given angle in the XY plane.
func unit2(degrees float64) []float32 {
	rad := degrees * math.Pi / 180
	return []float32{float32(math.Cos(rad)), float32(math.Sin(rad)), 0}
}
