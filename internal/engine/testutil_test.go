package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/reminora/photovec/internal/config"
	"github.com/reminora/photovec/internal/source"
	"github.com/reminora/photovec/internal/store"
	"github.com/reminora/photovec/internal/store/mock"
)

// fakeSource is an in-memory photo library for engine tests.
type fakeSource struct {
	mu         sync.Mutex
	photos     []source.PhotoDescriptor
	images     map[string][]byte
	decodeErrs map[string]error
	photosErr  error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		images:     make(map[string][]byte),
		decodeErrs: make(map[string]error),
	}
}

// addPhoto registers a photo with its raw image bytes.
func (f *fakeSource) addPhoto(photoID string, modifiedAt time.Time, image []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos = append(f.photos, source.PhotoDescriptor{PhotoID: photoID, ModifiedAt: modifiedAt})
	f.images[photoID] = image
}

// touch moves a photo's modification timestamp.
func (f *fakeSource) touch(photoID string, modifiedAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.photos {
		if f.photos[i].PhotoID == photoID {
			f.photos[i].ModifiedAt = modifiedAt
		}
	}
}

// remove drops a photo from the library.
func (f *fakeSource) remove(photoID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.photos {
		if f.photos[i].PhotoID == photoID {
			f.photos = append(f.photos[:i], f.photos[i+1:]...)
			break
		}
	}
	delete(f.images, photoID)
}

func (f *fakeSource) Photos(ctx context.Context) ([]source.PhotoDescriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.photosErr != nil {
		return nil, f.photosErr
	}
	out := make([]source.PhotoDescriptor, len(f.photos))
	copy(out, f.photos)
	return out, nil
}

func (f *fakeSource) Describe(ctx context.Context, photoID string) (*source.PhotoDescriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.photos {
		if p.PhotoID == photoID {
			d := p
			return &d, nil
		}
	}
	return nil, nil
}

func (f *fakeSource) Decode(ctx context.Context, photoID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.decodeErrs[photoID]; err != nil {
		return nil, err
	}
	data, ok := f.images[photoID]
	if !ok {
		return nil, errors.New("photo not found")
	}
	return data, nil
}

func (f *fakeSource) Exists(ctx context.Context, photoID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.images[photoID]
	return ok
}

var _ source.PhotoSource = (*fakeSource)(nil)

// fakeComputer maps image bytes to vectors, with optional per-call hooks.
type fakeComputer struct {
	mu      sync.Mutex
	vectors map[string][]float32
	err     error
	calls   int
}

func newFakeComputer() *fakeComputer {
	return &fakeComputer{vectors: make(map[string][]float32)}
}

// setVector registers the vector returned for the given image bytes.
func (f *fakeComputer) setVector(image []byte, vector []float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vectors[string(image)] = vector
}

func (f *fakeComputer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeComputer) Compute(ctx context.Context, imageData []byte) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if vec, ok := f.vectors[string(imageData)]; ok {
		return vec, nil
	}
	return []float32{1, 0, 0}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Embedding: config.EmbeddingConfig{Dim: 3},
		Engine: config.EngineConfig{
			SimilarThreshold:   0.90,
			DuplicateThreshold: 0.95,
			SearchLimit:        50,
			MaxImageSize:       1920,
		},
	}
}

func newTestEngine(st store.EmbeddingStore, src source.PhotoSource, comp *fakeComputer) *Engine {
	return New(st, src, comp, testConfig())
}

// addPhotoWithVector seeds source and computer so photoID embeds to vector.
func addPhotoWithVector(src *fakeSource, comp *fakeComputer, photoID string, modifiedAt time.Time, vector []float32) {
	image := []byte("image-bytes-" + photoID)
	src.addPhoto(photoID, modifiedAt, image)
	comp.setVector(image, vector)
}

// seedStore drops a precomputed record straight into the mock store.
func seedStore(st *mock.MockStore, photoID string, vector []float32, computedAt time.Time) {
	st.Add(store.PhotoEmbedding{
		PhotoID:          photoID,
		Vector:           vector,
		ContentHash:      "seeded",
		ComputedAt:       computedAt,
		SourceModifiedAt: computedAt,
	})
}
