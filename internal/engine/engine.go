// Package engine ties the photo source, embedding computer, and embedding
// store together behind the operations the CLI and web layers call.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/reminora/photovec/internal/compute"
	"github.com/reminora/photovec/internal/config"
	"github.com/reminora/photovec/internal/similarity"
	"github.com/reminora/photovec/internal/source"
	"github.com/reminora/photovec/internal/store"
)

// Engine coordinates embedding computation, storage, and similarity
// queries. All dependencies are injected; the engine holds no globals.
type Engine struct {
	store    store.EmbeddingStore
	source   source.PhotoSource
	computer compute.EmbeddingComputer
	cfg      config.EngineConfig
	dim      int

	// maintMu serializes maintenance operations: the batch sweep and the
	// orphan cleanup must not run concurrently.
	maintMu sync.Mutex

	now    func() time.Time
	logger *log.Logger
}

// New creates an engine over the given store, photo source, and computer.
func New(st store.EmbeddingStore, src source.PhotoSource, comp compute.EmbeddingComputer, cfg *config.Config) *Engine {
	return &Engine{
		store:    st,
		source:   src,
		computer: comp,
		cfg:      cfg.Engine,
		dim:      cfg.Embedding.Dim,
		now:      time.Now,
		logger:   log.Default(),
	}
}

// ComputeAndStoreEmbedding ensures the photo has a current embedding.
// Returns true if a new vector was computed and stored, false if the
// stored one was already fresh.
func (e *Engine) ComputeAndStoreEmbedding(ctx context.Context, photoID string) (bool, error) {
	desc, err := e.source.Describe(ctx, photoID)
	if err != nil {
		return false, fmt.Errorf("describe photo %s: %w", photoID, err)
	}
	if desc == nil {
		return false, fmt.Errorf("photo %s not found in library", photoID)
	}
	return e.ensureEmbedding(ctx, *desc)
}

// ensureEmbedding is the single compute path shared by the facade and the
// batch sweep. Fresh records are left untouched so ComputedAt only moves
// when a vector is actually recomputed.
func (e *Engine) ensureEmbedding(ctx context.Context, desc source.PhotoDescriptor) (bool, error) {
	existing, err := e.store.Get(ctx, desc.PhotoID)
	if err != nil {
		// A read failure must not wedge the photo forever: treat the
		// record as missing and recompute, but log it distinctly.
		e.logger.Printf("%v for %s, treating as missing: %v", ErrStorageRead, desc.PhotoID, err)
		existing = nil
	}
	if existing != nil && !existing.Stale(desc.ModifiedAt) {
		return false, nil
	}

	data, err := e.source.Decode(ctx, desc.PhotoID)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrImageDecode, desc.PhotoID, err)
	}

	vector, err := e.computer.Compute(ctx, data)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCompute, desc.PhotoID, err)
	}
	if err := e.validateVector(vector); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCompute, desc.PhotoID, err)
	}

	hash := sha256.Sum256(data)
	emb := store.PhotoEmbedding{
		PhotoID:          desc.PhotoID,
		Vector:           vector,
		ContentHash:      hex.EncodeToString(hash[:]),
		ComputedAt:       e.now(),
		SourceModifiedAt: desc.ModifiedAt,
	}
	if err := e.store.Put(ctx, emb); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrStorageWrite, desc.PhotoID, err)
	}
	return true, nil
}

// validateVector rejects vectors the index cannot work with.
func (e *Engine) validateVector(vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty vector")
	}
	if e.dim > 0 && len(vector) != e.dim {
		return fmt.Errorf("dimension mismatch: got %d, store uses %d", len(vector), e.dim)
	}
	var norm float64
	for _, v := range vector {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite component")
		}
		norm += f * f
	}
	if norm == 0 {
		return fmt.Errorf("zero vector")
	}
	return nil
}

// FindSimilarPhotos returns photos similar to the given one, best first.
// A missing embedding is computed on demand; a stale one is refreshed
// first. If the refresh fails the stored vector is used as a fallback.
func (e *Engine) FindSimilarPhotos(ctx context.Context, photoID string, threshold float32, limit int) ([]similarity.Match, error) {
	desc, err := e.source.Describe(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("describe photo %s: %w", photoID, err)
	}

	target, err := e.store.Get(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStorageRead, photoID, err)
	}

	switch {
	case target == nil && desc == nil:
		return nil, fmt.Errorf("no embedding and no photo for %s", photoID)
	case target == nil:
		if _, err := e.ensureEmbedding(ctx, *desc); err != nil {
			return nil, err
		}
	case desc != nil && target.Stale(desc.ModifiedAt):
		if _, err := e.ensureEmbedding(ctx, *desc); err != nil {
			e.logger.Printf("refresh of stale embedding for %s failed, using stored vector: %v", photoID, err)
		}
	}

	if target == nil || (desc != nil && target.Stale(desc.ModifiedAt)) {
		refreshed, err := e.store.Get(ctx, photoID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrStorageRead, photoID, err)
		}
		if refreshed != nil {
			target = refreshed
		}
	}
	if target == nil {
		return nil, fmt.Errorf("no embedding available for %s", photoID)
	}

	candidates, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrStorageRead, err)
	}

	return similarity.FindSimilar(*target, candidates, threshold, limit), nil
}

// FindDuplicates groups near-identical photos over a store snapshot. The
// snapshot's photo ID order is the fixed input order of the grouping, so
// repeated calls on unchanged data return identical groups.
func (e *Engine) FindDuplicates(ctx context.Context, threshold float32) ([]similarity.DuplicateGroup, error) {
	snapshot, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrStorageRead, err)
	}
	return similarity.FindDuplicateGroups(snapshot, threshold), nil
}

// CleanupOrphaned deletes embeddings whose photo no longer resolves in the
// library and returns the number removed. Holds the maintenance lock so it
// never races the batch sweep.
func (e *Engine) CleanupOrphaned(ctx context.Context) (int, error) {
	e.maintMu.Lock()
	defer e.maintMu.Unlock()

	snapshot, err := e.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: list: %v", ErrStorageRead, err)
	}

	removed := 0
	for _, emb := range snapshot {
		if ctx.Err() != nil {
			return removed, nil
		}
		if e.source.Exists(ctx, emb.PhotoID) {
			continue
		}
		if err := e.store.Delete(ctx, emb.PhotoID); err != nil {
			e.logger.Printf("%v: delete orphan %s: %v", ErrStorageWrite, emb.PhotoID, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// SimilarThreshold returns the configured default similarity threshold.
func (e *Engine) SimilarThreshold() float32 {
	return e.cfg.SimilarThreshold
}

// DuplicateThreshold returns the configured default duplicate threshold.
func (e *Engine) DuplicateThreshold() float32 {
	return e.cfg.DuplicateThreshold
}

// SearchLimit returns the configured default similarity result cap.
func (e *Engine) SearchLimit() int {
	return e.cfg.SearchLimit
}
