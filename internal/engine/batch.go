package engine

import (
	"context"
	"fmt"
)

// ProgressFunc is called after every photo of a batch sweep with the
// number of photos handled so far and the total.
type ProgressFunc func(processed, total int)

// BatchResult summarizes one batch sweep.
type BatchResult struct {
	Total    int `json:"total"`
	Computed int `json:"computed"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Processed returns the number of photos handled so far.
func (r BatchResult) Processed() int {
	return r.Computed + r.Skipped + r.Failed
}

// ComputeAllEmbeddings sweeps the whole library and computes embeddings
// for every photo that is missing one or whose photo changed since it was
// computed. Per-photo failures are logged and counted but never abort the
// sweep. Cancellation is checked between photos: a cancelled sweep stops
// cleanly with the partial result and no error, and a later run picks up
// where it left off because fresh records are skipped.
func (e *Engine) ComputeAllEmbeddings(ctx context.Context, progress ProgressFunc) (*BatchResult, error) {
	e.maintMu.Lock()
	defer e.maintMu.Unlock()

	photos, err := e.source.Photos(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate photos: %w", err)
	}

	result := &BatchResult{Total: len(photos)}
	for _, desc := range photos {
		if ctx.Err() != nil {
			return result, nil
		}

		updated, err := e.ensureEmbedding(ctx, desc)
		switch {
		case err != nil && ctx.Err() != nil:
			// The in-flight photo was aborted by cancellation, not by a
			// real failure. Stop without counting it.
			return result, nil
		case err != nil:
			result.Failed++
			e.logger.Printf("embedding failed for %s: %v", desc.PhotoID, err)
		case updated:
			result.Computed++
		default:
			result.Skipped++
		}

		if progress != nil {
			progress(result.Processed(), result.Total)
		}
	}

	return result, nil
}
