package engine

import (
	"context"
	"fmt"
)

// Stats reports embedding coverage of the photo library.
type Stats struct {
	TotalPhotos    int `json:"total_photos"`
	EmbeddedPhotos int `json:"embedded_photos"`
	Percent        int `json:"percent"`
}

// coveragePercent is floor(embedded/total*100), 0 for an empty library.
func coveragePercent(total, embedded int) int {
	if total <= 0 {
		return 0
	}
	return embedded * 100 / total
}

// GetStats counts library photos and how many of them have a stored
// embedding. Orphaned embeddings do not count, so Percent stays in [0, 100].
func (e *Engine) GetStats(ctx context.Context) (*Stats, error) {
	photos, err := e.source.Photos(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate photos: %w", err)
	}

	snapshot, err := e.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrStorageRead, err)
	}

	stored := make(map[string]struct{}, len(snapshot))
	for _, emb := range snapshot {
		stored[emb.PhotoID] = struct{}{}
	}

	embedded := 0
	for _, p := range photos {
		if _, ok := stored[p.PhotoID]; ok {
			embedded++
		}
	}

	return &Stats{
		TotalPhotos:    len(photos),
		EmbeddedPhotos: embedded,
		Percent:        coveragePercent(len(photos), embedded),
	}, nil
}
