// Package source provides access to the photo library the engine indexes.
package source

import (
	"context"
	"time"
)

// PhotoDescriptor identifies one photo in the library.
type PhotoDescriptor struct {
	// PhotoID is the stable library identifier (slash-separated path
	// relative to the library root for filesystem libraries).
	PhotoID string
	// ModifiedAt is the photo's current modification timestamp, used to
	// decide whether a stored embedding is stale.
	ModifiedAt time.Time
}

// PhotoSource enumerates photos and serves their normalized image bytes.
type PhotoSource interface {
	// Photos returns all photos in a stable order.
	Photos(ctx context.Context) ([]PhotoDescriptor, error)
	// Describe returns the descriptor for one photo, nil if it no longer exists.
	Describe(ctx context.Context, photoID string) (*PhotoDescriptor, error)
	// Decode loads the photo and returns normalized image bytes ready for
	// the embedding computer.
	Decode(ctx context.Context, photoID string) ([]byte, error)
	// Exists reports whether the photo still resolves in the library.
	Exists(ctx context.Context, photoID string) bool
}
