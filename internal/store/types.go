package store

import (
	"time"
)

// PhotoEmbedding represents one stored embedding record, keyed by photo ID.
type PhotoEmbedding struct {
	PhotoID          string
	Vector           []float32
	ContentHash      string
	ComputedAt       time.Time
	SourceModifiedAt time.Time
}

// Stale reports whether the record is out of date with respect to the
// photo's current modification timestamp. A photo modified at exactly
// ComputedAt is still considered fresh.
func (p *PhotoEmbedding) Stale(sourceModifiedAt time.Time) bool {
	return sourceModifiedAt.After(p.ComputedAt)
}

// Clone returns a deep copy so callers can hold records across store writes.
func (p *PhotoEmbedding) Clone() PhotoEmbedding {
	c := *p
	c.Vector = make([]float32, len(p.Vector))
	copy(c.Vector, p.Vector)
	return c
}
