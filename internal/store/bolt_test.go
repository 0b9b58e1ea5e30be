package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestBoltStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "embeddings.db"))
	if err != nil {
		t.Fatalf("failed to open bolt store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltStoreRoundTrip(t *testing.T) {
	s := newTestBoltStore(t)
	ctx := context.Background()

	computed := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	emb := PhotoEmbedding{
		PhotoID:          "2026/03/IMG_0001.jpg",
		Vector:           []float32{0.5, -0.25, 0.125},
		ContentHash:      "deadbeef",
		ComputedAt:       computed,
		SourceModifiedAt: computed.Add(-2 * time.Hour),
	}

	if err := s.Put(ctx, emb); err != nil {
		t.Fatalf("failed to put: %v", err)
	}

	got, err := s.Get(ctx, emb.PhotoID)
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.ContentHash != "deadbeef" {
		t.Errorf("expected hash 'deadbeef', got '%s'", got.ContentHash)
	}
	if len(got.Vector) != 3 || got.Vector[1] != -0.25 {
		t.Errorf("vector mismatch: %v", got.Vector)
	}
	if !got.ComputedAt.Equal(computed) {
		t.Errorf("ComputedAt drifted through storage: want %v, got %v", computed, got.ComputedAt)
	}
	if got.Stale(got.SourceModifiedAt) {
		t.Error("record should not be stale against its own SourceModifiedAt")
	}
}

func TestBoltStoreGetMissing(t *testing.T) {
	s := newTestBoltStore(t)

	got, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing record, got %+v", got)
	}
}

func TestBoltStoreDeleteIdempotent(t *testing.T) {
	s := newTestBoltStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, testEmbedding("photo1", time.Now())); err != nil {
		t.Fatalf("failed to put: %v", err)
	}
	if err := s.Delete(ctx, "photo1"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if err := s.Delete(ctx, "photo1"); err != nil {
		t.Errorf("second delete should not error, got %v", err)
	}

	got, _ := s.Get(ctx, "photo1")
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestBoltStoreListKeyOrder(t *testing.T) {
	s := newTestBoltStore(t)
	ctx := context.Background()
	now := time.Now()

	for _, id := range []string{"z/photo.jpg", "a/photo.jpg", "m/photo.jpg"} {
		if err := s.Put(ctx, testEmbedding(id, now)); err != nil {
			t.Fatalf("failed to put %s: %v", id, err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}
	for i, want := range []string{"a/photo.jpg", "m/photo.jpg", "z/photo.jpg"} {
		if list[i].PhotoID != want {
			t.Errorf("position %d: expected '%s', got '%s'", i, want, list[i].PhotoID)
		}
	}
}

func TestBoltStoreReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "embeddings.db")
	ctx := context.Background()

	s, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("failed to open bolt store: %v", err)
	}
	if err := s.Put(ctx, testEmbedding("photo1", time.Now())); err != nil {
		t.Fatalf("failed to put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	reopened, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("failed to reopen bolt store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "photo1")
	if err != nil {
		t.Fatalf("failed to get after reopen: %v", err)
	}
	if got == nil {
		t.Fatal("record should survive reopen")
	}
}
