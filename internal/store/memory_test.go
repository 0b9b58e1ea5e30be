package store

import (
	"context"
	"testing"
	"time"
)

func testEmbedding(photoID string, at time.Time) PhotoEmbedding {
	return PhotoEmbedding{
		PhotoID:          photoID,
		Vector:           []float32{0.1, 0.2, 0.3},
		ContentHash:      "abc123",
		ComputedAt:       at,
		SourceModifiedAt: at.Add(-time.Hour),
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()

	emb, err := s.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emb != nil {
		t.Errorf("expected nil for missing record, got %+v", emb)
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	if err := s.Put(ctx, testEmbedding("photo1", now)); err != nil {
		t.Fatalf("failed to put: %v", err)
	}

	got, err := s.Get(ctx, "photo1")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.PhotoID != "photo1" {
		t.Errorf("expected PhotoID 'photo1', got '%s'", got.PhotoID)
	}
	if len(got.Vector) != 3 {
		t.Errorf("expected 3 dimensions, got %d", len(got.Vector))
	}
	if !got.ComputedAt.Equal(now) {
		t.Errorf("expected ComputedAt %v, got %v", now, got.ComputedAt)
	}
}

func TestMemoryStorePutReplaces(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := testEmbedding("photo1", time.Now())
	if err := s.Put(ctx, first); err != nil {
		t.Fatalf("failed to put: %v", err)
	}

	second := first
	second.Vector = []float32{0.9, 0.8, 0.7}
	second.ContentHash = "def456"
	if err := s.Put(ctx, second); err != nil {
		t.Fatalf("failed to put replacement: %v", err)
	}

	got, _ := s.Get(ctx, "photo1")
	if got.ContentHash != "def456" {
		t.Errorf("expected replaced hash 'def456', got '%s'", got.ContentHash)
	}
	if got.Vector[0] != 0.9 {
		t.Errorf("expected replaced vector, got %v", got.Vector)
	}

	list, _ := s.List(ctx)
	if len(list) != 1 {
		t.Errorf("expected 1 record after upsert, got %d", len(list))
	}
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	s := NewMemoryStore()
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
	if err := s.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("deleting missing record should not error, got %v", err)
	}

	got, _ := s.Get(ctx, "photo1")
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestMemoryStoreListOrdered(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	for _, id := range []string{"c", "a", "b"} {
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
	for i, want := range []string{"a", "b", "c"} {
		if list[i].PhotoID != want {
			t.Errorf("position %d: expected '%s', got '%s'", i, want, list[i].PhotoID)
		}
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, testEmbedding("photo1", time.Now())); err != nil {
		t.Fatalf("failed to put: %v", err)
	}

	got, _ := s.Get(ctx, "photo1")
	got.Vector[0] = 99

	again, _ := s.Get(ctx, "photo1")
	if again.Vector[0] == 99 {
		t.Error("mutating a returned record should not affect the store")
	}
}

func TestStale(t *testing.T) {
	now := time.Now()
	emb := testEmbedding("photo1", now)

	tests := []struct {
		name       string
		modifiedAt time.Time
		want       bool
	}{
		{"modified before compute", now.Add(-time.Minute), false},
		{"modified at compute time", now, false},
		{"modified after compute", now.Add(time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := emb.Stale(tt.modifiedAt); got != tt.want {
				t.Errorf("Stale(%v) = %v, want %v", tt.modifiedAt, got, tt.want)
			}
		})
	}
}
