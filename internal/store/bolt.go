package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var embeddingsBucket = []byte("embeddings")

// boltRecord is the JSON encoding of a PhotoEmbedding inside bbolt.
// Timestamps are stored as Unix nanoseconds to keep the staleness
// comparison exact across encode/decode round trips.
type boltRecord struct {
	Vector           []float32 `json:"vector"`
	ContentHash      string    `json:"content_hash"`
	ComputedAt       int64     `json:"computed_at"`
	SourceModifiedAt int64     `json:"source_modified_at"`
}

// BoltStore persists embeddings in a single bbolt file. It is the default
// backend for single-device use: writes are serialized by bbolt's single
// writer, reads run under read transactions.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (creating if needed) the bbolt file at path and
// ensures the embeddings bucket exists.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(embeddingsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create embeddings bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying bbolt file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Get retrieves an embedding by photo ID, returns nil if not found.
func (s *BoltStore) Get(ctx context.Context, photoID string) (*PhotoEmbedding, error) {
	var emb *PhotoEmbedding
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(embeddingsBucket).Get([]byte(photoID))
		if data == nil {
			return nil
		}
		var rec boltRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("decode record %s: %w", photoID, err)
		}
		emb = recordToEmbedding(photoID, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return emb, nil
}

// Put stores an embedding, replacing any existing record for the photo ID.
func (s *BoltStore) Put(ctx context.Context, emb PhotoEmbedding) error {
	rec := boltRecord{
		Vector:           emb.Vector,
		ContentHash:      emb.ContentHash,
		ComputedAt:       emb.ComputedAt.UnixNano(),
		SourceModifiedAt: emb.SourceModifiedAt.UnixNano(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", emb.PhotoID, err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(embeddingsBucket).Put([]byte(emb.PhotoID), data)
	})
	if err != nil {
		return fmt.Errorf("store record %s: %w", emb.PhotoID, err)
	}
	return nil
}

// Delete removes an embedding. Missing records are ignored.
func (s *BoltStore) Delete(ctx context.Context, photoID string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(embeddingsBucket).Delete([]byte(photoID))
	})
	if err != nil {
		return fmt.Errorf("delete record %s: %w", photoID, err)
	}
	return nil
}

// List returns all embeddings in key order (photo ID ascending).
func (s *BoltStore) List(ctx context.Context) ([]PhotoEmbedding, error) {
	var out []PhotoEmbedding
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(embeddingsBucket).ForEach(func(k, v []byte) error {
			var rec boltRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode record %s: %w", k, err)
			}
			out = append(out, *recordToEmbedding(string(k), rec))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func recordToEmbedding(photoID string, rec boltRecord) *PhotoEmbedding {
	return &PhotoEmbedding{
		PhotoID:          photoID,
		Vector:           rec.Vector,
		ContentHash:      rec.ContentHash,
		ComputedAt:       time.Unix(0, rec.ComputedAt),
		SourceModifiedAt: time.Unix(0, rec.SourceModifiedAt),
	}
}

// Verify interface compliance
var _ EmbeddingStore = (*BoltStore)(nil)
