package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/reminora/photovec/internal/store"
)

// Store implements store.EmbeddingStore on PostgreSQL with pgvector.
type Store struct {
	pool *Pool
}

// NewStore creates an embedding store over the given pool.
func NewStore(pool *Pool) *Store {
	return &Store{pool: pool}
}

// Get retrieves an embedding by photo ID, returns nil if not found.
func (s *Store) Get(ctx context.Context, photoID string) (*store.PhotoEmbedding, error) {
	query := `
		SELECT photo_id, embedding, content_hash, computed_at, source_modified_at
		FROM embeddings
		WHERE photo_id = $1
	`

	var emb store.PhotoEmbedding
	var vec pgvector.Vector

	err := s.pool.QueryRow(ctx, query, photoID).Scan(
		&emb.PhotoID,
		&vec,
		&emb.ContentHash,
		&emb.ComputedAt,
		&emb.SourceModifiedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	emb.Vector = vec.Slice()
	return &emb, nil
}

// Put stores an embedding (upsert keyed by photo ID).
func (s *Store) Put(ctx context.Context, emb store.PhotoEmbedding) error {
	query := `
		INSERT INTO embeddings (photo_id, embedding, content_hash, computed_at, source_modified_at)
		VALUES ($1, $2::vector, $3, $4, $5)
		ON CONFLICT (photo_id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			content_hash = EXCLUDED.content_hash,
			computed_at = EXCLUDED.computed_at,
			source_modified_at = EXCLUDED.source_modified_at
	`

	vec := pgvector.NewVector(emb.Vector)
	_, err := s.pool.Exec(ctx, query, emb.PhotoID, vec, emb.ContentHash, emb.ComputedAt, emb.SourceModifiedAt)
	if err != nil {
		return fmt.Errorf("save embedding: %w", err)
	}
	return nil
}

// Delete removes an embedding. Deleting a missing record is not an error.
func (s *Store) Delete(ctx context.Context, photoID string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM embeddings WHERE photo_id = $1", photoID); err != nil {
		return fmt.Errorf("delete embedding: %w", err)
	}
	return nil
}

// List returns all embeddings ordered by photo ID.
func (s *Store) List(ctx context.Context) ([]store.PhotoEmbedding, error) {
	query := `
		SELECT photo_id, embedding, content_hash, computed_at, source_modified_at
		FROM embeddings
		ORDER BY photo_id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query all embeddings: %w", err)
	}
	defer rows.Close()

	return scanEmbeddings(rows)
}

// Count returns the total number of embeddings stored.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count embeddings: %w", err)
	}
	return count, nil
}

func scanEmbeddings(rows *sql.Rows) ([]store.PhotoEmbedding, error) {
	var embeddings []store.PhotoEmbedding

	for rows.Next() {
		var emb store.PhotoEmbedding
		var vec pgvector.Vector

		if err := rows.Scan(
			&emb.PhotoID,
			&vec,
			&emb.ContentHash,
			&emb.ComputedAt,
			&emb.SourceModifiedAt,
		); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}

		emb.Vector = vec.Slice()
		embeddings = append(embeddings, emb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate embeddings: %w", err)
	}

	return embeddings, nil
}

// Verify interface compliance
var _ store.EmbeddingStore = (*Store)(nil)
