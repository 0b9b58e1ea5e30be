package cmd

import (
	"errors"
	"fmt"

	"github.com/reminora/photovec/internal/compute"
	"github.com/reminora/photovec/internal/config"
	"github.com/reminora/photovec/internal/engine"
	"github.com/reminora/photovec/internal/source"
	"github.com/reminora/photovec/internal/store"
	"github.com/reminora/photovec/internal/store/postgres"
)

// openStore picks the storage backend: PostgreSQL with pgvector when
// DATABASE_URL is set, the local bbolt file otherwise.
func openStore(cfg *config.Config) (store.EmbeddingStore, func(), error) {
	if cfg.Database.URL != "" {
		pool, err := postgres.Connect(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return postgres.NewStore(pool), func() { pool.Close() }, nil
	}

	bs, err := store.NewBoltStore(cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open embedding store: %w", err)
	}
	return bs, func() { bs.Close() }, nil
}

// newEngine wires the embedding store, photo library, and CLIP client
// together. The returned closer releases the storage backend.
func newEngine(cfg *config.Config) (*engine.Engine, func(), error) {
	if cfg.Library.Dir == "" {
		return nil, nil, errors.New("PHOTOVEC_LIBRARY_DIR environment variable is required")
	}

	lib, err := source.NewLibrary(cfg.Library.Dir, cfg.Engine.MaxImageSize)
	if err != nil {
		return nil, nil, err
	}

	st, closer, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	clip := compute.NewClipClient(cfg.Embedding.URL)
	return engine.New(st, lib, clip, cfg), closer, nil
}
