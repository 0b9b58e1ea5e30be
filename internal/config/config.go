package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Library   LibraryConfig
	Embedding EmbeddingConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Engine    EngineConfig
	Web       WebConfig
}

type LibraryConfig struct {
	Dir string // photo library root directory
}

type EmbeddingConfig struct {
	URL string // embedding server URL, defaults to http://localhost:8000
	Dim int    // expected vector dimension, defaults to 768
}

type StoreConfig struct {
	Path string // bbolt file path, defaults to ~/.photovec/embeddings.db
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL; bbolt is used when empty
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type EngineConfig struct {
	SimilarThreshold   float32 // minimum score for similarity search results
	DuplicateThreshold float32 // minimum score for duplicate grouping
	SearchLimit        int     // default result cap for similarity search
	MaxImageSize       int     // longer edge cap for normalized images
}

type WebConfig struct {
	Port int // HTTP listen port (default 8080)
}

// defaults mirrors the embedded defaults.yaml layout.
type defaults struct {
	Thresholds struct {
		Similar   float32 `yaml:"similar"`
		Duplicate float32 `yaml:"duplicate"`
	} `yaml:"thresholds"`
	Search struct {
		Limit int `yaml:"limit"`
	} `yaml:"search"`
	Image struct {
		MaxSize int `yaml:"max_size"`
	} `yaml:"image"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat32 reads an environment variable and parses it as a float in
// (0, 1]. Returns the default value if unset, empty, or out of range.
func envFloat32(key string, defaultVal float32) float32 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 32); err == nil && f > 0 && f <= 1 {
		return float32(f)
	}
	return defaultVal
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "photovec.db"
	}
	return filepath.Join(home, ".photovec", "embeddings.db")
}

func Load() *Config {
	var def defaults
	if err := yaml.Unmarshal(defaultsYAML, &def); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	storePath := os.Getenv("PHOTOVEC_STORE_PATH")
	if storePath == "" {
		storePath = defaultStorePath()
	}

	return &Config{
		Library: LibraryConfig{
			Dir: os.Getenv("PHOTOVEC_LIBRARY_DIR"),
		},
		Embedding: EmbeddingConfig{
			URL: os.Getenv("EMBEDDING_URL"),
			Dim: envInt("EMBEDDING_DIM", 768),
		},
		Store: StoreConfig{
			Path: storePath,
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Engine: EngineConfig{
			SimilarThreshold:   envFloat32("PHOTOVEC_SIMILAR_THRESHOLD", def.Thresholds.Similar),
			DuplicateThreshold: envFloat32("PHOTOVEC_DUPLICATE_THRESHOLD", def.Thresholds.Duplicate),
			SearchLimit:        envInt("PHOTOVEC_SEARCH_LIMIT", def.Search.Limit),
			MaxImageSize:       envInt("PHOTOVEC_MAX_IMAGE_SIZE", def.Image.MaxSize),
		},
		Web: WebConfig{
			Port: envInt("PORT", 8080),
		},
	}
}
