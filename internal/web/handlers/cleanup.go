package handlers

import (
	"log"
	"net/http"

	"github.com/reminora/photovec/internal/engine"
)

// CleanupHandler removes embeddings whose photos left the library.
type CleanupHandler struct {
	engine *engine.Engine
	stats  *StatsHandler
}

// NewCleanupHandler creates a new cleanup handler.
func NewCleanupHandler(eng *engine.Engine, stats *StatsHandler) *CleanupHandler {
	return &CleanupHandler{engine: eng, stats: stats}
}

// CleanupResponse reports how many orphaned embeddings were removed.
type CleanupResponse struct {
	Removed int `json:"removed"`
}

// Cleanup handles POST /api/v1/cleanup. It runs synchronously; the
// engine's maintenance lock keeps it from racing a running sweep.
func (h *CleanupHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	removed, err := h.engine.CleanupOrphaned(r.Context())
	if err != nil {
		log.Printf("orphan cleanup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "cleanup failed")
		return
	}

	if h.stats != nil {
		h.stats.InvalidateCache()
	}

	respondJSON(w, http.StatusOK, CleanupResponse{Removed: removed})
}
