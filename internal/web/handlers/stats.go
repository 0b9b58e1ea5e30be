package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/reminora/photovec/internal/constants"
	"github.com/reminora/photovec/internal/engine"
)

// StatsHandler serves coverage statistics with a short-lived cache so a
// polling dashboard does not rescan the library on every request.
type StatsHandler struct {
	engine *engine.Engine

	mu       sync.Mutex
	cached   *engine.Stats
	cachedAt time.Time
	ttl      time.Duration
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(eng *engine.Engine) *StatsHandler {
	return &StatsHandler{
		engine: eng,
		ttl:    constants.StatsCacheTTL,
	}
}

// Stats handles GET /api/v1/stats.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.cached != nil && time.Since(h.cachedAt) < h.ttl {
		stats := *h.cached
		h.mu.Unlock()
		respondJSON(w, http.StatusOK, stats)
		return
	}
	h.mu.Unlock()

	stats, err := h.engine.GetStats(r.Context())
	if err != nil {
		log.Printf("stats query failed: %v", err)
		respondError(w, http.StatusInternalServerError, "stats query failed")
		return
	}

	h.mu.Lock()
	h.cached = stats
	h.cachedAt = time.Now()
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, stats)
}

// InvalidateCache drops the cached stats so the next request recomputes
// them. Called after jobs that change embedding coverage.
func (h *StatsHandler) InvalidateCache() {
	h.mu.Lock()
	h.cached = nil
	h.mu.Unlock()
}
