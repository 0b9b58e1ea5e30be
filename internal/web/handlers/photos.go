package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/reminora/photovec/internal/engine"
)

// PhotosHandler serves similarity and duplicate queries.
type PhotosHandler struct {
	engine *engine.Engine
}

// NewPhotosHandler creates a new photos handler.
func NewPhotosHandler(eng *engine.Engine) *PhotosHandler {
	return &PhotosHandler{engine: eng}
}

// SimilarRequest is the request body for a similarity search.
type SimilarRequest struct {
	PhotoID   string   `json:"photo_id"`
	Threshold *float32 `json:"threshold,omitempty"`
	Limit     *int     `json:"limit,omitempty"`
}

// SimilarResponse is the response body for a similarity search.
type SimilarResponse struct {
	PhotoID   string            `json:"photo_id"`
	Threshold float32           `json:"threshold"`
	Matches   []similarityMatch `json:"matches"`
}

type similarityMatch struct {
	PhotoID string  `json:"photo_id"`
	Score   float32 `json:"score"`
}

// Similar handles POST /api/v1/photos/similar.
func (h *PhotosHandler) Similar(w http.ResponseWriter, r *http.Request) {
	var req SimilarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.PhotoID == "" {
		respondError(w, http.StatusBadRequest, "photo_id is required")
		return
	}

	threshold := h.engine.SimilarThreshold()
	if req.Threshold != nil {
		if *req.Threshold <= 0 || *req.Threshold > 1 {
			respondError(w, http.StatusBadRequest, "threshold must be in (0, 1]")
			return
		}
		threshold = *req.Threshold
	}

	limit := h.engine.SearchLimit()
	if req.Limit != nil {
		limit = *req.Limit
	}

	matches, err := h.engine.FindSimilarPhotos(r.Context(), req.PhotoID, threshold, limit)
	if err != nil {
		if errors.Is(err, engine.ErrImageDecode) {
			respondError(w, http.StatusUnprocessableEntity, "photo could not be decoded")
			return
		}
		log.Printf("similarity search failed for %s: %v", sanitizeForLog(req.PhotoID), err)
		respondError(w, http.StatusInternalServerError, "similarity search failed")
		return
	}

	resp := SimilarResponse{
		PhotoID:   req.PhotoID,
		Threshold: threshold,
		Matches:   make([]similarityMatch, 0, len(matches)),
	}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, similarityMatch{PhotoID: m.PhotoID, Score: m.Score})
	}

	respondJSON(w, http.StatusOK, resp)
}

// DuplicatesRequest is the request body for duplicate detection.
type DuplicatesRequest struct {
	Threshold      *float32 `json:"threshold,omitempty"`
	IncludeSingles bool     `json:"include_singles,omitempty"`
}

// DuplicatesResponse is the response body for duplicate detection.
type DuplicatesResponse struct {
	Threshold float32          `json:"threshold"`
	Groups    []duplicateGroup `json:"groups"`
}

type duplicateGroup struct {
	Representative string            `json:"representative"`
	Matches        []similarityMatch `json:"matches"`
}

// Duplicates handles POST /api/v1/photos/duplicates.
func (h *PhotosHandler) Duplicates(w http.ResponseWriter, r *http.Request) {
	var req DuplicatesRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, errInvalidRequestBody)
			return
		}
	}

	threshold := h.engine.DuplicateThreshold()
	if req.Threshold != nil {
		if *req.Threshold <= 0 || *req.Threshold > 1 {
			respondError(w, http.StatusBadRequest, "threshold must be in (0, 1]")
			return
		}
		threshold = *req.Threshold
	}

	groups, err := h.engine.FindDuplicates(r.Context(), threshold)
	if err != nil {
		log.Printf("duplicate detection failed: %v", err)
		respondError(w, http.StatusInternalServerError, "duplicate detection failed")
		return
	}

	resp := DuplicatesResponse{
		Threshold: threshold,
		Groups:    make([]duplicateGroup, 0, len(groups)),
	}
	for _, g := range groups {
		if !req.IncludeSingles && len(g.Matches) == 0 {
			continue
		}
		dg := duplicateGroup{
			Representative: g.Representative,
			Matches:        make([]similarityMatch, 0, len(g.Matches)),
		}
		for _, m := range g.Matches {
			dg.Matches = append(dg.Matches, similarityMatch{PhotoID: m.PhotoID, Score: m.Score})
		}
		resp.Groups = append(resp.Groups, dg)
	}

	respondJSON(w, http.StatusOK, resp)
}

// EmbedRequest is the request body for a single-photo embedding.
type EmbedRequest struct {
	PhotoID string `json:"photo_id"`
}

// EmbedResponse reports the outcome of a single-photo embedding.
type EmbedResponse struct {
	PhotoID  string `json:"photo_id"`
	Computed bool   `json:"computed"`
}

// Embed handles POST /api/v1/photos/embed. It computes and stores the
// embedding for a single photo, skipping the work when a fresh embedding
// already exists.
func (h *PhotosHandler) Embed(w http.ResponseWriter, r *http.Request) {
	var req EmbedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.PhotoID == "" {
		respondError(w, http.StatusBadRequest, "photo_id is required")
		return
	}

	computed, err := h.engine.ComputeAndStoreEmbedding(r.Context(), req.PhotoID)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrImageDecode):
			respondError(w, http.StatusUnprocessableEntity, "photo could not be decoded")
		case errors.Is(err, engine.ErrCompute):
			respondError(w, http.StatusBadGateway, "embedding computation failed")
		default:
			log.Printf("embedding failed for %s: %v", sanitizeForLog(req.PhotoID), err)
			respondError(w, http.StatusInternalServerError, "embedding failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, EmbedResponse{PhotoID: req.PhotoID, Computed: computed})
}
