package similarity

import (
	"sort"

	"github.com/reminora/photovec/internal/store"
)

// Match is one similarity search hit.
type Match struct {
	PhotoID string  `json:"photo_id"`
	Score   float32 `json:"score"`
}

// DuplicateGroup is one cluster of near-identical photos. The
// representative is the first member encountered in input order; Matches
// holds the remaining members (empty for singletons).
type DuplicateGroup struct {
	Representative string  `json:"representative"`
	Matches        []Match `json:"matches,omitempty"`
}

// Size returns the number of photos in the group, representative included.
func (g DuplicateGroup) Size() int {
	return 1 + len(g.Matches)
}

// FindSimilar scans candidates exhaustively and returns those with
// similarity to target of at least threshold, excluding the target photo
// itself. Results are sorted by score descending, ties broken by photo ID
// ascending, and truncated to limit (limit <= 0 means no limit).
func FindSimilar(target store.PhotoEmbedding, candidates []store.PhotoEmbedding, threshold float32, limit int) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, cand := range candidates {
		if cand.PhotoID == target.PhotoID {
			continue
		}
		score := Cosine(target.Vector, cand.Vector)
		if score >= threshold {
			matches = append(matches, Match{PhotoID: cand.PhotoID, Score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].PhotoID < matches[j].PhotoID
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// FindDuplicateGroups clusters embeddings with single-pass greedy grouping
// in the given input order: each not-yet-assigned embedding becomes a
// representative, and every later unassigned embedding within threshold of
// that representative joins its group. Grouping is intentionally
// order-dependent and non-transitive - members match their representative,
// not necessarily each other. Singletons get their own one-member group.
func FindDuplicateGroups(embeddings []store.PhotoEmbedding, threshold float32) []DuplicateGroup {
	assigned := make([]bool, len(embeddings))
	groups := make([]DuplicateGroup, 0, len(embeddings))

	for i := range embeddings {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		group := DuplicateGroup{Representative: embeddings[i].PhotoID}

		for j := i + 1; j < len(embeddings); j++ {
			if assigned[j] {
				continue
			}
			score := Cosine(embeddings[i].Vector, embeddings[j].Vector)
			if score >= threshold {
				group.Matches = append(group.Matches, Match{PhotoID: embeddings[j].PhotoID, Score: score})
				assigned[j] = true
			}
		}

		groups = append(groups, group)
	}

	return groups
}
