// Package similarity implements exhaustive cosine-similarity search and
// duplicate grouping over embedding snapshots.
package similarity

import "math"

// Cosine computes the cosine similarity between two vectors, clamped to
// [0, 1]. Returns 0 for mismatched lengths, zero vectors, or non-finite
// results - never NaN.
func Cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	similarity := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(similarity) || math.IsInf(similarity, 0) {
		return 0
	}
	// Clamp to [0, 1]; negative similarity means "not similar at all" here
	if similarity > 1 {
		similarity = 1
	}
	if similarity < 0 {
		similarity = 0
	}

	return float32(similarity)
}
