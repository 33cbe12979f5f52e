package match

import "math"

// CosineSimilarity returns dot(a, b) / (|a| * |b|), accumulated in float64.
// The result is NaN when either vector has zero magnitude or the lengths differ; NaN
// compares false with every score and therefore never becomes a best match.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.NaN()
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return math.NaN()
	}
	return dot / denom
}
