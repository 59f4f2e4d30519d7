// Package similarity provides vector similarity and clustering utilities.
package similarity

import "math"

// EuclideanDistance returns the L2 distance between two vectors of equal length.
func EuclideanDistance(a, b []float64) float64 {
	return math.Sqrt(SquaredEuclideanDistance(a, b))
}

// SquaredEuclideanDistance returns the squared L2 distance between a and b.
func SquaredEuclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value in [-1, 1], where 1 means identical direction.
// Zero vectors have similarity 0 with everything.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance returns 1 - cosine similarity, in [0, 2].
func CosineDistance(a, b []float64) float64 {
	d := 1 - CosineSimilarity(a, b)
	if d < 0 {
		// rounding can push identical vectors slightly below zero
		return 0
	}
	return d
}

// Centroid returns the coordinate-wise arithmetic mean of the given vectors.
// Returns nil when vectors is empty.
func Centroid(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	centroid := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		for j, x := range v {
			centroid[j] += x
		}
	}
	n := float64(len(vectors))
	for j := range centroid {
		centroid[j] /= n
	}
	return centroid
}
