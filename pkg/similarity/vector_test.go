package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEuclideanDistance(t *testing.T) {
	assert.Equal(t, 5.0, EuclideanDistance([]float64{0, 0}, []float64{3, 4}))
	assert.Equal(t, 0.0, EuclideanDistance([]float64{1, 2, 3}, []float64{1, 2, 3}))
	assert.Equal(t, 25.0, SquaredEuclideanDistance([]float64{0, 0}, []float64{3, 4}))
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{name: "same direction", a: []float64{1, 2}, b: []float64{2, 4}, expected: 1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 1}, expected: 0},
		{name: "opposite", a: []float64{1, 1}, b: []float64{-1, -1}, expected: -1},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 1}, expected: 0},
		{name: "length mismatch", a: []float64{1}, b: []float64{1, 1}, expected: 0},
		{name: "empty", a: nil, b: nil, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CosineSimilarity(tt.a, tt.b), 1e-12)
		})
	}
}

func TestCosineDistance_NeverNegative(t *testing.T) {
	v := []float64{0.1, 0.7, 0.3}
	d := CosineDistance(v, v)
	assert.GreaterOrEqual(t, d, 0.0)
	assert.InDelta(t, 0, d, 1e-12)
	assert.InDelta(t, 2, CosineDistance([]float64{1, 0}, []float64{-1, 0}), 1e-12)
}

func TestCentroid(t *testing.T) {
	c := Centroid([][]float64{{0, 0}, {2, 4}, {4, 2}})
	assert.Equal(t, []float64{2, 2}, c)
	assert.Nil(t, Centroid(nil))
	assert.False(t, math.IsNaN(Centroid([][]float64{{1}})[0]))
}
