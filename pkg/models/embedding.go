// Package models contains domain models for threaddigest.
package models

import (
	"fmt"
	"math"
)

// Matrix is an ordered set of N embedding vectors of equal dimension D.
// Row i corresponds to message i of the batch being summarized.
type Matrix [][]float64

// Len returns the number of rows (N).
func (m Matrix) Len() int {
	return len(m)
}

// Dim returns the embedding dimension (D), or 0 for an empty matrix.
func (m Matrix) Dim() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// ValidateShape checks that the matrix is rectangular, has D >= 1 and
// contains only finite values. An empty matrix is considered well-formed;
// rejecting N == 0 is the clusterer's job.
func (m Matrix) ValidateShape() error {
	if len(m) == 0 {
		return nil
	}
	dim := len(m[0])
	if dim == 0 {
		return &DecodeError{Reason: "embeddings: row 0 has dimension 0"}
	}
	for i, row := range m {
		if len(row) != dim {
			return &DecodeError{
				Reason: fmt.Sprintf("embeddings: row %d has dimension %d, expected %d", i, len(row), dim),
			}
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &DecodeError{
					Reason: fmt.Sprintf("embeddings: row %d column %d is not a finite number", i, j),
				}
			}
		}
	}
	return nil
}

// Rows returns the sub-matrix made of the given row indices, in order.
// The returned rows share storage with m.
func (m Matrix) Rows(indices []int) Matrix {
	out := make(Matrix, len(indices))
	for i, idx := range indices {
		out[i] = m[idx]
	}
	return out
}
