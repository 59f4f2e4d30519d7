package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix_ValidateShape(t *testing.T) {
	tests := []struct {
		name    string
		matrix  Matrix
		wantErr string
	}{
		{name: "empty is well-formed", matrix: Matrix{}},
		{name: "rectangular", matrix: Matrix{{1, 2}, {3, 4}, {5, 6}}},
		{name: "ragged row", matrix: Matrix{{1, 2}, {3}}, wantErr: "row 1 has dimension 1, expected 2"},
		{name: "zero dimension", matrix: Matrix{{}, {}}, wantErr: "row 0 has dimension 0"},
		{name: "nan", matrix: Matrix{{1, math.NaN()}}, wantErr: "row 0 column 1 is not a finite number"},
		{name: "inf", matrix: Matrix{{1, 2}, {math.Inf(-1), 0}}, wantErr: "row 1 column 0 is not a finite number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.matrix.ValidateShape()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, ErrDecode))
		})
	}
}

func TestMatrix_LenDimRows(t *testing.T) {
	m := Matrix{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 3, m.Dim())
	assert.Equal(t, 0, Matrix{}.Dim())
	assert.Equal(t, Matrix{{7, 8, 9}, {1, 2, 3}}, m.Rows([]int{2, 0}))
}

func TestLabels(t *testing.T) {
	l := Labels{3, Noise, 0, 3, 1, Noise, 0}

	assert.Equal(t, []int{0, 1, 3}, l.Distinct())
	assert.Equal(t, []int{0, 3}, l.Members(3))
	assert.Equal(t, []int{1, 5}, l.Members(Noise))
	assert.Equal(t, 2, l.NoiseCount())
	assert.Equal(t, map[int][]int{0: {2, 6}, 1: {4}, 3: {0, 3}}, l.Groups())
}

func TestLabels_AllNoise(t *testing.T) {
	l := Labels{Noise, Noise}
	assert.Empty(t, l.Distinct())
	assert.Empty(t, l.Groups())
	assert.Equal(t, 2, l.NoiseCount())
}

func TestErrors_IsAndAs(t *testing.T) {
	inner := errors.New("boom")
	tests := []struct {
		name     string
		err      error
		sentinel error
		text     string
	}{
		{name: "decode", err: &DecodeError{Reason: "bad", Err: inner}, sentinel: ErrDecode, text: "decode error: bad: boom"},
		{name: "cluster", err: &ClusterError{Reason: "empty"}, sentinel: ErrCluster, text: "cluster error: empty"},
		{name: "selection", err: &SelectionError{Reason: "gap"}, sentinel: ErrSelection, text: "selection error: gap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.text, tt.err.Error())
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			for _, other := range []error{ErrDecode, ErrCluster, ErrSelection} {
				if other != tt.sentinel {
					assert.False(t, errors.Is(tt.err, other))
				}
			}
		})
	}

	wrapped := &DecodeError{Reason: "bad", Err: inner}
	assert.True(t, errors.Is(wrapped, inner))
}

func TestMessage_RoundTrip(t *testing.T) {
	var m Message
	require.NoError(t, m.UnmarshalJSON([]byte(`{"user":"a", "text":"hi"}`)))

	out, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"user":"a", "text":"hi"}`, string(out))
	assert.Equal(t, 25, m.Size())

	var empty Message
	out, err = empty.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
