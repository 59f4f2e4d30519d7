package similarity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/threaddigest/pkg/models"
)

func blobs() (models.Matrix, []string, models.Labels) {
	m := models.Matrix{
		{0, 0}, {0, 0.1}, {0, 0.2}, {0, 0.1}, {0, 0},
		{10, 10}, {10, 10.1}, {10, 9.9}, {10, 10}, {10, 10.1},
	}
	msgs := []string{"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9"}
	labels := models.Labels{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}
	return m, msgs, labels
}

func TestSelectRepresentatives_NearestToCentroid(t *testing.T) {
	m, msgs, labels := blobs()

	reps, err := SelectRepresentatives(m, msgs, labels)
	require.NoError(t, err)

	// Centroids are (0, 0.08) and (10, 10.02); a1/a3 and a5/a8 tie, lowest index wins.
	assert.Equal(t, []string{"a1", "a5"}, reps)
}

func TestSelectRepresentatives_SkipsNoise(t *testing.T) {
	m, msgs, _ := blobs()
	labels := models.Labels{0, 0, 0, 0, 0, models.Noise, models.Noise, models.Noise, models.Noise, models.Noise}

	reps, err := SelectRepresentatives(m, msgs, labels)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, reps)
}

func TestSelectRepresentatives_AllNoise(t *testing.T) {
	m, msgs, _ := blobs()
	labels := make(models.Labels, len(m))
	for i := range labels {
		labels[i] = models.Noise
	}

	reps, err := SelectRepresentatives(m, msgs, labels)
	require.NoError(t, err)
	assert.NotNil(t, reps)
	assert.Empty(t, reps)
}

func TestSelectRepresentatives_AscendingLabelOrder(t *testing.T) {
	m, msgs, _ := blobs()
	// Cluster ids are not required to be dense or to follow row order.
	labels := models.Labels{7, 7, 7, 7, 7, 2, 2, 2, 2, 2}

	reps, err := Representatives(m, msgs, labels)
	require.NoError(t, err)
	require.Len(t, reps, 2)

	assert.Equal(t, 2, reps[0].Label)
	assert.Equal(t, "a5", reps[0].Message)
	assert.Equal(t, 7, reps[1].Label)
	assert.Equal(t, "a1", reps[1].Message)
}

func TestRepresentatives_Detail(t *testing.T) {
	m, msgs, labels := blobs()

	reps, err := Representatives(m, msgs, labels)
	require.NoError(t, err)
	require.Len(t, reps, 2)

	assert.Equal(t, 1, reps[0].Index)
	assert.Equal(t, 5, reps[0].Size)
	assert.InDelta(t, 0.02, reps[0].Distance, 1e-9)
	assert.Equal(t, 5, reps[1].Index)
	assert.InDelta(t, 0.02, reps[1].Distance, 1e-9)
}

func TestRepresentatives_NearestProperty(t *testing.T) {
	m := models.Matrix{
		{1, 2, 3}, {2, 2, 2}, {9, 1, 0}, {1.5, 2.5, 2.5}, {0, 0, 0},
		{-4, 4, 1}, {-5, 5, 0}, {-4.5, 4.2, 0.3},
	}
	msgs := []int{100, 101, 102, 103, 104, 105, 106, 107}
	labels := models.Labels{0, 0, models.Noise, 0, 0, 1, 1, 1}

	reps, err := Representatives(m, msgs, labels)
	require.NoError(t, err)
	require.Len(t, reps, len(labels.Distinct()))

	for _, r := range reps {
		members := labels.Members(r.Label)
		centroid := Centroid(m.Rows(members))
		for _, idx := range members {
			assert.LessOrEqual(t, r.Distance, EuclideanDistance(m[idx], centroid)+1e-12)
		}
		assert.Equal(t, msgs[r.Index], r.Message)
		assert.NotEqual(t, models.Noise, labels[r.Index])
	}
}

func TestRepresentatives_TieBreaksOnLowestIndex(t *testing.T) {
	// Both points are equidistant from the centroid (0, 0).
	m := models.Matrix{{1, 0}, {-1, 0}}
	reps, err := SelectRepresentatives(m, []string{"first", "second"}, models.Labels{0, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, reps)
}

func TestRepresentatives_StructuredMessages(t *testing.T) {
	type msg struct {
		User string
		Text string
	}
	m := models.Matrix{{0}, {1}, {2}}
	msgs := []msg{{"u1", "x"}, {"u2", "y"}, {"u3", "z"}}

	reps, err := SelectRepresentatives(m, msgs, models.Labels{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, []msg{{"u2", "y"}}, reps)
}

func TestRepresentatives_Misaligned(t *testing.T) {
	m, msgs, labels := blobs()

	tests := []struct {
		name   string
		matrix models.Matrix
		msgs   []string
		labels models.Labels
	}{
		{name: "fewer messages", matrix: m, msgs: msgs[:9], labels: labels},
		{name: "fewer labels", matrix: m, msgs: msgs, labels: labels[:3]},
		{name: "fewer rows", matrix: m[:4], msgs: msgs, labels: labels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reps, err := Representatives(tt.matrix, tt.msgs, tt.labels)
			require.Error(t, err)
			assert.Nil(t, reps)
			assert.True(t, errors.Is(err, models.ErrSelection))
		})
	}
}
