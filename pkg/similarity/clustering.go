package similarity

import (
	"fmt"

	"github.com/thebtf/threaddigest/pkg/models"
)

// Representative is the message chosen for one cluster together with the
// facts that led to its selection.
type Representative[M any] struct {
	Message  M       `json:"message"`
	Label    int     `json:"label"`
	Index    int     `json:"index"`
	Size     int     `json:"size"`
	Distance float64 `json:"distance"`
}

// SelectRepresentatives returns one message per non-noise cluster: the
// member whose embedding is nearest to the cluster centroid.
// Clusters are visited in ascending label order.
func SelectRepresentatives[M any](matrix models.Matrix, messages []M, labels models.Labels) ([]M, error) {
	reps, err := Representatives(matrix, messages, labels)
	if err != nil {
		return nil, err
	}
	out := make([]M, len(reps))
	for i, r := range reps {
		out[i] = r.Message
	}
	return out, nil
}

// Representatives is SelectRepresentatives with per-cluster detail.
func Representatives[M any](matrix models.Matrix, messages []M, labels models.Labels) ([]Representative[M], error) {
	if len(labels) != len(matrix) || len(messages) != len(matrix) {
		return nil, &models.SelectionError{
			Reason: fmt.Sprintf("misaligned inputs: %d embeddings, %d messages, %d labels",
				len(matrix), len(messages), len(labels)),
		}
	}

	groups := labels.Groups()
	result := make([]Representative[M], 0, len(groups))

	for _, label := range labels.Distinct() {
		indices := groups[label]
		if len(indices) == 0 {
			return nil, &models.SelectionError{Reason: fmt.Sprintf("cluster %d has no members", label)}
		}

		idx, dist := nearestToCentroid(matrix, indices)
		result = append(result, Representative[M]{
			Message:  messages[idx],
			Label:    label,
			Index:    idx,
			Size:     len(indices),
			Distance: dist,
		})
	}

	return result, nil
}

// nearestToCentroid returns the member index closest to the mean of the
// members and its distance. indices must be ascending so that the first
// strict minimum is also the lowest index among ties.
func nearestToCentroid(matrix models.Matrix, indices []int) (int, float64) {
	centroid := Centroid(matrix.Rows(indices))

	best := indices[0]
	bestDist := EuclideanDistance(matrix[best], centroid)
	for _, idx := range indices[1:] {
		d := EuclideanDistance(matrix[idx], centroid)
		if d < bestDist {
			best, bestDist = idx, d
		}
	}
	return best, bestDist
}
