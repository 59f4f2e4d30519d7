// Package hdbscan implements HDBSCAN, a density-based hierarchical
// clustering algorithm that labels low-density points as noise instead of
// forcing them into a cluster.
//
// The implementation is exact and deterministic: there is no sampling or
// random initialisation, and every tie is broken by point index. Memory use
// is linear in the number of points; pairwise distances are recomputed on
// demand rather than stored, trading O(N²·D) time for O(N·D) space.
package hdbscan

import (
	"fmt"

	"github.com/thebtf/threaddigest/pkg/models"
	"github.com/thebtf/threaddigest/pkg/similarity"
)

const (
	// DefaultMinClusterSize is the smallest group treated as a real cluster.
	DefaultMinClusterSize = 5
)

// Metric names a point-to-point distance.
type Metric string

const (
	MetricEuclidean Metric = "euclidean"
	MetricCosine    Metric = "cosine"
)

// SelectionMethod names the strategy for picking flat clusters from the
// condensed tree.
type SelectionMethod string

const (
	// SelectionEOM picks clusters by excess of mass (most persistent).
	SelectionEOM SelectionMethod = "eom"
	// SelectionLeaf picks the leaves of the condensed tree.
	SelectionLeaf SelectionMethod = "leaf"
)

// Config contains clustering parameters.
type Config struct {
	// MinClusterSize is the minimum number of points that form a cluster (>= 1).
	MinClusterSize int `json:"min_cluster_size" yaml:"min_cluster_size"`
	// MinSamples sets the neighbourhood size used for core distances.
	// Zero means MinClusterSize.
	MinSamples int `json:"min_samples" yaml:"min_samples"`
	// Metric is the distance between embeddings (default euclidean).
	Metric Metric `json:"metric" yaml:"metric"`
	// SelectionMethod is eom (default) or leaf.
	SelectionMethod SelectionMethod `json:"selection_method" yaml:"selection_method"`
	// AllowSingleCluster lets the root of the tree be returned as the only cluster.
	AllowSingleCluster bool `json:"allow_single_cluster" yaml:"allow_single_cluster"`
}

// DefaultConfig returns the default clustering configuration.
func DefaultConfig() Config {
	return Config{
		MinClusterSize:  DefaultMinClusterSize,
		Metric:          MetricEuclidean,
		SelectionMethod: SelectionEOM,
	}
}

// Validate reports a *models.ClusterError for unusable parameters.
func (c Config) Validate() error {
	if c.MinClusterSize < 1 {
		return &models.ClusterError{Reason: fmt.Sprintf("min_cluster_size must be >= 1, got %d", c.MinClusterSize)}
	}
	if c.MinSamples < 0 {
		return &models.ClusterError{Reason: fmt.Sprintf("min_samples must be >= 0, got %d", c.MinSamples)}
	}
	switch c.Metric {
	case "", MetricEuclidean, MetricCosine:
	default:
		return &models.ClusterError{Reason: fmt.Sprintf("unknown metric %q", c.Metric)}
	}
	switch c.SelectionMethod {
	case "", SelectionEOM, SelectionLeaf:
	default:
		return &models.ClusterError{Reason: fmt.Sprintf("unknown selection method %q", c.SelectionMethod)}
	}
	return nil
}

func (c Config) minSamples() int {
	if c.MinSamples > 0 {
		return c.MinSamples
	}
	return c.MinClusterSize
}

func (c Config) distance() func(a, b []float64) float64 {
	if c.Metric == MetricCosine {
		return similarity.CosineDistance
	}
	return similarity.EuclideanDistance
}

// Result holds the output of HDBSCAN clustering.
type Result struct {
	Labels        models.Labels `json:"labels"`
	Probabilities []float64     `json:"probabilities"`
	NClusters     int           `json:"n_clusters"`
	NPoints       int           `json:"n_points"`
	NNoise        int           `json:"n_noise"`
}

// Cluster runs HDBSCAN over the rows of m.
//
// Returns a *models.ClusterError when m is empty or cfg is invalid. When
// there are fewer points than MinClusterSize every point is labelled
// models.Noise and no error is returned.
func Cluster(m models.Matrix, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := m.Len()
	if n == 0 {
		return nil, &models.ClusterError{Reason: "embedding matrix is empty"}
	}

	if n < cfg.MinClusterSize || n == 1 {
		return allNoise(n), nil
	}

	dist := cfg.distance()
	core := coreDistances(m, cfg.minSamples(), dist)
	edges := primMST(m, core, dist)
	tree := singleLinkage(edges, n)
	condensed := condenseTree(tree, n, condenseSize(cfg.MinClusterSize))
	stability := computeStability(condensed, n)

	var selected []int
	if cfg.SelectionMethod == SelectionLeaf {
		selected = selectLeaves(condensed, n, cfg.AllowSingleCluster)
	} else {
		selected = selectEOM(condensed, stability, n, cfg.AllowSingleCluster)
	}

	labels := labelPoints(condensed, selected, n, cfg.AllowSingleCluster)
	probs := membershipProbabilities(condensed, labels, selected, n)

	return &Result{
		Labels:        labels,
		Probabilities: probs,
		NClusters:     len(selected),
		NPoints:       n,
		NNoise:        labels.NoiseCount(),
	}, nil
}

// condenseSize is the minimum child size that survives a split. A single
// point cannot persist over a lambda range, so sizes below 2 behave as 2.
func condenseSize(minClusterSize int) int {
	if minClusterSize < 2 {
		return 2
	}
	return minClusterSize
}

func allNoise(n int) *Result {
	labels := make(models.Labels, n)
	for i := range labels {
		labels[i] = models.Noise
	}
	return &Result{
		Labels:        labels,
		Probabilities: make([]float64, n),
		NPoints:       n,
		NNoise:        n,
	}
}
