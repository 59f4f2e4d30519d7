package hdbscan

import (
	"math"
	"sort"

	"github.com/thebtf/threaddigest/pkg/models"
)

// condensedEdge is one row of the condensed cluster tree. child is either a
// point (< n) falling out of parent at lambda, or a child cluster (>= n)
// born at lambda with size points.
type condensedEdge struct {
	parent int
	child  int
	lambda float64
	size   int
}

// lambdaOf converts a merge distance to a density level. Zero distances map
// to the largest finite value so that stability sums never produce NaN.
func lambdaOf(dist float64) float64 {
	if dist > 0 {
		return 1 / dist
	}
	return math.MaxFloat64
}

// bfsFrom lists root and all its descendants in the linkage tree, breadth first.
func bfsFrom(tree []linkNode, n, root int) []int {
	out := []int{root}
	for i := 0; i < len(out); i++ {
		node := out[i]
		if node >= n {
			ln := tree[node-n]
			out = append(out, ln.left, ln.right)
		}
	}
	return out
}

// condenseTree walks the linkage tree from the root and keeps only splits
// where both sides have at least minSize points. Smaller sides are recorded
// as points falling out of the surviving cluster.
// Cluster ids start at n (the root) and increase in discovery order.
func condenseTree(tree []linkNode, n, minSize int) []condensedEdge {
	root := 2*n - 2
	relabel := make([]int, 2*n-1)
	ignore := make([]bool, 2*n-1)
	relabel[root] = n
	nextLabel := n + 1

	sizeOf := func(node int) int {
		if node < n {
			return 1
		}
		return tree[node-n].size
	}

	var out []condensedEdge
	fallOut := func(parent, subtree int, lambda float64) {
		for _, sub := range bfsFrom(tree, n, subtree) {
			if sub < n {
				out = append(out, condensedEdge{parent: parent, child: sub, lambda: lambda, size: 1})
			}
			ignore[sub] = true
		}
	}

	for _, node := range bfsFrom(tree, n, root) {
		if node < n || ignore[node] {
			continue
		}

		ln := tree[node-n]
		lambda := lambdaOf(ln.dist)
		leftCount := sizeOf(ln.left)
		rightCount := sizeOf(ln.right)
		parent := relabel[node]

		switch {
		case leftCount >= minSize && rightCount >= minSize:
			relabel[ln.left] = nextLabel
			nextLabel++
			out = append(out, condensedEdge{parent: parent, child: relabel[ln.left], lambda: lambda, size: leftCount})

			relabel[ln.right] = nextLabel
			nextLabel++
			out = append(out, condensedEdge{parent: parent, child: relabel[ln.right], lambda: lambda, size: rightCount})

		case leftCount < minSize && rightCount < minSize:
			fallOut(parent, ln.left, lambda)
			fallOut(parent, ln.right, lambda)

		case leftCount < minSize:
			relabel[ln.right] = parent
			fallOut(parent, ln.left, lambda)

		default:
			relabel[ln.left] = parent
			fallOut(parent, ln.right, lambda)
		}
	}
	return out
}

// numClusters returns how many cluster ids the condensed tree uses,
// root included.
func numClusters(condensed []condensedEdge, n int) int {
	maxID := n
	for _, e := range condensed {
		if e.child > maxID {
			maxID = e.child
		}
	}
	return maxID - n + 1
}

// computeStability returns the excess-of-mass stability of every cluster,
// indexed by cluster id - n.
func computeStability(condensed []condensedEdge, n int) []float64 {
	k := numClusters(condensed, n)
	birth := make([]float64, k)
	for _, e := range condensed {
		if e.child >= n {
			birth[e.child-n] = e.lambda
		}
	}

	stability := make([]float64, k)
	for _, e := range condensed {
		stability[e.parent-n] += (e.lambda - birth[e.parent-n]) * float64(e.size)
	}
	return stability
}

// clusterChildren maps cluster id - n to its direct child cluster ids.
func clusterChildren(condensed []condensedEdge, n int) [][]int {
	children := make([][]int, numClusters(condensed, n))
	for _, e := range condensed {
		if e.child >= n {
			children[e.parent-n] = append(children[e.parent-n], e.child)
		}
	}
	return children
}

// selectEOM picks the set of clusters with maximal total stability such
// that no selected cluster is an ancestor of another.
func selectEOM(condensed []condensedEdge, stability []float64, n int, allowSingle bool) []int {
	k := len(stability)
	children := clusterChildren(condensed, n)
	stab := make([]float64, k)
	copy(stab, stability)

	isCluster := make([]bool, k)
	lowest := 1
	if allowSingle {
		lowest = 0
	}
	for c := lowest; c < k; c++ {
		isCluster[c] = true
	}

	// Children always have larger ids than their parent, so walking ids
	// downward settles every subtree before its root.
	for c := k - 1; c >= lowest; c-- {
		var subtree float64
		for _, child := range children[c] {
			subtree += stab[child-n]
		}

		if subtree > stab[c] {
			isCluster[c] = false
			stab[c] = subtree
			continue
		}
		for _, d := range descendants(children, n, c) {
			isCluster[d-n] = false
		}
	}

	return selectedIDs(isCluster, n)
}

// selectLeaves picks the clusters that have no child clusters.
func selectLeaves(condensed []condensedEdge, n int, allowSingle bool) []int {
	children := clusterChildren(condensed, n)
	isCluster := make([]bool, len(children))
	for c := 1; c < len(children); c++ {
		isCluster[c] = len(children[c]) == 0
	}
	if len(children) == 1 && allowSingle {
		isCluster[0] = true
	}
	return selectedIDs(isCluster, n)
}

// descendants returns every cluster id below c (exclusive).
func descendants(children [][]int, n, c int) []int {
	out := append([]int(nil), children[c]...)
	for i := 0; i < len(out); i++ {
		out = append(out, children[out[i]-n]...)
	}
	return out
}

func selectedIDs(isCluster []bool, n int) []int {
	var ids []int
	for c, ok := range isCluster {
		if ok {
			ids = append(ids, c+n)
		}
	}
	sort.Ints(ids)
	return ids
}

// labelPoints assigns each point the flat label of its nearest selected
// ancestor. Selected clusters are numbered 0..K-1 in ascending id order;
// points with no selected ancestor are Noise.
func labelPoints(condensed []condensedEdge, selected []int, n int, allowSingle bool) models.Labels {
	root := n
	labelOf := make(map[int]int, len(selected))
	for i, c := range selected {
		labelOf[c] = i
	}

	parentOf := make(map[int]int, len(condensed))
	pointLambda := make([]float64, n)
	var rootMaxLambda float64
	for _, e := range condensed {
		parentOf[e.child] = e.parent
		if e.child < n {
			pointLambda[e.child] = e.lambda
		}
		if e.parent == root && e.lambda > rootMaxLambda {
			rootMaxLambda = e.lambda
		}
	}

	labels := make(models.Labels, n)
	for p := 0; p < n; p++ {
		labels[p] = models.Noise

		c, ok := parentOf[p]
		if !ok {
			continue
		}
		for c != root {
			if _, sel := labelOf[c]; sel {
				break
			}
			c = parentOf[c]
		}

		label, sel := labelOf[c]
		if !sel {
			continue
		}
		if c == root {
			// Only the densest points of a lone root cluster are kept.
			if !allowSingle || len(selected) != 1 || pointLambda[p] < rootMaxLambda {
				continue
			}
		}
		labels[p] = label
	}
	return labels
}

// membershipProbabilities scores each clustered point by how long it stays
// in its cluster relative to the cluster's densest point. Noise scores 0.
func membershipProbabilities(condensed []condensedEdge, labels models.Labels, selected []int, n int) []float64 {
	deaths := make(map[int]float64)
	pointLambda := make([]float64, n)
	for _, e := range condensed {
		if e.lambda > deaths[e.parent] {
			deaths[e.parent] = e.lambda
		}
		if e.child < n {
			pointLambda[e.child] = e.lambda
		}
	}

	probs := make([]float64, n)
	for p, label := range labels {
		if label == models.Noise {
			continue
		}
		maxLambda := deaths[selected[label]]
		if maxLambda == 0 || math.IsInf(maxLambda, 0) {
			probs[p] = 1
			continue
		}
		probs[p] = math.Min(pointLambda[p], maxLambda) / maxLambda
	}
	return probs
}
