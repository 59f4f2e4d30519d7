package hdbscan

import (
	"math"
	"sort"

	"github.com/thebtf/threaddigest/pkg/models"
)

// edge is a weighted minimum-spanning-tree edge between two points.
type edge struct {
	a, b   int
	weight float64
}

// linkNode is one merge of the single-linkage tree. Node ids below n are
// points; merge k has node id n+k.
type linkNode struct {
	left, right int
	dist        float64
	size        int
}

// coreDistances returns, for every point, the distance to its k-th nearest
// neighbour counting the point itself as the first.
func coreDistances(m models.Matrix, k int, dist func(a, b []float64) float64) []float64 {
	n := m.Len()
	if k > n {
		k = n
	}
	core := make([]float64, n)
	buf := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				buf[j] = 0
				continue
			}
			buf[j] = dist(m[i], m[j])
		}
		sort.Float64s(buf)
		core[i] = buf[k-1]
	}
	return core
}

// primMST builds a minimum spanning tree over mutual reachability distances
// using Prim's algorithm on the implicit complete graph. Ties resolve to
// the lowest point index.
func primMST(m models.Matrix, core []float64, dist func(a, b []float64) float64) []edge {
	n := m.Len()
	inTree := make([]bool, n)
	best := make([]float64, n)
	source := make([]int, n)
	for i := range best {
		best[i] = math.Inf(1)
	}

	edges := make([]edge, 0, n-1)
	current := 0
	for len(edges) < n-1 {
		inTree[current] = true

		next := -1
		nextDist := math.Inf(1)
		for j := 0; j < n; j++ {
			if inTree[j] {
				continue
			}
			d := mutualReachability(dist(m[current], m[j]), core[current], core[j])
			if d < best[j] {
				best[j] = d
				source[j] = current
			}
			if next == -1 || best[j] < nextDist {
				next = j
				nextDist = best[j]
			}
		}

		edges = append(edges, edge{a: source[next], b: next, weight: nextDist})
		current = next
	}
	return edges
}

func mutualReachability(d, coreA, coreB float64) float64 {
	return math.Max(d, math.Max(coreA, coreB))
}

// singleLinkage turns MST edges into a single-linkage merge tree.
func singleLinkage(edges []edge, n int) []linkNode {
	sorted := make([]edge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].weight < sorted[j].weight
	})

	uf := newUnionFind(2*n - 1)
	tree := make([]linkNode, 0, n-1)
	for _, e := range sorted {
		ra := uf.find(e.a)
		rb := uf.find(e.b)
		tree = append(tree, linkNode{
			left:  ra,
			right: rb,
			dist:  e.weight,
			size:  uf.size[ra] + uf.size[rb],
		})
		uf.union(ra, rb)
	}
	return tree
}

// unionFind allocates a fresh parent node for every union, mirroring the
// node numbering of the linkage tree.
type unionFind struct {
	parent []int
	size   []int
	next   int
}

func newUnionFind(capacity int) *unionFind {
	uf := &unionFind{
		parent: make([]int, capacity),
		size:   make([]int, capacity),
		next:   (capacity + 1) / 2,
	}
	for i := range uf.parent {
		uf.parent[i] = i
		if i < uf.next {
			uf.size[i] = 1
		}
	}
	return uf
}

func (u *unionFind) find(x int) int {
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		u.parent[x], x = root, u.parent[x]
	}
	return root
}

func (u *unionFind) union(a, b int) {
	u.parent[a] = u.next
	u.parent[b] = u.next
	u.size[u.next] = u.size[a] + u.size[b]
	u.next++
}
