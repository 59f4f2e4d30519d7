package models

import "sort"

// Noise is the label assigned to points that belong to no cluster.
const Noise = -1

// Labels is one cluster label per matrix row. Non-negative values are
// cluster identifiers; Noise marks outliers.
type Labels []int

// Distinct returns the distinct non-noise labels in ascending order.
// Callers rely on the ordering for reproducible output.
func (l Labels) Distinct() []int {
	seen := make(map[int]bool)
	out := make([]int, 0)
	for _, label := range l {
		if label == Noise || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	sort.Ints(out)
	return out
}

// Members returns the row indices carrying the given label, ascending.
func (l Labels) Members(label int) []int {
	var out []int
	for i, v := range l {
		if v == label {
			out = append(out, i)
		}
	}
	return out
}

// Groups maps every non-noise label to its member row indices.
func (l Labels) Groups() map[int][]int {
	groups := make(map[int][]int)
	for i, v := range l {
		if v == Noise {
			continue
		}
		groups[v] = append(groups[v], i)
	}
	return groups
}

// NoiseCount returns the number of rows labelled Noise.
func (l Labels) NoiseCount() int {
	n := 0
	for _, v := range l {
		if v == Noise {
			n++
		}
	}
	return n
}
