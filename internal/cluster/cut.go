package cluster

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/jmylchreest/tinge/internal/colour"
)

// Cluster is one flat group produced by cutting a dendrogram.
type Cluster struct {
	// Members are colour indices in ascending order.
	Members []int

	// Node is the dendrogram node the cluster was taken from.
	Node NodeID

	// Height is that node's merge height (0 for singletons).
	Height float64
}

// Cut splits the dendrogram into flat clusters. Every subtree whose merge
// height is at most threshold becomes one cluster; higher merges are split
// into their children. Clusters are returned in ascending order of their
// smallest member. Tree order alone does not give that: a left subtree split
// into {0} and {2} would precede a right subtree holding {1, 3}.
func (d *Dendrogram) Cut(threshold float64) ([]Cluster, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	var clusters []Cluster
	stack := []NodeID{d.Root()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := d.nodes[id]
		if node.IsLeaf() || node.Height <= threshold {
			clusters = append(clusters, Cluster{
				Members: d.Leaves(id),
				Node:    id,
				Height:  node.Height,
			})
			continue
		}
		stack = append(stack, node.Right, node.Left)
	}

	// Members are sorted, so Members[0] is each cluster's smallest index.
	slices.SortFunc(clusters, func(a, b Cluster) int {
		return cmp.Compare(a.Members[0], b.Members[0])
	})

	return clusters, nil
}

func validateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 {
		return fmt.Errorf("%w: %v (must be a non-negative number)", ErrInvalidThreshold, threshold)
	}
	return nil
}

// PickRepresentative chooses the colour that stands in for a cluster. A
// singleton is its own representative; otherwise the member with the lowest
// HSL hue wins, with equal hues keeping member order. Returns -1 for an empty
// cluster.
func PickRepresentative(members []int, colours []colour.RGB) int {
	switch len(members) {
	case 0:
		return -1
	case 1:
		return members[0]
	}

	sorted := make([]int, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return colour.Hue(colours[sorted[i]]) < colour.Hue(colours[sorted[j]])
	})
	return sorted[0]
}

// Representatives picks one representative per cluster.
func Representatives(clusters []Cluster, colours []colour.RGB) []int {
	reps := make([]int, len(clusters))
	for i, c := range clusters {
		reps[i] = PickRepresentative(c.Members, colours)
	}
	return reps
}
