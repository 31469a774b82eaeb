package cluster

import (
	"fmt"
	"slices"
)

// BuildDendrogram performs agglomerative clustering with complete linkage.
//
// Starting from one singleton per colour it repeatedly merges the two active
// clusters whose complete-linkage distance (the largest distance between any
// member of one and any member of the other) is smallest. Ties go to the
// lexicographically smallest pair of cluster IDs. The merged node's left child
// is the one holding the lower colour index.
//
// The naive O(N³) search is used; palettes are small.
func BuildDendrogram(m *DistanceMatrix) (*Dendrogram, error) {
	n := m.Len()
	if n == 0 {
		return nil, ErrEmptyInput
	}

	total := 2*n - 1
	nodes := make([]Node, n, total)
	for i := range n {
		nodes[i] = Node{
			Kind:     Leaf,
			Index:    i,
			Left:     NoNode,
			Right:    NoNode,
			Size:     1,
			MinIndex: i,
		}
	}

	// linkage holds complete-linkage distances between cluster IDs.
	linkage := newLinkageTable(total)
	for i := range n {
		for j := i + 1; j < n; j++ {
			linkage.set(NodeID(i), NodeID(j), m.At(i, j))
		}
	}

	// Active clusters in ascending ID order. New IDs are always larger than
	// existing ones, so appending keeps it sorted.
	active := make([]NodeID, n)
	for i := range active {
		active[i] = NodeID(i)
	}

	for len(active) > 1 {
		bx, by := 0, 1
		best := linkage.get(active[0], active[1])
		for x := 0; x < len(active); x++ {
			for y := x + 1; y < len(active); y++ {
				if d := linkage.get(active[x], active[y]); d < best {
					best, bx, by = d, x, y
				}
			}
		}

		a, b := active[bx], active[by]
		left, right := a, b
		if nodes[b].MinIndex < nodes[a].MinIndex {
			left, right = b, a
		}

		id := NodeID(len(nodes))
		nodes = append(nodes, Node{
			Kind:     Internal,
			Index:    -1,
			Height:   best,
			Left:     left,
			Right:    right,
			Size:     nodes[a].Size + nodes[b].Size,
			MinIndex: min(nodes[a].MinIndex, nodes[b].MinIndex),
		})

		// by > bx, so delete the later position first.
		active = slices.Delete(active, by, by+1)
		active = slices.Delete(active, bx, bx+1)

		// Complete linkage: the farthest pair across the merged cluster and k
		// is the farther of the two previous farthest pairs.
		for _, k := range active {
			linkage.set(id, k, max(linkage.get(a, k), linkage.get(b, k)))
		}
		active = append(active, id)
	}

	if len(nodes) != total {
		return nil, fmt.Errorf("dendrogram has %d nodes, expected %d", len(nodes), total)
	}

	return &Dendrogram{nodes: nodes, n: n}, nil
}

// linkageTable is a symmetric matrix indexed by cluster ID.
type linkageTable struct {
	size int
	data []float64
}

func newLinkageTable(size int) *linkageTable {
	return &linkageTable{size: size, data: make([]float64, size*size)}
}

func (t *linkageTable) get(a, b NodeID) float64 {
	return t.data[int(a)*t.size+int(b)]
}

func (t *linkageTable) set(a, b NodeID, d float64) {
	t.data[int(a)*t.size+int(b)] = d
	t.data[int(b)*t.size+int(a)] = d
}
