package cluster

import (
	"slices"
)

// NodeID is a handle to a node in a Dendrogram. Leaves have IDs 0..N-1 equal
// to the index of the colour they hold; internal nodes follow in merge order.
type NodeID int

// NoNode marks a missing child on leaf nodes.
const NoNode NodeID = -1

// NodeKind distinguishes leaves from merges.
type NodeKind uint8

const (
	// Leaf nodes hold a single colour index.
	Leaf NodeKind = iota
	// Internal nodes join two subtrees at a merge height.
	Internal
)

func (k NodeKind) String() string {
	if k == Leaf {
		return "leaf"
	}
	return "internal"
}

// Node is one entry of the dendrogram arena.
type Node struct {
	Kind NodeKind

	// Index is the colour index for leaves and -1 for internal nodes.
	Index int

	// Height is the complete-linkage distance at which Left and Right were
	// merged. Always 0 for leaves.
	Height float64

	Left, Right NodeID

	// Size is the number of leaves below the node.
	Size int

	// MinIndex is the smallest colour index below the node.
	MinIndex int
}

// IsLeaf reports whether the node is a leaf.
func (n Node) IsLeaf() bool {
	return n.Kind == Leaf
}

// Dendrogram is the merge tree produced by BuildDendrogram. It is immutable
// and safe for concurrent use.
type Dendrogram struct {
	nodes []Node
	n     int
}

// Len returns the number of leaves.
func (d *Dendrogram) Len() int {
	return d.n
}

// Root returns the root node handle.
func (d *Dendrogram) Root() NodeID {
	return NodeID(len(d.nodes) - 1)
}

// Node returns the node with the given handle.
func (d *Dendrogram) Node(id NodeID) Node {
	return d.nodes[id]
}

// Merges returns the internal nodes in the order they were created.
// Their heights are non-decreasing.
func (d *Dendrogram) Merges() []Node {
	return slices.Clone(d.nodes[d.n:])
}

// Leaves returns the colour indices below id in ascending order.
func (d *Dendrogram) Leaves(id NodeID) []int {
	out := make([]int, 0, d.nodes[id].Size)
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := d.nodes[cur]
		if node.IsLeaf() {
			out = append(out, node.Index)
			continue
		}
		stack = append(stack, node.Right, node.Left)
	}
	slices.Sort(out)
	return out
}

// Heights returns the distinct merge heights in ascending order. Cutting at
// any threshold between two consecutive heights yields the same clusters.
func (d *Dendrogram) Heights() []float64 {
	heights := make([]float64, 0, len(d.nodes)-d.n)
	for _, node := range d.nodes[d.n:] {
		heights = append(heights, node.Height)
	}
	slices.Sort(heights)
	return slices.Compact(heights)
}
