package cluster

import (
	"cmp"
	"slices"

	"github.com/jmylchreest/tinge/internal/colour"
)

// Engine holds the distance matrix and dendrogram for one colour set so the
// set can be cut at many thresholds without recomputing distances.
// An Engine is read-only after NewEngine returns and may be shared between
// goroutines.
type Engine struct {
	colours    []colour.RGB
	matrix     *DistanceMatrix
	dendrogram *Dendrogram
}

// NewEngine builds the distance matrix and dendrogram for colours.
// The slice is copied.
func NewEngine(colours []colour.RGB) (*Engine, error) {
	if len(colours) == 0 {
		return nil, ErrEmptyInput
	}

	owned := slices.Clone(colours)
	matrix := BuildMatrix(owned)
	dendrogram, err := BuildDendrogram(matrix)
	if err != nil {
		return nil, err
	}

	return &Engine{
		colours:    owned,
		matrix:     matrix,
		dendrogram: dendrogram,
	}, nil
}

// Group is one cluster of a Grouping together with its representative.
type Group struct {
	Members        []int
	Representative int
	Height         float64
}

// Grouping is the result of cutting an Engine at one threshold.
type Grouping struct {
	Threshold float64
	Groups    []Group
}

// Len returns the number of groups.
func (g *Grouping) Len() int {
	return len(g.Groups)
}

// RepresentativeIndices returns the representative of each group in order.
func (g *Grouping) RepresentativeIndices() []int {
	reps := make([]int, len(g.Groups))
	for i, grp := range g.Groups {
		reps[i] = grp.Representative
	}
	return reps
}

// Cut groups the colours at threshold.
func (e *Engine) Cut(threshold float64) (*Grouping, error) {
	clusters, err := e.dendrogram.Cut(threshold)
	if err != nil {
		return nil, err
	}

	groups := make([]Group, len(clusters))
	for i, c := range clusters {
		groups[i] = Group{
			Members:        c.Members,
			Representative: PickRepresentative(c.Members, e.colours),
			Height:         c.Height,
		}
	}

	return &Grouping{Threshold: threshold, Groups: groups}, nil
}

// Colours returns a copy of the colours the engine was built from.
func (e *Engine) Colours() []colour.RGB {
	return slices.Clone(e.colours)
}

// Matrix returns the distance matrix.
func (e *Engine) Matrix() *DistanceMatrix {
	return e.matrix
}

// Dendrogram returns the merge tree.
func (e *Engine) Dendrogram() *Dendrogram {
	return e.dendrogram
}

// Level is a threshold at which the grouping changes.
type Level struct {
	Threshold float64
	Groups    int
}

// Levels lists every distinct merge height with the number of groups a cut
// at exactly that height produces, plus the zero level. Groups never
// increase as the threshold grows.
func (e *Engine) Levels() []Level {
	heights := e.dendrogram.Heights()
	if len(heights) == 0 || heights[0] != 0 {
		heights = append([]float64{0}, heights...)
	}

	merges := e.dendrogram.Merges()
	levels := make([]Level, len(heights))
	for i, h := range heights {
		// Merges are created in non-decreasing height order, and each one
		// reduces the group count by one.
		merged, _ := slices.BinarySearchFunc(merges, h, func(n Node, target float64) int {
			if n.Height <= target {
				return -1
			}
			return 1
		})
		levels[i] = Level{Threshold: h, Groups: e.dendrogram.Len() - merged}
	}
	return levels
}

// Pair is the distance between two input colours.
type Pair struct {
	I, J     int
	Distance float64
}

// Pairs returns every unordered pair of colours sorted by ascending distance,
// ties broken by (I, J).
func (e *Engine) Pairs() []Pair {
	n := e.matrix.Len()
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := range n {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{I: i, J: j, Distance: e.matrix.At(i, j)})
		}
	}

	slices.SortFunc(pairs, func(a, b Pair) int {
		return cmp.Or(
			cmp.Compare(a.Distance, b.Distance),
			cmp.Compare(a.I, b.I),
			cmp.Compare(a.J, b.J),
		)
	})
	return pairs
}

// GroupColours builds an engine for colours and cuts it at threshold.
func GroupColours(colours []colour.RGB, threshold float64) (*Grouping, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}
	e, err := NewEngine(colours)
	if err != nil {
		return nil, err
	}
	return e.Cut(threshold)
}
