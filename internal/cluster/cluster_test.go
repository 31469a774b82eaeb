package cluster

import (
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/tinge/internal/colour"
)

func parseAll(t *testing.T, hexes ...string) []colour.RGB {
	t.Helper()
	out := make([]colour.RGB, len(hexes))
	for i, h := range hexes {
		rgb, err := colour.ParseColour(h)
		require.NoError(t, err)
		out[i] = rgb
	}
	return out
}

// matrixFromRows builds a DistanceMatrix from explicit distances so tie
// handling can be tested without depending on colour arithmetic.
func matrixFromRows(rows [][]float64) *DistanceMatrix {
	n := len(rows)
	m := &DistanceMatrix{n: n, data: make([]float64, n*n)}
	for i, row := range rows {
		copy(m.data[i*n:], row)
	}
	return m
}

func randomPalette(seed uint64, n int) []colour.RGB {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]colour.RGB, n)
	for i := range out {
		out[i] = colour.RGB{R: uint8(r.IntN(256)), G: uint8(r.IntN(256)), B: uint8(r.IntN(256))}
	}
	return out
}

func members(groups []Group) [][]int {
	out := make([][]int, len(groups))
	for i, g := range groups {
		out[i] = g.Members
	}
	return out
}

func assertPartition(t *testing.T, n int, groups []Group) {
	t.Helper()
	seen := make([]bool, n)
	for _, g := range groups {
		require.NotEmpty(t, g.Members)
		for _, idx := range g.Members {
			require.False(t, seen[idx], "index %d appears in more than one group", idx)
			seen[idx] = true
		}
	}
	for idx, ok := range seen {
		assert.True(t, ok, "index %d missing from every group", idx)
	}
}

func TestDistanceMatrix(t *testing.T) {
	colours := randomPalette(7, 12)
	m := BuildMatrix(colours)
	require.Equal(t, 12, m.Len())

	maxSeen := 0.0
	for i := range colours {
		assert.Zero(t, m.At(i, i))
		for j := range colours {
			assert.Equal(t, m.At(i, j), m.At(j, i))
			assert.GreaterOrEqual(t, m.At(i, j), 0.0)
			if i != j {
				assert.Equal(t, colour.DeltaE(colours[i], colours[j]), m.At(i, j))
			}
			maxSeen = math.Max(maxSeen, m.At(i, j))
		}
	}
	assert.Equal(t, maxSeen, m.Max())
	assert.Equal(t, m.Row(3)[5], m.At(3, 5))
}

func TestDistanceMatrixSmall(t *testing.T) {
	empty := BuildMatrix(nil)
	assert.Equal(t, 0, empty.Len())
	assert.Zero(t, empty.Max())

	one := BuildMatrix(parseAll(t, "#123456"))
	assert.Equal(t, 1, one.Len())
	assert.Zero(t, one.At(0, 0))
	assert.Panics(t, func() { one.At(0, 1) })
}

func TestBuildDendrogramEmpty(t *testing.T) {
	_, err := BuildDendrogram(BuildMatrix(nil))
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = NewEngine(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = GroupColours([]colour.RGB{}, 10)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestBuildDendrogramSingle(t *testing.T) {
	d, err := BuildDendrogram(BuildMatrix(parseAll(t, "#123456")))
	require.NoError(t, err)

	assert.Equal(t, 1, d.Len())
	assert.Empty(t, d.Merges())
	root := d.Node(d.Root())
	assert.True(t, root.IsLeaf())
	assert.Equal(t, 0, root.Index)
}

func TestBuildDendrogramStructure(t *testing.T) {
	colours := randomPalette(42, 20)
	m := BuildMatrix(colours)
	d, err := BuildDendrogram(m)
	require.NoError(t, err)

	merges := d.Merges()
	require.Len(t, merges, len(colours)-1)
	assert.Equal(t, len(colours), d.Node(d.Root()).Size)

	prev := 0.0
	for _, node := range merges {
		assert.Equal(t, Internal, node.Kind)
		assert.GreaterOrEqual(t, node.Height, prev, "merge heights must not decrease")
		prev = node.Height

		// Height is the farthest pair across the two children.
		want := 0.0
		for _, i := range d.Leaves(node.Left) {
			for _, j := range d.Leaves(node.Right) {
				want = math.Max(want, m.At(i, j))
			}
		}
		assert.Equal(t, want, node.Height)
		assert.Less(t, d.Node(node.Left).MinIndex, d.Node(node.Right).MinIndex)
	}

	assert.Equal(t, m.Max(), d.Node(d.Root()).Height)
}

func TestBuildDendrogramTieBreak(t *testing.T) {
	t.Run("disjoint pairs at equal distance", func(t *testing.T) {
		d, err := BuildDendrogram(matrixFromRows([][]float64{
			{0, 1, 5, 5},
			{1, 0, 5, 5},
			{5, 5, 0, 1},
			{5, 5, 1, 0},
		}))
		require.NoError(t, err)

		merges := d.Merges()
		require.Len(t, merges, 3)
		assert.Equal(t, NodeID(0), merges[0].Left)
		assert.Equal(t, NodeID(1), merges[0].Right)
		assert.Equal(t, NodeID(2), merges[1].Left)
		assert.Equal(t, NodeID(3), merges[1].Right)
		assert.Equal(t, NodeID(4), merges[2].Left)
		assert.Equal(t, NodeID(5), merges[2].Right)
		assert.Equal(t, 5.0, merges[2].Height)
	})

	t.Run("shared member at equal distance", func(t *testing.T) {
		d, err := BuildDendrogram(matrixFromRows([][]float64{
			{0, 3, 1},
			{3, 0, 1},
			{1, 1, 0},
		}))
		require.NoError(t, err)

		merges := d.Merges()
		require.Len(t, merges, 2)
		assert.Equal(t, []int{0, 2}, d.Leaves(3))
		assert.Equal(t, 1.0, merges[0].Height)
		// {0,2} joins {1} at the farthest pair, d(0,1).
		assert.Equal(t, 3.0, merges[1].Height)
	})

	t.Run("left child holds the lowest index", func(t *testing.T) {
		d, err := BuildDendrogram(matrixFromRows([][]float64{
			{0, 4, 4},
			{4, 0, 1},
			{4, 1, 0},
		}))
		require.NoError(t, err)

		root := d.Node(d.Root())
		assert.Equal(t, NodeID(0), root.Left)
		assert.Equal(t, NodeID(3), root.Right)
	})
}

func TestCutScenarios(t *testing.T) {
	tests := []struct {
		name      string
		colours   []string
		threshold float64
		want      [][]int
		wantReps  []int
	}{
		{
			name:      "near identical reds merge",
			colours:   []string{"#FF0000", "#FE0101", "#0000FF"},
			threshold: 5,
			want:      [][]int{{0, 1}, {2}},
			wantReps:  []int{0, 2},
		},
		{
			name:      "single colour",
			colours:   []string{"#123456"},
			threshold: 50,
			want:      [][]int{{0}},
			wantReps:  []int{0},
		},
		{
			name:      "single colour at zero",
			colours:   []string{"#123456"},
			threshold: 0,
			want:      [][]int{{0}},
			wantReps:  []int{0},
		},
		{
			name:      "identical colours merge at zero",
			colours:   []string{"#abcdef", "#123456", "#ABCDEF"},
			threshold: 0,
			want:      [][]int{{0, 2}, {1}},
			wantReps:  []int{0, 1},
		},
		{
			name:      "lowest hue represents the group",
			colours:   []string{"#ff0800", "#00ff00", "#ff0000"},
			threshold: 5,
			want:      [][]int{{0, 2}, {1}},
			wantReps:  []int{2, 1},
		},
		{
			name:      "equal hues keep input order",
			colours:   []string{"#0000ff", "#00ff00", "#0000fe"},
			threshold: 5,
			want:      [][]int{{0, 2}, {1}},
			wantReps:  []int{0, 1},
		},
		{
			name:      "large threshold collapses everything",
			colours:   []string{"#ff0000", "#00ff00", "#0000ff", "#ffffff", "#000000"},
			threshold: 1000,
			want:      [][]int{{0, 1, 2, 3, 4}},
			wantReps:  []int{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := GroupColours(parseAll(t, tt.colours...), tt.threshold)
			require.NoError(t, err)

			assert.Equal(t, tt.want, members(g.Groups))
			assert.Equal(t, tt.wantReps, g.RepresentativeIndices())
			assert.Equal(t, tt.threshold, g.Threshold)
		})
	}
}

func TestCutOrdersBySmallestMember(t *testing.T) {
	// 0 and 2 merge first under the left child; 1 and 3 form the right child.
	d, err := BuildDendrogram(matrixFromRows([][]float64{
		{0, 9, 4, 9},
		{9, 0, 9, 1},
		{4, 9, 0, 9},
		{9, 1, 9, 0},
	}))
	require.NoError(t, err)

	tests := []struct {
		threshold float64
		want      [][]int
	}{
		{threshold: 0, want: [][]int{{0}, {1}, {2}, {3}}},
		{threshold: 3, want: [][]int{{0}, {1, 3}, {2}}},
		{threshold: 5, want: [][]int{{0, 2}, {1, 3}}},
		{threshold: 9, want: [][]int{{0, 1, 2, 3}}},
	}
	for _, tt := range tests {
		clusters, err := d.Cut(tt.threshold)
		require.NoError(t, err)

		got := make([][]int, len(clusters))
		for i, c := range clusters {
			got[i] = c.Members
		}
		assert.Equal(t, tt.want, got, "threshold %v", tt.threshold)
	}
}

func TestCutInvalidThreshold(t *testing.T) {
	e, err := NewEngine(parseAll(t, "#ff0000", "#00ff00"))
	require.NoError(t, err)

	for _, threshold := range []float64{-1, -0.0001, math.NaN()} {
		_, err := e.Cut(threshold)
		assert.ErrorIs(t, err, ErrInvalidThreshold)

		_, err = e.Dendrogram().Cut(threshold)
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	}

	_, err = GroupColours(nil, -1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestCutProperties(t *testing.T) {
	colours := randomPalette(2024, 32)
	e, err := NewEngine(colours)
	require.NoError(t, err)

	t.Run("threshold zero keeps distinct colours apart", func(t *testing.T) {
		g, err := e.Cut(0)
		require.NoError(t, err)
		assertPartition(t, len(colours), g.Groups)
		for _, grp := range g.Groups {
			for _, idx := range grp.Members {
				assert.Equal(t, colours[grp.Members[0]], colours[idx])
			}
		}
	})

	t.Run("threshold at max distance collapses", func(t *testing.T) {
		g, err := e.Cut(e.Matrix().Max())
		require.NoError(t, err)
		require.Len(t, g.Groups, 1)
		assert.Len(t, g.Groups[0].Members, len(colours))
	})

	t.Run("partition and monotonicity", func(t *testing.T) {
		prev := math.MaxInt
		for threshold := 0.0; threshold <= 120; threshold += 2.5 {
			g, err := e.Cut(threshold)
			require.NoError(t, err)
			assertPartition(t, len(colours), g.Groups)
			assert.LessOrEqual(t, g.Len(), prev, "threshold %v increased the group count", threshold)
			prev = g.Len()

			// Clusters come out ordered by their smallest member.
			for i := 1; i < len(g.Groups); i++ {
				assert.Less(t, g.Groups[i-1].Members[0], g.Groups[i].Members[0])
			}
		}
	})

	t.Run("complete linkage bounds the group diameter", func(t *testing.T) {
		threshold := 20.0
		g, err := e.Cut(threshold)
		require.NoError(t, err)
		for _, grp := range g.Groups {
			for _, i := range grp.Members {
				for _, j := range grp.Members {
					assert.LessOrEqual(t, e.Matrix().At(i, j), threshold)
				}
			}
		}
	})

	t.Run("representative has the lowest hue", func(t *testing.T) {
		g, err := e.Cut(30)
		require.NoError(t, err)
		for _, grp := range g.Groups {
			assert.Contains(t, grp.Members, grp.Representative)
			for _, idx := range grp.Members {
				assert.LessOrEqual(t, colour.Hue(colours[grp.Representative]), colour.Hue(colours[idx]))
			}
		}
	})
}

func TestDeterminism(t *testing.T) {
	colours := randomPalette(99, 24)
	for _, threshold := range []float64{0, 5, 10, 25, 60} {
		first, err := GroupColours(colours, threshold)
		require.NoError(t, err)
		second, err := GroupColours(colours, threshold)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestEngineConcurrentCuts(t *testing.T) {
	e, err := NewEngine(randomPalette(5, 40))
	require.NoError(t, err)

	thresholds := []float64{0, 3, 7, 12, 18, 25, 40, 80}
	want := make([]*Grouping, len(thresholds))
	for i, th := range thresholds {
		want[i], err = e.Cut(th)
		require.NoError(t, err)
	}

	got := make([]*Grouping, len(thresholds))
	var wg sync.WaitGroup
	for i, th := range thresholds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], _ = e.Cut(th)
		}()
	}
	wg.Wait()

	assert.Equal(t, want, got)
}

func TestPickRepresentative(t *testing.T) {
	colours := parseAll(t, "#0000ff", "#00ff00", "#ff0000", "#fe0101")

	assert.Equal(t, -1, PickRepresentative(nil, colours))
	assert.Equal(t, 1, PickRepresentative([]int{1}, colours))
	assert.Equal(t, 1, PickRepresentative([]int{0, 1}, colours))
	assert.Equal(t, 2, PickRepresentative([]int{0, 1, 2}, colours))
	// Equal hues keep member order.
	assert.Equal(t, 3, PickRepresentative([]int{3, 2}, colours))
	assert.Equal(t, 2, PickRepresentative([]int{2, 3}, colours))

	clusters := []Cluster{{Members: []int{0, 1}}, {Members: []int{3}}}
	assert.Equal(t, []int{1, 3}, Representatives(clusters, colours))
}

func TestEnginePairs(t *testing.T) {
	e, err := NewEngine(parseAll(t, "#FF0000", "#FE0101", "#0000FF"))
	require.NoError(t, err)

	pairs := e.Pairs()
	require.Len(t, pairs, 3)
	assert.Equal(t, 0, pairs[0].I)
	assert.Equal(t, 1, pairs[0].J)
	for i := 1; i < len(pairs); i++ {
		assert.LessOrEqual(t, pairs[i-1].Distance, pairs[i].Distance)
	}

	single, err := NewEngine(parseAll(t, "#123456"))
	require.NoError(t, err)
	assert.Empty(t, single.Pairs())
}

func TestEngineLevels(t *testing.T) {
	e, err := NewEngine(parseAll(t, "#FF0000", "#FE0101", "#0000FF"))
	require.NoError(t, err)

	levels := e.Levels()
	require.Len(t, levels, 3)
	assert.Equal(t, Level{Threshold: 0, Groups: 3}, levels[0])
	assert.Equal(t, 2, levels[1].Groups)
	assert.Equal(t, 1, levels[2].Groups)

	for _, lvl := range levels {
		g, err := e.Cut(lvl.Threshold)
		require.NoError(t, err)
		assert.Equal(t, lvl.Groups, g.Len())
	}

	dup, err := NewEngine(parseAll(t, "#ffffff", "#ffffff"))
	require.NoError(t, err)
	assert.Equal(t, []Level{{Threshold: 0, Groups: 1}}, dup.Levels())
}

func TestEngineCopiesInput(t *testing.T) {
	colours := parseAll(t, "#ff0000", "#00ff00")
	e, err := NewEngine(colours)
	require.NoError(t, err)

	colours[0] = colour.RGB{}
	assert.Equal(t, colour.RGB{R: 255}, e.Colours()[0])
}
