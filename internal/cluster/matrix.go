// Package cluster groups colours into perceptually distinct clusters using
// agglomerative complete-linkage clustering over CIEDE2000 distances.
package cluster

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/jmylchreest/tinge/internal/colour"
)

// DistanceMatrix is an immutable, symmetric matrix of pairwise CIEDE2000
// distances with a zero diagonal.
type DistanceMatrix struct {
	n    int
	data []float64 // row-major, n*n
}

// NewDistanceMatrix computes the distance between every pair of Lab colours.
// Each unordered pair is evaluated once and mirrored. Rows are computed
// concurrently; every cell has a single writer, so the result does not depend
// on scheduling.
func NewDistanceMatrix(labs []colour.Lab) *DistanceMatrix {
	n := len(labs)
	m := &DistanceMatrix{n: n, data: make([]float64, n*n)}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n-1; i++ {
		g.Go(func() error {
			for j := i + 1; j < n; j++ {
				d := colour.DeltaE2000(labs[i], labs[j])
				m.data[i*n+j] = d
				m.data[j*n+i] = d
			}
			return nil
		})
	}
	// The row closures only do arithmetic and always return nil; the group
	// is here to bound concurrency.
	_ = g.Wait()

	return m
}

// BuildMatrix converts each colour to Lab once and builds the distance matrix.
func BuildMatrix(colours []colour.RGB) *DistanceMatrix {
	return NewDistanceMatrix(colour.ToLabs(colours))
}

// Len returns the number of colours the matrix was built from.
func (m *DistanceMatrix) Len() int {
	return m.n
}

// At returns the distance between colours i and j.
// It panics if either index is out of range.
func (m *DistanceMatrix) At(i, j int) float64 {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		panic("cluster: distance matrix index out of range")
	}
	return m.data[i*m.n+j]
}

// Row returns a copy of the distances from colour i to every colour.
func (m *DistanceMatrix) Row(i int) []float64 {
	row := make([]float64, m.n)
	copy(row, m.data[i*m.n:(i+1)*m.n])
	return row
}

// Max returns the largest pairwise distance, or 0 for fewer than two colours.
func (m *DistanceMatrix) Max() float64 {
	if len(m.data) == 0 {
		return 0
	}
	return floats.Max(m.data)
}
