package kdtree

import "math"

// nodeID indexes Tree.nodes. Parent links are ids into the same arena, so
// the node graph has no owning cycles and ascending is O(1).
type nodeID int32

const (
	rootID nodeID = 0
	noNode nodeID = -1
)

type nodeKind uint8

const (
	leafNode nodeKind = iota
	stemNode
)

// node is a leaf or a stem. Exactly one of leaf and stem is non-nil, as
// selected by kind. A leaf becomes a stem in place when it splits; a stem
// never changes again.
type node[V any] struct {
	kind   nodeKind
	parent nodeID
	count  int // entries stored in this subtree
	leaf   *bucket[V]
	stem   *stem
}

// stem divides its subtree at value on axis dim. Entries whose coordinate is
// greater than value live under right, everything else under left. Both
// children are always non-empty.
type stem struct {
	left, right nodeID
	dim         int
	value       float64
}

// bucket holds a leaf's entries. Points are stored row-major, one row of
// dims floats per entry. capacity only ever grows.
type bucket[V any] struct {
	points   []float64
	values   []V
	capacity int
	// singular is true iff every stored point is == to every other in all
	// dimensions. Any NaN coordinate clears it.
	singular bool
}

func newBucket[V any](capacity, dims int) *bucket[V] {
	return &bucket[V]{
		points:   make([]float64, 0, capacity*dims),
		values:   make([]V, 0, capacity),
		capacity: capacity,
	}
}

func (b *bucket[V]) point(i, dims int) []float64 {
	return b.points[i*dims : (i+1)*dims : (i+1)*dims]
}

// grow doubles the bucket's capacity.
func (b *bucket[V]) grow(dims int) {
	b.capacity *= 2
	points := make([]float64, len(b.points), b.capacity*dims)
	copy(points, b.points)
	values := make([]V, len(b.values), b.capacity)
	copy(values, b.values)
	b.points, b.values = points, values
}

func equalPoints(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func hasNaN(p []float64) bool {
	for _, v := range p {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
