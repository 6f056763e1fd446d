package kdtree

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fastrand"
)

const floatTol = 1e-9

// randomPoints returns n deterministic points with coordinates in [0, scale).
func randomPoints(seed uint32, n, dims int, scale float64) [][]float64 {
	var rng fastrand.RNG
	rng.Seed(seed)
	points := make([][]float64, n)
	for i := range points {
		p := make([]float64, dims)
		for d := range p {
			p[d] = randFloat(&rng) * scale
		}
		points[i] = p
	}
	return points
}

// randomFlat returns n deterministic points as one flat row-major slice.
func randomFlat(seed uint32, n, dims int, scale float64) []float64 {
	flat := make([]float64, 0, n*dims)
	for _, p := range randomPoints(seed, n, dims, scale) {
		flat = append(flat, p...)
	}
	return flat
}

func randFloat(rng *fastrand.RNG) float64 {
	return float64(rng.Uint32()) / (1 << 32)
}

// buildTree inserts points[i] with value i.
func buildTree(t testing.TB, dims int, points [][]float64, cfg Config) *Tree[int] {
	t.Helper()
	tree, err := New[int](dims, cfg)
	require.NoError(t, err)
	for i, p := range points {
		tree.Add(p, i)
	}
	return tree
}

// bruteForceDistances returns the distance from q to every point, ascending.
func bruteForceDistances(points [][]float64, q []float64, dist DistanceFunction) []float64 {
	out := make([]float64, 0, len(points))
	for _, p := range points {
		out = append(out, dist.Distance(q, p))
	}
	sort.Float64s(out)
	return out
}

// bruteForceWithin returns the indices of points within radius of q.
func bruteForceWithin(points [][]float64, q []float64, radius float64, dist DistanceFunction) map[int]bool {
	out := make(map[int]bool)
	for i, p := range points {
		if dist.Distance(q, p) <= radius {
			out[i] = true
		}
	}
	return out
}

// checkInvariants walks the whole arena from the root and verifies counts,
// parent links, tight bounds, non-empty stem children, singularity flags and
// the recorded maximum depth.
func checkInvariants(t *testing.T, tree *Tree[int]) {
	t.Helper()
	visited := 0
	deepest := 0

	var walk func(id nodeID, depth int) [][]float64
	walk = func(id nodeID, depth int) [][]float64 {
		visited++
		deepest = max(deepest, depth)
		n := &tree.nodes[id]

		var points [][]float64
		switch n.kind {
		case leafNode:
			require.NotNil(t, n.leaf, "leaf %d has no bucket", id)
			require.Nil(t, n.stem, "leaf %d has stem data", id)
			b := n.leaf
			require.Len(t, b.values, n.count, "leaf %d values", id)
			require.Len(t, b.points, n.count*tree.dims, "leaf %d points", id)
			assert.GreaterOrEqual(t, b.capacity, n.count, "leaf %d over capacity", id)
			for i := 0; i < n.count; i++ {
				points = append(points, b.point(i, tree.dims))
			}
			if n.count > 0 {
				assert.Equal(t, expectSingular(points), b.singular, "leaf %d singularity", id)
			}
		case stemNode:
			require.NotNil(t, n.stem, "stem %d has no split", id)
			require.Nil(t, n.leaf, "stem %d has bucket", id)
			s := n.stem
			for _, child := range []nodeID{s.left, s.right} {
				assert.Equal(t, id, tree.nodes[child].parent, "child %d parent", child)
				assert.Positive(t, tree.nodes[child].count, "stem %d has empty child %d", id, child)
			}
			left := walk(s.left, depth+1)
			right := walk(s.right, depth+1)
			for _, p := range left {
				assert.False(t, p[s.dim] > s.value, "stem %d: left point %v above split %v", id, p, s.value)
			}
			for _, p := range right {
				assert.True(t, p[s.dim] > s.value, "stem %d: right point %v not above split %v", id, p, s.value)
			}
			points = append(left, right...)
		}

		require.Len(t, points, n.count, "node %d count", id)
		if n.count > 0 {
			checkTightBounds(t, tree, id, points)
		}
		return points
	}

	walk(rootID, 1)
	assert.Equal(t, len(tree.nodes), visited, "unreachable nodes in arena")
	assert.Equal(t, deepest, tree.maximumDepth, "maximumDepth")
}

func checkTightBounds(t *testing.T, tree *Tree[int], id nodeID, points [][]float64) {
	t.Helper()
	lo, hi := tree.bounds(id)
	for d := 0; d < tree.dims; d++ {
		wantLo, wantHi := math.Inf(1), math.Inf(-1)
		poisoned := false
		for _, p := range points {
			if math.IsNaN(p[d]) {
				poisoned = true
				break
			}
			wantLo = math.Min(wantLo, p[d])
			wantHi = math.Max(wantHi, p[d])
		}
		if poisoned {
			assert.True(t, math.IsNaN(lo[d]) && math.IsNaN(hi[d]), "node %d dim %d bounds should be NaN, got [%v, %v]", id, d, lo[d], hi[d])
			continue
		}
		assert.True(t, lo[d] == wantLo, "node %d dim %d min = %v, want %v", id, d, lo[d], wantLo)
		assert.True(t, hi[d] == wantHi, "node %d dim %d max = %v, want %v", id, d, hi[d], wantHi)
	}
}

func expectSingular(points [][]float64) bool {
	for _, p := range points {
		if hasNaN(p) || !equalPoints(p, points[0]) {
			return false
		}
	}
	return true
}
