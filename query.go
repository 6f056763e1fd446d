package kdtree

import (
	"math"
	"sort"
)

// ResultFunc receives one query result.
type ResultFunc[V any] func(value V, distance float64)

// Neighbour is a value found by a query together with its distance.
type Neighbour[V any] struct {
	Value    V
	Distance float64
}

// NearestNeighbours finds the count entries closest to location under dist
// and passes them to consumer. With sorted set, results arrive farthest
// first (descending distance); otherwise in no particular order. Entries
// whose distance is NaN are never returned.
//
// It returns false, without calling consumer, when count < 1, the tree is
// empty, or no entry had a comparable distance.
func (t *Tree[V]) NearestNeighbours(location []float64, count int, sorted bool, dist DistanceFunction, consumer ResultFunc[V]) bool {
	return t.NearestNeighboursFiltered(location, count, sorted, dist, nil, consumer)
}

// NearestNeighboursFiltered is NearestNeighbours restricted to entries whose
// value satisfies filter. A nil filter accepts everything. The filter does
// not affect pruning: excluded entries still occupy the tree's geometry.
// A nil consumer only reports whether anything was found.
func (t *Tree[V]) NearestNeighboursFiltered(location []float64, count int, sorted bool, dist DistanceFunction, filter func(V) bool, consumer ResultFunc[V]) bool {
	if count < 1 || t.Size() == 0 {
		return false
	}
	v := &knnVisitor[V]{
		tree:     t,
		location: location,
		dist:     dist,
		filter:   filter,
		heap:     newBoundedHeap[V](min(count, t.Size())),
	}
	t.traverse(location, dist, v)

	if v.heap.Len() == 0 {
		return false
	}
	if consumer == nil {
		return true
	}
	if sorted {
		for v.heap.remove(consumer) {
		}
	} else {
		v.heap.each(consumer)
	}
	return true
}

// KNearest returns up to k entries closest to location in ascending order of
// distance.
func (t *Tree[V]) KNearest(location []float64, k int, dist DistanceFunction) []Neighbour[V] {
	var out []Neighbour[V]
	t.NearestNeighbours(location, k, true, dist, func(value V, d float64) {
		out = append(out, Neighbour[V]{Value: value, Distance: d})
	})
	// Results were emitted farthest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

type knnVisitor[V any] struct {
	tree     *Tree[V]
	location []float64
	dist     DistanceFunction
	filter   func(V) bool
	heap     *boundedHeap[V]
}

func (v *knnVisitor[V]) radius() float64 { return v.heap.threshold() }

func (v *knnVisitor[V]) visitLeaf(id nodeID) {
	n := &v.tree.nodes[id]
	b := n.leaf
	dims := v.tree.dims

	if b.singular {
		// Every entry shares one location, hence one distance.
		d := v.dist.Distance(v.location, b.point(0, dims))
		if math.IsNaN(d) || d > v.heap.threshold() {
			return
		}
		for i := 0; i < n.count; i++ {
			if v.filter == nil || v.filter(b.values[i]) {
				v.heap.offer(d, b.values[i])
			}
		}
		return
	}

	for i := 0; i < n.count; i++ {
		if v.filter != nil && !v.filter(b.values[i]) {
			continue
		}
		d := v.dist.Distance(v.location, b.point(i, dims))
		if d <= v.heap.threshold() {
			v.heap.offer(d, b.values[i])
		}
	}
}

// NearestNeighbour finds the single entry closest to location and returns
// its distance, passing it to consumer when consumer is non-nil.
//
// An empty tree returns 0. When no entry has a distance below +Inf (for
// example, every distance is NaN) it returns NaN. In both cases consumer is
// not called.
func (t *Tree[V]) NearestNeighbour(location []float64, dist DistanceFunction, consumer ResultFunc[V]) float64 {
	return t.NearestNeighbourFiltered(location, dist, nil, consumer)
}

// NearestNeighbourFiltered is NearestNeighbour restricted to entries whose
// value satisfies filter. A nil filter accepts everything. If no accepted
// entry is found the result is NaN.
func (t *Tree[V]) NearestNeighbourFiltered(location []float64, dist DistanceFunction, filter func(V) bool, consumer ResultFunc[V]) float64 {
	if t.Size() == 0 {
		return 0
	}
	v := &nearestVisitor[V]{
		tree:     t,
		location: location,
		dist:     dist,
		filter:   filter,
		bestDist: math.Inf(1),
	}
	t.traverse(location, dist, v)

	if !v.found {
		return math.NaN()
	}
	if consumer != nil {
		consumer(v.best, v.bestDist)
	}
	return v.bestDist
}

type nearestVisitor[V any] struct {
	tree     *Tree[V]
	location []float64
	dist     DistanceFunction
	filter   func(V) bool
	best     V
	bestDist float64
	found    bool
}

func (v *nearestVisitor[V]) radius() float64 { return v.bestDist }

func (v *nearestVisitor[V]) visitLeaf(id nodeID) {
	n := &v.tree.nodes[id]
	b := n.leaf
	dims := v.tree.dims

	if b.singular {
		d := v.dist.Distance(v.location, b.point(0, dims))
		if math.IsNaN(d) || d >= v.bestDist {
			return
		}
		for i := 0; i < n.count; i++ {
			if v.filter == nil || v.filter(b.values[i]) {
				v.best, v.bestDist, v.found = b.values[i], d, true
				return
			}
		}
		return
	}

	for i := 0; i < n.count; i++ {
		if v.filter != nil && !v.filter(b.values[i]) {
			continue
		}
		if d := v.dist.Distance(v.location, b.point(i, dims)); d < v.bestDist {
			v.best, v.bestDist, v.found = b.values[i], d, true
		}
	}
}

// FindNeighbours passes every entry within radius of location (distance <=
// radius) to consumer, as it is found and in no particular order. It
// reports whether any entry matched. consumer may be nil.
func (t *Tree[V]) FindNeighbours(location []float64, radius float64, dist DistanceFunction, consumer ResultFunc[V]) bool {
	if t.Size() == 0 {
		return false
	}
	if consumer == nil {
		consumer = func(V, float64) {}
	}
	v := &rangeVisitor[V]{
		tree:     t,
		location: location,
		dist:     dist,
		limit:    radius,
		consumer: consumer,
	}
	t.traverse(location, dist, v)
	return v.found
}

// WithinRadius returns every entry within radius of location in ascending
// order of distance.
func (t *Tree[V]) WithinRadius(location []float64, radius float64, dist DistanceFunction) []Neighbour[V] {
	var out []Neighbour[V]
	t.FindNeighbours(location, radius, dist, func(value V, d float64) {
		out = append(out, Neighbour[V]{Value: value, Distance: d})
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

type rangeVisitor[V any] struct {
	tree     *Tree[V]
	location []float64
	dist     DistanceFunction
	limit    float64
	consumer ResultFunc[V]
	found    bool
}

func (v *rangeVisitor[V]) radius() float64 { return v.limit }

func (v *rangeVisitor[V]) visitLeaf(id nodeID) {
	n := &v.tree.nodes[id]
	b := n.leaf
	dims := v.tree.dims

	// The first child below a stem is entered without a bounds check.
	if !v.tree.withinRadius(v.location, v.dist, id, v.limit) {
		return
	}

	if b.singular {
		d := v.dist.Distance(v.location, b.point(0, dims))
		if math.IsNaN(d) || d > v.limit {
			return
		}
		for i := 0; i < n.count; i++ {
			v.consumer(b.values[i], d)
		}
		v.found = true
		return
	}

	for i := 0; i < n.count; i++ {
		if d := v.dist.Distance(v.location, b.point(i, dims)); d <= v.limit {
			v.consumer(b.values[i], d)
			v.found = true
		}
	}
}

// ForEach calls action once for every stored entry, in no particular order.
// point aliases the tree's storage and must not be modified or retained.
func (t *Tree[V]) ForEach(action func(point []float64, value V)) {
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.kind != leafNode {
			continue
		}
		for j := 0; j < n.count; j++ {
			action(n.leaf.point(j, t.dims), n.leaf.values[j])
		}
	}
}
