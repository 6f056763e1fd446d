package kdtree

import (
	"log/slog"
	"math"
)

// Tree is a KD-tree spatial index mapping fixed-dimension points to values.
// Entries are added incrementally and never removed. Full leaves split at
// the midpoint of their widest axis, so no rebuild is ever needed.
//
// Nodes live in a flat arena:
//   - nodes[0] is the root; children and parents are arena indices
//   - node bounds are stored as min/max per dimension per node, at
//     minLimit[id*dims : (id+1)*dims] and maxLimit[id*dims : (id+1)*dims]
//
// A Tree is not safe for concurrent use while entries are being added.
// Call [Tree.Freeze] to obtain a [View] that may be queried from any number
// of goroutines.
type Tree[V any] struct {
	dims     int
	nodes    []node[V]
	minLimit []float64
	maxLimit []float64

	bucketCapacity int
	weights        []float64
	split          SplitStrategy
	logger         *slog.Logger

	// maximumDepth is the number of nodes on the longest root-to-leaf path.
	// Traversals size their state stack from it.
	maximumDepth int
	frozen       bool
}

// New creates an empty tree for points with the given number of dimensions.
// Zero-valued cfg fields take their defaults.
func New[V any](dimensions int, cfg Config) (*Tree[V], error) {
	if dimensions < 1 {
		return nil, ErrInvalidDimensions
	}
	applyDefaults(&cfg)
	if err := validateConfig(&cfg, dimensions); err != nil {
		return nil, err
	}

	t := &Tree[V]{
		dims:           dimensions,
		nodes:          []node[V]{{kind: leafNode, parent: noNode, leaf: newBucket[V](cfg.BucketCapacity, dimensions)}},
		minLimit:       make([]float64, dimensions),
		maxLimit:       make([]float64, dimensions),
		bucketCapacity: cfg.BucketCapacity,
		weights:        cfg.AxisWeights,
		split:          cfg.Split,
		logger:         cfg.Logger,
		maximumDepth:   1,
	}
	return t, nil
}

// Dimensions returns the number of coordinates in every point.
func (t *Tree[V]) Dimensions() int { return t.dims }

// Size returns the number of stored entries.
func (t *Tree[V]) Size() int { return t.nodes[rootID].count }

// Add stores value at point. point must have exactly Dimensions()
// coordinates; this is not checked. The tree keeps its own copy of the
// coordinates.
//
// Add panics if the tree has been frozen.
func (t *Tree[V]) Add(point []float64, value V) {
	t.checkWritable()
	t.insert(point, value)
}

// AddIfAbsent stores value at point unless an entry whose coordinates all
// compare == to point already exists. It reports whether the entry was
// added. Points containing NaN never match and are always added.
//
// AddIfAbsent panics if the tree has been frozen.
func (t *Tree[V]) AddIfAbsent(point []float64, value V) bool {
	t.checkWritable()
	if t.contains(point) {
		return false
	}
	t.insert(point, value)
	return true
}

// Freeze ends the building phase and returns a read-only view. Any later
// call to Add or AddIfAbsent panics. Freeze is idempotent.
func (t *Tree[V]) Freeze() *View[V] {
	t.frozen = true
	return &View[V]{tree: t}
}

func (t *Tree[V]) checkWritable() {
	if t.frozen {
		panic("kdtree: add on a frozen tree")
	}
}

// insert descends from the root to the leaf that owns point, growing every
// stem's bounds on the way, and splits full leaves as it reaches them.
func (t *Tree[V]) insert(point []float64, value V) {
	id, depth := rootID, 1
	for {
		n := &t.nodes[id]
		if n.kind == stemNode {
			t.extendBounds(id, point)
			n.count++
			if point[n.stem.dim] > n.stem.value {
				id = n.stem.right
			} else {
				id = n.stem.left
			}
			depth++
			continue
		}
		if n.count >= n.leaf.capacity && t.splitLeaf(id, depth) {
			continue // id is now a stem
		}
		t.appendEntry(id, point, value)
		return
	}
}

// contains reports whether an entry equal to point is stored. Equal points
// always route to the same leaf, so a single root-to-leaf path is searched.
func (t *Tree[V]) contains(point []float64) bool {
	if t.Size() == 0 {
		return false
	}
	id := rootID
	for t.nodes[id].kind == stemNode {
		s := t.nodes[id].stem
		if point[s.dim] > s.value {
			id = s.right
		} else {
			id = s.left
		}
	}
	n := &t.nodes[id]
	for i := 0; i < n.count; i++ {
		if equalPoints(point, n.leaf.point(i, t.dims)) {
			return true
		}
	}
	return false
}

// appendEntry adds an entry to a leaf with spare capacity.
func (t *Tree[V]) appendEntry(id nodeID, point []float64, value V) {
	n := &t.nodes[id]
	b := n.leaf
	if n.count == 0 {
		base := int(id) * t.dims
		copy(t.minLimit[base:base+t.dims], point)
		copy(t.maxLimit[base:base+t.dims], point)
		b.singular = !hasNaN(point)
	} else {
		t.extendBounds(id, point)
		if b.singular && !equalPoints(point, b.point(0, t.dims)) {
			b.singular = false
		}
	}
	b.points = append(b.points, point[:t.dims]...)
	b.values = append(b.values, value)
	n.count++
}

// extendBounds grows a node's box to include point. A NaN coordinate
// poisons that dimension's bounds to NaN for good.
func (t *Tree[V]) extendBounds(id nodeID, point []float64) {
	base := int(id) * t.dims
	lo := t.minLimit[base : base+t.dims]
	hi := t.maxLimit[base : base+t.dims]
	for d, v := range point[:t.dims] {
		if math.IsNaN(v) {
			lo[d], hi[d] = v, v
			continue
		}
		if v < lo[d] {
			lo[d] = v
		}
		if v > hi[d] {
			hi[d] = v
		}
	}
}

// widestAxis returns the dimension with the greatest weighted extent. NaN
// extents count as zero and ties keep the lowest dimension. ok is false when
// every axis has zero width.
func (t *Tree[V]) widestAxis(id nodeID) (dim int, ok bool) {
	base := int(id) * t.dims
	dim = -1
	var widest float64
	for d := 0; d < t.dims; d++ {
		w := t.maxLimit[base+d] - t.minLimit[base+d]
		if t.weights != nil {
			w *= t.weights[d]
		}
		if math.IsNaN(w) {
			w = 0
		}
		if w > widest {
			widest = w
			dim = d
		}
	}
	return dim, dim >= 0
}

// splitLeaf turns the full leaf id into a stem with two new leaves. When no
// split can leave both sides non-empty the bucket doubles instead and
// splitLeaf returns false.
func (t *Tree[V]) splitLeaf(id nodeID, depth int) bool {
	dims := t.dims
	b := t.nodes[id].leaf
	count := t.nodes[id].count

	dim, ok := t.widestAxis(id)
	if !ok {
		t.growLeaf(id)
		return false
	}
	base := int(id) * dims
	value := t.split.SplitValue(t.minLimit[base+dim], t.maxLimit[base+dim])

	right := 0
	for i := 0; i < count; i++ {
		if b.points[i*dims+dim] > value {
			right++
		}
	}
	if right == 0 || right == count {
		t.growLeaf(id)
		return false
	}

	// The left side compacts in place inside the old bucket; the right side
	// moves to a fresh one of the same capacity.
	rb := newBucket[V](b.capacity, dims)
	left := 0
	for i := 0; i < count; i++ {
		p := b.point(i, dims)
		if p[dim] > value {
			rb.points = append(rb.points, p...)
			rb.values = append(rb.values, b.values[i])
			continue
		}
		if left != i {
			copy(b.points[left*dims:(left+1)*dims], p)
			b.values[left] = b.values[i]
		}
		left++
	}
	var zero V
	for i := left; i < count; i++ {
		b.values[i] = zero
	}
	b.points = b.points[:left*dims]
	b.values = b.values[:left]

	leftID := t.addLeaf(id, b, left)
	rightID := t.addLeaf(id, rb, count-left)

	n := &t.nodes[id]
	n.kind = stemNode
	n.leaf = nil
	n.stem = &stem{left: leftID, right: rightID, dim: dim, value: value}

	if depth+1 > t.maximumDepth {
		t.maximumDepth = depth + 1
	}
	t.logger.Debug("kdtree: leaf split",
		"node", id,
		"dimension", dim,
		"split", value,
		"depth", depth+1,
	)
	return true
}

// addLeaf appends a leaf owning the first count entries of b and computes
// its bounds and singularity from scratch.
func (t *Tree[V]) addLeaf(parent nodeID, b *bucket[V], count int) nodeID {
	id := nodeID(len(t.nodes))
	t.nodes = append(t.nodes, node[V]{kind: leafNode, parent: parent, count: count, leaf: b})

	first := b.point(0, t.dims)
	t.minLimit = append(t.minLimit, first...)
	t.maxLimit = append(t.maxLimit, first...)
	b.singular = !hasNaN(first)
	for i := 1; i < count; i++ {
		p := b.point(i, t.dims)
		t.extendBounds(id, p)
		if b.singular && !equalPoints(p, first) {
			b.singular = false
		}
	}
	return id
}

func (t *Tree[V]) growLeaf(id nodeID) {
	b := t.nodes[id].leaf
	b.grow(t.dims)
	t.logger.Debug("kdtree: leaf bucket grown",
		"node", id,
		"count", t.nodes[id].count,
		"capacity", b.capacity,
	)
}

// bounds returns the box of node id. The slices alias tree storage.
func (t *Tree[V]) bounds(id nodeID) (lo, hi []float64) {
	base := int(id) * t.dims
	return t.minLimit[base : base+t.dims : base+t.dims], t.maxLimit[base : base+t.dims : base+t.dims]
}

// Stats summarises the tree's shape.
type Stats struct {
	Size         int
	Nodes        int
	Leaves       int
	Stems        int
	MaximumDepth int
}

// Stats returns the current shape of the tree.
func (t *Tree[V]) Stats() Stats {
	s := Stats{Size: t.Size(), Nodes: len(t.nodes), MaximumDepth: t.maximumDepth}
	for i := range t.nodes {
		if t.nodes[i].kind == leafNode {
			s.Leaves++
		} else {
			s.Stems++
		}
	}
	return s
}
