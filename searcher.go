package kdtree

// Searcher is the read interface shared by [Tree] and [View]. Consumers that
// only query (hull builders, density estimators) should depend on it.
type Searcher[V any] interface {
	// Dimensions returns the number of coordinates in every point.
	Dimensions() int

	// Size returns the number of stored entries.
	Size() int

	// NearestNeighbours passes the count closest entries to consumer,
	// farthest first when sorted is set.
	NearestNeighbours(location []float64, count int, sorted bool, dist DistanceFunction, consumer ResultFunc[V]) bool

	// NearestNeighboursFiltered is NearestNeighbours over entries accepted by filter.
	NearestNeighboursFiltered(location []float64, count int, sorted bool, dist DistanceFunction, filter func(V) bool, consumer ResultFunc[V]) bool

	// NearestNeighbour returns the distance to the closest entry, 0 for an
	// empty tree and NaN when nothing comparable was found.
	NearestNeighbour(location []float64, dist DistanceFunction, consumer ResultFunc[V]) float64

	// NearestNeighbourFiltered is NearestNeighbour over entries accepted by filter.
	NearestNeighbourFiltered(location []float64, dist DistanceFunction, filter func(V) bool, consumer ResultFunc[V]) float64

	// FindNeighbours passes every entry within radius of location to consumer.
	FindNeighbours(location []float64, radius float64, dist DistanceFunction, consumer ResultFunc[V]) bool

	// KNearest returns up to k closest entries, nearest first.
	KNearest(location []float64, k int, dist DistanceFunction) []Neighbour[V]

	// WithinRadius returns every entry within radius, nearest first.
	WithinRadius(location []float64, radius float64, dist DistanceFunction) []Neighbour[V]

	// ForEach visits every entry once in no particular order.
	ForEach(action func(point []float64, value V))
}

var (
	_ Searcher[int] = (*Tree[int])(nil)
	_ Searcher[int] = (*View[int])(nil)
)

// View is a read-only handle to a frozen [Tree]. Queries allocate all of
// their scratch state per call, so a View is safe for concurrent use by
// multiple goroutines.
type View[V any] struct {
	tree *Tree[V]
}

func (v *View[V]) Dimensions() int { return v.tree.Dimensions() }
func (v *View[V]) Size() int       { return v.tree.Size() }
func (v *View[V]) Stats() Stats    { return v.tree.Stats() }

func (v *View[V]) NearestNeighbours(location []float64, count int, sorted bool, dist DistanceFunction, consumer ResultFunc[V]) bool {
	return v.tree.NearestNeighbours(location, count, sorted, dist, consumer)
}

func (v *View[V]) NearestNeighboursFiltered(location []float64, count int, sorted bool, dist DistanceFunction, filter func(V) bool, consumer ResultFunc[V]) bool {
	return v.tree.NearestNeighboursFiltered(location, count, sorted, dist, filter, consumer)
}

func (v *View[V]) NearestNeighbour(location []float64, dist DistanceFunction, consumer ResultFunc[V]) float64 {
	return v.tree.NearestNeighbour(location, dist, consumer)
}

func (v *View[V]) NearestNeighbourFiltered(location []float64, dist DistanceFunction, filter func(V) bool, consumer ResultFunc[V]) float64 {
	return v.tree.NearestNeighbourFiltered(location, dist, filter, consumer)
}

func (v *View[V]) FindNeighbours(location []float64, radius float64, dist DistanceFunction, consumer ResultFunc[V]) bool {
	return v.tree.FindNeighbours(location, radius, dist, consumer)
}

func (v *View[V]) KNearest(location []float64, k int, dist DistanceFunction) []Neighbour[V] {
	return v.tree.KNearest(location, k, dist)
}

func (v *View[V]) WithinRadius(location []float64, radius float64, dist DistanceFunction) []Neighbour[V] {
	return v.tree.WithinRadius(location, radius, dist)
}

func (v *View[V]) ForEach(action func(point []float64, value V)) {
	v.tree.ForEach(action)
}
