// Package kdtree implements an in-memory KD-tree over fixed-dimension
// float64 points, each carrying an arbitrary value.
//
// The tree grows incrementally: leaves hold buckets of entries and split at
// the midpoint of their widest axis when full. Leaves whose points cannot be
// separated (all equal, or NaN coordinates) grow their bucket instead, so
// duplicate-heavy input never degenerates into endless splitting. Entries
// are never removed.
//
// Basic usage:
//
//	tree, err := kdtree.New[string](2, kdtree.DefaultConfig())
//	tree.Add([]float64{0, 0}, "a")
//	tree.Add([]float64{5, 5}, "d")
//	d := tree.NearestNeighbour([]float64{0.1, 0.1}, kdtree.SquaredEuclidean{},
//		func(value string, distance float64) { fmt.Println(value, distance) })
//
// # Queries
//
// Every query is parameterised by a [DistanceFunction], which also supplies
// a lower bound on the distance to an axis-aligned box. Subtrees whose bound
// exceeds the current pruning radius are skipped:
//
//   - NearestNeighbours: k closest entries, with an optional value filter
//   - NearestNeighbour: the single closest entry
//   - FindNeighbours: every entry within a fixed radius
//   - ForEach: every entry, unordered
//
// # Concurrency
//
// Adding entries is single-writer. Once loading is done, [Tree.Freeze]
// returns a [View] that any number of goroutines may query at once; the
// tree then refuses further additions. [View.BatchKNearest] and
// [View.BatchWithinRadius] fan a block of queries out over worker
// goroutines.
package kdtree
