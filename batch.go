package kdtree

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchKNearest runs KNearest for every row of queries concurrently.
// queries is flat row-major with rows rows of Dimensions() values each.
// result[i] holds the neighbours of row i, nearest first.
//
// workers controls the number of goroutines; <= 0 means runtime.NumCPU().
// Rows are split into contiguous shards, one per worker. The context is
// checked between rows; a single query always runs to completion.
func (v *View[V]) BatchKNearest(ctx context.Context, queries []float64, rows, k int, dist DistanceFunction, workers int) ([][]Neighbour[V], error) {
	if err := v.checkBatch(queries, rows); err != nil {
		return nil, err
	}
	result := make([][]Neighbour[V], rows)
	workers, err := v.runSharded(ctx, queries, rows, workers, func(row int, query []float64) {
		result[row] = v.tree.KNearest(query, k, dist)
	})
	if err != nil {
		return nil, err
	}
	v.tree.logger.DebugContext(ctx, "kdtree: batch k-nearest completed",
		"rows", rows,
		"k", k,
		"workers", workers,
	)
	return result, nil
}

// BatchWithinRadius runs WithinRadius for every row of queries concurrently.
// Arguments and sharding are as for BatchKNearest.
func (v *View[V]) BatchWithinRadius(ctx context.Context, queries []float64, rows int, radius float64, dist DistanceFunction, workers int) ([][]Neighbour[V], error) {
	if err := v.checkBatch(queries, rows); err != nil {
		return nil, err
	}
	result := make([][]Neighbour[V], rows)
	workers, err := v.runSharded(ctx, queries, rows, workers, func(row int, query []float64) {
		result[row] = v.tree.WithinRadius(query, radius, dist)
	})
	if err != nil {
		return nil, err
	}
	v.tree.logger.DebugContext(ctx, "kdtree: batch radius search completed",
		"rows", rows,
		"radius", radius,
		"workers", workers,
	)
	return result, nil
}

func (v *View[V]) checkBatch(queries []float64, rows int) error {
	want := rows * v.tree.dims
	if rows < 0 || len(queries) != want {
		return &DimensionMismatchError{Expected: want, Actual: len(queries)}
	}
	return nil
}

// runSharded calls fn for every query row. Each worker owns a contiguous
// range of rows, so fn may write to per-row slots without synchronization.
// It returns the number of workers actually started.
func (v *View[V]) runSharded(ctx context.Context, queries []float64, rows, workers int, fn func(row int, query []float64)) (int, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, rows)
	if workers == 0 {
		return 0, ctx.Err()
	}

	dims := v.tree.dims
	rowsPerWorker := (rows + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)

	started := 0
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, rows)
		if start >= rows {
			break
		}
		started++
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				fn(i, queries[i*dims:(i+1)*dims:(i+1)*dims])
			}
			return nil
		})
	}
	return started, g.Wait()
}
