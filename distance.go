package kdtree

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DistanceFunction measures dissimilarity between points and bounds it from
// below for axis-aligned boxes. Queries prune a subtree whenever
// DistanceToRectangle exceeds the current pruning radius, so implementations
// must guarantee
//
//	DistanceToRectangle(p, min, max) <= Distance(p, q)  for every q in [min, max]
//
// A function that violates the bound silently drops true neighbours.
type DistanceFunction interface {
	Distance(a, b []float64) float64
	DistanceToRectangle(point, min, max []float64) float64
}

// SquaredEuclidean is the squared L2 distance. It skips the square root and
// is the cheapest metric for neighbour ordering.
type SquaredEuclidean struct{}

func (SquaredEuclidean) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func (SquaredEuclidean) DistanceToRectangle(point, min, max []float64) float64 {
	var sum float64
	for i, p := range point {
		d := axisGap(p, min[i], max[i])
		sum += d * d
	}
	return sum
}

// Euclidean is the L2 distance. It is the square root of SquaredEuclidean
// rather than gonum's scaled L2, so that it rounds exactly like its
// rectangle bound.
type Euclidean struct{}

func (Euclidean) Distance(a, b []float64) float64 {
	return math.Sqrt(SquaredEuclidean{}.Distance(a, b))
}

func (Euclidean) DistanceToRectangle(point, min, max []float64) float64 {
	return math.Sqrt(SquaredEuclidean{}.DistanceToRectangle(point, min, max))
}

// Manhattan is the L1 (city-block) distance.
type Manhattan struct{}

func (Manhattan) Distance(a, b []float64) float64 { return floats.Distance(a, b, 1) }

func (Manhattan) DistanceToRectangle(point, min, max []float64) float64 {
	var sum float64
	for i, p := range point {
		sum += axisGap(p, min[i], max[i])
	}
	return sum
}

// Chebyshev is the L-infinity distance.
type Chebyshev struct{}

func (Chebyshev) Distance(a, b []float64) float64 { return floats.Distance(a, b, math.Inf(1)) }

func (Chebyshev) DistanceToRectangle(point, min, max []float64) float64 {
	var maxGap float64
	for i, p := range point {
		if d := axisGap(p, min[i], max[i]); d > maxGap {
			maxGap = d
		}
	}
	return maxGap
}

// Minkowski is the Lp distance parameterized by P.
// P must be >= 1; smaller values are not metrics and panic. P = 2 and
// P = +Inf behave exactly like Euclidean and Chebyshev.
type Minkowski struct {
	P float64
}

func (m Minkowski) Distance(a, b []float64) float64 {
	m.check()
	switch {
	case m.P == 2:
		return Euclidean{}.Distance(a, b)
	case math.IsInf(m.P, 1):
		return Chebyshev{}.Distance(a, b)
	}
	return floats.Distance(a, b, m.P)
}

func (m Minkowski) DistanceToRectangle(point, min, max []float64) float64 {
	m.check()
	switch {
	case m.P == 2:
		return Euclidean{}.DistanceToRectangle(point, min, max)
	case math.IsInf(m.P, 1):
		return Chebyshev{}.DistanceToRectangle(point, min, max)
	}
	var sum float64
	for i, p := range point {
		sum += math.Pow(axisGap(p, min[i], max[i]), m.P)
	}
	return math.Pow(sum, 1/m.P)
}

func (m Minkowski) check() {
	if m.P < 1 || math.IsNaN(m.P) {
		panic("kdtree: Minkowski P must be >= 1")
	}
}

// WeightedSquaredEuclidean scales each squared axis difference by Weights[i].
// Weights must be non-negative and have one entry per dimension.
type WeightedSquaredEuclidean struct {
	Weights []float64
}

func (w WeightedSquaredEuclidean) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += w.Weights[i] * d * d
	}
	return sum
}

func (w WeightedSquaredEuclidean) DistanceToRectangle(point, min, max []float64) float64 {
	var sum float64
	for i, p := range point {
		d := axisGap(p, min[i], max[i])
		sum += w.Weights[i] * d * d
	}
	return sum
}

// axisGap returns how far p lies outside [lo, hi], or 0 when inside.
// A NaN bound contributes 0, which keeps the result a valid lower bound
// for boxes poisoned by NaN coordinates.
func axisGap(p, lo, hi float64) float64 {
	if p < lo {
		return lo - p
	}
	if p > hi {
		return p - hi
	}
	return 0
}
