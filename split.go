package kdtree

import "math"

// SplitStrategy picks the value dividing a full leaf along its widest axis.
// Entries with a coordinate <= the split value go left, the rest go right.
type SplitStrategy interface {
	SplitValue(min, max float64) float64
}

// SplitFunc adapts a plain function into a SplitStrategy.
type SplitFunc func(min, max float64) float64

func (f SplitFunc) SplitValue(min, max float64) float64 { return f(min, max) }

// MidpointSplit divides the axis extent in half.
type MidpointSplit struct{}

// SplitValue returns (min+max)/2. When min and max are adjacent floats the
// midpoint can round up to max, which would leave the right side empty, so
// min is returned instead.
func (MidpointSplit) SplitValue(min, max float64) float64 {
	mid := (min + max) / 2
	if math.IsInf(mid, 0) {
		mid = min/2 + max/2 // min+max overflowed
	}
	if mid == max {
		return min
	}
	return mid
}
