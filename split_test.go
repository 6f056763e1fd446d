package kdtree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMidpointSplit(t *testing.T) {
	s := MidpointSplit{}

	assert.Equal(t, 5.0, s.SplitValue(0, 10))
	assert.Equal(t, -1.5, s.SplitValue(-4, 1))
}

func TestMidpointSplit_AdjacentFloatsReturnMin(t *testing.T) {
	s := MidpointSplit{}
	lo := 1.0
	hi := math.Nextafter(lo, 2)

	v := s.SplitValue(lo, hi)
	assert.Equal(t, lo, v)
	assert.True(t, hi > v, "right side keeps the max")
}

func TestMidpointSplit_NoOverflow(t *testing.T) {
	s := MidpointSplit{}
	v := s.SplitValue(math.MaxFloat64/2, math.MaxFloat64)

	assert.False(t, math.IsInf(v, 0))
	assert.Greater(t, v, math.MaxFloat64/2)
	assert.Less(t, v, math.MaxFloat64)
}

func TestSplitFunc(t *testing.T) {
	var s SplitStrategy = SplitFunc(func(min, max float64) float64 { return min + (max-min)/4 })
	assert.Equal(t, 2.5, s.SplitValue(0, 10))
}
