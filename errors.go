package kdtree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is wrapped by every Config validation failure.
	ErrInvalidConfig = errors.New("kdtree: invalid config")

	// ErrInvalidDimensions is returned when a tree is created with fewer than one dimension.
	ErrInvalidDimensions = errors.New("kdtree: dimensions must be >= 1")
)

// DimensionMismatchError reports query data whose length does not match the
// tree's dimensionality. Only batch operations check this; single-point
// operations treat a mismatch as undefined behavior.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("kdtree: dimension mismatch: expected %d values, got %d", e.Expected, e.Actual)
}
