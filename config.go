package kdtree

import (
	"fmt"
	"log/slog"
	"math"
)

// DefaultBucketCapacity is the number of entries a fresh leaf holds before it
// tries to split.
const DefaultBucketCapacity = 24

// Config controls tree construction.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// BucketCapacity is the initial number of entries per leaf. A full leaf
	// is split along its widest axis; when it cannot be split (all points
	// equal, or NaN coordinates) its capacity doubles instead.
	// Must be >= 1. Default: 24.
	BucketCapacity int

	// AxisWeights scales each axis' extent when choosing the widest axis to
	// split on, so axes measured in different units can be normalised.
	// nil means weight 1 for every axis. Otherwise it must have one finite,
	// non-negative entry per dimension. A zero weight never splits that axis.
	AxisWeights []float64

	// Split computes the dividing value of a leaf split. Default: MidpointSplit.
	Split SplitStrategy

	// Logger receives debug records about structural events (splits, bucket
	// growth, batch queries). Default: discards everything.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		BucketCapacity: DefaultBucketCapacity,
		Split:          MidpointSplit{},
		Logger:         slog.New(slog.DiscardHandler),
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.BucketCapacity == 0 {
		cfg.BucketCapacity = DefaultBucketCapacity
	}
	if cfg.Split == nil {
		cfg.Split = MidpointSplit{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
}

// validateConfig checks that cfg fields are valid for a tree of the given
// dimensionality and returns a descriptive error if not.
func validateConfig(cfg *Config, dimensions int) error {
	if cfg.BucketCapacity < 1 {
		return fmt.Errorf("%w: BucketCapacity must be >= 1, got %d", ErrInvalidConfig, cfg.BucketCapacity)
	}
	if cfg.AxisWeights != nil {
		if len(cfg.AxisWeights) != dimensions {
			return fmt.Errorf("%w: AxisWeights must have %d entries, got %d", ErrInvalidConfig, dimensions, len(cfg.AxisWeights))
		}
		for d, w := range cfg.AxisWeights {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("%w: AxisWeights[%d] must be finite and >= 0, got %f", ErrInvalidConfig, d, w)
			}
		}
	}
	return nil
}
