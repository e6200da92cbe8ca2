package ferns

import "github.com/YuminosukeSato/randomferns/pkg/log"

// Option configures RandomFerns.
type Option func(*RandomFerns)

// WithGroupSize sets the target number of attributes per fern.
func WithGroupSize(k int) Option {
	return func(rf *RandomFerns) {
		rf.cfg.GroupSize = k
	}
}

// WithSeed sets the seed of the attribute shuffle.
func WithSeed(seed int64) Option {
	return func(rf *RandomFerns) {
		rf.cfg.Seed = seed
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(rf *RandomFerns) {
		rf.cfg = cfg
	}
}

// WithLogger sets the logger; the default is the global "ferns.classifier" logger.
func WithLogger(l log.Logger) Option {
	return func(rf *RandomFerns) {
		rf.logger = l
	}
}
