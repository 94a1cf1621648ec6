package spectrum

import (
	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectra/core"
)

// Config configures Crop.
type Config struct {
	core.Config
	InPlace bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the out-of-place default.
func DefaultConfig() Config {
	return Config{Config: core.DefaultConfig()}
}

// InPlace makes the operation mutate and return its argument.
func InPlace() Option {
	return func(cfg *Config) {
		cfg.InPlace = true
	}
}

// WithTolerance sets the comparison tolerance.
func WithTolerance(eps float64) Option {
	return func(cfg *Config) {
		core.WithTolerance(eps)(&cfg.Config)
	}
}

// WithLogger sets the logger used for debug records.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *Config) {
		core.WithLogger(logger)(&cfg.Config)
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
