package compare

import (
	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectra/core"
	"github.com/cwbudde/algo-spectra/spectrum/resample"
)

// ModeAll compares the axis and every quantity.
const ModeAll = "all"

// Config controls a comparison.
type Config struct {
	core.Config

	// Quantity restricts the comparison to one quantity. Empty means all.
	Quantity string
	// Resample aligns different axes on a common grid before comparing.
	Resample resample.Policy
	// Conditions also compares the conditions maps.
	Conditions bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig compares every quantity on matching axes.
func DefaultConfig() Config {
	return Config{Config: core.DefaultConfig()}
}

// Mode returns "all" or the compared quantity name.
func (c Config) Mode() string {
	if c.Quantity == "" {
		return ModeAll
	}
	return c.Quantity
}

// WithQuantity compares the axis and the named quantity only.
func WithQuantity(name string) Option {
	return func(cfg *Config) {
		if name != ModeAll {
			cfg.Quantity = name
		}
	}
}

// WithResample compares on a common grid instead of requiring equal axes.
func WithResample(p resample.Policy) Option {
	return func(cfg *Config) {
		cfg.Resample = p
	}
}

// WithConditions also requires equal conditions. Float conditions are
// compared with the same tolerance as quantities.
func WithConditions() Option {
	return func(cfg *Config) {
		cfg.Conditions = true
	}
}

// WithTolerance sets the elementwise value tolerance. Axis samples are still
// matched with core.AxisTolerance.
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
