package slabs

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectra/core"
	"github.com/cwbudde/algo-spectra/spectrum/resample"
)

// CombineMode selects how overlapping slabs combine.
type CombineMode int

const (
	// Transparent sums additive quantities (radiances, absorbance,
	// coefficients) and multiplies transmittances. Where only one slab covers
	// the grid, the other counts as empty: 0 for sums, 1 for products.
	Transparent CombineMode = iota
	// Concat only accepts inputs that do not overlap.
	Concat
	// Additive sums every common quantity. Both slabs must cover the grid.
	Additive
	// Multiplicative multiplies every common quantity. Both slabs must cover
	// the grid.
	Multiplicative
)

var modeNames = [...]string{"transparent", "concat", "additive", "multiplicative"}

// String implements fmt.Stringer.
func (m CombineMode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("CombineMode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseCombineMode parses a mode name as printed by [CombineMode.String].
func ParseCombineMode(name string) (CombineMode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(name, n) {
			return CombineMode(i), nil
		}
	}
	return Transparent, fmt.Errorf("slabs: unknown combine mode %q", name)
}

// Config configures Merge.
type Config struct {
	core.Config
	Resample resample.Policy
	Mode     CombineMode
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns transparent combination on matching axes.
func DefaultConfig() Config {
	return Config{Config: core.DefaultConfig()}
}

// WithResample sets the common grid policy for overlapping inputs.
func WithResample(p resample.Policy) Option {
	return func(cfg *Config) {
		cfg.Resample = p
	}
}

// WithCombine sets the combine mode.
func WithCombine(m CombineMode) Option {
	return func(cfg *Config) {
		cfg.Mode = m
	}
}

// WithTolerance sets the tolerance used to compare the values of touching
// inputs at their shared boundary sample. Axis samples are matched with
// core.AxisTolerance.
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
