package arith

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectra/core"
	"github.com/cwbudde/algo-spectra/spectrum/resample"
	"github.com/cwbudde/algo-spectra/units"
)

// Config holds the settings of one arithmetic operation.
type Config struct {
	core.Config

	// Quantity names the active quantity. Empty means infer.
	Quantity string
	// Resample selects the common grid of spectrum-spectrum operations.
	Resample resample.Policy
	// FactorUnit is the dimensionless unit of a Multiply or Divide factor.
	FactorUnit string
	// Attenuation lets Mul and Div take a dimensionless operand of another
	// dimension than the other one.
	Attenuation bool
}

// Option configures an operation.
type Option func(*Config) error

// DefaultConfig returns the default settings: inferred quantity, no
// resampling, plain factors.
func DefaultConfig() Config {
	return Config{Config: core.DefaultConfig()}
}

// WithQuantity selects the active quantity.
func WithQuantity(name string) Option {
	return func(cfg *Config) error {
		cfg.Quantity = name
		return nil
	}
}

// WithResample allows spectrum-spectrum operations on different axes, using
// the given common grid policy.
func WithResample(p resample.Policy) Option {
	return func(cfg *Config) error {
		if p < resample.Never || p > resample.Intersect {
			return fmt.Errorf("arith: invalid resample policy: %d", p)
		}
		cfg.Resample = p
		return nil
	}
}

// WithFactorUnit gives the unit of a Multiply or Divide factor, e.g. "%".
// Only dimensionless units are accepted.
func WithFactorUnit(unit string) Option {
	return func(cfg *Config) error {
		dim, err := units.DimensionOf(unit)
		if err != nil {
			return err
		}
		if dim != units.Dimensionless {
			return fmt.Errorf("%w: factor unit %q is not dimensionless", units.ErrUnit, unit)
		}
		cfg.FactorUnit = unit
		return nil
	}
}

// WithAttenuation allows multiplying or dividing by a dimensionless quantity
// such as a transmittance: radiance * transmittance keeps the radiance unit.
// Without it both operands of every operation must share a dimension.
func WithAttenuation() Option {
	return func(cfg *Config) error {
		cfg.Attenuation = true
		return nil
	}
}

// WithLogger sets the logger used for debug records.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *Config) error {
		core.WithLogger(logger)(&cfg.Config)
		return nil
	}
}

// ApplyOptions applies opts to the default config and returns the first
// option error.
func ApplyOptions(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
