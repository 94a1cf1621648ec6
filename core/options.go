package core

import "go.uber.org/zap"

// DefaultTolerance is the default elementwise comparison tolerance. It is
// applied both as an absolute and as a magnitude-relative bound.
const DefaultTolerance = 1e-12

// AxisTolerance is the distance, absolute or relative to the sample
// magnitude, under which two axis samples count as the same grid point. It is
// not affected by WithTolerance, so a loose value tolerance never makes
// shifted axes match.
const AxisTolerance = 1e-9

// Config holds settings shared by every spectrum operation.
type Config struct {
	Tolerance float64
	Logger    *zap.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the default tolerance and a no-op logger.
func DefaultConfig() Config {
	return Config{
		Tolerance: DefaultTolerance,
		Logger:    zap.NewNop(),
	}
}

// WithTolerance sets the comparison tolerance.
func WithTolerance(eps float64) Option {
	return func(cfg *Config) {
		if eps > 0 {
			cfg.Tolerance = eps
		}
	}
}

// WithLogger sets the logger used for debug records.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
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

// Log returns the configured logger, or a no-op logger for a zero Config.
func (c Config) Log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Eps returns the configured tolerance, or DefaultTolerance for a zero Config.
func (c Config) Eps() float64 {
	if c.Tolerance <= 0 {
		return DefaultTolerance
	}
	return c.Tolerance
}
