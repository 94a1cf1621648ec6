package slit

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectra/core"
	"github.com/cwbudde/algo-spectra/spectrum"
	"github.com/cwbudde/algo-spectra/units"
)

// Condition keys recorded by Apply.
const (
	FWHMKey  = "slit_fwhm"
	UnitKey  = "slit_unit"
	ShapeKey = "slit_shape"
)

// spacingTolerance is the relative step deviation accepted as uniform.
const spacingTolerance = 1e-6

// Config configures Apply.
type Config struct {
	core.Config
	Shape Shape
}

// Option mutates a Config.
type Option func(*Config)

// WithShape selects the slit profile (default [Triangular]).
func WithShape(s Shape) Option {
	return func(cfg *Config) {
		cfg.Shape = s
	}
}

// WithLogger sets the logger used for debug records.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *Config) {
		core.WithLogger(logger)(&cfg.Config)
	}
}

var outputs = []struct{ from, to string }{
	{spectrum.RadianceNoSlit, spectrum.Radiance},
	{spectrum.TransmittanceNoSlit, spectrum.Transmittance},
}

// Apply convolves s in place with a slit of the given FWHM, expressed in
// unit, which must belong to the axis unit family.
//
// radiance and transmittance are computed from radiance_noslit and
// transmittance_noslit, whichever are available (derived if needed). Every
// stored quantity is then cropped to the samples fully covered by the slit.
// The slit parameters are recorded in the conditions.
func Apply(s *spectrum.Spectrum, fwhm float64, unit string, opts ...Option) error {
	cfg := Config{Config: core.DefaultConfig()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	axisUnit := s.Axis().Unit()
	if !units.SameFamily(unit, axisUnit) {
		return fmt.Errorf("%w: slit width in %s on a %s axis", spectrum.ErrUnit, unit, axisUnit)
	}
	width, err := units.ConvertSpectralValue(fwhm, unit, axisUnit)
	if err != nil {
		return err
	}

	step, ok := s.Axis().Spacing(spacingTolerance)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnevenAxis, s.Axis())
	}
	kernel, err := Kernel(cfg.Shape, width, step)
	if err != nil {
		return err
	}
	half := len(kernel) / 2
	if len(kernel) > s.Len() {
		return fmt.Errorf("%w: slit of %d samples is wider than the %d-sample spectrum", spectrum.ErrRange, len(kernel), s.Len())
	}

	convolved := make(map[string]spectrum.Quantity)
	for _, o := range outputs {
		if !s.Derivable(o.from) {
			continue
		}
		q, err := s.Get(o.from)
		if err != nil {
			return err
		}
		values, err := convolveValid(q.Values, kernel)
		if err != nil {
			return err
		}
		convolved[o.to] = spectrum.Quantity{Values: values, Unit: q.Unit}
	}
	if len(convolved) == 0 {
		return fmt.Errorf("%w: neither %s nor %s is available",
			spectrum.ErrQuantityNotFound, spectrum.RadianceNoSlit, spectrum.TransmittanceNoSlit)
	}

	first, last := s.Axis().At(half), s.Axis().At(s.Len()-1-half)
	if _, err := spectrum.Crop(s, math.Min(first, last), math.Max(first, last), axisUnit, spectrum.InPlace()); err != nil {
		return err
	}
	for _, name := range ordered(convolved) {
		q := convolved[name]
		if err := s.Set(name, q.Values, q.Unit); err != nil {
			return err
		}
	}
	s.SetCondition(FWHMKey, fwhm)
	s.SetCondition(UnitKey, unit)
	s.SetCondition(ShapeKey, cfg.Shape.String())

	cfg.Log().Debug("slit",
		zap.String("spectrum", s.Name),
		zap.Stringer("shape", cfg.Shape),
		zap.Float64("fwhm", width),
		zap.String("unit", axisUnit),
		zap.Int("taps", len(kernel)),
		zap.Bool("fft", len(kernel) >= directThreshold),
	)
	return nil
}

// ordered returns the keys of m in the order of outputs.
func ordered(m map[string]spectrum.Quantity) []string {
	keys := make([]string, 0, len(m))
	for _, o := range outputs {
		if _, ok := m[o.to]; ok {
			keys = append(keys, o.to)
		}
	}
	return keys
}
