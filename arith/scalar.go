package arith

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectra/core"
	"github.com/cwbudde/algo-spectra/spectrum"
	"github.com/cwbudde/algo-spectra/units"
)

// AddConstant returns a copy of s with value, expressed in unit, added to the
// active quantity. unit must share the quantity's dimension.
func AddConstant(s *spectrum.Spectrum, value float64, unit string, opts ...Option) (*spectrum.Spectrum, error) {
	out := s.Copy()
	if err := AddConstantInPlace(out, value, unit, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// AddConstantInPlace adds value, expressed in unit, to the active quantity of s.
func AddConstantInPlace(s *spectrum.Spectrum, value float64, unit string, opts ...Option) error {
	cfg, err := ApplyOptions(opts...)
	if err != nil {
		return err
	}
	name, q, err := active(s, cfg.Quantity)
	if err != nil {
		return err
	}
	f, err := units.Factor(unit, q.Unit)
	if err != nil {
		return fmt.Errorf("adding to %s: %w", name, err)
	}
	if math.IsNaN(value) {
		return fmt.Errorf("%w: cannot add NaN", spectrum.ErrRange)
	}

	v := value * f
	cfg.Log().Debug("add constant", zap.String("quantity", name), zap.Float64("value", v), zap.String("unit", q.Unit))
	return apply(s, name, func(values []float64) {
		vecmath.AddBlockInPlace(values, core.Filled(len(values), v))
	})
}

// SubtractConstant returns a copy of s with value subtracted from the active
// quantity.
func SubtractConstant(s *spectrum.Spectrum, value float64, unit string, opts ...Option) (*spectrum.Spectrum, error) {
	return AddConstant(s, -value, unit, opts...)
}

// SubtractConstantInPlace subtracts value from the active quantity of s.
func SubtractConstantInPlace(s *spectrum.Spectrum, value float64, unit string, opts ...Option) error {
	return AddConstantInPlace(s, -value, unit, opts...)
}

// Multiply returns a copy of s with the active quantity scaled by factor.
func Multiply(s *spectrum.Spectrum, factor float64, opts ...Option) (*spectrum.Spectrum, error) {
	out := s.Copy()
	if err := MultiplyInPlace(out, factor, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// MultiplyInPlace scales the active quantity of s by factor.
func MultiplyInPlace(s *spectrum.Spectrum, factor float64, opts ...Option) error {
	cfg, err := ApplyOptions(opts...)
	if err != nil {
		return err
	}
	k, err := scalar(factor, cfg.FactorUnit)
	if err != nil {
		return err
	}
	name, _, err := active(s, cfg.Quantity)
	if err != nil {
		return err
	}

	cfg.Log().Debug("multiply", zap.String("quantity", name), zap.Float64("factor", k))
	return apply(s, name, func(values []float64) {
		vecmath.ScaleBlockInPlace(values, k)
	})
}

// Divide returns a copy of s with the active quantity divided by k.
func Divide(s *spectrum.Spectrum, k float64, opts ...Option) (*spectrum.Spectrum, error) {
	out := s.Copy()
	if err := DivideInPlace(out, k, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// DivideInPlace divides the active quantity of s by k. k must be non-zero.
func DivideInPlace(s *spectrum.Spectrum, k float64, opts ...Option) error {
	cfg, err := ApplyOptions(opts...)
	if err != nil {
		return err
	}
	d, err := scalar(k, cfg.FactorUnit)
	if err != nil {
		return err
	}
	if d == 0 {
		return fmt.Errorf("%w: division by zero", spectrum.ErrRange)
	}
	name, _, err := active(s, cfg.Quantity)
	if err != nil {
		return err
	}

	cfg.Log().Debug("divide", zap.String("quantity", name), zap.Float64("divisor", d))
	return apply(s, name, func(values []float64) {
		for i := range values {
			values[i] /= d
		}
	})
}

// scalar converts a dimensionless factor into a plain number.
func scalar(v float64, unit string) (float64, error) {
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%w: NaN factor", spectrum.ErrRange)
	}
	f, err := units.Factor(unit, "")
	if err != nil {
		return 0, err
	}
	return v * f, nil
}

// active resolves the quantity an operation targets.
func active(s *spectrum.Spectrum, name string) (string, spectrum.Quantity, error) {
	if name == "" {
		stored := s.Stored()
		switch len(stored) {
		case 0:
			return "", spectrum.Quantity{}, fmt.Errorf("%w: spectrum stores no quantity", spectrum.ErrQuantityNotFound)
		case 1:
			name = stored[0]
		default:
			return "", spectrum.Quantity{}, fmt.Errorf("%w: choose one of %v", spectrum.ErrAmbiguousQuantity, stored)
		}
	}
	q, err := s.Peek(name)
	if err != nil {
		return "", spectrum.Quantity{}, err
	}
	return name, q, nil
}

// apply runs kernel on the stored active quantity. A quantity that is only
// derived is rejected: editing it alone would leave the quantities it is
// computed from out of step.
func apply(s *spectrum.Spectrum, name string, kernel func([]float64)) error {
	if !s.Has(name) {
		return fmt.Errorf("%w: %s is derived from %v, Take it into its own spectrum first",
			spectrum.ErrQuantityNotFound, name, s.Stored())
	}
	return s.Mutate(name, kernel)
}
