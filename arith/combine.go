package arith

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectra/axis"
	"github.com/cwbudde/algo-spectra/core"
	"github.com/cwbudde/algo-spectra/spectrum"
	"github.com/cwbudde/algo-spectra/spectrum/resample"
	"github.com/cwbudde/algo-spectra/units"
)

// Op is a binary spectrum-spectrum operation.
type Op int

// Supported operations.
const (
	OpAdd Op = iota // a + b
	OpSub           // a - b
	OpMul           // a * b
	OpDiv           // a / b
)

// String implements fmt.Stringer.
func (op Op) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// Add returns a + b, see [Combine].
func Add(a, b *spectrum.Spectrum, opts ...Option) (*spectrum.Spectrum, error) {
	return Combine(a, b, OpAdd, opts...)
}

// Subtract returns a - b, see [Combine].
func Subtract(a, b *spectrum.Spectrum, opts ...Option) (*spectrum.Spectrum, error) {
	return Combine(a, b, OpSub, opts...)
}

// Mul returns a * b, see [Combine].
func Mul(a, b *spectrum.Spectrum, opts ...Option) (*spectrum.Spectrum, error) {
	return Combine(a, b, OpMul, opts...)
}

// Div returns a / b, see [Combine].
func Div(a, b *spectrum.Spectrum, opts ...Option) (*spectrum.Spectrum, error) {
	return Combine(a, b, OpDiv, opts...)
}

// Combine applies op to the active quantities of a and b and returns a new
// spectrum holding only the result, with a's name and conditions.
//
// Both operands must share a dimension, otherwise the operation fails with
// [spectrum.ErrIncompatibleUnits]; b is converted into a's unit. Sums and
// differences keep a's unit and ratios are dimensionless. A product is only
// defined for dimensionless operands: the product of two radiances has no
// unit in the table and fails with [spectrum.ErrUnit]. [WithAttenuation]
// additionally accepts one dimensionless operand in Mul and Div, keeping the
// other operand's unit.
//
// The result is named after a's active quantity, or after b's when only
// that name admits the result unit (transmittance * radiance), or "a/b" for
// a ratio neither name admits.
//
// Without [WithResample] the axes must match ([spectrum.ErrAxisMismatch]).
// With a policy, both operands are interpolated onto the common grid, which
// must lie inside both axes ([spectrum.ErrRange]).
func Combine(a, b *spectrum.Spectrum, op Op, opts ...Option) (*spectrum.Spectrum, error) {
	cfg, err := ApplyOptions(opts...)
	if err != nil {
		return nil, err
	}
	p, err := prepare(a, b, op, cfg)
	if err != nil {
		return nil, err
	}

	left, err := p.onGrid(a.Axis(), p.nameA, p.qa.Values, p.scaleA)
	if err != nil {
		return nil, err
	}
	right, err := p.onGrid(b.Axis(), p.nameB, p.qb.Values, p.scaleB)
	if err != nil {
		return nil, err
	}
	kernel(op, left, right)

	out := spectrum.New(p.grid, a.Conditions())
	out.Name = a.Name
	if err := out.Set(p.resultName, left, p.resultUnit); err != nil {
		return nil, err
	}
	return out, nil
}

// CombineInPlace stores op(a, b) into the active quantity of a, leaving every
// other quantity of a untouched. The common grid must be a's own axis, so only
// b may be resampled.
func CombineInPlace(a, b *spectrum.Spectrum, op Op, opts ...Option) error {
	cfg, err := ApplyOptions(opts...)
	if err != nil {
		return err
	}
	p, err := prepare(a, b, op, cfg)
	if err != nil {
		return err
	}
	if !a.Axis().Equal(p.grid, core.AxisTolerance) {
		return fmt.Errorf("%w: in-place %s would move %s onto %v", spectrum.ErrAxisMismatch, op, p.nameA, p.grid)
	}
	if p.resultName != p.nameA || p.resultUnit != p.qa.Unit {
		return fmt.Errorf("%w: in-place %s changes %s from %q to %q",
			spectrum.ErrIncompatibleUnits, op, p.nameA, p.qa.Unit, p.resultUnit)
	}

	right, err := p.onGrid(b.Axis(), p.nameB, p.qb.Values, p.scaleB)
	if err != nil {
		return err
	}
	return apply(a, p.nameA, func(values []float64) {
		kernel(op, values, right)
	})
}

type plan struct {
	nameA, nameB   string
	qa, qb         spectrum.Quantity
	scaleA, scaleB float64
	resultName     string
	resultUnit     string
	grid           *axis.Axis
	policy         resample.Policy
	attenuation    bool
}

func prepare(a, b *spectrum.Spectrum, op Op, cfg Config) (*plan, error) {
	nameA, qa, err := active(a, cfg.Quantity)
	if err != nil {
		return nil, err
	}
	nameB, qb, err := active(b, cfg.Quantity)
	if err != nil {
		return nil, err
	}

	p := &plan{
		nameA:       nameA,
		nameB:       nameB,
		qa:          qa,
		qb:          qb,
		scaleA:      1,
		scaleB:      1,
		policy:      cfg.Resample,
		attenuation: cfg.Attenuation,
	}
	if err := p.resolveUnits(op); err != nil {
		return nil, err
	}

	p.grid, err = resample.CommonGrid(a.Axis(), b.Axis(), cfg.Resample, core.AxisTolerance)
	if err != nil {
		return nil, err
	}

	cfg.Log().Debug("combine",
		zap.String("op", op.String()),
		zap.String("left", nameA),
		zap.String("right", nameB),
		zap.String("result", p.resultName),
		zap.String("unit", p.resultUnit),
		zap.Stringer("policy", cfg.Resample),
		zap.Int("grid", p.grid.Len()),
	)
	return p, nil
}

// resolveUnits picks the result unit and the factors bringing each operand
// into it.
func (p *plan) resolveUnits(op Op) error {
	da, err := units.DimensionOf(p.qa.Unit)
	if err != nil {
		return err
	}
	db, err := units.DimensionOf(p.qb.Unit)
	if err != nil {
		return err
	}

	switch {
	case op < OpAdd || op > OpDiv:
		return fmt.Errorf("arith: unknown op %v", op)
	case da == db && (op == OpAdd || op == OpSub):
		p.resultUnit = p.qa.Unit
		p.scaleB, err = units.Factor(p.qb.Unit, p.qa.Unit)
	case da == db && op == OpDiv:
		p.resultUnit = ""
		p.scaleB, err = units.Factor(p.qb.Unit, p.qa.Unit)
	case da == db && da == units.Dimensionless:
		p.resultUnit = ""
		if p.scaleA, err = units.Factor(p.qa.Unit, ""); err == nil {
			p.scaleB, err = units.Factor(p.qb.Unit, "")
		}
	case da == db:
		return fmt.Errorf("%w: %s [%s] * %s [%s] has no unit in the table",
			units.ErrUnit, p.nameA, p.qa.Unit, p.nameB, p.qb.Unit)
	case p.attenuation && (op == OpMul || op == OpDiv) && db == units.Dimensionless:
		p.resultUnit = p.qa.Unit
		p.scaleB, err = units.Factor(p.qb.Unit, "")
	case p.attenuation && op == OpMul && da == units.Dimensionless:
		p.resultUnit = p.qb.Unit
		p.scaleA, err = units.Factor(p.qa.Unit, "")
	default:
		return fmt.Errorf("%w: %s [%s] %s %s [%s]",
			spectrum.ErrIncompatibleUnits, p.nameA, da, op, p.nameB, db)
	}
	if err != nil {
		return err
	}

	p.resultName = resultName(p.nameA, p.nameB, p.resultUnit)
	return nil
}

func resultName(nameA, nameB, unit string) string {
	if spectrum.CheckUnit(nameA, unit) == nil {
		return nameA
	}
	if spectrum.CheckUnit(nameB, unit) == nil {
		return nameB
	}
	return nameA + "/" + nameB
}

// onGrid returns values sampled over ax on the plan grid, multiplied by
// scale.
func (p *plan) onGrid(ax *axis.Axis, name string, values []float64, scale float64) ([]float64, error) {
	if !ax.Equal(p.grid, core.AxisTolerance) {
		x, err := ax.Convert(p.grid.Unit())
		if err != nil {
			return nil, err
		}
		values, err = resample.Linear(x, values, p.grid.Values(), core.AxisTolerance)
		if err != nil {
			return nil, fmt.Errorf("resampling %s onto %s grid: %w", name, p.policy, err)
		}
	}
	if scale != 1 {
		vecmath.ScaleBlockInPlace(values, scale)
	}
	return values, nil
}

func kernel(op Op, dst, src []float64) {
	switch op {
	case OpAdd:
		vecmath.AddBlockInPlace(dst, src)
	case OpSub:
		neg := make([]float64, len(src))
		vecmath.ScaleBlock(neg, src, -1)
		vecmath.AddBlockInPlace(dst, neg)
	case OpMul:
		vecmath.MulBlockInPlace(dst, src)
	case OpDiv:
		for i := range dst {
			dst[i] /= src[i]
		}
	}
}
