package slabs

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/cwbudde/algo-vecmath"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectra/axis"
	"github.com/cwbudde/algo-spectra/core"
	"github.com/cwbudde/algo-spectra/spectrum"
	"github.com/cwbudde/algo-spectra/spectrum/resample"
	"github.com/cwbudde/algo-spectra/units"
)

// Layout is the relative placement of two spectra.
type Layout int

const (
	// Disjoint ranges leave a gap between the two axes.
	Disjoint Layout = iota
	// Touching ranges share exactly one boundary sample.
	Touching
	// Overlapping ranges cover a common interval.
	Overlapping
)

func (l Layout) String() string {
	switch l {
	case Disjoint:
		return "disjoint"
	case Touching:
		return "touching"
	default:
		return "overlapping"
	}
}

// side is one merge input expressed in the unit of the first spectrum.
type side struct {
	s      *spectrum.Spectrum
	x      []float64
	lo, hi float64
}

func newSide(s *spectrum.Spectrum, unit string) (side, error) {
	x, err := s.Axis().Convert(unit)
	if err != nil {
		return side{}, err
	}
	lo, hi, err := s.Axis().Bounds(unit)
	if err != nil {
		return side{}, err
	}
	return side{s: s, x: x, lo: lo, hi: hi}, nil
}

// Merge combines a and b into a new spectrum on a's axis unit and direction.
// Neither input is modified.
//
// Axis units must belong to the same family ([spectrum.ErrUnit]). Only
// quantities available on both sides survive; b's values are converted into
// a's units. Conditions present with equal values on both sides are kept.
//
// Overlapping inputs fail with [spectrum.ErrOverlap] in [Concat] mode and are
// otherwise combined on the grid selected by [WithResample].
func Merge(a, b *spectrum.Spectrum, opts ...Option) (*spectrum.Spectrum, error) {
	cfg := ApplyOptions(opts...)
	tol := cfg.Eps()

	unit := a.Axis().Unit()
	if !units.SameFamily(unit, b.Axis().Unit()) {
		return nil, fmt.Errorf("%w: cannot merge a %s axis with a %s axis", spectrum.ErrUnit, unit, b.Axis().Unit())
	}
	if a.Len() == 0 || b.Len() == 0 {
		return nil, fmt.Errorf("%w: cannot merge an empty spectrum", spectrum.ErrRange)
	}
	sa, err := newSide(a, unit)
	if err != nil {
		return nil, err
	}
	sb, err := newSide(b, unit)
	if err != nil {
		return nil, err
	}

	layout, ia, ib := classify(sa, sb, core.AxisTolerance)

	var out *spectrum.Spectrum
	switch {
	case layout == Disjoint:
		out, err = concat(sa, sb, -1, commonNames(a, b, false))
	case layout == Touching && boundaryAgrees(sa, sb, ia, ib, commonNames(a, b, false), tol):
		out, err = concat(sa, sb, ib, commonNames(a, b, false))
	case cfg.Mode == Concat:
		return nil, fmt.Errorf("%w: [%g, %g] and [%g, %g] %s", spectrum.ErrOverlap, sa.lo, sa.hi, sb.lo, sb.hi, unit)
	default:
		layout = Overlapping
		out, err = combine(sa, sb, cfg)
	}
	if err != nil {
		return nil, err
	}

	out.Name = mergedName(a.Name, b.Name)
	for k, v := range a.Conditions() {
		if w, ok := b.Condition(k); ok && reflect.DeepEqual(v, w) {
			out.SetCondition(k, v)
		}
	}

	cfg.Log().Debug("merge",
		zap.Stringer("layout", layout),
		zap.Stringer("mode", cfg.Mode),
		zap.Stringer("policy", cfg.Resample),
		zap.Int("left", a.Len()),
		zap.Int("right", b.Len()),
		zap.Int("merged", out.Len()),
		zap.Strings("quantities", out.Stored()),
	)
	return out, nil
}

// classify places b relative to a. For touching inputs it returns the indices
// of the shared boundary sample on each side.
func classify(a, b side, tol float64) (layout Layout, ia, ib int) {
	switch {
	case core.NearlyEqual(a.hi, b.lo, tol) && (a.lo < b.lo || b.hi > a.hi):
		return Touching, argBound(a.x, true), argBound(b.x, false)
	case core.NearlyEqual(b.hi, a.lo, tol) && (b.lo < a.lo || a.hi > b.hi):
		return Touching, argBound(a.x, false), argBound(b.x, true)
	case a.hi < b.lo || b.hi < a.lo:
		return Disjoint, -1, -1
	default:
		return Overlapping, -1, -1
	}
}

// argBound returns the index of the largest (upper) or smallest sample of a
// monotonic slice.
func argBound(x []float64, upper bool) int {
	last := len(x) - 1
	if (x[last] > x[0]) == upper {
		return last
	}
	return 0
}

func boundaryAgrees(a, b side, ia, ib int, names []string, tol float64) bool {
	for _, name := range names {
		qa, qb, f, err := pair(a.s, b.s, name)
		if err != nil {
			return false
		}
		if !core.NearlyEqual(qa.Values[ia], qb.Values[ib]*f, tol) {
			return false
		}
	}
	return true
}

// commonNames lists the quantities stored on either side and available on
// both. With slab set, quantities without a composition law are left out.
func commonNames(a, b *spectrum.Spectrum, slab bool) []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range append(a.Stored(), b.Stored()...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		if slab && spectrum.KindOf(name) == spectrum.KindOther {
			continue
		}
		if a.Derivable(name) && b.Derivable(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// pair returns the named quantity of both spectra and the factor converting
// b's values into a's unit.
func pair(a, b *spectrum.Spectrum, name string) (qa, qb spectrum.Quantity, f float64, err error) {
	if qa, err = a.Peek(name); err != nil {
		return
	}
	if qb, err = b.Peek(name); err != nil {
		return
	}
	f, err = units.Factor(qb.Unit, qa.Unit)
	if err != nil {
		err = fmt.Errorf("%w: %s in %q and %q", spectrum.ErrIncompatibleUnits, name, qa.Unit, qb.Unit)
	}
	return
}

// concat joins the samples of a and b, sorted like a's axis. skipB is the
// index of a b sample to leave out, or -1.
func concat(a, b side, skipB int, names []string) (*spectrum.Spectrum, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no quantity is available on both sides", spectrum.ErrQuantityNotFound)
	}

	type ref struct {
		x     float64
		fromB bool
		i     int
	}
	refs := make([]ref, 0, len(a.x)+len(b.x))
	for i, x := range a.x {
		refs = append(refs, ref{x, false, i})
	}
	for i, x := range b.x {
		if i != skipB {
			refs = append(refs, ref{x, true, i})
		}
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].x < refs[j].x })
	if !a.s.Axis().Increasing() {
		for i, j := 0, len(refs)-1; i < j; i, j = i+1, j-1 {
			refs[i], refs[j] = refs[j], refs[i]
		}
	}

	x := make([]float64, len(refs))
	for i, r := range refs {
		x[i] = r.x
	}
	ax, err := axis.New(x, a.s.Axis().Unit())
	if err != nil {
		return nil, fmt.Errorf("%w: merged axis: %v", spectrum.ErrOverlap, err)
	}

	out := spectrum.New(ax, nil)
	for _, name := range names {
		qa, qb, f, err := pair(a.s, b.s, name)
		if err != nil {
			return nil, err
		}
		values := make([]float64, len(refs))
		for i, r := range refs {
			if r.fromB {
				values[i] = qb.Values[r.i] * f
			} else {
				values[i] = qa.Values[r.i]
			}
		}
		if err := out.Set(name, values, qa.Unit); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// combine stacks two overlapping slabs on the policy grid. Samples are matched
// with core.AxisTolerance whatever the value tolerance.
func combine(a, b side, cfg Config) (*spectrum.Spectrum, error) {
	tol := core.AxisTolerance
	grid, err := resample.CommonGrid(a.s.Axis(), b.s.Axis(), cfg.Resample, tol)
	if err != nil {
		return nil, err
	}
	query := grid.Values()

	names := commonNames(a.s, b.s, cfg.Mode == Transparent)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no quantity can be combined", spectrum.ErrQuantityNotFound)
	}

	out := spectrum.New(grid, nil)
	for _, name := range names {
		qa, qb, f, err := pair(a.s, b.s, name)
		if err != nil {
			return nil, err
		}
		kind := spectrum.KindOf(name)
		switch cfg.Mode {
		case Additive:
			kind = spectrum.KindAdditive
		case Multiplicative:
			kind = spectrum.KindMultiplicative
		}

		va, err := sample(a.x, qa.Values, query, kind, cfg.Mode, tol)
		if err != nil {
			return nil, fmt.Errorf("%s of the first slab: %w", name, err)
		}
		vb, err := sample(b.x, qb.Values, query, kind, cfg.Mode, tol)
		if err != nil {
			return nil, fmt.Errorf("%s of the second slab: %w", name, err)
		}
		if f != 1 {
			vecmath.ScaleBlockInPlace(vb, f)
		}

		switch kind {
		case spectrum.KindAdditive:
			vecmath.AddBlockInPlace(va, vb)
		case spectrum.KindMultiplicative:
			vecmath.MulBlockInPlace(va, vb)
		case spectrum.KindEmissivity:
			for i := range va {
				va[i] = 1 - (1-va[i])*(1-vb[i])
			}
		}
		if err := out.Set(name, va, qa.Unit); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// sample brings one slab's values onto the grid. Transparent slabs are padded
// with the neutral element of the composition law.
func sample(x, y, query []float64, kind spectrum.Kind, mode CombineMode, tol float64) ([]float64, error) {
	if mode != Transparent {
		return resample.Linear(x, y, query, tol)
	}
	fill := 0.0
	if kind == spectrum.KindMultiplicative {
		fill = 1
	}
	return resample.Pad(x, y, query, fill, tol)
}

func mergedName(a, b string) string {
	if a == b || b == "" {
		return a
	}
	if a == "" {
		return b
	}
	return a + "+" + b
}
