package resample

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/interp"

	"github.com/cwbudde/algo-spectra/axis"
	"github.com/cwbudde/algo-spectra/core"
	"github.com/cwbudde/algo-spectra/spectrum"
	"github.com/cwbudde/algo-spectra/units"
)

// Policy selects the common grid of two spectra.
type Policy int

const (
	// Never requires both axes to match already.
	Never Policy = iota
	// Full uses the sorted union of both axes.
	Full
	// First uses the axis of the first spectrum.
	First
	// Second uses the axis of the second spectrum.
	Second
	// Intersect uses the union restricted to the range covered by both axes.
	Intersect
)

var policyNames = [...]string{"never", "full", "first", "second", "intersect"}

// String implements fmt.Stringer.
func (p Policy) String() string {
	if p < 0 || int(p) >= len(policyNames) {
		return fmt.Sprintf("Policy(%d)", int(p))
	}
	return policyNames[p]
}

// ParsePolicy parses a policy name as printed by [Policy.String].
func ParsePolicy(name string) (Policy, error) {
	for i, n := range policyNames {
		if strings.EqualFold(name, n) {
			return Policy(i), nil
		}
	}
	return Never, fmt.Errorf("resample: unknown policy %q", name)
}

// CommonGrid returns the grid both a and b are resampled onto under policy p,
// expressed in a's unit and ordered like a. The axes must share a unit family.
func CommonGrid(a, b *axis.Axis, p Policy, tol float64) (*axis.Axis, error) {
	if !units.SameFamily(a.Unit(), b.Unit()) {
		return nil, fmt.Errorf("%w: axes in %s and %s cannot share a grid", spectrum.ErrUnit, a.Unit(), b.Unit())
	}
	bx, err := b.Convert(a.Unit())
	if err != nil {
		return nil, err
	}

	var grid []float64
	switch p {
	case Never:
		if !a.Equal(b, tol) {
			return nil, fmt.Errorf("%w: %v vs %v", spectrum.ErrAxisMismatch, a, b)
		}
		return a, nil
	case First:
		return a, nil
	case Second:
		grid = bx
	case Full:
		grid = union(a.Values(), bx, tol)
	case Intersect:
		alo, ahi, _ := a.Bounds(a.Unit())
		blo, bhi, _ := b.Bounds(a.Unit())
		lo, hi := max(alo, blo), min(ahi, bhi)
		for _, v := range union(a.Values(), bx, tol) {
			if v >= lo && v <= hi {
				grid = append(grid, v)
			}
		}
		if len(grid) == 0 {
			return nil, fmt.Errorf("%w: %v and %v do not overlap", spectrum.ErrRange, a, b)
		}
	default:
		return nil, fmt.Errorf("resample: unknown policy %v", p)
	}

	sort.Float64s(grid)
	if !a.Increasing() {
		core.Reverse(grid)
	}
	return axis.New(grid, a.Unit())
}

// union merges two monotonic sample sets into one ascending set. Samples
// within tol of each other are collapsed, keeping the value from a.
func union(a, b []float64, tol float64) []float64 {
	type sample struct {
		x     float64
		fromA bool
	}
	all := make([]sample, 0, len(a)+len(b))
	for _, v := range a {
		all = append(all, sample{v, true})
	}
	for _, v := range b {
		all = append(all, sample{v, false})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].x < all[j].x })

	out := make([]sample, 0, len(all))
	for _, s := range all {
		n := len(out)
		if n > 0 && core.NearlyEqual(out[n-1].x, s.x, tol) {
			if s.fromA && !out[n-1].fromA {
				out[n-1] = s
			}
			continue
		}
		out = append(out, s)
	}

	values := make([]float64, len(out))
	for i, s := range out {
		values[i] = s.x
	}
	return values
}

// Linear interpolates the samples (x, y) at every query point. x must be
// strictly monotonic in either direction. A query within tol of a sample
// returns that sample's value; a query outside [min x, max x] fails with
// [spectrum.ErrRange].
func Linear(x, y, query []float64, tol float64) ([]float64, error) {
	out := make([]float64, len(query))
	err := eval(x, y, query, tol, func(i int, q float64) error {
		return fmt.Errorf("%w: %g is outside the sampled range", spectrum.ErrRange, q)
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Pad is like [Linear] but queries outside the sampled range take the value
// fill instead of failing.
func Pad(x, y, query []float64, fill, tol float64) ([]float64, error) {
	out := make([]float64, len(query))
	err := eval(x, y, query, tol, func(i int, _ float64) error {
		out[i] = fill
		return nil
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func eval(x, y, query []float64, tol float64, outside func(int, float64) error, out []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d samples, %d values", spectrum.ErrLength, len(x), len(y))
	}

	xs, ys := core.Clone(x), core.Clone(y)
	if len(xs) > 1 && xs[0] > xs[1] {
		core.Reverse(xs)
		core.Reverse(ys)
	}

	var pl interp.PiecewiseLinear
	if len(xs) > 1 {
		if err := pl.Fit(xs, ys); err != nil {
			return fmt.Errorf("resample: %w", err)
		}
	}

	for i, q := range query {
		j := sort.SearchFloat64s(xs, q)
		switch {
		case j < len(xs) && core.NearlyEqual(xs[j], q, tol):
			out[i] = ys[j]
		case j > 0 && core.NearlyEqual(xs[j-1], q, tol):
			out[i] = ys[j-1]
		case j == 0 || j == len(xs):
			if err := outside(i, q); err != nil {
				return err
			}
		default:
			out[i] = pl.Predict(q)
		}
	}
	return nil
}

// Onto resamples the named quantities of s onto grid and returns them in a
// new spectrum carrying s's name and conditions. With no names, every stored
// quantity is resampled. Derived quantities are computed before resampling.
func Onto(s *spectrum.Spectrum, grid *axis.Axis, names []string, tol float64) (*spectrum.Spectrum, error) {
	if len(names) == 0 {
		names = s.Stored()
	}
	x, err := s.Axis().Convert(grid.Unit())
	if err != nil {
		return nil, err
	}
	query := grid.Values()

	out := spectrum.New(grid, s.Conditions())
	out.Name = s.Name
	for _, name := range names {
		q, err := s.Peek(name)
		if err != nil {
			return nil, err
		}
		values, err := Linear(x, q.Values, query, tol)
		if err != nil {
			return nil, fmt.Errorf("resampling %s: %w", name, err)
		}
		if err := out.Set(name, values, q.Unit); err != nil {
			return nil, err
		}
	}
	return out, nil
}
