package compare

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/cwbudde/algo-spectra/axis"
	"github.com/cwbudde/algo-spectra/core"
	"github.com/cwbudde/algo-spectra/spectrum"
	"github.com/cwbudde/algo-spectra/spectrum/resample"
	"github.com/cwbudde/algo-spectra/units"
)

// QuantityDiff describes how one quantity differs between two spectra.
type QuantityDiff struct {
	Name string
	// Unit is the unit both sides were compared in (the left one).
	Unit  string
	Equal bool
	// Reason is set when the quantity could not be compared elementwise.
	Reason     string
	MaxAbsDiff float64
	MaxRelDiff float64
	// Mismatches counts samples outside tolerance; First is the index of the
	// first one, or -1.
	Mismatches int
	First      int
}

// Report is the detailed outcome of [Diff].
type Report struct {
	Mode       string
	Tolerance  float64
	GridPoints int
	Quantities []QuantityDiff
	// Conditions holds a go-cmp diff of the conditions maps when they were
	// compared and differ.
	Conditions string
}

// Equal reports whether every compared item matched.
func (r Report) Equal() bool {
	if r.Conditions != "" {
		return false
	}
	for _, q := range r.Quantities {
		if !q.Equal {
			return false
		}
	}
	return true
}

// String renders one line per compared quantity.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mode=%s tol=%g points=%d equal=%t\n", r.Mode, r.Tolerance, r.GridPoints, r.Equal())
	for _, q := range r.Quantities {
		switch {
		case q.Reason != "":
			fmt.Fprintf(&b, "  %-22s %s\n", q.Name, q.Reason)
		default:
			fmt.Fprintf(&b, "  %-22s equal=%t max_abs=%.3g max_rel=%.3g mismatches=%d\n",
				q.Name, q.Equal, q.MaxAbsDiff, q.MaxRelDiff, q.Mismatches)
		}
	}
	if r.Conditions != "" {
		fmt.Fprintf(&b, "  conditions differ:\n%s", r.Conditions)
	}
	return b.String()
}

// Spectra reports whether a and b are equal within tolerance.
func Spectra(a, b *spectrum.Spectrum, opts ...Option) (bool, error) {
	r, err := Diff(a, b, opts...)
	if err != nil {
		return false, err
	}
	return r.Equal(), nil
}

// Diff compares a and b and reports per-quantity differences.
//
// In mode "all" every quantity stored on either side takes part; a quantity
// the other side can neither store nor derive is a mismatch. With
// [WithQuantity] only that quantity is compared and it must exist on at least
// one side ([spectrum.ErrQuantityNotFound]).
//
// Unequal axes fail with [spectrum.ErrAxisMismatch] unless [WithResample]
// selects a common grid. Axis samples are matched with [core.AxisTolerance];
// the tolerance of [WithTolerance] applies to values only.
func Diff(a, b *spectrum.Spectrum, opts ...Option) (Report, error) {
	cfg := ApplyOptions(opts...)
	tol := cfg.Eps()
	r := Report{Mode: cfg.Mode(), Tolerance: tol}

	grid, err := resample.CommonGrid(a.Axis(), b.Axis(), cfg.Resample, core.AxisTolerance)
	if err != nil {
		return r, err
	}
	r.GridPoints = grid.Len()

	names := union(a.Stored(), b.Stored())
	if cfg.Quantity != "" {
		if !a.Derivable(cfg.Quantity) && !b.Derivable(cfg.Quantity) {
			return r, fmt.Errorf("%w: %s on either side", spectrum.ErrQuantityNotFound, cfg.Quantity)
		}
		names = []string{cfg.Quantity}
	}

	for _, name := range names {
		qd, err := diffQuantity(a, b, name, grid, tol)
		if err != nil {
			return r, err
		}
		r.Quantities = append(r.Quantities, qd)
	}

	if cfg.Conditions {
		r.Conditions = cmp.Diff(a.Conditions(), b.Conditions(), cmpopts.EquateApprox(tol, tol), cmpopts.EquateNaNs())
	}

	cfg.Log().Debug("compare",
		zap.String("mode", r.Mode),
		zap.Float64("tolerance", tol),
		zap.Stringer("policy", cfg.Resample),
		zap.Int("grid", r.GridPoints),
		zap.Bool("equal", r.Equal()),
	)
	return r, nil
}

func diffQuantity(a, b *spectrum.Spectrum, name string, grid *axis.Axis, tol float64) (QuantityDiff, error) {
	qd := QuantityDiff{Name: name, First: -1}

	qa, errA := a.Peek(name)
	qb, errB := b.Peek(name)
	switch {
	case errA != nil && errB != nil:
		return qd, errA
	case errA != nil:
		qd.Reason = "missing on the left"
		return qd, nil
	case errB != nil:
		qd.Reason = "missing on the right"
		return qd, nil
	}
	qd.Unit = qa.Unit

	f, err := units.Factor(qb.Unit, qa.Unit)
	if err != nil {
		qd.Reason = fmt.Sprintf("units %q and %q are not comparable", qa.Unit, qb.Unit)
		return qd, nil
	}

	x, err := onGrid(a.Axis(), qa.Values, grid)
	if err != nil {
		return qd, err
	}
	y, err := onGrid(b.Axis(), qb.Values, grid)
	if err != nil {
		return qd, err
	}

	for i := range x {
		yi := y[i] * f
		if !match(x[i], yi, tol) {
			qd.Mismatches++
			if qd.First < 0 {
				qd.First = i
			}
		}
		if math.IsNaN(x[i]) && math.IsNaN(yi) {
			continue
		}
		d := math.Abs(x[i] - yi)
		qd.MaxAbsDiff = math.Max(qd.MaxAbsDiff, d)
		if m := math.Max(math.Abs(x[i]), math.Abs(yi)); m > 0 {
			qd.MaxRelDiff = math.Max(qd.MaxRelDiff, d/m)
		}
	}
	qd.Equal = qd.Mismatches == 0
	return qd, nil
}

func match(x, y, tol float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.IsNaN(x) && math.IsNaN(y)
	}
	return scalar.EqualWithinAbsOrRel(x, y, tol, tol)
}

func onGrid(ax *axis.Axis, values []float64, grid *axis.Axis) ([]float64, error) {
	if ax.Equal(grid, core.AxisTolerance) {
		return values, nil
	}
	x, err := ax.Convert(grid.Unit())
	if err != nil {
		return nil, err
	}
	return resample.Linear(x, values, grid.Values(), core.AxisTolerance)
}

func union(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, n := range a {
		set[n] = struct{}{}
	}
	for _, n := range b {
		set[n] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
