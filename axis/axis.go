package axis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-spectra/core"
	"github.com/cwbudde/algo-spectra/units"
)

// ErrNotMonotonic is returned when axis values are not strictly monotonic.
var ErrNotMonotonic = errors.New("axis: values must be strictly monotonic")

// Axis is an ordered, strictly monotonic spectral axis.
type Axis struct {
	values []float64
	unit   string
}

// New validates values and unit and returns an Axis holding a copy of values.
// Values may be increasing or decreasing; an empty axis is valid.
func New(values []float64, unit string) (*Axis, error) {
	u, err := units.Spectral(unit)
	if err != nil {
		return nil, err
	}
	if err := validateMonotonic(values); err != nil {
		return nil, err
	}
	return &Axis{values: core.Clone(values), unit: u.Symbol}, nil
}

// MustNew is like New but panics on invalid input. Intended for fixtures and
// examples.
func MustNew(values []float64, unit string) *Axis {
	a, err := New(values, unit)
	if err != nil {
		panic(err)
	}
	return a
}

// Linspace returns an increasing axis of n evenly spaced values from start to
// stop inclusive. Sample i is computed as start + i*step so grid points that are
// exact multiples of step stay exact.
func Linspace(start, stop float64, n int, unit string) (*Axis, error) {
	if n < 0 {
		return nil, fmt.Errorf("axis: linspace length must be >= 0: %d", n)
	}
	values := make([]float64, n)
	if n == 1 {
		values[0] = start
	}
	if n > 1 {
		step := (stop - start) / float64(n-1)
		for i := range values {
			values[i] = start + float64(i)*step
		}
		values[n-1] = stop
	}
	return New(values, unit)
}

func validateMonotonic(values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value at index %d", ErrNotMonotonic, i)
		}
	}
	if len(values) < 2 {
		return nil
	}
	increasing := values[1] > values[0]
	for i := 1; i < len(values); i++ {
		if increasing && !(values[i] > values[i-1]) {
			return fmt.Errorf("%w: index %d", ErrNotMonotonic, i)
		}
		if !increasing && !(values[i] < values[i-1]) {
			return fmt.Errorf("%w: index %d", ErrNotMonotonic, i)
		}
	}
	return nil
}

// Len returns the number of samples.
func (a *Axis) Len() int { return len(a.values) }

// Unit returns the canonical unit symbol.
func (a *Axis) Unit() string { return a.unit }

// At returns sample i.
func (a *Axis) At(i int) float64 { return a.values[i] }

// Values returns a copy of the samples.
func (a *Axis) Values() []float64 { return core.Clone(a.values) }

// Increasing reports whether the axis grows with the index. Axes with fewer
// than two samples count as increasing.
func (a *Axis) Increasing() bool {
	return len(a.values) < 2 || a.values[1] > a.values[0]
}

// Convert returns the samples expressed in unit. Converting between
// wavelength and wavenumber reverses the ordering of the values.
func (a *Axis) Convert(unit string) ([]float64, error) {
	return units.ConvertSpectral(a.values, a.unit, unit)
}

// To returns a new Axis expressed in unit.
func (a *Axis) To(unit string) (*Axis, error) {
	values, err := a.Convert(unit)
	if err != nil {
		return nil, err
	}
	u, _ := units.Spectral(unit)
	return &Axis{values: values, unit: u.Symbol}, nil
}

// Bounds returns the smallest and largest sample expressed in unit. An empty
// axis returns NaN bounds.
func (a *Axis) Bounds(unit string) (lo, hi float64, err error) {
	if _, err := units.Spectral(unit); err != nil {
		return 0, 0, err
	}
	if len(a.values) == 0 {
		return math.NaN(), math.NaN(), nil
	}
	first, err := units.ConvertSpectralValue(a.values[0], a.unit, unit)
	if err != nil {
		return 0, 0, err
	}
	last, err := units.ConvertSpectralValue(a.values[len(a.values)-1], a.unit, unit)
	if err != nil {
		return 0, 0, err
	}
	return math.Min(first, last), math.Max(first, last), nil
}

// ContainsRange reports whether the closed window [low, high], expressed in
// unit, lies within the axis bounds.
func (a *Axis) ContainsRange(low, high float64, unit string) (bool, error) {
	lo, hi, err := a.Bounds(unit)
	if err != nil {
		return false, err
	}
	if len(a.values) == 0 || low > high {
		return false, nil
	}
	return low >= lo && high <= hi, nil
}

// Select returns the sub-axis made of the given sample indices, in the order
// given. Indices must keep the axis strictly monotonic.
func (a *Axis) Select(indices []int) (*Axis, error) {
	values := core.Gather(a.values, indices)
	if err := validateMonotonic(values); err != nil {
		return nil, err
	}
	return &Axis{values: values, unit: a.unit}, nil
}

// Equal reports whether other has the same unit family, length and samples
// within tol once expressed in the receiver's unit.
func (a *Axis) Equal(other *Axis, tol float64) bool {
	if a == other {
		return true
	}
	if other == nil || a.Len() != other.Len() || !units.SameFamily(a.unit, other.unit) {
		return false
	}
	values, err := other.Convert(a.unit)
	if err != nil {
		return false
	}
	for i, v := range a.values {
		if !core.NearlyEqual(v, values[i], tol) {
			return false
		}
	}
	return true
}

// Spacing returns the constant step of a uniform axis. ok is false when the
// axis has fewer than two samples or when any step deviates from the mean step
// by more than relTol relative.
func (a *Axis) Spacing(relTol float64) (step float64, ok bool) {
	n := len(a.values)
	if n < 2 {
		return 0, false
	}
	step = (a.values[n-1] - a.values[0]) / float64(n-1)
	diffs := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diffs[i-1] = a.values[i] - a.values[i-1]
	}
	lo, hi := floats.Min(diffs), floats.Max(diffs)
	if math.Abs(hi-step) > relTol*math.Abs(step) || math.Abs(lo-step) > relTol*math.Abs(step) {
		return step, false
	}
	return step, true
}

// String implements fmt.Stringer.
func (a *Axis) String() string {
	if len(a.values) == 0 {
		return fmt.Sprintf("axis[0 %s]", a.unit)
	}
	return fmt.Sprintf("axis[%d %s: %g..%g]", len(a.values), a.unit, a.values[0], a.values[len(a.values)-1])
}
