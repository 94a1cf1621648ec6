package slit

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

var (
	// ErrUnevenAxis is returned when the spectral axis is not uniformly spaced.
	ErrUnevenAxis = errors.New("slit: axis is not uniformly spaced")
	// ErrInvalidWidth is returned for a non-positive or non-finite FWHM.
	ErrInvalidWidth = errors.New("slit: FWHM must be positive and finite")
)

// Shape is the slit function profile.
type Shape int

const (
	// Triangular has a base of two FWHM.
	Triangular Shape = iota
	// Gaussian is truncated at two FWHM from its center.
	Gaussian
	// Rectangular is one FWHM wide.
	Rectangular
)

var shapeNames = map[Shape]string{
	Triangular:  "triangular",
	Gaussian:    "gaussian",
	Rectangular: "rectangular",
}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ParseShape parses a shape name.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name {
			return s, nil
		}
	}
	return Triangular, fmt.Errorf("slit: unknown shape %q", name)
}

// Kernel samples shape with the given FWHM every step (same unit) and
// normalises it to unit sum. The kernel is symmetric with an odd number of
// taps; a slit narrower than one step yields the identity kernel [1].
func Kernel(shape Shape, fwhm, step float64) ([]float64, error) {
	if !(fwhm > 0) || math.IsInf(fwhm, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidWidth, fwhm)
	}
	step = math.Abs(step)
	if !(step > 0) {
		return nil, fmt.Errorf("slit: invalid step %g", step)
	}

	var extent float64
	var profile func(x float64) float64
	switch shape {
	case Triangular:
		extent = fwhm
		profile = func(x float64) float64 { return 1 - math.Abs(x)/fwhm }
	case Gaussian:
		extent = 2 * fwhm
		sigma := fwhm / (2 * math.Sqrt(2*math.Ln2))
		profile = func(x float64) float64 { return math.Exp(-x * x / (2 * sigma * sigma)) }
	case Rectangular:
		extent = fwhm / 2
		profile = func(float64) float64 { return 1 }
	default:
		return nil, fmt.Errorf("slit: unknown shape %v", shape)
	}

	// Samples exactly on the support edge of the triangle are zero.
	half := int(math.Floor(extent/step + 1e-9))
	if shape == Triangular && float64(half)*step >= extent*(1-1e-9) {
		half--
	}
	if half < 0 {
		half = 0
	}

	k := make([]float64, 2*half+1)
	for i := range k {
		k[i] = profile(float64(i-half) * step)
	}
	vecmath.ScaleBlockInPlace(k, 1/vecmath.Sum(k))
	return k, nil
}
