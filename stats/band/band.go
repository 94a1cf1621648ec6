package band

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-spectra/core"
	"github.com/cwbudde/algo-spectra/spectrum"
)

// Stats holds the descriptors of a quantity sampled on an axis.
type Stats struct {
	Quantity string
	Unit     string
	AxisUnit string

	Count     int // finite samples
	NonFinite int
	Min       float64
	MinAt     float64 // axis position of Min
	Max       float64
	MaxAt     float64 // axis position of Max
	MaxAbs    float64
	Mean      float64
	Integral  float64 // trapezoid rule over the axis

	Centroid  float64 // value-weighted mean axis position
	Spread    float64 // value-weighted standard deviation around Centroid
	Flatness  float64 // geometric over arithmetic mean, 0..1
	Bandwidth float64 // full width at half maximum around Max
}

// Of computes the statistics of quantity name of s, with the axis expressed in
// axisUnit (the spectrum's own unit when empty). The quantity is derived if
// it is not stored.
func Of(s *spectrum.Spectrum, name, axisUnit string) (Stats, error) {
	if axisUnit == "" {
		axisUnit = s.Axis().Unit()
	}
	x, y, err := s.XY(name, axisUnit)
	if err != nil {
		return Stats{}, err
	}
	st, err := Calculate(x, y)
	if err != nil {
		return Stats{}, err
	}
	st.Quantity = name
	st.Unit, _ = s.Unit(name)
	st.AxisUnit = axisUnit
	return st, nil
}

// Calculate computes the statistics of y sampled at the monotonic positions x.
func Calculate(x, y []float64) (Stats, error) {
	if len(x) != len(y) {
		return Stats{}, fmt.Errorf("%w: %d positions, %d values", spectrum.ErrLength, len(x), len(y))
	}

	xs, ys := finite(x, y)
	st := Stats{Count: len(xs), NonFinite: len(x) - len(xs)}
	if len(xs) == 0 {
		return st, nil
	}
	if len(xs) > 1 && xs[0] > xs[len(xs)-1] {
		slices.Reverse(xs)
		slices.Reverse(ys)
	}

	lo, hi := floats.MinIdx(ys), floats.MaxIdx(ys)
	st.Min, st.MinAt = ys[lo], xs[lo]
	st.Max, st.MaxAt = ys[hi], xs[hi]
	st.MaxAbs = vecmath.MaxAbs(ys)
	st.Mean = stat.Mean(ys, nil)
	if len(xs) < 2 {
		st.Centroid = xs[0]
		return st, nil
	}

	st.Integral = integrate.Trapezoidal(xs, ys)
	if weights := positive(ys); floats.Sum(weights) > 0 {
		st.Centroid = stat.Mean(xs, weights)
		st.Spread = math.Sqrt(stat.MomentAbout(2, xs, st.Centroid, weights))
	}
	st.Flatness = flatness(ys)
	st.Bandwidth = bandwidth(xs, ys, hi)
	return st, nil
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return fmt.Sprintf("%s [%s]: n=%d min=%.6g@%.6g max=%.6g@%.6g integral=%.6g %s·%s centroid=%.6g spread=%.6g fwhm=%.6g",
		s.Quantity, s.Unit, s.Count, s.Min, s.MinAt, s.Max, s.MaxAt,
		s.Integral, s.Unit, s.AxisUnit, s.Centroid, s.Spread, s.Bandwidth)
}

func finite(x, y []float64) (xs, ys []float64) {
	if core.AllFinite(x) && core.AllFinite(y) {
		return core.Clone(x), core.Clone(y)
	}
	xs = make([]float64, 0, len(x))
	ys = make([]float64, 0, len(y))
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.IsNaN(x[i]) || math.IsInf(x[i], 0) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, v)
	}
	return xs, ys
}

// positive clamps negative values to zero for use as weights.
func positive(y []float64) []float64 {
	w := make([]float64, len(y))
	for i, v := range y {
		w[i] = math.Max(v, 0)
	}
	return w
}

// flatness is zero as soon as one sample is not strictly positive.
func flatness(y []float64) float64 {
	for _, v := range y {
		if v <= 0 {
			return 0
		}
	}
	mean := stat.Mean(y, nil)
	if mean == 0 {
		return 0
	}
	return core.Clamp(stat.GeometricMean(y, nil)/mean, 0, 1)
}

// bandwidth locates the half maximum crossings on both sides of peak, with
// linear interpolation between samples. A side that never crosses uses the
// axis end.
func bandwidth(x, y []float64, peak int) float64 {
	if y[peak] <= 0 {
		return 0
	}
	threshold := y[peak] / 2

	lower := x[0]
	for i := peak; i >= 1; i-- {
		if y[i-1] <= threshold && y[i] > threshold {
			lower = crossing(x[i-1], x[i], y[i-1], y[i], threshold)
			break
		}
	}
	upper := x[len(x)-1]
	for i := peak; i < len(x)-1; i++ {
		if y[i+1] <= threshold && y[i] > threshold {
			upper = crossing(x[i], x[i+1], y[i], y[i+1], threshold)
			break
		}
	}
	return math.Max(upper-lower, 0)
}

func crossing(x0, x1, y0, y1, threshold float64) float64 {
	d := y1 - y0
	if d == 0 {
		return (x0 + x1) / 2
	}
	return x0 + (threshold-y0)/d*(x1-x0)
}
