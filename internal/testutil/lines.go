package testutil

import (
	"math"
	"math/rand"
)

// Line is one spectral line: a profile centred on Center with full width at
// half maximum FWHM and peak value Peak.
type Line struct {
	Center float64
	FWHM   float64
	Peak   float64
}

// Lorentzian evaluates a Lorentzian profile of the line at x.
func (l Line) Lorentzian(x float64) float64 {
	hw := l.FWHM / 2
	d := x - l.Center
	return l.Peak * hw * hw / (d*d + hw*hw)
}

// Gaussian evaluates a Gaussian profile of the line at x.
func (l Line) Gaussian(x float64) float64 {
	sigma := l.FWHM / (2 * math.Sqrt(2*math.Ln2))
	d := (x - l.Center) / sigma
	return l.Peak * math.Exp(-d*d/2)
}

// Band returns the sum of the Lorentzian profiles of lines at each x.
func Band(x []float64, lines []Line) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		for _, l := range lines {
			out[i] += l.Lorentzian(v)
		}
	}
	return out
}

// RegularLines returns n lines evenly spaced over [start, stop] with peaks
// following a rotational-band-like envelope, deterministic for a seed.
func RegularLines(seed int64, start, stop float64, n int, fwhm, peak float64) []Line {
	rng := rand.New(rand.NewSource(seed))
	lines := make([]Line, n)
	step := (stop - start) / float64(n+1)
	for i := range lines {
		pos := float64(i+1) / float64(n+1)
		envelope := math.Sin(math.Pi * pos)
		lines[i] = Line{
			Center: start + float64(i+1)*step + (rng.Float64()-0.5)*step*0.2,
			FWHM:   fwhm,
			Peak:   peak * envelope * (0.8 + 0.4*rng.Float64()),
		}
	}
	return lines
}

// DC generates a constant-valued slice.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
