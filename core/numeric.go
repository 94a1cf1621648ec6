package core

import "math"

// NearlyEqual reports whether a and b are equal within eps, either absolutely
// or relative to the larger magnitude. NaN equals NaN and infinities equal
// infinities of the same sign.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = DefaultTolerance
	}

	if a == b {
		return true
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	return diff <= eps*largest
}

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// AllFinite reports whether no element of x is NaN or Inf.
func AllFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
