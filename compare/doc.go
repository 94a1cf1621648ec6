// Package compare tests two spectra for numerical equality.
//
// Values x and y match when |x-y| <= tol or |x-y| <= tol*max(|x|, |y|); NaN
// matches NaN. Axes must match unless a resampling policy is given, and
// quantities of the same dimension are compared after unit conversion.
package compare
