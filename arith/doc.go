// Package arith implements unit-aware algebra on spectra.
//
// Scalar operations ([AddConstant], [SubtractConstant], [Multiply], [Divide])
// act on one active quantity. The active quantity is selected with
// [WithQuantity], or inferred when the spectrum stores exactly one quantity.
// Each has an InPlace twin; the out-of-place form is a deep copy followed by
// the same in-place kernel, so both produce bit-identical values.
//
// Spectrum-spectrum operations ([Add], [Subtract], [Mul], [Div], [Combine])
// require compatible physical dimensions and matching axes. Pass
// [WithResample] to allow a common grid instead; arithmetic never resamples
// on its own.
package arith
