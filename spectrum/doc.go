// Package spectrum holds the Spectrum type: physical quantities sampled over a
// common [axis.Axis], a pass-through conditions map, and the derivation table
// that recomputes derivable quantities on demand.
//
// Quantities set by the producer are stored. Everything else that the
// derivation table can build from stored quantities (transmittance from
// absorbance, radiance from emission and absorption coefficients, ...) is
// computed lazily by [Spectrum.Get] and cached until the axis or a stored
// quantity changes.
//
// [Crop] restricts a spectrum to a window of its axis by index selection.
// Arithmetic, slab merging and comparison live in the arith, slabs and compare
// packages; they share the error kinds declared here.
package spectrum
