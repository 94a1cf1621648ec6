// Package slabs merges two spectra into one.
//
// Spectra covering separate windows of the spectrum, such as the two halves
// of a cropped spectrum, are concatenated. Spectra covering the same window
// are treated as two optical slabs along the line of sight and combined on a
// common grid following a [CombineMode].
//
// Merge classifies its inputs as one of:
//
//	disjoint     no common range: concatenated
//	touching     one shared boundary sample with equal values: concatenated, the
//	             shared sample kept once
//	overlapping  combined on the grid chosen by the resample policy
package slabs
