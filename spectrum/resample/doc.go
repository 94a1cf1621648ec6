// Package resample brings two spectral axes onto a common grid and
// interpolates spectra onto it.
//
// Grid policies:
//   - Never: the axes must already match (default)
//   - Full: sorted union of both axes, near-duplicate samples collapsed
//   - First / Second: one side's axis
//   - Intersect: the union restricted to the overlap of both axes
//
// Interpolation is piecewise linear and never extrapolates: a query outside
// the sampled range fails with [spectrum.ErrRange], except in [Pad], which
// fills it with a constant. A query that coincides with a sample returns that
// sample unchanged.
package resample
