// Package band computes descriptive statistics of one spectral quantity over
// its axis: extrema, integral, centroid, spread, flatness and the full width at
// half maximum of the strongest feature.
//
// Non-finite samples are counted and skipped. Integrals and axis positions are
// expressed in the axis unit requested by the caller, so the same band can be
// described in cm-1 or in nm.
package band
