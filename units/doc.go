// Package units holds the closed unit tables used by spectra.
//
// Two families are kept apart:
//
//   - spectral units label a spectral axis: wavelengths (nm, um, A) and
//     wavenumbers (cm-1, m-1). Wavelength and wavenumber convert through the
//     exact reciprocal nm = 1e7 / cm-1.
//   - quantity units label the values of a physical quantity (radiance,
//     emission and absorption coefficients, dimensionless ratios). Each unit
//     belongs to a Dimension and carries a scale to that dimension's base unit.
//
// Unit strings are validated against these tables, never parsed as free text.
// Unknown or mismatched requests fail with [ErrUnit].
package units
