// Package axis provides the spectral axis of a spectrum: a strictly monotonic
// sequence of wavelengths or wavenumbers tagged with a unit from the
// [units] spectral table.
//
// An Axis is immutable. Operations that restrict or convert an axis return a
// new Axis and never share the underlying array with the receiver.
package axis
