// Package slit convolves spectra with an instrumental slit function.
//
// [Apply] turns radiance_noslit into radiance and transmittance_noslit into
// transmittance. The slit is sampled on the spectrum's own uniform axis and
// normalised to unit sum, so a flat spectrum stays flat.
//
// Kernels shorter than 64 taps are applied by direct convolution, longer ones
// by FFT overlap-add. Only the samples fully covered by the kernel are kept:
// the spectrum loses half a kernel on each side.
package slit
