// Package core holds configuration and numeric helpers shared by the spectrum
// packages: the tolerance and logger threaded through every operation, a
// tolerant float comparison, and copy helpers that never alias their input.
package core
