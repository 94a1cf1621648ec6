package spectrum

import (
	"errors"

	"github.com/cwbudde/algo-spectra/units"
)

// Error kinds shared by the spectrum packages. Match them with errors.Is.
var (
	// ErrUnit reports an unsupported or incompatible unit request.
	ErrUnit = units.ErrUnit

	// ErrRange reports a window outside or degenerate relative to the data, or
	// a resampling request that would extrapolate.
	ErrRange = errors.New("spectrum: range outside available data")

	// ErrAxisMismatch reports an operation that requires matching axes.
	ErrAxisMismatch = errors.New("spectrum: axis mismatch")

	// ErrAmbiguousQuantity reports an arithmetic target that cannot be inferred.
	ErrAmbiguousQuantity = errors.New("spectrum: ambiguous quantity")

	// ErrIncompatibleUnits reports quantities of different physical dimensions.
	ErrIncompatibleUnits = errors.New("spectrum: incompatible units")

	// ErrOverlap reports overlapping inputs to a disjoint merge.
	ErrOverlap = errors.New("spectrum: overlapping spectral ranges")

	// ErrQuantityNotFound reports a quantity that is neither stored nor derivable.
	ErrQuantityNotFound = errors.New("spectrum: quantity not available")

	// ErrLength reports a quantity whose length differs from the axis length.
	ErrLength = errors.New("spectrum: quantity length does not match axis")
)
