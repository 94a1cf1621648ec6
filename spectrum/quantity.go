package spectrum

import "github.com/cwbudde/algo-spectra/core"

// Standard quantity names.
const (
	RadianceNoSlit      = "radiance_noslit"
	TransmittanceNoSlit = "transmittance_noslit"
	EmissivityNoSlit    = "emissivity_noslit"
	Absorbance          = "absorbance"
	AbsCoeff            = "abscoeff"
	EmissCoeff          = "emisscoeff"
	Radiance            = "radiance"
	Transmittance       = "transmittance"
)

// PathLengthKey is the condition holding the optical path length in cm.
const PathLengthKey = "path_length"

// Kind tells how a quantity composes when two slabs are combined.
type Kind int

const (
	// KindOther quantities have no known composition law.
	KindOther Kind = iota
	// KindAdditive quantities sum (radiances, absorbance, coefficients).
	KindAdditive
	// KindMultiplicative quantities multiply (transmittances).
	KindMultiplicative
	// KindEmissivity combines as 1-(1-a)(1-b).
	KindEmissivity
)

var kinds = map[string]Kind{
	RadianceNoSlit:      KindAdditive,
	Radiance:            KindAdditive,
	Absorbance:          KindAdditive,
	AbsCoeff:            KindAdditive,
	EmissCoeff:          KindAdditive,
	TransmittanceNoSlit: KindMultiplicative,
	Transmittance:       KindMultiplicative,
	EmissivityNoSlit:    KindEmissivity,
}

// KindOf returns the composition kind of a quantity name.
func KindOf(name string) Kind {
	return kinds[name]
}

// Quantity is an array of values aligned with a spectral axis, in Unit.
type Quantity struct {
	Values []float64
	Unit   string
}

func (q Quantity) clone() Quantity {
	return Quantity{Values: core.Clone(q.Values), Unit: q.Unit}
}
