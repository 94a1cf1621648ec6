package units

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnit is returned for unsupported or incompatible unit requests.
var ErrUnit = errors.New("units: unsupported or incompatible unit")

// Family identifies the kind of spectral axis a unit describes.
type Family int

const (
	// Wavelength axes grow with the optical period (nm, um, A).
	Wavelength Family = iota
	// Wavenumber axes grow with the optical frequency (cm-1, m-1).
	Wavenumber
)

func (f Family) String() string {
	switch f {
	case Wavelength:
		return "wavelength"
	case Wavenumber:
		return "wavenumber"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// SpectralUnit is an entry of the spectral unit table. Scale converts a value
// into the family base unit (nm for wavelengths, cm-1 for wavenumbers).
type SpectralUnit struct {
	Symbol string
	Family Family
	Scale  float64
}

// nmPerCm is the reciprocal constant linking nm and cm-1.
const nmPerCm = 1e7

var spectralTable = map[string]SpectralUnit{
	"nm":       {Symbol: "nm", Family: Wavelength, Scale: 1},
	"um":       {Symbol: "um", Family: Wavelength, Scale: 1e3},
	"µm":       {Symbol: "um", Family: Wavelength, Scale: 1e3},
	"micron":   {Symbol: "um", Family: Wavelength, Scale: 1e3},
	"A":        {Symbol: "A", Family: Wavelength, Scale: 0.1},
	"Å":        {Symbol: "A", Family: Wavelength, Scale: 0.1},
	"angstrom": {Symbol: "A", Family: Wavelength, Scale: 0.1},
	"cm-1":     {Symbol: "cm-1", Family: Wavenumber, Scale: 1},
	"1/cm":     {Symbol: "cm-1", Family: Wavenumber, Scale: 1},
	"cm^-1":    {Symbol: "cm-1", Family: Wavenumber, Scale: 1},
	"cm⁻¹":     {Symbol: "cm-1", Family: Wavenumber, Scale: 1},
	"m-1":      {Symbol: "m-1", Family: Wavenumber, Scale: 1e-2},
	"1/m":      {Symbol: "m-1", Family: Wavenumber, Scale: 1e-2},
}

// Spectral looks up a spectral (axis) unit. Aliases resolve to the canonical
// symbol.
func Spectral(symbol string) (SpectralUnit, error) {
	u, ok := spectralTable[symbol]
	if !ok {
		return SpectralUnit{}, fmt.Errorf("%w: %q is not a spectral unit", ErrUnit, symbol)
	}
	return u, nil
}

// IsSpectral reports whether symbol is a known spectral unit.
func IsSpectral(symbol string) bool {
	_, ok := spectralTable[symbol]
	return ok
}

// ConvertSpectral returns values expressed in unit to. The input is not
// modified. Converting between families inverts the ordering of the values.
func ConvertSpectral(values []float64, from, to string) ([]float64, error) {
	src, err := Spectral(from)
	if err != nil {
		return nil, err
	}
	dst, err := Spectral(to)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(values))
	if src == dst || src.Symbol == dst.Symbol {
		copy(out, values)
		return out, nil
	}

	for i, v := range values {
		out[i] = convertSpectral(v, src, dst)
	}
	return out, nil
}

// ConvertSpectralValue converts a single value, see [ConvertSpectral].
func ConvertSpectralValue(v float64, from, to string) (float64, error) {
	src, err := Spectral(from)
	if err != nil {
		return 0, err
	}
	dst, err := Spectral(to)
	if err != nil {
		return 0, err
	}
	if src.Symbol == dst.Symbol {
		return v, nil
	}
	return convertSpectral(v, src, dst), nil
}

func convertSpectral(v float64, src, dst SpectralUnit) float64 {
	base := v * src.Scale
	if src.Family != dst.Family {
		base = nmPerCm / base
	}
	return base / dst.Scale
}

// SameFamily reports whether a and b are spectral units of the same family.
func SameFamily(a, b string) bool {
	ua, errA := Spectral(a)
	ub, errB := Spectral(b)
	return errA == nil && errB == nil && ua.Family == ub.Family
}

// SpectralSymbols returns every accepted spectral unit string, sorted.
func SpectralSymbols() []string {
	return sortedKeys(spectralTable)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
