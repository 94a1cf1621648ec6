package units

import "fmt"

// Dimension groups quantity units that convert into each other by a constant
// factor.
type Dimension string

// Supported quantity dimensions.
const (
	Dimensionless         Dimension = "dimensionless"
	RadiancePerWavelength Dimension = "radiance/wavelength"
	RadiancePerWavenumber Dimension = "radiance/wavenumber"
	EmissionPerWavelength Dimension = "emission/wavelength"
	EmissionPerWavenumber Dimension = "emission/wavenumber"
	AbsorptionCoefficient Dimension = "absorption"
)

// QuantityUnit is an entry of the quantity unit table. Scale converts a value
// into the dimension base unit.
type QuantityUnit struct {
	Symbol    string
	Dimension Dimension
	Scale     float64
}

// Base units per dimension.
var bases = map[Dimension]string{
	Dimensionless:         "",
	RadiancePerWavelength: "W/cm2/sr/nm",
	RadiancePerWavenumber: "W/cm2/sr/cm-1",
	EmissionPerWavelength: "W/cm3/sr/nm",
	EmissionPerWavenumber: "W/cm3/sr/cm-1",
	AbsorptionCoefficient: "cm-1",
}

var quantityTable = map[string]QuantityUnit{
	"":  {Symbol: "", Dimension: Dimensionless, Scale: 1},
	"1": {Symbol: "", Dimension: Dimensionless, Scale: 1},
	"-": {Symbol: "", Dimension: Dimensionless, Scale: 1},
	"%": {Symbol: "%", Dimension: Dimensionless, Scale: 1e-2},

	"W/cm2/sr/nm":  {Symbol: "W/cm2/sr/nm", Dimension: RadiancePerWavelength, Scale: 1},
	"mW/cm2/sr/nm": {Symbol: "mW/cm2/sr/nm", Dimension: RadiancePerWavelength, Scale: 1e-3},
	"W/m2/sr/nm":   {Symbol: "W/m2/sr/nm", Dimension: RadiancePerWavelength, Scale: 1e-4},
	"W/cm2/sr/um":  {Symbol: "W/cm2/sr/um", Dimension: RadiancePerWavelength, Scale: 1e-3},
	"W/m2/sr/um":   {Symbol: "W/m2/sr/um", Dimension: RadiancePerWavelength, Scale: 1e-7},

	"W/cm2/sr/cm-1":  {Symbol: "W/cm2/sr/cm-1", Dimension: RadiancePerWavenumber, Scale: 1},
	"mW/cm2/sr/cm-1": {Symbol: "mW/cm2/sr/cm-1", Dimension: RadiancePerWavenumber, Scale: 1e-3},
	"W/m2/sr/cm-1":   {Symbol: "W/m2/sr/cm-1", Dimension: RadiancePerWavenumber, Scale: 1e-4},

	"W/cm3/sr/nm":  {Symbol: "W/cm3/sr/nm", Dimension: EmissionPerWavelength, Scale: 1},
	"mW/cm3/sr/nm": {Symbol: "mW/cm3/sr/nm", Dimension: EmissionPerWavelength, Scale: 1e-3},
	"W/m3/sr/nm":   {Symbol: "W/m3/sr/nm", Dimension: EmissionPerWavelength, Scale: 1e-6},

	"W/cm3/sr/cm-1":  {Symbol: "W/cm3/sr/cm-1", Dimension: EmissionPerWavenumber, Scale: 1},
	"mW/cm3/sr/cm-1": {Symbol: "mW/cm3/sr/cm-1", Dimension: EmissionPerWavenumber, Scale: 1e-3},

	"cm-1": {Symbol: "cm-1", Dimension: AbsorptionCoefficient, Scale: 1},
	"m-1":  {Symbol: "m-1", Dimension: AbsorptionCoefficient, Scale: 1e-2},
}

// Quantity looks up a quantity unit.
func Quantity(symbol string) (QuantityUnit, error) {
	u, ok := quantityTable[symbol]
	if !ok {
		return QuantityUnit{}, fmt.Errorf("%w: %q is not a quantity unit", ErrUnit, symbol)
	}
	return u, nil
}

// IsQuantity reports whether symbol is a known quantity unit.
func IsQuantity(symbol string) bool {
	_, ok := quantityTable[symbol]
	return ok
}

// Base returns the base unit symbol of a dimension.
func Base(d Dimension) string {
	return bases[d]
}

// DimensionOf returns the dimension of a quantity unit.
func DimensionOf(symbol string) (Dimension, error) {
	u, err := Quantity(symbol)
	if err != nil {
		return "", err
	}
	return u.Dimension, nil
}

// Factor returns the multiplier converting values in unit from into unit to.
func Factor(from, to string) (float64, error) {
	src, err := Quantity(from)
	if err != nil {
		return 0, err
	}
	dst, err := Quantity(to)
	if err != nil {
		return 0, err
	}
	if src.Dimension != dst.Dimension {
		return 0, fmt.Errorf("%w: cannot convert %q (%s) to %q (%s)",
			ErrUnit, from, src.Dimension, to, dst.Dimension)
	}
	if src.Symbol == dst.Symbol {
		return 1, nil
	}
	return src.Scale / dst.Scale, nil
}

// SameDimension reports whether a and b are known quantity units of the same
// dimension.
func SameDimension(a, b string) bool {
	ua, errA := Quantity(a)
	ub, errB := Quantity(b)
	return errA == nil && errB == nil && ua.Dimension == ub.Dimension
}

// QuantitySymbols returns every accepted quantity unit string, sorted.
func QuantitySymbols() []string {
	return sortedKeys(quantityTable)
}
