package testutil

import (
	"math"

	"github.com/cwbudde/algo-spectra/axis"
	"github.com/cwbudde/algo-spectra/spectrum"
)

// Fixture grid of the synthetic CO band: 2000..2300 cm-1 every 0.5 cm-1, so
// 2177 cm-1 is an exact grid point.
const (
	BandStart  = 2000.0
	BandStop   = 2300.0
	BandPoints = 601
	BandPath   = 10.0 // cm
)

// BandConditions returns the conditions attached to the fixture spectra.
func BandConditions() map[string]any {
	return map[string]any{
		spectrum.PathLengthKey: BandPath,
		"Tgas":                 1500.0,
		"mole_fraction":        0.01,
		"pressure_mbar":        1013.25,
	}
}

// COBand returns a synthetic CO-like band with abscoeff (cm-1) and emisscoeff
// (W/cm3/sr/cm-1) stored over a wavenumber axis. radiance_noslit,
// absorbance, transmittance_noslit and emissivity_noslit are derivable.
func COBand() *spectrum.Spectrum {
	ax, err := axis.Linspace(BandStart, BandStop, BandPoints, "cm-1")
	if err != nil {
		panic(err)
	}
	x := ax.Values()
	k := Band(x, RegularLines(1, BandStart, BandStop, 40, 0.8, 0.05))
	j := make([]float64, len(k))
	for i := range k {
		k[i] += 1e-5
		j[i] = k[i] * 2e-5 * (1 + 0.1*math.Sin(x[i]/40))
	}

	s := spectrum.New(ax, BandConditions())
	s.Name = "co-band"
	mustSet(s, spectrum.AbsCoeff, k, "cm-1")
	mustSet(s, spectrum.EmissCoeff, j, "W/cm3/sr/cm-1")
	return s
}

// COTransmittance returns the transmittance_noslit of [COBand] as the only
// stored quantity.
func COTransmittance() *spectrum.Spectrum {
	s, err := COBand().Take(spectrum.TransmittanceNoSlit)
	if err != nil {
		panic(err)
	}
	return s
}

// RadianceNM returns a spectrum storing only radiance_noslit in W/cm2/sr/nm
// over 4350..4990 nm every 0.5 nm.
func RadianceNM() *spectrum.Spectrum {
	ax, err := axis.Linspace(4350, 4990, 1281, "nm")
	if err != nil {
		panic(err)
	}
	x := ax.Values()
	y := Band(x, RegularLines(3, 4350, 4990, 25, 1.5, 1e-3))
	for i := range y {
		y[i] += 1e-4
	}

	s := spectrum.New(ax, BandConditions())
	s.Name = "radiance-nm"
	mustSet(s, spectrum.RadianceNoSlit, y, "W/cm2/sr/nm")
	return s
}

// Simple returns a small spectrum with the given quantity over x (nm).
func Simple(name string, x, y []float64, unit string) *spectrum.Spectrum {
	ax, err := axis.New(x, "nm")
	if err != nil {
		panic(err)
	}
	s := spectrum.New(ax, nil)
	mustSet(s, name, y, unit)
	return s
}

func mustSet(s *spectrum.Spectrum, name string, values []float64, unit string) {
	if err := s.Set(name, values, unit); err != nil {
		panic(err)
	}
}
