package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-spectra/units"
)

// expected lists the dimensions accepted for the standard quantities.
var expected = map[string][]units.Dimension{
	RadianceNoSlit:      {units.RadiancePerWavelength, units.RadiancePerWavenumber},
	Radiance:            {units.RadiancePerWavelength, units.RadiancePerWavenumber},
	EmissCoeff:          {units.EmissionPerWavelength, units.EmissionPerWavenumber},
	AbsCoeff:            {units.AbsorptionCoefficient},
	TransmittanceNoSlit: {units.Dimensionless},
	Transmittance:       {units.Dimensionless},
	EmissivityNoSlit:    {units.Dimensionless},
	Absorbance:          {units.Dimensionless},
}

// radianceOf maps an emission coefficient dimension to the radiance dimension
// obtained by integrating along the path.
var radianceOf = map[units.Dimension]units.Dimension{
	units.EmissionPerWavelength: units.RadiancePerWavelength,
	units.EmissionPerWavenumber: units.RadiancePerWavenumber,
}

// CheckUnit reports whether values of the named quantity may be expressed in
// unit. Names without a standard meaning accept any known quantity unit.
func CheckUnit(name, unit string) error {
	return checkDimension(name, unit)
}

func checkDimension(name, unit string) error {
	u, err := units.Quantity(unit)
	if err != nil {
		return err
	}
	dims, ok := expected[name]
	if !ok {
		return nil
	}
	for _, d := range dims {
		if u.Dimension == d {
			return nil
		}
	}
	return fmt.Errorf("%w: %s cannot be expressed in %q (%s)", ErrIncompatibleUnits, name, unit, u.Dimension)
}

// rule derives output from inputs. Rules for the same output are tried in
// table order; the first one whose inputs resolve wins.
type rule struct {
	output    string
	inputs    []string
	needsPath bool
	compute   func(in []Quantity, pathLength float64) (Quantity, error)
}

var rules = []rule{
	{
		output: TransmittanceNoSlit,
		inputs: []string{Absorbance},
		compute: func(in []Quantity, _ float64) (Quantity, error) {
			a, err := inBase(in[0], units.Dimensionless)
			if err != nil {
				return Quantity{}, err
			}
			return dimensionless(a, func(v float64) float64 { return math.Exp(-v) }), nil
		},
	},
	{
		output: Absorbance,
		inputs: []string{TransmittanceNoSlit},
		compute: func(in []Quantity, _ float64) (Quantity, error) {
			t, err := inBase(in[0], units.Dimensionless)
			if err != nil {
				return Quantity{}, err
			}
			return dimensionless(t, func(v float64) float64 { return -math.Log(v) }), nil
		},
	},
	{
		output:    Absorbance,
		inputs:    []string{AbsCoeff},
		needsPath: true,
		compute: func(in []Quantity, l float64) (Quantity, error) {
			k, err := inBase(in[0], units.AbsorptionCoefficient)
			if err != nil {
				return Quantity{}, err
			}
			return dimensionless(k, func(v float64) float64 { return v * l }), nil
		},
	},
	{
		output:    AbsCoeff,
		inputs:    []string{Absorbance},
		needsPath: true,
		compute: func(in []Quantity, l float64) (Quantity, error) {
			a, err := inBase(in[0], units.Dimensionless)
			if err != nil {
				return Quantity{}, err
			}
			out := make([]float64, len(a))
			for i, v := range a {
				out[i] = v / l
			}
			return Quantity{Values: out, Unit: units.Base(units.AbsorptionCoefficient)}, nil
		},
	},
	{
		output: EmissivityNoSlit,
		inputs: []string{TransmittanceNoSlit},
		compute: func(in []Quantity, _ float64) (Quantity, error) {
			t, err := inBase(in[0], units.Dimensionless)
			if err != nil {
				return Quantity{}, err
			}
			return dimensionless(t, func(v float64) float64 { return 1 - v }), nil
		},
	},
	{
		output:    RadianceNoSlit,
		inputs:    []string{EmissCoeff, AbsCoeff},
		needsPath: true,
		compute:   radianceFromCoefficients,
	},
}

// radianceFromCoefficients integrates a homogeneous slab:
// I = j (1 - exp(-k L)) / k, and I = j L where k == 0.
func radianceFromCoefficients(in []Quantity, l float64) (Quantity, error) {
	u, err := units.Quantity(in[0].Unit)
	if err != nil {
		return Quantity{}, err
	}
	dim, ok := radianceOf[u.Dimension]
	if !ok {
		return Quantity{}, fmt.Errorf("%w: %s in %q", ErrIncompatibleUnits, EmissCoeff, in[0].Unit)
	}
	j, err := inBase(in[0], u.Dimension)
	if err != nil {
		return Quantity{}, err
	}
	k, err := inBase(in[1], units.AbsorptionCoefficient)
	if err != nil {
		return Quantity{}, err
	}

	out := make([]float64, len(j))
	for i := range j {
		if k[i] == 0 {
			out[i] = j[i] * l
			continue
		}
		out[i] = j[i] * -math.Expm1(-k[i]*l) / k[i]
	}
	return Quantity{Values: out, Unit: units.Base(dim)}, nil
}

// inBase returns the values of q expressed in the base unit of dim.
func inBase(q Quantity, dim units.Dimension) ([]float64, error) {
	f, err := units.Factor(q.Unit, units.Base(dim))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatibleUnits, err)
	}
	out := make([]float64, len(q.Values))
	for i, v := range q.Values {
		out[i] = v * f
	}
	return out, nil
}

func dimensionless(in []float64, fn func(float64) float64) Quantity {
	for i, v := range in {
		in[i] = fn(v)
	}
	return Quantity{Values: in, Unit: ""}
}

// lookup returns the named quantity without copying it, caching what it
// derives.
func (s *Spectrum) lookup(name string) (Quantity, error) {
	return s.derive(name, make(map[string]bool), s.derived)
}

// peek is lookup with derived results kept in a scratch map.
func (s *Spectrum) peek(name string) (Quantity, error) {
	return s.derive(name, make(map[string]bool), make(map[string]Quantity))
}

func (s *Spectrum) derive(name string, visiting map[string]bool, cache map[string]Quantity) (Quantity, error) {
	if q, ok := s.stored[name]; ok {
		return q, nil
	}
	if q, ok := s.derived[name]; ok {
		return q, nil
	}
	if q, ok := cache[name]; ok {
		return q, nil
	}
	if visiting[name] {
		return Quantity{}, fmt.Errorf("%w: %s", ErrQuantityNotFound, name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	l, hasPath := s.PathLength()
	for _, r := range rules {
		if r.output != name || (r.needsPath && !hasPath) {
			continue
		}
		in, ok := s.resolveInputs(r.inputs, visiting, cache)
		if !ok {
			continue
		}
		q, err := r.compute(in, l)
		if err != nil {
			return Quantity{}, fmt.Errorf("spectrum: deriving %s: %w", name, err)
		}
		cache[name] = q
		return q, nil
	}
	return Quantity{}, fmt.Errorf("%w: %s", ErrQuantityNotFound, name)
}

func (s *Spectrum) resolveInputs(names []string, visiting map[string]bool, cache map[string]Quantity) ([]Quantity, bool) {
	in := make([]Quantity, len(names))
	for i, dep := range names {
		q, err := s.derive(dep, visiting, cache)
		if err != nil {
			return nil, false
		}
		in[i] = q
	}
	return in, true
}

// Derivable reports whether name is stored or can be derived from the stored
// quantities and conditions. It does not compute anything.
func (s *Spectrum) Derivable(name string) bool {
	return s.derivable(name, make(map[string]bool))
}

func (s *Spectrum) derivable(name string, visiting map[string]bool) bool {
	if _, ok := s.stored[name]; ok {
		return true
	}
	if _, ok := s.derived[name]; ok {
		return true
	}
	if visiting[name] {
		return false
	}
	visiting[name] = true
	defer delete(visiting, name)

	_, hasPath := s.PathLength()
	for _, r := range rules {
		if r.output != name || (r.needsPath && !hasPath) {
			continue
		}
		ok := true
		for _, dep := range r.inputs {
			if !s.derivable(dep, visiting) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Available returns the stored quantities plus every standard quantity that
// can be derived, sorted.
func (s *Spectrum) Available() []string {
	set := make(map[string]Quantity, len(s.stored))
	for name := range s.stored {
		set[name] = Quantity{}
	}
	for name := range expected {
		if s.Derivable(name) {
			set[name] = Quantity{}
		}
	}
	return sortedKeys(set)
}

// Update computes and caches derivable quantities. With no names, every
// derivable standard quantity is computed; otherwise each name must resolve.
func (s *Spectrum) Update(names ...string) error {
	if len(names) == 0 {
		for _, name := range sortedKeys(expected) {
			if !s.Derivable(name) {
				continue
			}
			if _, err := s.lookup(name); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range names {
		if _, err := s.lookup(name); err != nil {
			return err
		}
	}
	return nil
}
