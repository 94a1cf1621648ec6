package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-spectra/axis"
	"github.com/cwbudde/algo-spectra/spectrum"
	"github.com/cwbudde/algo-spectra/units"
)

// Recipe describes a synthetic band of Lorentzian lines over a uniform axis.
// abscoeff is stored in cm-1 and emisscoeff is proportional to it.
type Recipe struct {
	Name       string         `yaml:"name"`
	Unit       string         `yaml:"unit"`
	Start      float64        `yaml:"start"`
	Stop       float64        `yaml:"stop"`
	Points     int            `yaml:"points"`
	PathLength float64        `yaml:"path_length"` // cm
	Background float64        `yaml:"background"`  // cm-1
	Emission   float64        `yaml:"emission"`    // emisscoeff per unit abscoeff
	Lines      LineSet        `yaml:"lines"`
	Conditions map[string]any `yaml:"conditions"`
}

// LineSet places Count lines evenly over the axis, with a sine envelope on the
// peaks and a seeded jitter on positions and heights.
type LineSet struct {
	Count int     `yaml:"count"`
	FWHM  float64 `yaml:"fwhm"` // axis unit
	Peak  float64 `yaml:"peak"` // cm-1
	Seed  uint64  `yaml:"seed"`
}

// DefaultRecipe is a CO-like fundamental band at 0.5 cm-1 resolution.
func DefaultRecipe() Recipe {
	return Recipe{
		Name:       "co-band",
		Unit:       "cm-1",
		Start:      2000,
		Stop:       2300,
		Points:     601,
		PathLength: 10,
		Background: 1e-5,
		Emission:   2e-5,
		Lines:      LineSet{Count: 40, FWHM: 0.8, Peak: 0.05, Seed: 1},
		Conditions: map[string]any{
			"Tgas":          1500.0,
			"mole_fraction": 0.01,
			"pressure_mbar": 1013.25,
		},
	}
}

// loadRecipe reads a YAML recipe on top of [DefaultRecipe]. An empty path
// returns the default.
func loadRecipe(path string) (Recipe, error) {
	r := DefaultRecipe()
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Recipe{}, fmt.Errorf("failed to read recipe: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return Recipe{}, fmt.Errorf("failed to parse recipe %s: %w", path, err)
	}
	return r, nil
}

// Build synthesises the spectrum.
func (r Recipe) Build() (*spectrum.Spectrum, error) {
	if r.Points < 2 {
		return nil, fmt.Errorf("recipe: need at least 2 points, got %d", r.Points)
	}
	if !(r.PathLength > 0) {
		return nil, fmt.Errorf("recipe: path_length must be positive, got %g", r.PathLength)
	}
	su, err := units.Spectral(r.Unit)
	if err != nil {
		return nil, err
	}
	ax, err := axis.Linspace(r.Start, r.Stop, r.Points, r.Unit)
	if err != nil {
		return nil, err
	}

	x := ax.Values()
	k := make([]float64, len(x))
	j := make([]float64, len(x))
	lines := r.Lines.place(r.Start, r.Stop)
	for i, v := range x {
		k[i] = r.Background
		for _, l := range lines {
			k[i] += l.at(v)
		}
		j[i] = r.Emission * k[i]
	}

	emissUnit := "W/cm3/sr/nm"
	if su.Family == units.Wavenumber {
		emissUnit = "W/cm3/sr/cm-1"
	}

	conditions := maps.Clone(r.Conditions)
	if conditions == nil {
		conditions = make(map[string]any)
	}
	conditions[spectrum.PathLengthKey] = r.PathLength

	s := spectrum.New(ax, conditions)
	s.Name = r.Name
	if err := s.Set(spectrum.AbsCoeff, k, "cm-1"); err != nil {
		return nil, err
	}
	if err := s.Set(spectrum.EmissCoeff, j, emissUnit); err != nil {
		return nil, err
	}
	return s, nil
}

type line struct{ center, hw, peak float64 }

func (l line) at(x float64) float64 {
	d := x - l.center
	return l.peak * l.hw * l.hw / (d*d + l.hw*l.hw)
}

func (ls LineSet) place(start, stop float64) []line {
	rng := rand.New(rand.NewPCG(ls.Seed, ls.Seed))
	out := make([]line, ls.Count)
	step := (stop - start) / float64(ls.Count+1)
	for i := range out {
		pos := float64(i+1) / float64(ls.Count+1)
		out[i] = line{
			center: start + float64(i+1)*step + (rng.Float64()-0.5)*step*0.2,
			hw:     ls.FWHM / 2,
			peak:   ls.Peak * math.Sin(math.Pi*pos) * (0.8 + 0.4*rng.Float64()),
		}
	}
	return out
}
