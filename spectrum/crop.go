package spectrum

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectra/core"
)

// Crop restricts s to the samples whose axis value, expressed in unit, lies in
// the closed window [low, high]. Infinite bounds leave that side open.
//
// Selection is by index only; no value is interpolated. Stored quantities are
// cropped and cached derived quantities are dropped, to be recomputed from
// the cropped stored ones when requested.
//
// By default a new Spectrum is returned and s is left untouched. With
// [InPlace], s itself is cropped and returned. A window that selects no
// sample, an inverted window or NaN bounds fail with [ErrRange] and leave s
// unchanged.
func Crop(s *Spectrum, low, high float64, unit string, opts ...Option) (*Spectrum, error) {
	cfg := ApplyOptions(opts...)

	if math.IsNaN(low) || math.IsNaN(high) {
		return nil, fmt.Errorf("%w: crop bounds must not be NaN", ErrRange)
	}
	if low > high {
		return nil, fmt.Errorf("%w: crop window [%g, %g] is inverted", ErrRange, low, high)
	}

	x, err := s.axis.Convert(unit)
	if err != nil {
		return nil, err
	}

	indices := make([]int, 0, len(x))
	for i, v := range x {
		if v >= low && v <= high {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		lo, hi, _ := s.axis.Bounds(unit)
		return nil, fmt.Errorf("%w: window [%g, %g] %s does not intersect axis [%g, %g]",
			ErrRange, low, high, unit, lo, hi)
	}

	ax, err := s.axis.Select(indices)
	if err != nil {
		return nil, err
	}
	stored := make(map[string]Quantity, len(s.stored))
	for name, q := range s.stored {
		stored[name] = Quantity{Values: core.Gather(q.Values, indices), Unit: q.Unit}
	}

	cfg.Log().Debug("crop",
		zap.String("spectrum", s.Name),
		zap.Float64("low", low),
		zap.Float64("high", high),
		zap.String("unit", unit),
		zap.Int("kept", len(indices)),
		zap.Int("of", s.axis.Len()),
		zap.Bool("inplace", cfg.InPlace),
	)

	if cfg.InPlace {
		s.axis = ax
		s.stored = stored
		s.derived = make(map[string]Quantity)
		return s, nil
	}

	out := New(ax, s.conditions)
	out.Name = s.Name
	out.stored = stored
	return out, nil
}

// Crop restricts s in place, see [Crop].
func (s *Spectrum) Crop(low, high float64, unit string) error {
	_, err := Crop(s, low, high, unit, InPlace())
	return err
}
