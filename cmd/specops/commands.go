package main

import (
	"fmt"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-spectra/arith"
	"github.com/cwbudde/algo-spectra/compare"
	"github.com/cwbudde/algo-spectra/slabs"
	"github.com/cwbudde/algo-spectra/slit"
	"github.com/cwbudde/algo-spectra/spectrum"
	"github.com/cwbudde/algo-spectra/spectrum/resample"
	"github.com/cwbudde/algo-spectra/stats/band"
	"github.com/cwbudde/algo-spectra/units"
)

func (a *app) unitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List the supported axis and quantity units",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Axis unit\tFamily\tCanonical\tScale\n")
			for _, sym := range units.SpectralSymbols() {
				u, err := units.Spectral(sym)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%g\n", sym, u.Family, u.Symbol, u.Scale)
			}
			fmt.Fprintf(tw, "\nQuantity unit\tDimension\tScale\t\n")
			for _, sym := range units.QuantitySymbols() {
				u, err := units.Quantity(sym)
				if err != nil {
					return err
				}
				label := sym
				if label == "" {
					label = `""`
				}
				fmt.Fprintf(tw, "%s\t%s\t%g\t\n", label, u.Dimension, u.Scale)
			}
			return tw.Flush()
		},
	}
}

func (a *app) infoCmd() *cobra.Command {
	var axisUnit string
	cmd := &cobra.Command{
		Use:   "info [quantity ...]",
		Short: "Print band statistics of stored and derivable quantities",
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := a.band()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, s)
			names := args
			if len(names) == 0 {
				names = s.Available()
			}
			return a.printStats(s, names, axisUnit)
		},
	}
	cmd.Flags().StringVar(&axisUnit, "unit", "", "axis unit for positions and integrals (default: the band unit)")
	return cmd
}

func (a *app) printStats(s *spectrum.Spectrum, names []string, axisUnit string) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Quantity\tUnit\tPoints\tMin\tMax\tMax at\tIntegral\tCentroid\tFWHM\n")
	for _, name := range names {
		st, err := band.Of(s, name, axisUnit)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.4g\t%.4g\t%.6g %s\t%.4g\t%.6g\t%.4g\n",
			st.Quantity, st.Unit, st.Count, st.Min, st.Max, st.MaxAt, st.AxisUnit,
			st.Integral, st.Centroid, st.Bandwidth)
	}
	return tw.Flush()
}

func (a *app) cropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crop LOW HIGH UNIT",
		Short: "Crop the band to a closed window (inf for open ends)",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			low, high, err := parseWindow(args[0], args[1])
			if err != nil {
				return err
			}
			s, err := a.band()
			if err != nil {
				return err
			}
			before := s.Len()
			cropped, err := spectrum.Crop(s, low, high, args[2],
				spectrum.WithTolerance(a.tolerance), spectrum.WithLogger(a.logger))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "kept %d of %d samples\n%v\n", cropped.Len(), before, cropped)
			return nil
		},
	}
}

func (a *app) splitCmd() *cobra.Command {
	var policy, mode string
	cmd := &cobra.Command{
		Use:   "split CUT UNIT",
		Short: "Cut the band in two, merge the halves back and compare with the uncut band",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			cut, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid cut %q: %w", args[0], err)
			}
			p, err := resample.ParsePolicy(policy)
			if err != nil {
				return err
			}
			m, err := slabs.ParseCombineMode(mode)
			if err != nil {
				return err
			}

			s, err := a.band()
			if err != nil {
				return err
			}
			left, err := spectrum.Crop(s, math.Inf(-1), cut, args[1])
			if err != nil {
				return err
			}
			right, err := spectrum.Crop(s, cut, math.Inf(1), args[1])
			if err != nil {
				return err
			}
			merged, err := slabs.Merge(left, right,
				slabs.WithResample(p), slabs.WithCombine(m),
				slabs.WithTolerance(a.tolerance), slabs.WithLogger(a.logger))
			if err != nil {
				return err
			}
			report, err := compare.Diff(merged, s, compare.WithConditions(),
				compare.WithTolerance(a.tolerance), compare.WithLogger(a.logger))
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "left   %v\nright  %v\nmerged %v\n%s", left.Axis(), right.Axis(), merged.Axis(), report)
			if !report.Equal() {
				return fmt.Errorf("%w: recombined band", errMismatch)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&policy, "resample", resample.Full.String(), "grid policy for overlapping slabs")
	cmd.Flags().StringVar(&mode, "combine", slabs.Transparent.String(), "slab combination mode")
	return cmd
}

func (a *app) identityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identity",
		Short: "Check the arithmetic identity laws on radiance_noslit",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			s, err := a.band()
			if err != nil {
				return err
			}
			r, err := s.Take(spectrum.RadianceNoSlit)
			if err != nil {
				return err
			}
			failed := 0
			for _, law := range identityLaws(r) {
				ok, err := law.check(r, a.compareOptions()...)
				if err != nil {
					return fmt.Errorf("%s: %w", law.name, err)
				}
				status := "ok"
				if !ok {
					status = "FAILED"
					failed++
				}
				fmt.Fprintf(a.out, "%-18s %s\n", law.name, status)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d identity laws failed", errMismatch, failed)
			}
			return nil
		},
	}
}

func (a *app) compareOptions() []compare.Option {
	return []compare.Option{compare.WithTolerance(a.tolerance), compare.WithLogger(a.logger)}
}

type identityLaw struct {
	name  string
	check func(s *spectrum.Spectrum, opts ...compare.Option) (bool, error)
}

// equalTo wraps an out-of-place transform into a law "transform(s) == s".
func equalTo(fn func(s *spectrum.Spectrum) (*spectrum.Spectrum, error)) func(*spectrum.Spectrum, ...compare.Option) (bool, error) {
	return func(s *spectrum.Spectrum, opts ...compare.Option) (bool, error) {
		out, err := fn(s)
		if err != nil {
			return false, err
		}
		return compare.Spectra(out, s, opts...)
	}
}

// maxAfter checks that an in-place transform maps the maximum through want.
func maxAfter(fn func(s *spectrum.Spectrum) error, want func(float64) float64) func(*spectrum.Spectrum, ...compare.Option) (bool, error) {
	return func(s *spectrum.Spectrum, _ ...compare.Option) (bool, error) {
		before, err := s.Get(spectrum.RadianceNoSlit)
		if err != nil {
			return false, err
		}
		c := s.Copy()
		if err := fn(c); err != nil {
			return false, err
		}
		after, err := c.Get(spectrum.RadianceNoSlit)
		if err != nil {
			return false, err
		}
		return floats.Max(after.Values) == want(floats.Max(before.Values)), nil
	}
}

func identityLaws(s *spectrum.Spectrum) []identityLaw {
	unit, _ := s.Unit(spectrum.RadianceNoSlit)
	return []identityLaw{
		{"s+0 == s", equalTo(func(s *spectrum.Spectrum) (*spectrum.Spectrum, error) {
			return arith.AddConstant(s, 0, unit)
		})},
		{"s*1 == s", equalTo(func(s *spectrum.Spectrum) (*spectrum.Spectrum, error) {
			return arith.Multiply(s, 1)
		})},
		{"3*s/3 == s", equalTo(func(s *spectrum.Spectrum) (*spectrum.Spectrum, error) {
			t, err := arith.Multiply(s, 3)
			if err != nil {
				return nil, err
			}
			return arith.Divide(t, 3)
		})},
		{"(1+s)-1 == s", equalTo(func(s *spectrum.Spectrum) (*spectrum.Spectrum, error) {
			t, err := arith.AddConstant(s, 1, unit)
			if err != nil {
				return nil, err
			}
			return arith.SubtractConstant(t, 1, unit)
		})},
		{"s+s == 2*s", func(s *spectrum.Spectrum, opts ...compare.Option) (bool, error) {
			sum, err := arith.Add(s, s)
			if err != nil {
				return false, err
			}
			twice, err := arith.Multiply(s, 2)
			if err != nil {
				return false, err
			}
			return compare.Spectra(sum, twice, opts...)
		}},
		{"s += 1", maxAfter(func(s *spectrum.Spectrum) error {
			return arith.AddConstantInPlace(s, 1, unit)
		}, func(m float64) float64 { return m + 1 })},
		{"s *= 10", maxAfter(func(s *spectrum.Spectrum) error {
			return arith.MultiplyInPlace(s, 10)
		}, func(m float64) float64 { return m * 10 })},
	}
}

func (a *app) slitCmd() *cobra.Command {
	var shape string
	cmd := &cobra.Command{
		Use:   "slit FWHM UNIT",
		Short: "Convolve the band with an instrumental slit and print the convolved quantities",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			fwhm, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid FWHM %q: %w", args[0], err)
			}
			sh, err := slit.ParseShape(shape)
			if err != nil {
				return err
			}
			s, err := a.band()
			if err != nil {
				return err
			}
			if err := slit.Apply(s, fwhm, args[1], slit.WithShape(sh), slit.WithLogger(a.logger)); err != nil {
				return err
			}
			fmt.Fprintln(a.out, s)
			return a.printStats(s, []string{spectrum.RadianceNoSlit, spectrum.Radiance, spectrum.Transmittance}, "")
		},
	}
	cmd.Flags().StringVar(&shape, "shape", slit.Triangular.String(), "slit shape (triangular, gaussian, rectangular)")
	return cmd
}

func parseWindow(lo, hi string) (low, high float64, err error) {
	if low, err = strconv.ParseFloat(lo, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid low bound %q: %w", lo, err)
	}
	if high, err = strconv.ParseFloat(hi, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid high bound %q: %w", hi, err)
	}
	return low, high, nil
}
