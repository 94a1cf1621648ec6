package arith_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-spectra/arith"
	"github.com/cwbudde/algo-spectra/compare"
	"github.com/cwbudde/algo-spectra/internal/testutil"
	"github.com/cwbudde/algo-spectra/spectrum"
	"github.com/cwbudde/algo-spectra/units"
)

func TestIdentityLaws(t *testing.T) {
	s := testutil.RadianceNM()

	tests := []struct {
		name string
		fn   func() (*spectrum.Spectrum, error)
	}{
		{"add zero", func() (*spectrum.Spectrum, error) {
			return arith.AddConstant(s, 0, "W/cm2/sr/nm")
		}},
		{"add zero in other unit", func() (*spectrum.Spectrum, error) {
			return arith.AddConstant(s, 0, "mW/cm2/sr/nm")
		}},
		{"multiply one", func() (*spectrum.Spectrum, error) {
			return arith.Multiply(s, 1)
		}},
		{"three s over three", func() (*spectrum.Spectrum, error) {
			m, err := arith.Multiply(s, 3)
			if err != nil {
				return nil, err
			}
			return arith.Divide(m, 3)
		}},
		{"one plus s minus one", func() (*spectrum.Spectrum, error) {
			p, err := arith.AddConstant(s, 1, "W/cm2/sr/nm")
			if err != nil {
				return nil, err
			}
			return arith.SubtractConstant(p, 1, "W/cm2/sr/nm")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			require.NoError(t, err)
			eq, err := compare.Spectra(got, s)
			require.NoError(t, err)
			require.True(t, eq)
		})
	}
}

func TestInPlaceMatchesOutOfPlace(t *testing.T) {
	s := testutil.RadianceNM()
	orig := s.Copy()

	added, err := arith.AddConstant(s, 1, "W/cm2/sr/nm")
	require.NoError(t, err)
	s2 := s.Copy()
	require.NoError(t, arith.AddConstantInPlace(s2, 1, "W/cm2/sr/nm"))
	requireIdentical(t, added, s2, spectrum.RadianceNoSlit)

	scaled, err := arith.Multiply(s, 10)
	require.NoError(t, err)
	s3 := s.Copy()
	require.NoError(t, arith.MultiplyInPlace(s3, 10))
	requireIdentical(t, scaled, s3, spectrum.RadianceNoSlit)

	eq, err := compare.Spectra(s, orig, compare.WithTolerance(1e-300))
	require.NoError(t, err)
	require.True(t, eq, "out-of-place operations modified their input")
}

func TestInPlaceTouchesOnlyActiveQuantity(t *testing.T) {
	s := testutil.COBand()
	before, err := s.Get(spectrum.EmissCoeff)
	require.NoError(t, err)

	require.NoError(t, arith.MultiplyInPlace(s, 2, arith.WithQuantity(spectrum.AbsCoeff)))

	after, err := s.Get(spectrum.EmissCoeff)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestScalarOnDerivedQuantity(t *testing.T) {
	s := testutil.COBand()
	stored := s.Stored()
	tr, err := s.Get(spectrum.TransmittanceNoSlit)
	require.NoError(t, err)

	err = arith.MultiplyInPlace(s, 0.5, arith.WithQuantity(spectrum.TransmittanceNoSlit))
	require.ErrorIs(t, err, spectrum.ErrQuantityNotFound)
	require.Equal(t, stored, s.Stored())
	_, err = arith.Multiply(s, 0.5, arith.WithQuantity(spectrum.TransmittanceNoSlit))
	require.ErrorIs(t, err, spectrum.ErrQuantityNotFound)

	// The stored coefficients still agree with the derived transmittance.
	again, err := s.Get(spectrum.TransmittanceNoSlit)
	require.NoError(t, err)
	require.Equal(t, tr, again)

	only, err := s.Take(spectrum.TransmittanceNoSlit)
	require.NoError(t, err)
	out, err := arith.Multiply(only, 0.5)
	require.NoError(t, err)
	got, err := out.Get(spectrum.TransmittanceNoSlit)
	require.NoError(t, err)
	for i := range tr.Values {
		require.Equal(t, tr.Values[i]*0.5, got.Values[i])
	}
}

func TestFactorUnit(t *testing.T) {
	s := testutil.Simple(spectrum.TransmittanceNoSlit, []float64{1, 2}, []float64{0.5, 0.8}, "")

	out, err := arith.Multiply(s, 50, arith.WithFactorUnit("%"))
	require.NoError(t, err)
	q, err := out.Get(spectrum.TransmittanceNoSlit)
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, q.Values, []float64{0.25, 0.4}, 1e-15)

	_, err = arith.Multiply(s, 2, arith.WithFactorUnit("W/cm2/sr/nm"))
	require.ErrorIs(t, err, units.ErrUnit)
	_, err = arith.Multiply(s, 2, arith.WithFactorUnit("K"))
	require.ErrorIs(t, err, units.ErrUnit)
}

func TestScalarErrors(t *testing.T) {
	band := testutil.COBand()
	radiance := testutil.RadianceNM()

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"ambiguous", arith.MultiplyInPlace(band.Copy(), 2), spectrum.ErrAmbiguousQuantity},
		{"not found", arith.MultiplyInPlace(band.Copy(), 2, arith.WithQuantity(spectrum.Radiance)), spectrum.ErrQuantityNotFound},
		{"wrong dimension", arith.AddConstantInPlace(radiance.Copy(), 1, "cm-1"), spectrum.ErrUnit},
		{"unknown unit", arith.AddConstantInPlace(radiance.Copy(), 1, "K"), spectrum.ErrUnit},
		{"wavenumber radiance", arith.AddConstantInPlace(radiance.Copy(), 1, "W/cm2/sr/cm-1"), spectrum.ErrUnit},
		{"divide by zero", arith.DivideInPlace(radiance.Copy(), 0), spectrum.ErrRange},
		{"empty", arith.MultiplyInPlace(spectrum.New(radiance.Axis(), nil), 2), spectrum.ErrQuantityNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.err, tt.wantErr)
		})
	}
}

func TestFailedInPlaceLeavesSpectrum(t *testing.T) {
	s := testutil.RadianceNM()
	orig := s.Copy()

	require.Error(t, arith.AddConstantInPlace(s, 1, "cm-1"))
	require.Error(t, arith.DivideInPlace(s, 0))

	eq, err := compare.Spectra(s, orig, compare.WithTolerance(1e-300))
	require.NoError(t, err)
	require.True(t, eq)
}

func requireIdentical(t *testing.T, a, b *spectrum.Spectrum, name string) {
	t.Helper()
	qa, err := a.Get(name)
	require.NoError(t, err)
	qb, err := b.Get(name)
	require.NoError(t, err)
	require.Equal(t, qa, qb)
}
