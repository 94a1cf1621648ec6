package slabs_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cwbudde/algo-spectra/axis"
	"github.com/cwbudde/algo-spectra/compare"
	"github.com/cwbudde/algo-spectra/internal/testutil"
	"github.com/cwbudde/algo-spectra/slabs"
	"github.com/cwbudde/algo-spectra/spectrum"
	"github.com/cwbudde/algo-spectra/spectrum/resample"
	"github.com/cwbudde/algo-spectra/units"
)

func split(t *testing.T, s *spectrum.Spectrum, cut float64, unit string) (lo, hi *spectrum.Spectrum) {
	t.Helper()
	first, last, err := s.Axis().Bounds(unit)
	require.NoError(t, err)
	lo, err = spectrum.Crop(s, first, cut, unit)
	require.NoError(t, err)
	hi, err = spectrum.Crop(s, cut, last, unit)
	require.NoError(t, err)
	return lo, hi
}

func TestSplitAndMergeTransmittance(t *testing.T) {
	s := testutil.COTransmittance()
	lo, hi := split(t, s, 2177, "cm-1")
	require.Equal(t, 355, lo.Len())
	require.Equal(t, 247, hi.Len())

	merged, err := slabs.Merge(lo, hi, slabs.WithResample(resample.Full), slabs.WithCombine(slabs.Transparent))
	require.NoError(t, err)
	require.Equal(t, s.Len(), merged.Len())

	want, err := s.Get(spectrum.TransmittanceNoSlit)
	require.NoError(t, err)
	got, err := merged.Get(spectrum.TransmittanceNoSlit)
	require.NoError(t, err)
	testutil.RequireSliceRelEqual(t, got.Values, want.Values, 1e-8)

	eq, err := compare.Spectra(s, merged, compare.WithQuantity(spectrum.TransmittanceNoSlit), compare.WithTolerance(1e-8))
	require.NoError(t, err)
	require.True(t, eq)
}

func TestSplitAndMergeIsNoOp(t *testing.T) {
	tests := []struct {
		name string
		cut  float64
		unit string
	}{
		{"wavenumber", 2177, "cm-1"},
		{"wavelength", 0, "nm"},
		{"first sample", testutil.BandStart, "cm-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testutil.COBand()
			cut := tt.cut
			if tt.unit == "nm" {
				var err error
				cut, err = units.ConvertSpectralValue(2177, "cm-1", "nm")
				require.NoError(t, err)
			}
			lo, hi := split(t, s, cut, tt.unit)

			for _, pair := range [][2]*spectrum.Spectrum{{lo, hi}, {hi, lo}} {
				merged, err := slabs.Merge(pair[0], pair[1], slabs.WithResample(resample.Full))
				require.NoError(t, err)
				eq, err := compare.Spectra(s, merged, compare.WithConditions())
				require.NoError(t, err)
				require.True(t, eq)
				require.Equal(t, s.Name, merged.Name)
				require.Equal(t, "cm-1", merged.Axis().Unit())
			}
		})
	}
}

func TestMergeDisjoint(t *testing.T) {
	s := testutil.COBand()
	a, err := spectrum.Crop(s, 2000, 2100, "cm-1")
	require.NoError(t, err)
	b, err := spectrum.Crop(s, 2200, 2300, "cm-1")
	require.NoError(t, err)

	merged, err := slabs.Merge(b, a, slabs.WithCombine(slabs.Concat))
	require.NoError(t, err)
	require.Equal(t, 402, merged.Len())
	require.True(t, merged.Axis().Increasing())

	k, err := merged.Get(spectrum.AbsCoeff)
	require.NoError(t, err)
	full, err := s.Get(spectrum.AbsCoeff)
	require.NoError(t, err)
	require.Equal(t, full.Values[0], k.Values[0])
	require.Equal(t, full.Values[testutil.BandPoints-1], k.Values[401])
}

func TestMergeDecreasingAxis(t *testing.T) {
	a := testutil.Simple("q", []float64{5, 4, 3}, []float64{50, 40, 30}, "")
	b := testutil.Simple("q", []float64{3, 2, 1}, []float64{30, 20, 10}, "")

	merged, err := slabs.Merge(b, a)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 4, 3, 2, 1}, merged.Axis().Values())
	q, err := merged.Get("q")
	require.NoError(t, err)
	require.Equal(t, []float64{50, 40, 30, 20, 10}, q.Values)
}

func TestMergeErrors(t *testing.T) {
	nm := testutil.Simple(spectrum.TransmittanceNoSlit, []float64{1, 2, 3}, []float64{1, 1, 1}, "")
	shifted := testutil.Simple(spectrum.TransmittanceNoSlit, []float64{2, 3, 4}, []float64{1, 1, 1}, "")
	wn := spectrum.New(axis.MustNew([]float64{1, 2, 3}, "cm-1"), nil)
	require.NoError(t, wn.Set(spectrum.TransmittanceNoSlit, []float64{1, 1, 1}, ""))
	perNM := testutil.Simple(spectrum.RadianceNoSlit, []float64{1, 2, 3}, []float64{1, 1, 1}, "W/cm2/sr/nm")
	perCM := testutil.Simple(spectrum.RadianceNoSlit, []float64{1, 2, 3}, []float64{1, 1, 1}, "W/cm2/sr/cm-1")
	custom := testutil.Simple("q", []float64{1, 2, 3}, []float64{1, 1, 1}, "")

	tests := []struct {
		name    string
		a, b    *spectrum.Spectrum
		opts    []slabs.Option
		wantErr error
	}{
		{"unit family", nm, wn, nil, spectrum.ErrUnit},
		{"overlap in concat mode", nm, shifted, []slabs.Option{slabs.WithCombine(slabs.Concat)}, spectrum.ErrOverlap},
		{"overlap without resampling", nm, shifted, nil, spectrum.ErrAxisMismatch},
		{"additive needs coverage", nm, shifted, []slabs.Option{slabs.WithCombine(slabs.Additive), slabs.WithResample(resample.Full)}, spectrum.ErrRange},
		{"incompatible quantity units", perNM, perCM, nil, spectrum.ErrIncompatibleUnits},
		{"nothing in common", nm, custom, nil, spectrum.ErrQuantityNotFound},
		{"custom only in transparent mode", custom, custom.Copy(), nil, spectrum.ErrQuantityNotFound},
		{"empty", nm, spectrum.New(axis.MustNew(nil, "nm"), nil), nil, spectrum.ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := slabs.Merge(tt.a, tt.b, tt.opts...)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransparentSlabs(t *testing.T) {
	x := []float64{1, 2, 3}
	a, err := spectrum.FromArrays(x, "nm",
		map[string][]float64{
			spectrum.RadianceNoSlit:      {1, 2, 3},
			spectrum.TransmittanceNoSlit: {0.5, 0.5, 1},
			"note":                       {7, 7, 7},
		},
		map[string]string{spectrum.RadianceNoSlit: "W/cm2/sr/nm"},
		map[string]any{spectrum.PathLengthKey: 1.0, "Tgas": 300.0},
	)
	require.NoError(t, err)
	b, err := spectrum.FromArrays(x, "nm",
		map[string][]float64{
			spectrum.RadianceNoSlit:      {1000, 1000, 1000},
			spectrum.TransmittanceNoSlit: {0.5, 1, 0.25},
			"note":                       {1, 1, 1},
		},
		map[string]string{spectrum.RadianceNoSlit: "mW/cm2/sr/nm"},
		map[string]any{spectrum.PathLengthKey: 1.0, "Tgas": 400.0},
	)
	require.NoError(t, err)

	merged, err := slabs.Merge(a, b)
	require.NoError(t, err)
	require.Equal(t, []string{spectrum.RadianceNoSlit, spectrum.TransmittanceNoSlit}, merged.Stored())

	r, err := merged.Get(spectrum.RadianceNoSlit)
	require.NoError(t, err)
	require.Equal(t, "W/cm2/sr/nm", r.Unit)
	testutil.RequireSliceNearlyEqual(t, r.Values, []float64{2, 3, 4}, 1e-12)

	tr, err := merged.Get(spectrum.TransmittanceNoSlit)
	require.NoError(t, err)
	require.Equal(t, []float64{0.25, 0.5, 0.25}, tr.Values)

	require.Equal(t, map[string]any{spectrum.PathLengthKey: 1.0}, merged.Conditions())
}

func TestTransparentEmissivity(t *testing.T) {
	x := []float64{1, 2}
	a := testutil.Simple(spectrum.EmissivityNoSlit, x, []float64{0.5, 0.2}, "")
	b := testutil.Simple(spectrum.EmissivityNoSlit, x, []float64{0.5, 0.5}, "")

	merged, err := slabs.Merge(a, b)
	require.NoError(t, err)
	e, err := merged.Get(spectrum.EmissivityNoSlit)
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, e.Values, []float64{0.75, 0.6}, 1e-15)
}

func TestTransparentPadding(t *testing.T) {
	a, err := spectrum.FromArrays([]float64{1, 2, 3, 4}, "nm",
		map[string][]float64{spectrum.Absorbance: {1, 1, 1, 1}, spectrum.TransmittanceNoSlit: {0.5, 0.5, 0.5, 0.5}}, nil, nil)
	require.NoError(t, err)
	b, err := spectrum.FromArrays([]float64{3, 4, 5, 6}, "nm",
		map[string][]float64{spectrum.Absorbance: {2, 2, 2, 2}, spectrum.TransmittanceNoSlit: {0.5, 0.5, 0.5, 0.5}}, nil, nil)
	require.NoError(t, err)

	merged, err := slabs.Merge(a, b, slabs.WithResample(resample.Full))
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 4, 5, 6}, merged.Axis().Values())

	abs, err := merged.Get(spectrum.Absorbance)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1, 3, 3, 2, 2}, abs.Values)
	tr, err := merged.Get(spectrum.TransmittanceNoSlit)
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 0.5, 0.25, 0.25, 0.5, 0.5}, tr.Values)
}

func TestTouchingWithDifferentValues(t *testing.T) {
	a := testutil.Simple(spectrum.RadianceNoSlit, []float64{1, 2, 3}, []float64{1, 1, 1}, "W/cm2/sr/nm")
	b := testutil.Simple(spectrum.RadianceNoSlit, []float64{3, 4, 5}, []float64{2, 2, 2}, "W/cm2/sr/nm")

	_, err := slabs.Merge(a, b, slabs.WithCombine(slabs.Concat))
	require.ErrorIs(t, err, spectrum.ErrOverlap)

	merged, err := slabs.Merge(a, b, slabs.WithResample(resample.Full))
	require.NoError(t, err)
	r, err := merged.Get(spectrum.RadianceNoSlit)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1, 3, 2, 2}, r.Values)
}

func TestAdditiveAndMultiplicativeModes(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	a := testutil.Simple("q", x, []float64{1, 2, 3, 4}, "")
	b := testutil.Simple("q", x, []float64{2, 2, 2, 2}, "")

	sum, err := slabs.Merge(a, b, slabs.WithCombine(slabs.Additive))
	require.NoError(t, err)
	q, err := sum.Get("q")
	require.NoError(t, err)
	require.Equal(t, []float64{3, 4, 5, 6}, q.Values)

	prod, err := slabs.Merge(a, b, slabs.WithCombine(slabs.Multiplicative))
	require.NoError(t, err)
	q, err = prod.Get("q")
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4, 6, 8}, q.Values)

	shifted := testutil.Simple("q", []float64{2, 3, 4, 5}, []float64{1, 1, 1, 1}, "")
	inter, err := slabs.Merge(a, shifted, slabs.WithCombine(slabs.Additive), slabs.WithResample(resample.Intersect))
	require.NoError(t, err)
	q, err = inter.Get("q")
	require.NoError(t, err)
	require.Equal(t, []float64{3, 4, 5}, q.Values)
}

func TestLooseToleranceKeepsUnionGrid(t *testing.T) {
	x := make([]float64, 21)
	shifted := make([]float64, 21)
	for i := range x {
		x[i] = 2000 + 0.5*float64(i)
		shifted[i] = x[i] + 1
	}
	a := testutil.Simple(spectrum.TransmittanceNoSlit, x, testutil.DC(0.5, 21), "")
	b := testutil.Simple(spectrum.TransmittanceNoSlit, shifted, testutil.DC(0.5, 21), "")

	for _, tol := range []float64{0, 1e-3} {
		merged, err := slabs.Merge(a, b, slabs.WithResample(resample.Full), slabs.WithTolerance(tol))
		require.NoError(t, err)
		require.Equal(t, 23, merged.Len())

		q, err := merged.Get(spectrum.TransmittanceNoSlit)
		require.NoError(t, err)
		require.Equal(t, 0.5, q.Values[0])
		require.Equal(t, 0.25, q.Values[2])
		require.Equal(t, 0.5, q.Values[22])
	}
}

func TestMergeLeavesInputCachesAlone(t *testing.T) {
	s := testutil.COBand()
	tr := testutil.COTransmittance()

	_, err := slabs.Merge(s, tr, slabs.WithResample(resample.Full))
	require.NoError(t, err)
	require.Empty(t, s.Derived())
	require.Empty(t, tr.Derived())
}

func TestMergeLogsLayout(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lo, hi := split(t, testutil.COBand(), 2177, "cm-1")

	_, err := slabs.Merge(lo, hi, slabs.WithLogger(zap.New(core)))
	require.NoError(t, err)

	entries := logs.FilterMessage("merge").All()
	require.Len(t, entries, 1)
	require.Equal(t, "touching", entries[0].ContextMap()["layout"])
	require.Equal(t, int64(testutil.BandPoints), entries[0].ContextMap()["merged"])
}

func TestParseCombineMode(t *testing.T) {
	for _, m := range []slabs.CombineMode{slabs.Transparent, slabs.Concat, slabs.Additive, slabs.Multiplicative} {
		got, err := slabs.ParseCombineMode(m.String())
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
	_, err := slabs.ParseCombineMode("stacked")
	require.Error(t, err)
}
