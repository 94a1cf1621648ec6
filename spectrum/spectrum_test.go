package spectrum_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cwbudde/algo-spectra/axis"
	"github.com/cwbudde/algo-spectra/internal/testutil"
	"github.com/cwbudde/algo-spectra/spectrum"
)

func TestSetValidates(t *testing.T) {
	s := spectrum.New(axis.MustNew([]float64{1, 2, 3}, "nm"), nil)

	tests := []struct {
		name    string
		qname   string
		values  []float64
		unit    string
		wantErr error
	}{
		{name: "ok", qname: spectrum.TransmittanceNoSlit, values: []float64{1, 1, 1}, unit: ""},
		{name: "custom name", qname: "my_signal", values: []float64{1, 2, 3}, unit: "W/cm2/sr/nm"},
		{name: "short", qname: spectrum.Absorbance, values: []float64{1}, unit: "", wantErr: spectrum.ErrLength},
		{name: "unknown unit", qname: spectrum.Absorbance, values: []float64{1, 2, 3}, unit: "K", wantErr: spectrum.ErrUnit},
		{name: "wrong dimension", qname: spectrum.TransmittanceNoSlit, values: []float64{1, 2, 3}, unit: "W/cm2/sr/nm", wantErr: spectrum.ErrIncompatibleUnits},
		{name: "empty name", qname: "", values: []float64{1, 2, 3}, unit: "", wantErr: spectrum.ErrQuantityNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Set(tt.qname, tt.values, tt.unit)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Set error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Set error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetAndGetCopy(t *testing.T) {
	values := []float64{0.5, 0.25}
	s := spectrum.New(axis.MustNew([]float64{1, 2}, "nm"), nil)
	if err := s.Set(spectrum.TransmittanceNoSlit, values, "1"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	values[0] = 9

	q, err := s.Get(spectrum.TransmittanceNoSlit)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if q.Values[0] != 0.5 || q.Unit != "" {
		t.Fatalf("Get = %+v, want stored copy with canonical unit", q)
	}
	q.Values[1] = 7

	again, _ := s.Get(spectrum.TransmittanceNoSlit)
	if again.Values[1] != 0.25 {
		t.Fatal("Get returned an alias of the stored array")
	}
}

func TestDerivationChain(t *testing.T) {
	s := spectrum.New(axis.MustNew([]float64{1, 2, 3}, "nm"), map[string]any{spectrum.PathLengthKey: 2.0})
	if err := s.Set(spectrum.AbsCoeff, []float64{0, 0.5, 1}, "cm-1"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	tr, err := s.Get(spectrum.TransmittanceNoSlit)
	if err != nil {
		t.Fatalf("Get transmittance error: %v", err)
	}
	want := []float64{1, math.Exp(-1), math.Exp(-2)}
	testutil.RequireSliceNearlyEqual(t, tr.Values, want, 1e-15)

	em, err := s.Get(spectrum.EmissivityNoSlit)
	if err != nil {
		t.Fatalf("Get emissivity error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, em.Values, []float64{0, 1 - math.Exp(-1), 1 - math.Exp(-2)}, 1e-15)

	if diff := cmp.Diff([]string{spectrum.AbsCoeff}, s.Stored()); diff != "" {
		t.Fatalf("Stored mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{spectrum.Absorbance, spectrum.EmissivityNoSlit, spectrum.TransmittanceNoSlit}, s.Derived()); diff != "" {
		t.Fatalf("Derived mismatch (-want +got):\n%s", diff)
	}
}

func TestDerivationInverse(t *testing.T) {
	s := spectrum.New(axis.MustNew([]float64{1, 2}, "nm"), map[string]any{spectrum.PathLengthKey: 4})
	if err := s.Set(spectrum.TransmittanceNoSlit, []float64{1, math.Exp(-2)}, ""); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	k, err := s.Get(spectrum.AbsCoeff)
	if err != nil {
		t.Fatalf("Get abscoeff error: %v", err)
	}
	if k.Unit != "cm-1" {
		t.Fatalf("abscoeff unit = %q, want cm-1", k.Unit)
	}
	testutil.RequireSliceNearlyEqual(t, k.Values, []float64{0, 0.5}, 1e-15)
}

func TestRadianceFromCoefficients(t *testing.T) {
	s := spectrum.New(axis.MustNew([]float64{1, 2}, "nm"), map[string]any{spectrum.PathLengthKey: 3.0})
	if err := s.Set(spectrum.AbsCoeff, []float64{0, 2}, "m-1"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := s.Set(spectrum.EmissCoeff, []float64{1, 1}, "mW/cm3/sr/nm"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	r, err := s.Get(spectrum.RadianceNoSlit)
	if err != nil {
		t.Fatalf("Get radiance error: %v", err)
	}
	if r.Unit != "W/cm2/sr/nm" {
		t.Fatalf("radiance unit = %q", r.Unit)
	}
	k := 0.02
	want := []float64{1e-3 * 3, 1e-3 * (1 - math.Exp(-k*3)) / k}
	testutil.RequireSliceNearlyEqual(t, r.Values, want, 1e-15)
}

func TestDerivationNeedsPathLength(t *testing.T) {
	s := spectrum.New(axis.MustNew([]float64{1, 2}, "nm"), nil)
	if err := s.Set(spectrum.AbsCoeff, []float64{1, 2}, "cm-1"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	if s.Derivable(spectrum.TransmittanceNoSlit) {
		t.Fatal("transmittance must not be derivable without path_length")
	}
	if _, err := s.Get(spectrum.TransmittanceNoSlit); !errors.Is(err, spectrum.ErrQuantityNotFound) {
		t.Fatalf("Get error = %v, want ErrQuantityNotFound", err)
	}

	s.SetCondition(spectrum.PathLengthKey, 1.0)
	if !s.Derivable(spectrum.TransmittanceNoSlit) {
		t.Fatal("transmittance must be derivable once path_length is set")
	}
}

func TestCacheInvalidatedOnSet(t *testing.T) {
	s := spectrum.New(axis.MustNew([]float64{1}, "nm"), nil)
	_ = s.Set(spectrum.Absorbance, []float64{1}, "")

	first, _ := s.Get(spectrum.TransmittanceNoSlit)
	_ = s.Set(spectrum.Absorbance, []float64{2}, "")
	second, _ := s.Get(spectrum.TransmittanceNoSlit)

	if first.Values[0] == second.Values[0] {
		t.Fatal("derived cache survived a change of its prerequisite")
	}
}

func TestPeekLeavesCacheEmpty(t *testing.T) {
	s := testutil.COBand()

	peeked, err := s.Peek(spectrum.RadianceNoSlit)
	if err != nil {
		t.Fatalf("Peek error: %v", err)
	}
	if got := s.Derived(); len(got) != 0 {
		t.Fatalf("Peek cached %v", got)
	}

	got, err := s.Get(spectrum.RadianceNoSlit)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if diff := cmp.Diff(got, peeked); diff != "" {
		t.Fatalf("Peek and Get differ (-get +peek):\n%s", diff)
	}
	if len(s.Derived()) == 0 {
		t.Fatal("Get cached nothing")
	}

	if _, err := s.Peek(spectrum.Radiance); !errors.Is(err, spectrum.ErrQuantityNotFound) {
		t.Fatalf("Peek(radiance) error = %v, want ErrQuantityNotFound", err)
	}
}

func TestMutateTouchesOnlyOneQuantity(t *testing.T) {
	s := testutil.COBand()
	before, _ := s.Get(spectrum.EmissCoeff)
	_ = s.Update()
	if len(s.Derived()) == 0 {
		t.Fatal("Update cached nothing")
	}

	err := s.Mutate(spectrum.AbsCoeff, func(v []float64) {
		for i := range v {
			v[i] *= 2
		}
	})
	if err != nil {
		t.Fatalf("Mutate error: %v", err)
	}
	if len(s.Derived()) != 0 {
		t.Fatalf("derived cache not invalidated: %v", s.Derived())
	}
	after, _ := s.Get(spectrum.EmissCoeff)
	testutil.RequireSliceNearlyEqual(t, after.Values, before.Values, 0)

	if err := s.Mutate("nope", func([]float64) {}); !errors.Is(err, spectrum.ErrQuantityNotFound) {
		t.Fatalf("Mutate error = %v, want ErrQuantityNotFound", err)
	}
}

func TestCopyIsDeep(t *testing.T) {
	s := testutil.COBand()
	c := s.Copy()

	_ = c.Mutate(spectrum.AbsCoeff, func(v []float64) { v[0] = -1 })
	c.SetCondition("Tgas", 300.0)

	orig, _ := s.Get(spectrum.AbsCoeff)
	if orig.Values[0] == -1 {
		t.Fatal("Copy shares quantity arrays")
	}
	if v, _ := s.Condition("Tgas"); v != 1500.0 {
		t.Fatalf("Copy shares conditions: Tgas = %v", v)
	}
}

func TestTake(t *testing.T) {
	s := testutil.COBand()
	r, err := s.Take(spectrum.RadianceNoSlit)
	if err != nil {
		t.Fatalf("Take error: %v", err)
	}
	if diff := cmp.Diff([]string{spectrum.RadianceNoSlit}, r.Stored()); diff != "" {
		t.Fatalf("Stored mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(s.Conditions(), r.Conditions()); diff != "" {
		t.Fatalf("conditions mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.Take("unknown"); !errors.Is(err, spectrum.ErrQuantityNotFound) {
		t.Fatalf("Take error = %v, want ErrQuantityNotFound", err)
	}
}

func TestAvailable(t *testing.T) {
	s := testutil.COBand()
	want := []string{
		spectrum.AbsCoeff,
		spectrum.Absorbance,
		spectrum.EmissCoeff,
		spectrum.EmissivityNoSlit,
		spectrum.RadianceNoSlit,
		spectrum.TransmittanceNoSlit,
	}
	if diff := cmp.Diff(want, s.Available()); diff != "" {
		t.Fatalf("Available mismatch (-want +got):\n%s", diff)
	}
	if err := s.Update(spectrum.Radiance); !errors.Is(err, spectrum.ErrQuantityNotFound) {
		t.Fatalf("Update(radiance) error = %v, want ErrQuantityNotFound", err)
	}
}

func TestXY(t *testing.T) {
	s := testutil.COBand()
	x, y, err := s.XY(spectrum.AbsCoeff, "nm")
	if err != nil {
		t.Fatalf("XY error: %v", err)
	}
	if len(x) != len(y) || x[0] != 5000 {
		t.Fatalf("XY first wavelength = %v, want 5000", x[0])
	}
}

func TestFromArrays(t *testing.T) {
	s, err := spectrum.FromArrays(
		[]float64{500, 501, 502}, "nm",
		map[string][]float64{spectrum.RadianceNoSlit: {1, 2, 3}, spectrum.TransmittanceNoSlit: {1, 1, 1}},
		map[string]string{spectrum.RadianceNoSlit: "W/cm2/sr/nm"},
		map[string]any{"Tgas": 300.0},
	)
	if err != nil {
		t.Fatalf("FromArrays error: %v", err)
	}
	if len(s.Stored()) != 2 {
		t.Fatalf("Stored = %v", s.Stored())
	}

	_, err = spectrum.FromArrays([]float64{1, 2}, "nm", map[string][]float64{"x": {1}}, nil, nil)
	if !errors.Is(err, spectrum.ErrLength) {
		t.Fatalf("FromArrays error = %v, want ErrLength", err)
	}
}
