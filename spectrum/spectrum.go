package spectrum

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cwbudde/algo-spectra/axis"
	"github.com/cwbudde/algo-spectra/core"
	"github.com/cwbudde/algo-spectra/units"
)

// Spectrum bundles physical quantities sampled over one spectral axis.
//
// A Spectrum is owned by a single goroutine at a time. Out-of-place operations
// never share arrays between their input and their result.
type Spectrum struct {
	// Name is a free-form label carried through every operation.
	Name string

	axis       *axis.Axis
	stored     map[string]Quantity
	derived    map[string]Quantity
	conditions map[string]any
}

// New returns an empty Spectrum over ax. conditions is copied; its values are
// passed through unchanged by every operation.
func New(ax *axis.Axis, conditions map[string]any) *Spectrum {
	if ax == nil {
		panic("spectrum: nil axis")
	}
	return &Spectrum{
		axis:       ax,
		stored:     make(map[string]Quantity),
		derived:    make(map[string]Quantity),
		conditions: copyConditions(conditions),
	}
}

// FromArrays builds a Spectrum from raw arrays. quantityUnits maps quantity
// names to their unit; a missing entry means dimensionless.
func FromArrays(x []float64, xunit string, quantities map[string][]float64, quantityUnits map[string]string, conditions map[string]any) (*Spectrum, error) {
	ax, err := axis.New(x, xunit)
	if err != nil {
		return nil, err
	}
	s := New(ax, conditions)
	for _, name := range sortedKeys(quantities) {
		if err := s.Set(name, quantities[name], quantityUnits[name]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Axis returns the spectral axis.
func (s *Spectrum) Axis() *axis.Axis { return s.axis }

// Len returns the number of spectral samples.
func (s *Spectrum) Len() int { return s.axis.Len() }

// Set stores a copy of values under name, replacing any previous quantity of
// that name. Cached derived quantities are discarded.
func (s *Spectrum) Set(name string, values []float64, unit string) error {
	if name == "" {
		return fmt.Errorf("%w: empty quantity name", ErrQuantityNotFound)
	}
	if len(values) != s.axis.Len() {
		return fmt.Errorf("%w: %s has %d values, axis has %d", ErrLength, name, len(values), s.axis.Len())
	}
	if err := checkDimension(name, unit); err != nil {
		return err
	}
	u, _ := units.Quantity(unit)
	s.stored[name] = Quantity{Values: core.Clone(values), Unit: u.Symbol}
	s.invalidate()
	return nil
}

// Get returns a copy of the named quantity: stored, cached, or derived on
// demand. A derived result is cached on the spectrum, so Get writes to s; use
// [Spectrum.Peek] on spectra that must not change.
func (s *Spectrum) Get(name string) (Quantity, error) {
	q, err := s.lookup(name)
	if err != nil {
		return Quantity{}, err
	}
	return q.clone(), nil
}

// Peek is like Get but never writes to the derived cache. Quantities that are
// not stored or cached are recomputed on every call.
func (s *Spectrum) Peek(name string) (Quantity, error) {
	q, err := s.peek(name)
	if err != nil {
		return Quantity{}, err
	}
	return q.clone(), nil
}

// XY returns the axis expressed in axisUnit together with a copy of the named
// quantity.
func (s *Spectrum) XY(name, axisUnit string) (x, y []float64, err error) {
	q, err := s.lookup(name)
	if err != nil {
		return nil, nil, err
	}
	x, err = s.axis.Convert(axisUnit)
	if err != nil {
		return nil, nil, err
	}
	return x, q.clone().Values, nil
}

// Unit returns the unit of a stored or cached quantity.
func (s *Spectrum) Unit(name string) (string, bool) {
	if q, ok := s.stored[name]; ok {
		return q.Unit, true
	}
	if q, ok := s.derived[name]; ok {
		return q.Unit, true
	}
	return "", false
}

// Has reports whether name is a stored quantity.
func (s *Spectrum) Has(name string) bool {
	_, ok := s.stored[name]
	return ok
}

// Stored returns the names of stored quantities, sorted.
func (s *Spectrum) Stored() []string { return sortedKeys(s.stored) }

// Derived returns the names of cached derived quantities, sorted.
func (s *Spectrum) Derived() []string { return sortedKeys(s.derived) }

// Drop removes a stored quantity. Cached derived quantities are discarded.
func (s *Spectrum) Drop(name string) {
	if _, ok := s.stored[name]; !ok {
		return
	}
	delete(s.stored, name)
	s.invalidate()
}

// Mutate calls fn on the storage of one stored quantity so it can be edited in
// place, then discards cached derived quantities. No other quantity is touched.
func (s *Spectrum) Mutate(name string, fn func(values []float64)) error {
	q, ok := s.stored[name]
	if !ok {
		return fmt.Errorf("%w: %s is not stored", ErrQuantityNotFound, name)
	}
	fn(q.Values)
	s.invalidate()
	return nil
}

// Copy returns a deep copy sharing no arrays with s.
func (s *Spectrum) Copy() *Spectrum {
	out := &Spectrum{
		Name:       s.Name,
		axis:       s.axis,
		stored:     make(map[string]Quantity, len(s.stored)),
		derived:    make(map[string]Quantity, len(s.derived)),
		conditions: copyConditions(s.conditions),
	}
	for name, q := range s.stored {
		out.stored[name] = q.clone()
	}
	for name, q := range s.derived {
		out.derived[name] = q.clone()
	}
	return out
}

// Take returns a new spectrum holding only the named quantity, derived if
// needed, with the same axis and conditions.
func (s *Spectrum) Take(name string) (*Spectrum, error) {
	q, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	out := New(s.axis, s.conditions)
	out.Name = s.Name
	out.stored[name] = q
	return out, nil
}

// Conditions returns a copy of the conditions map.
func (s *Spectrum) Conditions() map[string]any { return copyConditions(s.conditions) }

// Condition returns one condition value.
func (s *Spectrum) Condition(key string) (any, bool) {
	v, ok := s.conditions[key]
	return v, ok
}

// SetCondition sets one condition value. Changing the path length discards
// cached derived quantities.
func (s *Spectrum) SetCondition(key string, value any) {
	s.conditions[key] = value
	if key == PathLengthKey {
		s.invalidate()
	}
}

// PathLength returns the path_length condition in cm when it is a positive,
// finite number.
func (s *Spectrum) PathLength() (float64, bool) {
	var l float64
	switch v := s.conditions[PathLengthKey].(type) {
	case float64:
		l = v
	case float32:
		l = float64(v)
	case int:
		l = float64(v)
	default:
		return 0, false
	}
	if !(l > 0) || math.IsInf(l, 0) {
		return 0, false
	}
	return l, true
}

// String implements fmt.Stringer.
func (s *Spectrum) String() string {
	var b strings.Builder
	if s.Name != "" {
		b.WriteString(s.Name)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%v stored=[%s]", s.axis, strings.Join(s.Stored(), " "))
	return b.String()
}

func (s *Spectrum) invalidate() {
	if len(s.derived) > 0 {
		s.derived = make(map[string]Quantity)
	}
}

func copyConditions(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
