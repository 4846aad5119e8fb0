package array

import (
	"github.com/hupe1980/fixedarray/dtype"
)

// Element is a mutable view of one array element: a scalar when the array's
// vector length is 1, a fixed-length tuple otherwise.
//
// An Element aliases the array storage; writes through it are visible through
// the array and every other view.
type Element struct {
	t  dtype.Type
	k  int
	b  []byte
	ro bool
}

// Type returns the component element type.
func (e Element) Type() dtype.Type { return e.t }

// Len returns the number of components.
func (e Element) Len() int { return e.k }

// Value returns the first component. It is the scalar value for k = 1.
func (e Element) Value() float64 {
	return load(e.t, e.b)
}

// SetValue sets the first component.
func (e Element) SetValue(v float64) error {
	return e.SetFloat64(0, v)
}

// Float64 returns component j.
func (e Element) Float64(j int) (float64, error) {
	if j < 0 || j >= e.k {
		return 0, indexError(j, e.k)
	}
	w := e.t.Size()
	return load(e.t, e.b[j*w:]), nil
}

// SetFloat64 sets component j to v, converted to the element type.
func (e Element) SetFloat64(j int, v float64) error {
	if e.ro {
		return ErrReadOnly
	}
	if j < 0 || j >= e.k {
		return indexError(j, e.k)
	}
	w := e.t.Size()
	store(e.t, e.b[j*w:], v)
	return nil
}

// Float64s returns a copy of all components.
func (e Element) Float64s() []float64 {
	out := make([]float64, e.k)
	w := e.t.Size()
	for j := range out {
		out[j] = load(e.t, e.b[j*w:])
	}
	return out
}

// Set assigns all components at once. The number of values must equal the
// vector length; otherwise a *LengthError naming the expected length is returned
// and the element is left unchanged.
func (e Element) Set(values ...float64) error {
	if len(values) != e.k {
		return &LengthError{Expected: e.k, Actual: len(values)}
	}
	if e.ro {
		return ErrReadOnly
	}
	w := e.t.Size()
	for j, v := range values {
		store(e.t, e.b[j*w:], v)
	}
	return nil
}

// Bytes returns the raw k·w bytes of the element. It aliases the array storage.
func (e Element) Bytes() []byte { return e.b }
