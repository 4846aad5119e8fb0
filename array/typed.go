package array

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/fixedarray/dtype"
)

// Values returns the array storage as a []T of Len()·VectorLen() components,
// without copying. T must match the array element type.
//
// The slice aliases the array: it is invalid after Release, and it must not be
// written when the array is read-only (memory-mapped arrays fault on write).
func Values[T dtype.Numeric](a *Array) ([]T, error) {
	if a.released {
		return nil, ErrReleased
	}
	if want := dtype.Of[T](); want != a.layout.Type {
		return nil, fmt.Errorf("%w: array holds %s, requested %s", ErrTypeMismatch, a.layout.Type, want)
	}
	n := a.Len() * a.layout.VectorLen
	if n == 0 {
		return []T{}, nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&a.data[0])), n), nil //nolint:gosec // storage is aligned and sized for n values of T
}

// FromValues allocates a 1D array with vector length k holding a copy of values.
// len(values) must be a multiple of k.
func FromValues[T dtype.Numeric](k int, values []T, opts ...Option) (*Array, error) {
	if k < 1 || k > MaxVectorLen {
		return nil, fmt.Errorf("%w: vector length %d not in [1, %d]", ErrInvalidLayout, k, MaxVectorLen)
	}
	if len(values)%k != 0 {
		return nil, &LengthError{Expected: (len(values)/k + 1) * k, Actual: len(values)}
	}
	a, err := New(dtype.Of[T](), k, len(values)/k, opts...)
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		dst := unsafe.Slice((*T)(unsafe.Pointer(&a.data[0])), len(values)) //nolint:gosec // freshly allocated, aligned
		copy(dst, values)
	}
	return a, nil
}
