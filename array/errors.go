package array

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is the sentinel wrapped by every *IndexError.
	ErrIndexOutOfRange = errors.New("array: index out of range")

	// ErrLengthMismatch is the sentinel wrapped by every *LengthError.
	ErrLengthMismatch = errors.New("array: sequence length mismatch")

	// ErrTypeMismatch is returned when a typed accessor does not match the array's element type.
	ErrTypeMismatch = errors.New("array: element type mismatch")

	// ErrInvalidLayout is returned for vector lengths, ranks or dimensions outside the supported range.
	ErrInvalidLayout = errors.New("array: invalid layout")

	// ErrRank is returned when an operation is applied to an array of the wrong rank.
	ErrRank = errors.New("array: wrong rank for operation")

	// ErrReleased is returned when an array is used after Release.
	ErrReleased = errors.New("array: array has been released")

	// ErrReadOnly is returned on writes to a read-only array.
	ErrReadOnly = errors.New("array: array is read-only")

	// ErrInvalidSlice is returned for a slice step of zero.
	ErrInvalidSlice = errors.New("array: invalid slice")
)

// IndexError reports an out-of-range logical index.
//
// Index holds the requested index as given by the caller: (i) for flat and
// component indices, (x, y) for grid indices. Bounds holds the matching extents.
type IndexError struct {
	Index  []int
	Bounds []int
}

func (e *IndexError) Error() string {
	if len(e.Index) == 2 && len(e.Bounds) == 2 {
		return fmt.Sprintf("index (%d, %d) out of range for %dx%d array",
			e.Index[0], e.Index[1], e.Bounds[0], e.Bounds[1])
	}
	if len(e.Index) == 1 && len(e.Bounds) == 1 {
		return fmt.Sprintf("index %d out of range [0, %d)", e.Index[0], e.Bounds[0])
	}
	return fmt.Sprintf("index %v out of range %v", e.Index, e.Bounds)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// LengthError reports a sequence whose length does not match the required arity.
type LengthError struct {
	Expected int
	Actual   int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("expected sequence of length %d, got %d", e.Expected, e.Actual)
}

func (e *LengthError) Unwrap() error { return ErrLengthMismatch }

func indexError(i, n int) error {
	return &IndexError{Index: []int{i}, Bounds: []int{n}}
}
