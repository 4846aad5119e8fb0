package buffer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidShape is the sentinel wrapped by every *ShapeError.
	ErrInvalidShape = errors.New("buffer: invalid shape")

	// ErrItemSize is returned when the descriptor item size does not match its format.
	ErrItemSize = errors.New("buffer: item size does not match format")

	// ErrOutOfBounds is returned when shape, strides and offset address bytes
	// outside the backing buffer.
	ErrOutOfBounds = errors.New("buffer: strides address bytes outside the buffer")

	// ErrNilDescriptor is returned when a nil descriptor is passed.
	ErrNilDescriptor = errors.New("buffer: nil descriptor")
)

// ShapeError reports a shape that cannot be mapped to or from a typed array.
type ShapeError struct {
	Shape  []int
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("buffer: invalid shape %v: %s", e.Shape, e.Reason)
}

func (e *ShapeError) Unwrap() error { return ErrInvalidShape }

func shapeErrorf(shape []int, format string, args ...any) error {
	s := make([]int, len(shape))
	copy(s, shape)
	return &ShapeError{Shape: s, Reason: fmt.Sprintf(format, args...)}
}
