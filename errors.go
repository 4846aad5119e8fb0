package fixedarray

import (
	"errors"
	"fmt"

	"github.com/hupe1980/fixedarray/array"
	"github.com/hupe1980/fixedarray/buffer"
	"github.com/hupe1980/fixedarray/dtype"
	"github.com/hupe1980/fixedarray/resource"
)

var (
	// ErrIndex classifies out-of-range element, component and descriptor indices.
	ErrIndex = errors.New("fixedarray: index error")

	// ErrType classifies unknown format tags, item sizes that do not match the
	// format, and typed access with the wrong element type.
	ErrType = errors.New("fixedarray: type error")

	// ErrValue classifies invalid shapes and layouts, out-of-bounds strides,
	// arity mismatches, invalid slices, and use of read-only or released arrays.
	ErrValue = errors.New("fixedarray: value error")

	// ErrMemoryLimit is returned when an allocation does not fit the memory budget.
	ErrMemoryLimit = resource.ErrMemoryLimit
)

// translateError tags err with the kind it belongs to. The original error
// stays reachable through errors.Is and errors.As.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, array.ErrIndexOutOfRange):
		return fmt.Errorf("%w: %w", ErrIndex, err)

	case errors.Is(err, dtype.ErrUnsupported),
		errors.Is(err, buffer.ErrItemSize),
		errors.Is(err, array.ErrTypeMismatch):
		return fmt.Errorf("%w: %w", ErrType, err)

	case errors.Is(err, buffer.ErrInvalidShape),
		errors.Is(err, buffer.ErrOutOfBounds),
		errors.Is(err, buffer.ErrNilDescriptor),
		errors.Is(err, array.ErrLengthMismatch),
		errors.Is(err, array.ErrInvalidLayout),
		errors.Is(err, array.ErrRank),
		errors.Is(err, array.ErrReadOnly),
		errors.Is(err, array.ErrReleased),
		errors.Is(err, array.ErrInvalidSlice):
		return fmt.Errorf("%w: %w", ErrValue, err)
	}

	return err
}
