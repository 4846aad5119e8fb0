package array

import (
	"unsafe"

	"github.com/hupe1980/fixedarray/dtype"
)

// load reads one component of type t from the start of b.
// Every supported type is exactly representable as float64.
func load(t dtype.Type, b []byte) float64 {
	p := unsafe.Pointer(&b[0]) //nolint:gosec // b is aligned to t.Size() by construction
	switch t {
	case dtype.Int8:
		return float64(*(*int8)(p))
	case dtype.Uint8:
		return float64(*(*uint8)(p))
	case dtype.Int16:
		return float64(*(*int16)(p))
	case dtype.Uint16:
		return float64(*(*uint16)(p))
	case dtype.Int32:
		return float64(*(*int32)(p))
	case dtype.Uint32:
		return float64(*(*uint32)(p))
	case dtype.Float32:
		return float64(*(*float32)(p))
	case dtype.Float64:
		return *(*float64)(p)
	}
	panic("array: load of invalid element type")
}

// store writes v as one component of type t at the start of b.
// Integer targets truncate toward zero and wrap to the target width.
func store(t dtype.Type, b []byte, v float64) {
	p := unsafe.Pointer(&b[0]) //nolint:gosec // b is aligned to t.Size() by construction
	switch t {
	case dtype.Int8:
		*(*int8)(p) = int8(int64(v))
	case dtype.Uint8:
		*(*uint8)(p) = uint8(int64(v))
	case dtype.Int16:
		*(*int16)(p) = int16(int64(v))
	case dtype.Uint16:
		*(*uint16)(p) = uint16(int64(v))
	case dtype.Int32:
		*(*int32)(p) = int32(int64(v))
	case dtype.Uint32:
		*(*uint32)(p) = uint32(int64(v))
	case dtype.Float32:
		*(*float32)(p) = float32(v)
	case dtype.Float64:
		*(*float64)(p) = v
	default:
		panic("array: store of invalid element type")
	}
}
