package dtype

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrUnsupported is returned when a name or format tag does not map to an element type.
var ErrUnsupported = errors.New("dtype: unsupported element type")

// Type identifies the primitive base type of an array element.
type Type uint8

// Supported element types. The zero value is Invalid.
const (
	Invalid Type = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
)

// Numeric is the constraint satisfied by the Go types backing each element type.
type Numeric interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~float32 | ~float64
}

// All returns every supported element type in declaration order.
func All() []Type {
	return []Type{Int8, Uint8, Int16, Uint16, Int32, Uint32, Float32, Float64}
}

// Valid reports whether t is one of the supported element types.
func (t Type) Valid() bool {
	return t >= Int8 && t <= Float64
}

// Size returns the byte width of a single component of type t, or 0 for Invalid.
func (t Type) Size() int {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether t is a floating point type.
func (t Type) IsFloat() bool {
	return t == Float32 || t == Float64
}

// Format returns the buffer format tag for t.
func (t Type) Format() string {
	switch t {
	case Int8:
		return "b"
	case Uint8:
		return "B"
	case Int16:
		return "h"
	case Uint16:
		return "H"
	case Int32:
		return "i"
	case Uint32:
		return "I"
	case Float32:
		return "f"
	case Float64:
		return "d"
	default:
		return ""
	}
}

// String returns the Go-style name of t ("float32", "uint8", ...).
func (t Type) String() string {
	switch t {
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "invalid"
	}
}

// Parse maps a type name as returned by String back to its Type.
func Parse(name string) (Type, error) {
	for _, t := range All() {
		if t.String() == name {
			return t, nil
		}
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnsupported, name)
}

// ParseFormat maps a buffer format tag to its Type.
//
// A leading '@' (native order) is accepted. A leading '<' is accepted on
// little-endian hosts only. Any other byte order or size prefix is rejected.
func ParseFormat(format string) (Type, error) {
	f := format
	if len(f) == 2 {
		switch {
		case f[0] == '@':
			f = f[1:]
		case f[0] == '<' && littleEndian:
			f = f[1:]
		}
	}
	switch f {
	case "b":
		return Int8, nil
	case "B":
		return Uint8, nil
	case "h":
		return Int16, nil
	case "H":
		return Uint16, nil
	case "i":
		return Int32, nil
	case "I":
		return Uint32, nil
	case "f":
		return Float32, nil
	case "d":
		return Float64, nil
	}
	return Invalid, fmt.Errorf("%w: format %q", ErrUnsupported, format)
}

// Of returns the element type backing the Go type T.
func Of[T Numeric]() Type {
	var zero T
	switch any(zero).(type) {
	case int8:
		return Int8
	case uint8:
		return Uint8
	case int16:
		return Int16
	case uint16:
		return Uint16
	case int32:
		return Int32
	case uint32:
		return Uint32
	case float32:
		return Float32
	case float64:
		return Float64
	}
	// Named types (~T) fall back to size and kind probing.
	return ofNamed(zero)
}

func ofNamed[T Numeric](zero T) Type {
	size := int(unsafe.Sizeof(zero))
	isFloat := T(1)/T(2) != 0
	signed := T(0)-T(1) < T(0)
	switch {
	case isFloat && size == 4:
		return Float32
	case isFloat:
		return Float64
	case size == 1 && signed:
		return Int8
	case size == 1:
		return Uint8
	case size == 2 && signed:
		return Int16
	case size == 2:
		return Uint16
	case signed:
		return Int32
	default:
		return Uint32
	}
}

var littleEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 1 //nolint:gosec // host byte order probe
}()

// LittleEndian reports whether the host stores multi-byte values little-endian.
func LittleEndian() bool { return littleEndian }
