package buffer

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"unsafe"

	"github.com/hupe1980/fixedarray/array"
	"github.com/hupe1980/fixedarray/dtype"
	"github.com/hupe1980/fixedarray/internal/conv"
)

// Descriptor describes a strided N-dimensional buffer of fixed-width items.
//
// Component (i0, i1, ...) lives at byte Offset + Σ iₙ·Strides[n] of Buf.
// Strides may be negative or non-contiguous; Validate checks that every
// addressed byte lies inside Buf.
type Descriptor struct {
	// Buf is the backing memory. The descriptor does not own it.
	Buf []byte
	// Offset is the byte position of component (0, ..., 0) within Buf.
	Offset int
	// Format is the item format tag, optionally prefixed with '@' or '<'.
	Format string
	// ItemSize is the byte width of one item.
	ItemSize int
	// Shape holds the dimension sizes, outermost first.
	Shape []int
	// Strides holds the byte step per unit index along each dimension.
	Strides []int
	// ReadOnly reports that the consumer must not write through the descriptor.
	ReadOnly bool
}

// Addr returns the address of component (0, ..., 0), or nil when the
// descriptor addresses no bytes.
func (d *Descriptor) Addr() unsafe.Pointer {
	if d.Offset < 0 || d.Offset >= len(d.Buf) {
		return nil
	}
	return unsafe.Pointer(&d.Buf[d.Offset]) //nolint:gosec // offset checked above
}

// NDim returns the rank.
func (d *Descriptor) NDim() int { return len(d.Shape) }

// Len returns the total number of items, the product of Shape.
func (d *Descriptor) Len() int {
	n := 1
	for _, s := range d.Shape {
		n *= s
	}
	return n
}

// NumBytes returns Len()·ItemSize, the size a packed copy would occupy.
func (d *Descriptor) NumBytes() int { return d.Len() * d.ItemSize }

// Type resolves the format tag and checks it against ItemSize.
func (d *Descriptor) Type() (dtype.Type, error) {
	t, err := dtype.ParseFormat(d.Format)
	if err != nil {
		return dtype.Invalid, err
	}
	if d.ItemSize != t.Size() {
		return dtype.Invalid, fmt.Errorf("%w: format %q is %d bytes, item size is %d",
			ErrItemSize, d.Format, t.Size(), d.ItemSize)
	}
	return t, nil
}

// IsContiguous reports whether the items are packed in row-major order
// starting at Offset.
func (d *Descriptor) IsContiguous() bool {
	if d.Len() == 0 {
		return true
	}
	want := ContiguousStrides(d.Shape, d.ItemSize)
	for i, s := range d.Shape {
		// The stride of a dimension of size 1 is never applied.
		if s > 1 && d.Strides[i] != want[i] {
			return false
		}
	}
	return true
}

// Validate checks the format, item size, rank and that every addressed byte
// lies inside Buf.
func (d *Descriptor) Validate() error {
	if _, err := d.Type(); err != nil {
		return err
	}
	if len(d.Shape) < 1 || len(d.Shape) > MaxRank {
		return shapeErrorf(d.Shape, "rank %d not in [1, %d]", len(d.Shape), MaxRank)
	}
	if len(d.Strides) != len(d.Shape) {
		return shapeErrorf(d.Shape, "%d strides for %d dimensions", len(d.Strides), len(d.Shape))
	}
	if slices.ContainsFunc(d.Shape, func(s int) bool { return s < 0 }) {
		return shapeErrorf(d.Shape, "negative dimension")
	}
	if _, err := conv.MulInt(append(slices.Clone(d.Shape), d.ItemSize)...); err != nil {
		return shapeErrorf(d.Shape, "%v", err)
	}
	return d.checkBounds()
}

// checkBounds verifies that the lowest and highest addressed byte both fall
// inside Buf. A descriptor with an empty dimension addresses nothing.
func (d *Descriptor) checkBounds() error {
	if slices.Contains(d.Shape, 0) {
		return nil
	}
	lo, hi := d.Offset, d.Offset
	for i, n := range d.Shape {
		s := d.Strides[i]
		if n == 1 || s == 0 {
			continue
		}
		mag := s
		if mag < 0 {
			if mag == math.MinInt {
				return fmt.Errorf("%w: stride %d", ErrOutOfBounds, s)
			}
			mag = -mag
		}
		if mag > len(d.Buf) {
			return fmt.Errorf("%w: stride %d exceeds buffer of %d bytes", ErrOutOfBounds, s, len(d.Buf))
		}
		ext, err := conv.MulInt(n-1, mag)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrOutOfBounds, err)
		}
		if s < 0 {
			lo -= ext
		} else {
			hi += ext
		}
		if lo < 0 || hi > len(d.Buf) {
			break
		}
	}
	if lo < 0 || hi < 0 || hi+d.ItemSize > len(d.Buf) {
		return fmt.Errorf("%w: shape %v strides %v offset %d need bytes [%d, %d) of %d",
			ErrOutOfBounds, d.Shape, d.Strides, d.Offset, lo, hi+d.ItemSize, len(d.Buf))
	}
	return nil
}

// byteOffset returns the Buf position of the item at idx.
func (d *Descriptor) byteOffset(idx []int) (int, error) {
	if len(idx) != len(d.Shape) {
		return 0, &array.LengthError{Expected: len(d.Shape), Actual: len(idx)}
	}
	off := d.Offset
	for i, x := range idx {
		if x < 0 || x >= d.Shape[i] {
			return 0, &array.IndexError{Index: slices.Clone(idx), Bounds: slices.Clone(d.Shape)}
		}
		off += x * d.Strides[i]
	}
	if off < 0 || off+d.ItemSize > len(d.Buf) {
		return 0, fmt.Errorf("%w: item at byte %d", ErrOutOfBounds, off)
	}
	return off, nil
}

// Float64At reads the item at idx the way a foreign consumer would: through
// the strides, with no alignment assumption.
func (d *Descriptor) Float64At(idx ...int) (float64, error) {
	t, err := d.Type()
	if err != nil {
		return 0, err
	}
	off, err := d.byteOffset(idx)
	if err != nil {
		return 0, err
	}
	return readItem(t, d.Buf[off:]), nil
}

// SetFloat64At writes v to the item at idx, converted to the item type.
func (d *Descriptor) SetFloat64At(v float64, idx ...int) error {
	if d.ReadOnly {
		return array.ErrReadOnly
	}
	t, err := d.Type()
	if err != nil {
		return err
	}
	off, err := d.byteOffset(idx)
	if err != nil {
		return err
	}
	writeItem(t, d.Buf[off:], v)
	return nil
}

func readItem(t dtype.Type, b []byte) float64 {
	ne := binary.NativeEndian
	switch t {
	case dtype.Int8:
		return float64(int8(b[0]))
	case dtype.Uint8:
		return float64(b[0])
	case dtype.Int16:
		return float64(int16(ne.Uint16(b)))
	case dtype.Uint16:
		return float64(ne.Uint16(b))
	case dtype.Int32:
		return float64(int32(ne.Uint32(b)))
	case dtype.Uint32:
		return float64(ne.Uint32(b))
	case dtype.Float32:
		return float64(math.Float32frombits(ne.Uint32(b)))
	case dtype.Float64:
		return math.Float64frombits(ne.Uint64(b))
	}
	panic("buffer: read of invalid item type")
}

func writeItem(t dtype.Type, b []byte, v float64) {
	ne := binary.NativeEndian
	switch t {
	case dtype.Int8:
		b[0] = byte(int8(int64(v)))
	case dtype.Uint8:
		b[0] = uint8(int64(v))
	case dtype.Int16:
		ne.PutUint16(b, uint16(int16(int64(v))))
	case dtype.Uint16:
		ne.PutUint16(b, uint16(int64(v)))
	case dtype.Int32:
		ne.PutUint32(b, uint32(int32(int64(v))))
	case dtype.Uint32:
		ne.PutUint32(b, uint32(int64(v)))
	case dtype.Float32:
		ne.PutUint32(b, math.Float32bits(float32(v)))
	case dtype.Float64:
		ne.PutUint64(b, math.Float64bits(v))
	default:
		panic("buffer: write of invalid item type")
	}
}
