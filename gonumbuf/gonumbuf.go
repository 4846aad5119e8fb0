package gonumbuf

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hupe1980/fixedarray/array"
	"github.com/hupe1980/fixedarray/buffer"
	"github.com/hupe1980/fixedarray/dtype"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrType is returned when the descriptor's item format is not the float
	// type the adapter needs.
	ErrType = errors.New("gonumbuf: unsupported item format")
	// ErrLayout is returned when the descriptor's rank or strides cannot be
	// expressed as the requested gonum type.
	ErrLayout = errors.New("gonumbuf: layout not representable")
	// ErrEmpty is returned by VecDense and Dense for zero-length buffers, which
	// gonum's mat package does not allow.
	ErrEmpty = errors.New("gonumbuf: empty buffer")
)

type float interface {
	float32 | float64
}

// Vector32 returns a blas32.Vector aliasing a rank-1 float32 descriptor.
func Vector32(d *buffer.Descriptor) (blas32.Vector, error) {
	n, inc, err := vector(d, dtype.Float32)
	if err != nil {
		return blas32.Vector{}, err
	}
	return blas32.Vector{N: n, Inc: inc, Data: floats[float32](d, span(n, inc))}, nil
}

// Vector64 returns a blas64.Vector aliasing a rank-1 float64 descriptor.
func Vector64(d *buffer.Descriptor) (blas64.Vector, error) {
	n, inc, err := vector(d, dtype.Float64)
	if err != nil {
		return blas64.Vector{}, err
	}
	return blas64.Vector{N: n, Inc: inc, Data: floats[float64](d, span(n, inc))}, nil
}

// General32 returns a blas32.General aliasing a rank-2 float32 descriptor.
func General32(d *buffer.Descriptor) (blas32.General, error) {
	rows, cols, stride, err := general(d, dtype.Float32)
	if err != nil {
		return blas32.General{}, err
	}
	return blas32.General{
		Rows:   rows,
		Cols:   cols,
		Stride: stride,
		Data:   floats[float32](d, extent(rows, cols, stride)),
	}, nil
}

// General64 returns a blas64.General aliasing a rank-2 float64 descriptor.
func General64(d *buffer.Descriptor) (blas64.General, error) {
	rows, cols, stride, err := general(d, dtype.Float64)
	if err != nil {
		return blas64.General{}, err
	}
	return blas64.General{
		Rows:   rows,
		Cols:   cols,
		Stride: stride,
		Data:   floats[float64](d, extent(rows, cols, stride)),
	}, nil
}

// VecDense returns a mat.VecDense aliasing a rank-1 float64 descriptor.
func VecDense(d *buffer.Descriptor) (*mat.VecDense, error) {
	v, err := Vector64(d)
	if err != nil {
		return nil, err
	}
	if v.N == 0 {
		return nil, ErrEmpty
	}
	var out mat.VecDense
	out.SetRawVector(v)
	return &out, nil
}

// Dense returns a mat.Dense aliasing a rank-2 float64 descriptor.
func Dense(d *buffer.Descriptor) (*mat.Dense, error) {
	g, err := General64(d)
	if err != nil {
		return nil, err
	}
	if g.Rows == 0 || g.Cols == 0 {
		return nil, ErrEmpty
	}
	var out mat.Dense
	out.SetRawMatrix(g)
	return &out, nil
}

// FromVector32 describes the memory of v as a rank-1 float32 buffer.
func FromVector32(v blas32.Vector) *buffer.Descriptor {
	return fromVector(v.Data, v.N, v.Inc, dtype.Float32)
}

// FromVector64 describes the memory of v as a rank-1 float64 buffer.
func FromVector64(v blas64.Vector) *buffer.Descriptor {
	return fromVector(v.Data, v.N, v.Inc, dtype.Float64)
}

// FromGeneral32 describes the memory of g as a rank-2 float32 buffer.
func FromGeneral32(g blas32.General) *buffer.Descriptor {
	return fromGeneral(g.Data, g.Rows, g.Cols, g.Stride, dtype.Float32)
}

// FromGeneral64 describes the memory of g as a rank-2 float64 buffer.
func FromGeneral64(g blas64.General) *buffer.Descriptor {
	return fromGeneral(g.Data, g.Rows, g.Cols, g.Stride, dtype.Float64)
}

func check(d *buffer.Descriptor, want dtype.Type, rank int) error {
	if err := d.Validate(); err != nil {
		return err
	}
	t, err := d.Type()
	if err != nil {
		return err
	}
	if t != want {
		return fmt.Errorf("%w: have %s, want %s", ErrType, t, want)
	}
	if d.NDim() != rank {
		return fmt.Errorf("%w: rank %d, want %d", ErrLayout, d.NDim(), rank)
	}
	if d.ReadOnly {
		return array.ErrReadOnly
	}
	if d.Len() > 0 && uintptr(d.Addr())%uintptr(d.ItemSize) != 0 {
		return fmt.Errorf("%w: data not aligned to %d bytes", ErrLayout, d.ItemSize)
	}
	return nil
}

// step converts a byte stride into an item stride.
func step(d *buffer.Descriptor, stride int) (int, error) {
	if stride <= 0 || stride%d.ItemSize != 0 {
		return 0, fmt.Errorf("%w: stride %d", ErrLayout, stride)
	}
	return stride / d.ItemSize, nil
}

func vector(d *buffer.Descriptor, want dtype.Type) (n, inc int, err error) {
	if err := check(d, want, 1); err != nil {
		return 0, 0, err
	}
	n = d.Shape[0]
	if n <= 1 {
		return n, 1, nil
	}
	inc, err = step(d, d.Strides[0])
	if err != nil {
		return 0, 0, err
	}
	return n, inc, nil
}

func general(d *buffer.Descriptor, want dtype.Type) (rows, cols, stride int, err error) {
	if err := check(d, want, 2); err != nil {
		return 0, 0, 0, err
	}
	rows, cols = d.Shape[0], d.Shape[1]
	if rows == 0 || cols == 0 {
		return rows, cols, max(cols, 1), nil
	}
	if cols > 1 && d.Strides[1] != d.ItemSize {
		return 0, 0, 0, fmt.Errorf("%w: inner stride %d, want %d", ErrLayout, d.Strides[1], d.ItemSize)
	}
	if rows == 1 {
		return rows, cols, cols, nil
	}
	stride, err = step(d, d.Strides[0])
	if err != nil {
		return 0, 0, 0, err
	}
	if stride < cols {
		return 0, 0, 0, fmt.Errorf("%w: row stride %d overlaps %d columns", ErrLayout, stride, cols)
	}
	return rows, cols, stride, nil
}

func span(n, inc int) int {
	if n == 0 {
		return 0
	}
	return (n-1)*inc + 1
}

func extent(rows, cols, stride int) int {
	if rows == 0 || cols == 0 {
		return 0
	}
	return (rows-1)*stride + cols
}

// floats reinterprets n items starting at the descriptor origin. check has
// already verified alignment and bounds.
func floats[T float](d *buffer.Descriptor, n int) []T {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(d.Addr()), n)
}

func bytesOf[T float](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(data[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(data))), len(data)*size)
}

func fromVector[T float](data []T, n, inc int, t dtype.Type) *buffer.Descriptor {
	return &buffer.Descriptor{
		Buf:      bytesOf(data),
		Format:   t.Format(),
		ItemSize: t.Size(),
		Shape:    []int{n},
		Strides:  []int{inc * t.Size()},
	}
}

func fromGeneral[T float](data []T, rows, cols, stride int, t dtype.Type) *buffer.Descriptor {
	return &buffer.Descriptor{
		Buf:      bytesOf(data),
		Format:   t.Format(),
		ItemSize: t.Size(),
		Shape:    []int{rows, cols},
		Strides:  []int{stride * t.Size(), t.Size()},
	}
}
