package buffer

import (
	"github.com/hupe1980/fixedarray/array"
)

type importOptions struct {
	grid      bool
	vectorLen int
	arrayOpts []array.Option
}

// ImportOption configures BufferToArray.
type ImportOption func(*importOptions)

// AsGrid imports a rank-2 descriptor as a (height, width) scalar grid instead
// of a sequence of vectors.
func AsGrid() ImportOption {
	return func(o *importOptions) {
		o.grid = true
	}
}

// WithVectorLength requires the imported array to have vector length k.
// The shape still determines k; a mismatch fails the import.
func WithVectorLength(k int) ImportOption {
	return func(o *importOptions) {
		o.vectorLen = k
	}
}

// WithArrayOptions forwards options to the array constructor, for example an
// allocator charging a memory budget.
func WithArrayOptions(opts ...array.Option) ImportOption {
	return func(o *importOptions) {
		o.arrayOpts = append(o.arrayOpts, opts...)
	}
}

// Layout resolves the array layout BufferToArray would allocate for d,
// performing every validation step without allocating.
func Layout(d *Descriptor, opts ...ImportOption) (array.Layout, error) {
	if d == nil {
		return array.Layout{}, ErrNilDescriptor
	}
	var o importOptions
	for _, fn := range opts {
		fn(&o)
	}
	return resolve(d, o)
}

func resolve(d *Descriptor, o importOptions) (array.Layout, error) {
	if err := d.Validate(); err != nil {
		return array.Layout{}, err
	}
	t, _ := d.Type()
	l, err := layoutFor(t, d.Shape, o)
	if err != nil {
		return array.Layout{}, err
	}
	if err := l.Validate(); err != nil {
		return array.Layout{}, err
	}
	return l, nil
}

// BufferToArray allocates a new array and copies every item of d into it,
// honoring the declared strides. The result shares no memory with d.
//
// Element type comes from the format tag. Vector length comes from the shape:
// rank 1 is scalar, a rank-2 trailing dimension is k (at most 4), and rank 3 is
// (height, width, k). All validation happens before allocation.
func BufferToArray(d *Descriptor, opts ...ImportOption) (*array.Array, error) {
	if d == nil {
		return nil, ErrNilDescriptor
	}
	var o importOptions
	for _, fn := range opts {
		fn(&o)
	}

	l, err := resolve(d, o)
	if err != nil {
		return nil, err
	}

	a, err := array.Make(l, o.arrayOpts...)
	if err != nil {
		return nil, err
	}
	copyInto(a.Bytes(), d)
	return a, nil
}

// copyInto packs the items of a validated descriptor into dst in row-major order.
func copyInto(dst []byte, d *Descriptor) {
	n := d.NumBytes()
	if n == 0 {
		return
	}
	if d.IsContiguous() {
		copy(dst, d.Buf[d.Offset:d.Offset+n])
		return
	}

	w := d.ItemSize
	pos := 0
	walk(d.Shape, d.Strides, d.Offset, func(off int) {
		copy(dst[pos:pos+w], d.Buf[off:off+w])
		pos += w
	})
}

// walk calls fn with the byte offset of every item, in row-major index order.
func walk(shape, strides []int, base int, fn func(off int)) {
	if len(shape) == 1 {
		off := base
		for i := 0; i < shape[0]; i++ {
			fn(off)
			off += strides[0]
		}
		return
	}
	off := base
	for i := 0; i < shape[0]; i++ {
		walk(shape[1:], strides[1:], off, fn)
		off += strides[0]
	}
}
