package array

import (
	"errors"
	"fmt"

	"github.com/hupe1980/fixedarray/dtype"
	"github.com/hupe1980/fixedarray/internal/mem"
)

// Array is a typed fixed array owning contiguous element storage.
//
// An Array is not safe for concurrent mutation. See the package documentation
// for the aliasing contract of views derived from it.
type Array struct {
	layout   Layout
	data     []byte
	readOnly bool
	released bool
	hooks    []func() error
}

// New allocates a zeroed 1D array of n elements with k components of type t.
func New(t dtype.Type, k, n int, opts ...Option) (*Array, error) {
	return Make(Layout1D(t, k, n), opts...)
}

// New2D allocates a zeroed width × height grid with k components of type t per element.
func New2D(t dtype.Type, k, width, height int, opts ...Option) (*Array, error) {
	return Make(Layout2D(t, k, width, height), opts...)
}

// Make allocates a zeroed array for the given layout.
func Make(l Layout, opts ...Option) (*Array, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	o := applyOptions(opts)

	size := l.ByteLen()
	var data []byte
	if o.alloc != nil {
		buf, err := o.alloc(size)
		if err != nil {
			return nil, err
		}
		if len(buf) != size {
			return nil, fmt.Errorf("array: allocator returned %d bytes, want %d", len(buf), size)
		}
		if !mem.IsAligned(buf, l.ItemSize()) {
			return nil, fmt.Errorf("array: allocator returned storage not aligned to %d bytes", l.ItemSize())
		}
		clear(buf)
		data = buf
	} else {
		data = mem.Alloc(size)
	}

	return &Array{
		layout:   l,
		data:     data,
		readOnly: o.readOnly,
		hooks:    o.hooks,
	}, nil
}

// Wrap creates an array over existing storage without copying.
//
// data must be exactly l.ByteLen() bytes and aligned to the item size. The
// caller keeps data alive and unmodified by other owners for the lifetime of the
// array; release hooks are the place to return it (for example, to unmap it).
func Wrap(l Layout, data []byte, opts ...Option) (*Array, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if len(data) != l.ByteLen() {
		return nil, fmt.Errorf("%w: storage is %d bytes, layout %s needs %d",
			ErrInvalidLayout, len(data), l, l.ByteLen())
	}
	if !mem.IsAligned(data, l.ItemSize()) {
		return nil, fmt.Errorf("%w: storage not aligned to %d bytes", ErrInvalidLayout, l.ItemSize())
	}

	o := applyOptions(opts)
	return &Array{
		layout:   l,
		data:     data[:len(data):len(data)],
		readOnly: o.readOnly,
		hooks:    o.hooks,
	}, nil
}

// Layout returns the array layout.
func (a *Array) Layout() Layout { return a.layout }

// Type returns the component element type.
func (a *Array) Type() dtype.Type { return a.layout.Type }

// VectorLen returns the number of components per element.
func (a *Array) VectorLen() int { return a.layout.VectorLen }

// Len returns the number of elements (width·height for grids).
func (a *Array) Len() int { return a.layout.Len() }

// Width returns the element count of a 1D array or the x extent of a grid.
func (a *Array) Width() int { return a.layout.Width }

// Height returns the y extent of a grid, or 1 for a 1D array.
func (a *Array) Height() int {
	if a.layout.Rank == 2 {
		return a.layout.Height
	}
	return 1
}

// Is2D reports whether the array is a grid.
func (a *Array) Is2D() bool { return a.layout.Is2D() }

// ReadOnly reports whether writes are rejected.
func (a *Array) ReadOnly() bool { return a.readOnly }

// MakeReadOnly rejects all further writes through this array and its views.
// Views taken before the call keep their original permission.
func (a *Array) MakeReadOnly() { a.readOnly = true }

// Released reports whether Release has been called.
func (a *Array) Released() bool { return a.released }

// Bytes returns the raw element storage. It aliases the array and is nil after Release.
func (a *Array) Bytes() []byte { return a.data }

// Index returns the element at flat index i. Negative indices count from the
// end, so -1 is the last element. Grids are indexed in storage order (y·width + x).
func (a *Array) Index(i int) (Element, error) {
	if a.released {
		return Element{}, ErrReleased
	}
	n := a.Len()
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return Element{}, indexError(i, n)
	}
	return a.element(idx), nil
}

// At returns the element at logical grid position (x, y).
func (a *Array) At(x, y int) (Element, error) {
	if a.released {
		return Element{}, ErrReleased
	}
	if !a.Is2D() {
		return Element{}, fmt.Errorf("%w: At requires a 2D array", ErrRank)
	}
	w, h := a.layout.Width, a.layout.Height
	if x < 0 || x >= w || y < 0 || y >= h {
		return Element{}, &IndexError{Index: []int{x, y}, Bounds: []int{w, h}}
	}
	return a.element(y*w + x), nil
}

func (a *Array) element(idx int) Element {
	es := a.layout.ElemSize()
	off := idx * es
	return Element{
		t:  a.layout.Type,
		k:  a.layout.VectorLen,
		b:  a.data[off : off+es : off+es],
		ro: a.readOnly,
	}
}

// Release drops the array storage and runs the release hooks.
//
// Every Element, view and buffer descriptor derived from the array is invalid
// afterwards. Release is idempotent.
func (a *Array) Release() error {
	if a.released {
		return nil
	}
	a.released = true
	a.data = nil

	var errs []error
	for i := len(a.hooks) - 1; i >= 0; i-- {
		if err := a.hooks[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.hooks = nil
	return errors.Join(errs...)
}
