package array

import (
	"fmt"

	"github.com/hupe1980/fixedarray/dtype"
)

// ComponentView is a strided view of one component across all elements of an
// array (for example the x coordinate of every vector).
//
// It is an offset + stride + count indirection over the parent storage, not a
// copy: element i of the view lives at byte Offset() + i·Stride() of Backing().
type ComponentView struct {
	t         dtype.Type
	data      []byte
	component int
	offset    int
	stride    int
	rank      int
	width     int
	height    int
	ro        bool
}

// Component returns the strided view of component j, 0 <= j < VectorLen().
// For scalar arrays, Component(0) is a unit-stride view of the whole array.
func (a *Array) Component(j int) (*ComponentView, error) {
	if a.released {
		return nil, ErrReleased
	}
	k := a.layout.VectorLen
	if j < 0 || j >= k {
		return nil, indexError(j, k)
	}
	return &ComponentView{
		t:         a.layout.Type,
		data:      a.data,
		component: j,
		offset:    j * a.layout.ItemSize(),
		stride:    a.layout.ElemSize(),
		rank:      a.layout.Rank,
		width:     a.layout.Width,
		height:    a.Height(),
		ro:        a.readOnly,
	}, nil
}

// Type returns the element type of the view.
func (v *ComponentView) Type() dtype.Type { return v.t }

// Component returns the component index the view selects.
func (v *ComponentView) Component() int { return v.component }

// Len returns the number of values in the view.
func (v *ComponentView) Len() int {
	if v.rank == 2 {
		return v.width * v.height
	}
	return v.width
}

// Rank returns 1 for views of 1D arrays and 2 for views of grids.
func (v *ComponentView) Rank() int { return v.rank }

// Width returns the view length (1D) or the grid width (2D).
func (v *ComponentView) Width() int { return v.width }

// Height returns the grid height, or 1 for 1D views.
func (v *ComponentView) Height() int { return v.height }

// Offset returns the byte offset of the first value within Backing.
func (v *ComponentView) Offset() int { return v.offset }

// Stride returns the byte distance between consecutive values (k·w).
func (v *ComponentView) Stride() int { return v.stride }

// ReadOnly reports whether writes through the view are rejected.
func (v *ComponentView) ReadOnly() bool { return v.ro }

// Backing returns the full parent storage the view indexes into.
func (v *ComponentView) Backing() []byte { return v.data }

// Float64 returns value i of the view.
func (v *ComponentView) Float64(i int) (float64, error) {
	if i < 0 || i >= v.Len() {
		return 0, indexError(i, v.Len())
	}
	return load(v.t, v.data[v.offset+i*v.stride:]), nil
}

// SetFloat64 sets value i of the view; the parent array observes the write.
func (v *ComponentView) SetFloat64(i int, val float64) error {
	if v.ro {
		return ErrReadOnly
	}
	if i < 0 || i >= v.Len() {
		return indexError(i, v.Len())
	}
	store(v.t, v.data[v.offset+i*v.stride:], val)
	return nil
}

// At returns the value at grid position (x, y).
func (v *ComponentView) At(x, y int) (float64, error) {
	if v.rank != 2 {
		return 0, fmt.Errorf("%w: At requires a 2D view", ErrRank)
	}
	if x < 0 || x >= v.width || y < 0 || y >= v.height {
		return 0, &IndexError{Index: []int{x, y}, Bounds: []int{v.width, v.height}}
	}
	return v.Float64(y*v.width + x)
}

// Float64s returns a copy of all values in view order.
func (v *ComponentView) Float64s() []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = load(v.t, v.data[v.offset+i*v.stride:])
	}
	return out
}
