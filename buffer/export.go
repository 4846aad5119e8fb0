package buffer

import (
	"github.com/hupe1980/fixedarray/array"
)

// ArrayToBuffer exports a as a descriptor over its storage. Nothing is copied:
// writes through the descriptor are visible in the array and the other way
// round. The format tag derives from the element type only; the vector length
// shows up as the trailing dimension.
//
// The descriptor is flagged read-only when the array is.
func ArrayToBuffer(a *array.Array) (*Descriptor, error) {
	if a.Released() {
		return nil, array.ErrReleased
	}
	l := a.Layout()
	return &Descriptor{
		Buf:      a.Bytes(),
		Format:   l.Type.Format(),
		ItemSize: l.ItemSize(),
		Shape:    Shape(l),
		Strides:  Strides(l),
		ReadOnly: a.ReadOnly(),
	}, nil
}

// ComponentToBuffer exports component j of every element of a as its own
// (N,) or (height, width) buffer with element stride k·w.
func ComponentToBuffer(a *array.Array, j int) (*Descriptor, error) {
	v, err := a.Component(j)
	if err != nil {
		return nil, err
	}
	return ViewToBuffer(v), nil
}

// ViewToBuffer exports a component view. The descriptor shares the parent
// array storage, offset by the component's byte position.
func ViewToBuffer(v *array.ComponentView) *Descriptor {
	w := v.Type().Size()
	d := &Descriptor{
		Buf:      v.Backing(),
		Offset:   v.Offset(),
		Format:   v.Type().Format(),
		ItemSize: w,
		ReadOnly: v.ReadOnly(),
	}
	if v.Rank() == 2 {
		d.Shape = []int{v.Height(), v.Width()}
		d.Strides = []int{v.Width() * v.Stride(), v.Stride()}
	} else {
		d.Shape = []int{v.Len()}
		d.Strides = []int{v.Stride()}
	}
	return d
}
