package array

import (
	"fmt"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Masked is an index-indirected view selecting a subset of an array's elements.
// Element i of the view is element Indices()[i] of the parent, in ascending
// parent order, sharing its storage.
//
// A masked view has no single stride and therefore cannot be exported as a
// buffer; use Compact to obtain a dense array first.
type Masked struct {
	parent  *Array
	indices []uint32
}

// Mask returns a masked view over the elements whose flat indices are in sel.
func (a *Array) Mask(sel *roaring.Bitmap) (*Masked, error) {
	if a.released {
		return nil, ErrReleased
	}
	n := a.Len()
	if uint64(n) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d elements exceed mask index range", ErrInvalidLayout, n)
	}
	if sel == nil || sel.IsEmpty() {
		return &Masked{parent: a}, nil
	}
	if err := checkSelection(sel, n); err != nil {
		return nil, err
	}
	return &Masked{parent: a, indices: sel.ToArray()}, nil
}

// Select returns the flat indices of the elements for which pred returns true.
func Select(a *Array, pred func(i int, e Element) bool) (*roaring.Bitmap, error) {
	if a.released {
		return nil, ErrReleased
	}
	n := a.Len()
	if uint64(n) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d elements exceed mask index range", ErrInvalidLayout, n)
	}
	sel := roaring.New()
	for i := 0; i < n; i++ {
		if pred(i, a.element(i)) {
			sel.Add(uint32(i))
		}
	}
	return sel, nil
}

// Parent returns the array the view indexes into.
func (m *Masked) Parent() *Array { return m.parent }

// Len returns the number of selected elements.
func (m *Masked) Len() int { return len(m.indices) }

// Indices returns a copy of the selected parent indices.
func (m *Masked) Indices() []uint32 {
	out := make([]uint32, len(m.indices))
	copy(out, m.indices)
	return out
}

// Index returns selected element i, aliasing the parent storage.
func (m *Masked) Index(i int) (Element, error) {
	if m.parent.released {
		return Element{}, ErrReleased
	}
	if i < 0 || i >= len(m.indices) {
		return Element{}, indexError(i, len(m.indices))
	}
	return m.parent.element(int(m.indices[i])), nil
}

// Compact copies the selected elements into a new, independent 1D array with
// the parent's element type and vector length.
func (m *Masked) Compact(opts ...Option) (*Array, error) {
	if m.parent.released {
		return nil, ErrReleased
	}
	l := m.parent.layout
	out, err := New(l.Type, l.VectorLen, len(m.indices), opts...)
	if err != nil {
		return nil, err
	}
	es := l.ElemSize()
	for i, idx := range m.indices {
		src := int(idx) * es
		copy(out.data[i*es:(i+1)*es], m.parent.data[src:src+es])
	}
	return out, nil
}

// Fill sets every selected element to values, which must hold exactly
// VectorLen components.
func (m *Masked) Fill(values ...float64) error {
	p := m.parent
	if p.released {
		return ErrReleased
	}
	pat, err := p.encode(values)
	if err != nil {
		return err
	}
	if p.readOnly {
		return ErrReadOnly
	}
	for _, idx := range m.indices {
		copyElem(p.data, int(idx), pat, 0, len(pat))
	}
	return nil
}

// Assign copies src into the selected elements. src holds either one element
// per selected element, assigned in selection order, or one element per parent
// element, of which only the selected positions are copied. Any other length is
// a *LengthError naming the selection length, and nothing is written.
func (m *Masked) Assign(src *Array) error {
	p := m.parent
	if err := p.checkSource(src); err != nil {
		return err
	}

	sequential := true
	switch src.Len() {
	case len(m.indices):
	case p.Len():
		sequential = false
	default:
		return &LengthError{Expected: len(m.indices), Actual: src.Len()}
	}
	if p.readOnly {
		return ErrReadOnly
	}

	data := src.data
	if src == p {
		data = slices.Clone(data)
	}
	es := p.layout.ElemSize()
	for i, idx := range m.indices {
		j := int(idx)
		if sequential {
			j = i
		}
		copyElem(p.data, int(idx), data, j, es)
	}
	return nil
}
