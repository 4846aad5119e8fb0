package array

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/fixedarray/internal/mem"
)

// span is a resolved start:end:step selection of n flat indices.
type span struct {
	start int
	step  int
	n     int
}

func (s span) at(i int) int { return s.start + i*s.step }

// resolveSlice resolves start:end:step against n elements. Negative bounds
// count from the end like Index; bounds past either end are clamped. With a
// negative step the selection runs backwards and an end of -n-1 reaches past
// index 0.
func resolveSlice(start, end, step, n int) (span, error) {
	if step == 0 {
		return span{}, fmt.Errorf("%w: step cannot be zero", ErrInvalidSlice)
	}
	lo, hi := 0, n
	if step < 0 {
		lo, hi = -1, n-1
	}
	clamp := func(i int) int {
		if i < 0 {
			i += n
		}
		return max(lo, min(i, hi))
	}
	start, end = clamp(start), clamp(end)

	count := 0
	switch {
	case step > 0 && start < end:
		count = (end-start-1)/step + 1
	case step < 0 && end < start:
		count = (start-end-1)/(-step) + 1
	}
	return span{start: start, step: step, n: count}, nil
}

// Slice copies the elements selected by start:end:step, in flat storage order,
// into a new 1D array with the same element type and vector length.
func (a *Array) Slice(start, end, step int, opts ...Option) (*Array, error) {
	if a.released {
		return nil, ErrReleased
	}
	s, err := resolveSlice(start, end, step, a.Len())
	if err != nil {
		return nil, err
	}
	out, err := New(a.layout.Type, a.layout.VectorLen, s.n, opts...)
	if err != nil {
		return nil, err
	}

	es := a.layout.ElemSize()
	if s.step == 1 {
		copy(out.data, a.data[s.start*es:(s.start+s.n)*es])
		return out, nil
	}
	for i := 0; i < s.n; i++ {
		copyElem(out.data, i, a.data, s.at(i), es)
	}
	return out, nil
}

// Fill sets every element to values, which must hold exactly VectorLen components.
func (a *Array) Fill(values ...float64) error {
	return a.FillSlice(0, a.Len(), 1, values...)
}

// FillSlice sets the elements selected by start:end:step to values.
func (a *Array) FillSlice(start, end, step int, values ...float64) error {
	if a.released {
		return ErrReleased
	}
	pat, err := a.encode(values)
	if err != nil {
		return err
	}
	if a.readOnly {
		return ErrReadOnly
	}
	s, err := resolveSlice(start, end, step, a.Len())
	if err != nil {
		return err
	}
	for i := 0; i < s.n; i++ {
		copyElem(a.data, s.at(i), pat, 0, len(pat))
	}
	return nil
}

// Assign copies src into a element by element. src must have the same element
// type and vector length, and exactly as many elements as a.
func (a *Array) Assign(src *Array) error {
	return a.AssignSlice(0, a.Len(), 1, src)
}

// AssignSlice copies src into the elements selected by start:end:step. src must
// hold exactly one element per selected element; otherwise a *LengthError
// naming both lengths is returned and a is left unchanged.
func (a *Array) AssignSlice(start, end, step int, src *Array) error {
	if err := a.checkSource(src); err != nil {
		return err
	}
	s, err := resolveSlice(start, end, step, a.Len())
	if err != nil {
		return err
	}
	if src.Len() != s.n {
		return &LengthError{Expected: s.n, Actual: src.Len()}
	}
	if a.readOnly {
		return ErrReadOnly
	}

	data := src.data
	if src == a {
		data = slices.Clone(data)
	}
	es := a.layout.ElemSize()
	for i := 0; i < s.n; i++ {
		copyElem(a.data, s.at(i), data, i, es)
	}
	return nil
}

// IfElse returns a new array with a's layout holding a's element i where choice
// contains i and other's element i everywhere else. other must match a's
// element type, vector length and number of elements.
func (a *Array) IfElse(choice *roaring.Bitmap, other *Array, opts ...Option) (*Array, error) {
	if err := a.checkSource(other); err != nil {
		return nil, err
	}
	if other.Len() != a.Len() {
		return nil, &LengthError{Expected: a.Len(), Actual: other.Len()}
	}
	if err := checkSelection(choice, a.Len()); err != nil {
		return nil, err
	}

	out, err := Make(a.layout, opts...)
	if err != nil {
		return nil, err
	}
	copy(out.data, other.data)
	a.copySelected(out, choice)
	return out, nil
}

// IfElseValue is IfElse with the constant element values in place of other.
func (a *Array) IfElseValue(choice *roaring.Bitmap, values []float64, opts ...Option) (*Array, error) {
	if a.released {
		return nil, ErrReleased
	}
	pat, err := a.encode(values)
	if err != nil {
		return nil, err
	}
	if err := checkSelection(choice, a.Len()); err != nil {
		return nil, err
	}

	out, err := Make(a.layout, opts...)
	if err != nil {
		return nil, err
	}
	for i := 0; i < out.Len(); i++ {
		copyElem(out.data, i, pat, 0, len(pat))
	}
	a.copySelected(out, choice)
	return out, nil
}

func (a *Array) copySelected(out *Array, choice *roaring.Bitmap) {
	if choice == nil {
		return
	}
	es := a.layout.ElemSize()
	it := choice.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		copyElem(out.data, i, a.data, i, es)
	}
}

// encode packs one element's components into an aligned scratch buffer.
func (a *Array) encode(values []float64) ([]byte, error) {
	if len(values) != a.layout.VectorLen {
		return nil, &LengthError{Expected: a.layout.VectorLen, Actual: len(values)}
	}
	w := a.layout.Type.Size()
	pat := mem.Alloc(a.layout.ElemSize())
	for j, v := range values {
		store(a.layout.Type, pat[j*w:], v)
	}
	return pat, nil
}

func (a *Array) checkSource(src *Array) error {
	if a.released || src.released {
		return ErrReleased
	}
	if src.layout.Type != a.layout.Type || src.layout.VectorLen != a.layout.VectorLen {
		return fmt.Errorf("%w: source holds %s×%d, destination %s×%d", ErrTypeMismatch,
			src.layout.Type, src.layout.VectorLen, a.layout.Type, a.layout.VectorLen)
	}
	return nil
}

func checkSelection(sel *roaring.Bitmap, n int) error {
	if sel == nil || sel.IsEmpty() {
		return nil
	}
	if maxIdx := int(sel.Maximum()); maxIdx >= n {
		return indexError(maxIdx, n)
	}
	return nil
}

// copyElem copies element j of src over element i of dst; es is the element size.
func copyElem(dst []byte, i int, src []byte, j, es int) {
	copy(dst[i*es:(i+1)*es], src[j*es:(j+1)*es])
}
