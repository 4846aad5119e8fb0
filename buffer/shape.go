package buffer

import (
	"github.com/hupe1980/fixedarray/array"
	"github.com/hupe1980/fixedarray/dtype"
)

// MaxRank is the largest descriptor rank a typed array can be exported to or
// imported from.
const MaxRank = 3

// Shape returns the exported shape for an array layout.
func Shape(l array.Layout) []int {
	var shape []int
	if l.Is2D() {
		shape = []int{l.Height, l.Width}
	} else {
		shape = []int{l.Width}
	}
	if l.VectorLen > 1 {
		shape = append(shape, l.VectorLen)
	}
	return shape
}

// Strides returns the byte strides matching Shape(l).
func Strides(l array.Layout) []int {
	w := l.ItemSize()
	es := l.ElemSize()
	var strides []int
	if l.Is2D() {
		strides = []int{l.Width * es, es}
	} else {
		strides = []int{es}
	}
	if l.VectorLen > 1 {
		strides = append(strides, w)
	}
	return strides
}

// ContiguousStrides returns row-major packed strides for shape.
func ContiguousStrides(shape []int, itemSize int) []int {
	strides := make([]int, len(shape))
	acc := itemSize
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

// layoutFor derives the array layout for a foreign shape.
//
// Rank 1 is a scalar sequence. Rank 2 is a vector sequence whose trailing
// dimension is k, unless grid is set, in which case it is a (height, width)
// scalar grid. Rank 3 is a (height, width, k) vector grid.
func layoutFor(t dtype.Type, shape []int, o importOptions) (array.Layout, error) {
	var l array.Layout
	switch len(shape) {
	case 1:
		if o.grid {
			return l, shapeErrorf(shape, "grid import needs rank 2 or 3")
		}
		l = array.Layout1D(t, 1, shape[0])
	case 2:
		if o.grid {
			l = array.Layout2D(t, 1, shape[1], shape[0])
			break
		}
		k := shape[1]
		if err := checkVectorLen(shape, k); err != nil {
			return l, err
		}
		l = array.Layout1D(t, k, shape[0])
	case 3:
		k := shape[2]
		if err := checkVectorLen(shape, k); err != nil {
			return l, err
		}
		l = array.Layout2D(t, k, shape[1], shape[0])
	default:
		return l, shapeErrorf(shape, "rank %d not in [1, %d]", len(shape), MaxRank)
	}

	if o.vectorLen > 0 && o.vectorLen != l.VectorLen {
		return l, shapeErrorf(shape, "vector length %d, want %d", l.VectorLen, o.vectorLen)
	}
	return l, nil
}

func checkVectorLen(shape []int, k int) error {
	if k < 1 || k > array.MaxVectorLen {
		return shapeErrorf(shape, "trailing dimension %d is not a vector length in [1, %d]", k, array.MaxVectorLen)
	}
	return nil
}
