package array

import (
	"fmt"

	"github.com/hupe1980/fixedarray/dtype"
	"github.com/hupe1980/fixedarray/internal/conv"
)

// MaxVectorLen is the largest supported number of components per element.
const MaxVectorLen = 4

// Layout describes the element type and dimensions of an array.
type Layout struct {
	// Type is the component element type.
	Type dtype.Type
	// VectorLen is the number of components per element (1 for scalars).
	VectorLen int
	// Rank is 1 for sequences and 2 for grids.
	Rank int
	// Width is the element count of a 1D array, or the x extent of a grid.
	Width int
	// Height is the y extent of a grid. It is ignored for 1D arrays.
	Height int
}

// Layout1D returns the layout of a 1D array of n elements.
func Layout1D(t dtype.Type, k, n int) Layout {
	return Layout{Type: t, VectorLen: k, Rank: 1, Width: n}
}

// Layout2D returns the layout of a width × height grid.
func Layout2D(t dtype.Type, k, width, height int) Layout {
	return Layout{Type: t, VectorLen: k, Rank: 2, Width: width, Height: height}
}

// Validate checks type, vector length, rank and dimensions, and that the total
// byte size fits in an int.
func (l Layout) Validate() error {
	if !l.Type.Valid() {
		return fmt.Errorf("%w: %d", dtype.ErrUnsupported, l.Type)
	}
	if l.VectorLen < 1 || l.VectorLen > MaxVectorLen {
		return fmt.Errorf("%w: vector length %d not in [1, %d]", ErrInvalidLayout, l.VectorLen, MaxVectorLen)
	}
	switch l.Rank {
	case 1:
		if l.Width < 0 {
			return fmt.Errorf("%w: negative length %d", ErrInvalidLayout, l.Width)
		}
	case 2:
		if l.Width < 0 || l.Height < 0 {
			return fmt.Errorf("%w: negative grid size %dx%d", ErrInvalidLayout, l.Width, l.Height)
		}
	default:
		return fmt.Errorf("%w: rank %d", ErrInvalidLayout, l.Rank)
	}
	dims := []int{l.Width, l.VectorLen, l.Type.Size()}
	if l.Rank == 2 {
		dims = append(dims, l.Height)
	}
	if _, err := conv.MulInt(dims...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	return nil
}

// Is2D reports whether the layout describes a grid.
func (l Layout) Is2D() bool { return l.Rank == 2 }

// Len returns the number of elements.
func (l Layout) Len() int {
	if l.Rank == 2 {
		return l.Width * l.Height
	}
	return l.Width
}

// ItemSize returns the byte width of one component.
func (l Layout) ItemSize() int { return l.Type.Size() }

// ElemSize returns the byte width of one element (k·w).
func (l Layout) ElemSize() int { return l.VectorLen * l.Type.Size() }

// ByteLen returns the size of the element storage in bytes.
func (l Layout) ByteLen() int { return l.Len() * l.ElemSize() }

func (l Layout) String() string {
	if l.Rank == 2 {
		return fmt.Sprintf("%s[%d] %dx%d", l.Type, l.VectorLen, l.Width, l.Height)
	}
	return fmt.Sprintf("%s[%d] x%d", l.Type, l.VectorLen, l.Width)
}
