package array

import (
	"errors"
	"fmt"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/fixedarray/dtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ZeroInitialized(t *testing.T) {
	for _, typ := range dtype.All() {
		for k := 1; k <= MaxVectorLen; k++ {
			t.Run(fmt.Sprintf("%s/k=%d", typ, k), func(t *testing.T) {
				a, err := New(typ, k, 20)
				require.NoError(t, err)
				assert.Equal(t, 20, a.Len())
				assert.Equal(t, k, a.VectorLen())
				assert.Len(t, a.Bytes(), 20*k*typ.Size())

				for i := 0; i < a.Len(); i++ {
					e, err := a.Index(i)
					require.NoError(t, err)
					assert.Equal(t, k, e.Len())
					for _, v := range e.Float64s() {
						assert.Zero(t, v)
					}
				}
			})
		}
	}
}

func TestNew2D(t *testing.T) {
	a, err := New2D(dtype.Float32, 4, 10, 5)
	require.NoError(t, err)
	assert.True(t, a.Is2D())
	assert.Equal(t, 10, a.Width())
	assert.Equal(t, 5, a.Height())
	assert.Equal(t, 50, a.Len())
	assert.Len(t, a.Bytes(), 50*4*4)
}

func TestLayout_Validate(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		want   error
	}{
		{"invalid type", Layout1D(dtype.Invalid, 1, 3), dtype.ErrUnsupported},
		{"vector length 0", Layout1D(dtype.Float32, 0, 3), ErrInvalidLayout},
		{"vector length 5", Layout1D(dtype.Float32, 5, 3), ErrInvalidLayout},
		{"negative length", Layout1D(dtype.Float32, 1, -1), ErrInvalidLayout},
		{"negative height", Layout2D(dtype.Float32, 1, 2, -1), ErrInvalidLayout},
		{"rank 3", Layout{Type: dtype.Float32, VectorLen: 1, Rank: 3, Width: 1}, ErrInvalidLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.layout.Validate(), tt.want)
			_, err := Make(tt.layout)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.NoError(t, Layout1D(dtype.Uint8, 4, 0).Validate())
}

func TestIndex_OutOfRange(t *testing.T) {
	a, err := New(dtype.Int32, 1, 20)
	require.NoError(t, err)

	_, err = a.Index(20)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	var ie *IndexError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, []int{20}, ie.Index)
	assert.Equal(t, []int{20}, ie.Bounds)
	assert.Equal(t, "index 20 out of range [0, 20)", err.Error())

	_, err = a.Index(-21)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestIndex_Negative(t *testing.T) {
	a, err := New(dtype.Int16, 1, 5)
	require.NoError(t, err)

	last, err := a.Index(4)
	require.NoError(t, err)
	require.NoError(t, last.SetValue(7))

	e, err := a.Index(-1)
	require.NoError(t, err)
	assert.Equal(t, 7.0, e.Value())
}

func TestAt_GridConvention(t *testing.T) {
	a, err := New2D(dtype.Float64, 1, 10, 5)
	require.NoError(t, err)

	e, err := a.At(3, 2)
	require.NoError(t, err)
	require.NoError(t, e.SetValue(42))

	// y is the outer index: flat position is y·width + x.
	flat, err := a.Index(2*10 + 3)
	require.NoError(t, err)
	assert.Equal(t, 42.0, flat.Value())

	vals, err := Values[float64](a)
	require.NoError(t, err)
	assert.Equal(t, 42.0, vals[23])
}

func TestAt_Errors(t *testing.T) {
	grid, err := New2D(dtype.Uint8, 3, 10, 5)
	require.NoError(t, err)

	_, err = grid.At(10, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.EqualError(t, err, "index (10, 0) out of range for 10x5 array")

	_, err = grid.At(0, 5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	line, err := New(dtype.Uint8, 1, 10)
	require.NoError(t, err)
	_, err = line.At(0, 0)
	assert.ErrorIs(t, err, ErrRank)
}

func TestElement_Tuple(t *testing.T) {
	a, err := New(dtype.Float32, 3, 4)
	require.NoError(t, err)

	e, err := a.Index(1)
	require.NoError(t, err)
	require.NoError(t, e.Set(1, 2, 3))
	assert.Equal(t, []float64{1, 2, 3}, e.Float64s())

	again, err := a.Index(1)
	require.NoError(t, err)
	v, err := again.Float64(2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	_, err = again.Float64(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, again.SetFloat64(-1, 0), ErrIndexOutOfRange)
}

func TestElement_SetArity(t *testing.T) {
	a, err := New(dtype.Float64, 3, 2)
	require.NoError(t, err)

	e, err := a.Index(0)
	require.NoError(t, err)

	err = e.Set(1, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.EqualError(t, err, "expected sequence of length 3, got 2")

	var le *LengthError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 3, le.Expected)
	assert.Equal(t, 2, le.Actual)

	assert.Equal(t, []float64{0, 0, 0}, e.Float64s(), "failed Set must not modify the element")
}

func TestElement_IntegerConversion(t *testing.T) {
	tests := []struct {
		typ  dtype.Type
		in   float64
		want float64
	}{
		{dtype.Int8, 1.9, 1},
		{dtype.Int8, -1.9, -1},
		{dtype.Uint8, 256, 0},
		{dtype.Int16, -32769, 32767},
		{dtype.Uint32, 4294967295, 4294967295},
		{dtype.Float32, 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.typ, tt.in), func(t *testing.T) {
			a, err := New(tt.typ, 1, 1)
			require.NoError(t, err)
			e, err := a.Index(0)
			require.NoError(t, err)
			require.NoError(t, e.SetValue(tt.in))
			assert.Equal(t, tt.want, e.Value())
		})
	}
}

func TestComponent_Aliasing(t *testing.T) {
	a, err := New(dtype.Int32, 3, 10)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		e, err := a.Index(i)
		require.NoError(t, err)
		require.NoError(t, e.Set(float64(i), float64(i*10), float64(i*100)))
	}

	y, err := a.Component(1)
	require.NoError(t, err)
	assert.Equal(t, 10, y.Len())
	assert.Equal(t, 4, y.Offset())
	assert.Equal(t, 12, y.Stride())

	for i := 0; i < 10; i++ {
		v, err := y.Float64(i)
		require.NoError(t, err)
		assert.Equal(t, float64(i*10), v)
	}

	// Array -> view.
	e, err := a.Index(4)
	require.NoError(t, err)
	require.NoError(t, e.SetFloat64(1, -5))
	v, err := y.Float64(4)
	require.NoError(t, err)
	assert.Equal(t, -5.0, v)

	// View -> array.
	require.NoError(t, y.SetFloat64(7, 99))
	e, err = a.Index(7)
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 99, 700}, e.Float64s())

	_, err = a.Component(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = y.Float64(10)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestComponent_Grid(t *testing.T) {
	a, err := New2D(dtype.Uint8, 4, 10, 5)
	require.NoError(t, err)

	alpha, err := a.Component(3)
	require.NoError(t, err)
	assert.Equal(t, 2, alpha.Rank())
	assert.Equal(t, 50, alpha.Len())

	e, err := a.At(3, 2)
	require.NoError(t, err)
	require.NoError(t, e.Set(1, 2, 3, 255))

	v, err := alpha.At(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 255.0, v)

	_, err = alpha.At(10, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestReadOnly(t *testing.T) {
	a, err := New(dtype.Float32, 2, 3, WithReadOnly())
	require.NoError(t, err)
	assert.True(t, a.ReadOnly())

	e, err := a.Index(0)
	require.NoError(t, err)
	assert.ErrorIs(t, e.SetFloat64(0, 1), ErrReadOnly)
	assert.ErrorIs(t, e.Set(1, 2), ErrReadOnly)

	c, err := a.Component(0)
	require.NoError(t, err)
	assert.ErrorIs(t, c.SetFloat64(0, 1), ErrReadOnly)

	b, err := New(dtype.Float32, 1, 1)
	require.NoError(t, err)
	b.MakeReadOnly()
	e, err = b.Index(0)
	require.NoError(t, err)
	assert.ErrorIs(t, e.SetValue(1), ErrReadOnly)
}

func TestRelease(t *testing.T) {
	var order []int
	a, err := New(dtype.Float64, 1, 4,
		WithReleaseHook(func() error { order = append(order, 1); return nil }),
		WithReleaseHook(func() error { order = append(order, 2); return errors.New("boom") }),
	)
	require.NoError(t, err)

	err = a.Release()
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []int{2, 1}, order)
	assert.True(t, a.Released())
	assert.Nil(t, a.Bytes())

	assert.NoError(t, a.Release(), "release is idempotent")
	assert.Equal(t, []int{2, 1}, order)

	_, err = a.Index(0)
	assert.ErrorIs(t, err, ErrReleased)
	_, err = a.Component(0)
	assert.ErrorIs(t, err, ErrReleased)
	_, err = Values[float64](a)
	assert.ErrorIs(t, err, ErrReleased)
}

func TestWithAllocator(t *testing.T) {
	var requested int
	alloc := func(size int) ([]byte, error) {
		requested = size
		buf := make([]byte, size)
		for i := range buf {
			buf[i] = 0xFF
		}
		return buf, nil
	}

	a, err := New(dtype.Uint8, 2, 8, WithAllocator(alloc))
	require.NoError(t, err)
	assert.Equal(t, 16, requested)
	for _, b := range a.Bytes() {
		assert.Zero(t, b)
	}

	failing := func(int) ([]byte, error) { return nil, errors.New("no memory") }
	_, err = New(dtype.Uint8, 1, 8, WithAllocator(failing))
	assert.EqualError(t, err, "no memory")
}

func TestWrap(t *testing.T) {
	backing := make([]float32, 6)
	raw := unsafeBytes(backing)

	a, err := Wrap(Layout1D(dtype.Float32, 3, 2), raw, WithReadOnly())
	require.NoError(t, err)
	assert.True(t, a.ReadOnly())

	backing[4] = 2.5
	e, err := a.Index(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2.5, 0}, e.Float64s())

	_, err = Wrap(Layout1D(dtype.Float32, 3, 3), raw)
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = Wrap(Layout1D(dtype.Float32, 1, 5), raw[1:21])
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestValues(t *testing.T) {
	a, err := New(dtype.Uint16, 2, 3)
	require.NoError(t, err)

	vals, err := Values[uint16](a)
	require.NoError(t, err)
	require.Len(t, vals, 6)

	vals[5] = 1234
	e, err := a.Index(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1234}, e.Float64s())

	_, err = Values[int16](a)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	empty, err := New(dtype.Uint16, 2, 0)
	require.NoError(t, err)
	vals, err = Values[uint16](empty)
	require.NoError(t, err)
	assert.Empty(t, vals)
}

func TestFromValues(t *testing.T) {
	src := []float64{1, 2, 3, 4, 5, 6}
	a, err := FromValues(3, src)
	require.NoError(t, err)
	assert.Equal(t, dtype.Float64, a.Type())
	assert.Equal(t, 2, a.Len())

	src[0] = 100
	e, err := a.Index(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, e.Float64s(), "FromValues copies")

	_, err = FromValues(4, src)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = FromValues(0, src)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func ints(t *testing.T, a *Array) []int32 {
	t.Helper()
	v, err := Values[int32](a)
	require.NoError(t, err)
	return v
}

func TestSlice(t *testing.T) {
	a, err := FromValues(1, []int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)

	tests := []struct {
		name             string
		start, end, step int
		want             []int32
	}{
		{"all", 0, 10, 1, []int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"step 2", 1, 10, 2, []int32{1, 3, 5, 7, 9}},
		{"step 3 partial", 0, 8, 3, []int32{0, 3, 6}},
		{"negative bounds", -3, -1, 1, []int32{7, 8}},
		{"clamped", -20, 20, 1, []int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{"reverse", -1, -11, -1, []int32{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}},
		{"reverse step 3", 9, 0, -3, []int32{9, 6, 3}},
		{"empty forward", 5, 2, 1, []int32{}},
		{"empty backward", 2, 5, -1, []int32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := a.Slice(tt.start, tt.end, tt.step)
			require.NoError(t, err)
			assert.False(t, out.Is2D())
			assert.Equal(t, tt.want, ints(t, out))
		})
	}

	_, err = a.Slice(0, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidSlice)
}

func TestSlice_TuplesAndGrids(t *testing.T) {
	a, err := New2D(dtype.Float32, 3, 4, 2)
	require.NoError(t, err)
	for i := 0; i < a.Len(); i++ {
		e, err := a.Index(i)
		require.NoError(t, err)
		require.NoError(t, e.Set(float64(i), float64(10*i), float64(100*i)))
	}

	out, err := a.Slice(6, 2, -2)
	require.NoError(t, err)
	assert.False(t, out.Is2D())
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, 3, out.VectorLen())

	e, err := out.Index(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 40, 400}, e.Float64s())

	// Slices are copies.
	require.NoError(t, e.Set(0, 0, 0))
	pe, err := a.Index(4)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 40, 400}, pe.Float64s())

	require.NoError(t, a.Release())
	_, err = a.Slice(0, 1, 1)
	assert.ErrorIs(t, err, ErrReleased)
}

func TestFill(t *testing.T) {
	a, err := New(dtype.Int16, 2, 5)
	require.NoError(t, err)

	require.NoError(t, a.Fill(1, -2))
	v, err := Values[int16](a)
	require.NoError(t, err)
	assert.Equal(t, []int16{1, -2, 1, -2, 1, -2, 1, -2, 1, -2}, v)

	require.NoError(t, a.FillSlice(-1, -6, -2, 7, 8))
	assert.Equal(t, []int16{7, 8, 1, -2, 7, 8, 1, -2, 7, 8}, v)

	err = a.Fill(1, 2, 3)
	var le *LengthError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 2, le.Expected)
	assert.Equal(t, 3, le.Actual)

	assert.ErrorIs(t, a.FillSlice(0, 5, 0, 1, 2), ErrInvalidSlice)

	a.MakeReadOnly()
	assert.ErrorIs(t, a.Fill(0, 0), ErrReadOnly)
	assert.Equal(t, []int16{7, 8, 1, -2, 7, 8, 1, -2, 7, 8}, v)
}

func TestAssign(t *testing.T) {
	src, err := FromValues(1, []int32{-1, -2, -3})
	require.NoError(t, err)

	tests := []struct {
		name             string
		start, end, step int
		want             []int32
	}{
		{"prefix", 0, 3, 1, []int32{-1, -2, -3, 3, 4, 5}},
		{"strided", 1, 6, 2, []int32{0, -1, 2, -2, 4, -3}},
		{"reverse", -1, 2, -1, []int32{0, 1, 2, -3, -2, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := FromValues(1, []int32{0, 1, 2, 3, 4, 5})
			require.NoError(t, err)
			require.NoError(t, a.AssignSlice(tt.start, tt.end, tt.step, src))
			assert.Equal(t, tt.want, ints(t, a))
		})
	}

	t.Run("length mismatch", func(t *testing.T) {
		a, err := FromValues(1, []int32{0, 1, 2, 3, 4, 5})
		require.NoError(t, err)

		err = a.Assign(src)
		var le *LengthError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, 6, le.Expected)
		assert.Equal(t, 3, le.Actual)
		assert.ErrorIs(t, err, ErrLengthMismatch)
		assert.Contains(t, err.Error(), "6")
		assert.Contains(t, err.Error(), "3")
		assert.Equal(t, []int32{0, 1, 2, 3, 4, 5}, ints(t, a), "unchanged on error")
	})

	t.Run("type mismatch", func(t *testing.T) {
		a, err := New(dtype.Float32, 1, 3)
		require.NoError(t, err)
		assert.ErrorIs(t, a.Assign(src), ErrTypeMismatch)

		k2, err := New(dtype.Int32, 3, 1)
		require.NoError(t, err)
		assert.ErrorIs(t, k2.Assign(src), ErrTypeMismatch)
	})

	t.Run("self reverse", func(t *testing.T) {
		a, err := FromValues(1, []int32{0, 1, 2, 3, 4})
		require.NoError(t, err)
		require.NoError(t, a.AssignSlice(-1, -a.Len()-1, -1, a))
		assert.Equal(t, []int32{4, 3, 2, 1, 0}, ints(t, a))
	})

	t.Run("read-only", func(t *testing.T) {
		a, err := New(dtype.Int32, 1, 3, WithReadOnly())
		require.NoError(t, err)
		assert.ErrorIs(t, a.Assign(src), ErrReadOnly)
	})
}

func TestIfElse(t *testing.T) {
	a, err := FromValues(1, []int32{0, 1, 2, 3, 4, 5})
	require.NoError(t, err)
	other, err := FromValues(1, []int32{10, 11, 12, 13, 14, 15})
	require.NoError(t, err)
	choice := roaring.BitmapOf(1, 3)

	out, err := a.IfElse(choice, other)
	require.NoError(t, err)
	assert.Equal(t, []int32{10, 1, 12, 3, 14, 15}, ints(t, out))

	out, err = a.IfElseValue(choice, []float64{-1})
	require.NoError(t, err)
	assert.Equal(t, []int32{-1, 1, -1, 3, -1, -1}, ints(t, out))

	out, err = a.IfElse(nil, other)
	require.NoError(t, err)
	assert.Equal(t, ints(t, other), ints(t, out))

	_, err = a.IfElse(roaring.BitmapOf(6), other)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	short, err := FromValues(1, []int32{1, 2})
	require.NoError(t, err)
	_, err = a.IfElse(choice, short)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = a.IfElseValue(choice, []float64{1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestIfElse_KeepsGridLayout(t *testing.T) {
	a, err := New2D(dtype.Uint8, 2, 3, 2)
	require.NoError(t, err)
	require.NoError(t, a.Fill(1, 2))

	out, err := a.IfElseValue(roaring.BitmapOf(0, 5), []float64{9, 9})
	require.NoError(t, err)
	assert.Equal(t, a.Layout(), out.Layout())
	assert.Equal(t, []byte{1, 2, 9, 9, 9, 9, 9, 9, 9, 9, 1, 2}, out.Bytes())
}
