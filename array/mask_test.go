package array

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/fixedarray/dtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	a, err := FromValues(2, []int32{0, 0, 1, 10, 2, 20, 3, 30, 4, 40})
	require.NoError(t, err)

	sel, err := Select(a, func(_ int, e Element) bool {
		return int(e.Value())%2 == 1
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 3}, sel.ToArray())

	m, err := a.Mask(sel)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	assert.Same(t, a, m.Parent())
	assert.Equal(t, []uint32{1, 3}, m.Indices())

	// Masked elements alias the parent.
	e, err := m.Index(1)
	require.NoError(t, err)
	require.NoError(t, e.Set(-3, -30))
	pe, err := a.Index(3)
	require.NoError(t, err)
	assert.Equal(t, []float64{-3, -30}, pe.Float64s())

	_, err = m.Index(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestMask_OutOfRange(t *testing.T) {
	a, err := New(dtype.Float32, 1, 4)
	require.NoError(t, err)

	_, err = a.Mask(roaring.BitmapOf(1, 4))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	m, err := a.Mask(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestMask_Compact(t *testing.T) {
	a, err := New2D(dtype.Uint8, 3, 4, 2)
	require.NoError(t, err)
	for i := 0; i < a.Len(); i++ {
		e, err := a.Index(i)
		require.NoError(t, err)
		require.NoError(t, e.Set(float64(i), float64(i+1), float64(i+2)))
	}

	m, err := a.Mask(roaring.BitmapOf(0, 5, 7))
	require.NoError(t, err)

	c, err := m.Compact()
	require.NoError(t, err)
	assert.False(t, c.Is2D())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 3, c.VectorLen())

	e, err := c.Index(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6, 7}, e.Float64s())

	// Compact is a copy.
	require.NoError(t, e.Set(0, 0, 0))
	pe, err := a.Index(5)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6, 7}, pe.Float64s())

	require.NoError(t, a.Release())
	_, err = m.Compact()
	assert.ErrorIs(t, err, ErrReleased)
}

func TestMask_Fill(t *testing.T) {
	a, err := New(dtype.Float64, 2, 5)
	require.NoError(t, err)

	m, err := a.Mask(roaring.BitmapOf(0, 2, 4))
	require.NoError(t, err)
	require.NoError(t, m.Fill(1.5, -1))

	v, err := Values[float64](a)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -1, 0, 0, 1.5, -1, 0, 0, 1.5, -1}, v)

	var le *LengthError
	require.ErrorAs(t, m.Fill(1), &le)
	assert.Equal(t, 2, le.Expected)

	a.MakeReadOnly()
	assert.ErrorIs(t, m.Fill(0, 0), ErrReadOnly)

	require.NoError(t, a.Release())
	assert.ErrorIs(t, m.Fill(0, 0), ErrReleased)
}

func TestMask_Assign(t *testing.T) {
	sel := roaring.BitmapOf(1, 3, 4)

	tests := []struct {
		name string
		src  []int32
		want []int32
	}{
		{"selection length", []int32{-1, -3, -4}, []int32{0, -1, 2, -3, -4}},
		{"parent length", []int32{10, 11, 12, 13, 14}, []int32{0, 11, 2, 13, 14}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := FromValues(1, []int32{0, 1, 2, 3, 4})
			require.NoError(t, err)
			m, err := a.Mask(sel)
			require.NoError(t, err)

			src, err := FromValues(1, tt.src)
			require.NoError(t, err)
			require.NoError(t, m.Assign(src))

			v, err := Values[int32](a)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	t.Run("length mismatch", func(t *testing.T) {
		a, err := FromValues(1, []int32{0, 1, 2, 3, 4})
		require.NoError(t, err)
		m, err := a.Mask(sel)
		require.NoError(t, err)

		src, err := FromValues(1, []int32{7, 7})
		require.NoError(t, err)
		err = m.Assign(src)

		var le *LengthError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, 3, le.Expected)
		assert.Equal(t, 2, le.Actual)

		v, err := Values[int32](a)
		require.NoError(t, err)
		assert.Equal(t, []int32{0, 1, 2, 3, 4}, v)
	})

	t.Run("type mismatch", func(t *testing.T) {
		a, err := New(dtype.Int32, 1, 5)
		require.NoError(t, err)
		m, err := a.Mask(sel)
		require.NoError(t, err)

		src, err := New(dtype.Int16, 1, 3)
		require.NoError(t, err)
		assert.ErrorIs(t, m.Assign(src), ErrTypeMismatch)
	})

	t.Run("from parent", func(t *testing.T) {
		a, err := FromValues(1, []int32{0, 1, 2, 3, 4})
		require.NoError(t, err)
		m, err := a.Mask(sel)
		require.NoError(t, err)

		// A parent-length source copies positionally, so assigning the parent to
		// its own mask is a no-op.
		require.NoError(t, m.Assign(a))
		v, err := Values[int32](a)
		require.NoError(t, err)
		assert.Equal(t, []int32{0, 1, 2, 3, 4}, v)
	})
}
