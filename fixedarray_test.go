package fixedarray

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hupe1980/fixedarray/array"
	"github.com/hupe1980/fixedarray/blobstore"
	"github.com/hupe1980/fixedarray/buffer"
	"github.com/hupe1980/fixedarray/dtype"
	"github.com/hupe1980/fixedarray/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridge_ExportImport(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	b := NewBridge(WithMetricsCollector(metrics))

	a, err := b.New(ctx, dtype.Float32, 3, 20)
	require.NoError(t, err)
	e, err := a.Index(5)
	require.NoError(t, err)
	require.NoError(t, e.Set(1, 2, 3))

	d, err := b.Export(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []int{20, 3}, d.Shape)
	assert.Equal(t, []int{12, 4}, d.Strides)
	assert.Equal(t, "f", d.Format)

	require.NoError(t, d.SetFloat64At(9, 5, 2))
	v, err := e.Float64(2)
	require.NoError(t, err)
	assert.Equal(t, 9.0, v, "export aliases the array")

	c, err := b.Import(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, a.Bytes(), c.Bytes())
	require.NoError(t, e.SetFloat64(0, -1))
	ce, err := c.Index(5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 9}, ce.Float64s(), "import copies")

	cd, err := b.ExportComponent(ctx, a, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{20}, cd.Shape)
	assert.Equal(t, []int{12}, cd.Strides)
	assert.Equal(t, 4, cd.Offset)

	require.NoError(t, b.Release(ctx, a))
	require.NoError(t, b.Release(ctx, c))

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.AllocCount)
	assert.Equal(t, int64(480), stats.AllocBytes)
	assert.Equal(t, int64(2), stats.ExportCount)
	assert.Equal(t, int64(1), stats.ImportCount)
	assert.Equal(t, int64(240), stats.ImportBytes)
	assert.Equal(t, int64(2), stats.ReleaseCount)
	assert.Equal(t, int64(0), stats.LiveBytes)
}

func TestBridge_MemoryLimit(t *testing.T) {
	ctx := context.Background()
	b := NewBridge(WithMemoryLimit(1000))
	rc := b.Controller()
	require.NotNil(t, rc)

	// 20 float64 3-vectors are 480 bytes.
	a1, err := b.New(ctx, dtype.Float64, 3, 20)
	require.NoError(t, err)
	a2, err := b.New(ctx, dtype.Float64, 3, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(960), rc.MemoryUsage())

	_, err = b.New(ctx, dtype.Float64, 3, 20)
	assert.ErrorIs(t, err, ErrMemoryLimit)
	assert.Equal(t, int64(960), rc.MemoryUsage())

	d, err := b.Export(ctx, a1)
	require.NoError(t, err)
	_, err = b.Import(ctx, d)
	assert.ErrorIs(t, err, ErrMemoryLimit)

	require.NoError(t, b.Release(ctx, a1))
	assert.Equal(t, int64(480), rc.MemoryUsage())

	a3, err := b.Import(ctx, func() *buffer.Descriptor {
		d, err := b.Export(ctx, a2)
		require.NoError(t, err)
		return d
	}())
	require.NoError(t, err)
	assert.Equal(t, int64(960), rc.MemoryUsage())

	require.NoError(t, a2.Release(), "direct releases return memory too")
	require.NoError(t, a3.Release())
	require.NoError(t, a3.Release())
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestErrorKinds(t *testing.T) {
	a, err := array.New(dtype.Int16, 2, 20)
	require.NoError(t, err)

	released, err := array.New(dtype.Int16, 1, 1)
	require.NoError(t, err)
	require.NoError(t, released.Release())

	tests := []struct {
		name string
		err  func() error
		kind error
	}{
		{"index", func() error { _, err := a.Index(20); return err }, ErrIndex},
		{"component", func() error { _, err := a.Component(2); return err }, ErrIndex},
		{"arity", func() error {
			e, _ := a.Index(0)
			return e.Set(1, 2, 3)
		}, ErrValue},
		{"released", func() error { _, err := ArrayToBuffer(released); return err }, ErrValue},
		{"unknown format", func() error {
			_, err := BufferToArray(&buffer.Descriptor{
				Buf: make([]byte, 8), Format: "q", ItemSize: 8, Shape: []int{1}, Strides: []int{8},
			})
			return err
		}, ErrType},
		{"item size", func() error {
			_, err := BufferToArray(&buffer.Descriptor{
				Buf: make([]byte, 8), Format: "h", ItemSize: 4, Shape: []int{2}, Strides: []int{4},
			})
			return err
		}, ErrType},
		{"trailing dimension", func() error {
			_, err := BufferToArray(&buffer.Descriptor{
				Buf: make([]byte, 20), Format: "B", ItemSize: 1, Shape: []int{4, 5}, Strides: []int{5, 1},
			})
			return err
		}, ErrValue},
		{"out of bounds", func() error {
			_, err := BufferToArray(&buffer.Descriptor{
				Buf: make([]byte, 8), Format: "B", ItemSize: 1, Shape: []int{5}, Strides: []int{2},
			})
			return err
		}, ErrValue},
		{"nil descriptor", func() error { _, err := BufferToArray(nil); return err }, ErrValue},
		{"slice step", func() error { _, err := a.Slice(0, 4, 0); return err }, ErrValue},
		{"assign length", func() error {
			src, _ := array.New(dtype.Int16, 2, 3)
			return a.Assign(src)
		}, ErrValue},
		{"assign type", func() error {
			src, _ := array.New(dtype.Int32, 2, 20)
			return a.Assign(src)
		}, ErrType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(tt.err())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			for _, other := range []error{ErrIndex, ErrType, ErrValue} {
				if other != tt.kind {
					assert.NotErrorIs(t, err, other)
				}
			}
		})
	}

	t.Run("typed error survives", func(t *testing.T) {
		_, err := a.Index(20)
		err = translateError(err)
		var ie *array.IndexError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, []int{20}, ie.Index)
		assert.Equal(t, []int{20}, ie.Bounds)
	})

	t.Run("unclassified", func(t *testing.T) {
		other := errors.New("boom")
		assert.Same(t, other, translateError(other))
		assert.NoError(t, translateError(nil))
	})
}

func TestBridge_Logging(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b := NewBridge(WithLogger(logger))

	a, err := b.New2D(ctx, dtype.Uint8, 4, 10, 5)
	require.NoError(t, err)
	_, err = b.Export(ctx, a)
	require.NoError(t, err)
	_, err = b.Import(ctx, &buffer.Descriptor{
		Buf: make([]byte, 20), Format: "B", ItemSize: 1, Shape: []int{4, 5}, Strides: []int{5, 1},
	})
	require.Error(t, err)

	logs := out.String()
	assert.Contains(t, logs, `"msg":"array allocated"`)
	assert.Contains(t, logs, `"size":"200 B"`)
	assert.Contains(t, logs, `"msg":"buffer exported"`)
	assert.Contains(t, logs, `"msg":"import rejected"`)
	assert.Contains(t, logs, "trailing dimension 5")
}

func TestBridge_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	b := NewBridge(WithMemoryLimit(1 << 20))

	a, err := b.New(ctx, dtype.Int32, 2, 100)
	require.NoError(t, err)
	for i := 0; i < a.Len(); i++ {
		e, err := a.Index(i)
		require.NoError(t, err)
		require.NoError(t, e.Set(float64(i), float64(-i)))
	}

	require.NoError(t, b.Save(ctx, store, "a.fxa", a, snapshot.WithCompression(snapshot.CompressionZSTD)))

	loaded, err := b.Load(ctx, store, "a.fxa")
	require.NoError(t, err)
	assert.Equal(t, a.Bytes(), loaded.Bytes())
	assert.Equal(t, int64(1600), b.Controller().MemoryUsage())

	require.NoError(t, b.Release(ctx, loaded))
	assert.Equal(t, int64(800), b.Controller().MemoryUsage())

	_, err = b.Load(ctx, store, "missing.fxa")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
