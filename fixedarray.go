package fixedarray

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hupe1980/fixedarray/array"
	"github.com/hupe1980/fixedarray/blobstore"
	"github.com/hupe1980/fixedarray/buffer"
	"github.com/hupe1980/fixedarray/dtype"
	"github.com/hupe1980/fixedarray/internal/mem"
	"github.com/hupe1980/fixedarray/resource"
	"github.com/hupe1980/fixedarray/snapshot"
)

// Bridge creates, exports and imports typed arrays with logging, metrics,
// a memory budget and classified errors.
//
// A Bridge holds no per-array state and is safe for concurrent use. The arrays
// it returns are not; see package array.
type Bridge struct {
	logger  *Logger
	metrics MetricsCollector
	rc      *resource.Controller
}

// NewBridge creates a Bridge.
func NewBridge(optFns ...Option) *Bridge {
	o := applyOptions(optFns)
	return &Bridge{
		logger:  o.logger,
		metrics: o.metricsCollector,
		rc:      o.controller,
	}
}

// Controller returns the resource controller, or nil when none is configured.
func (b *Bridge) Controller() *resource.Controller { return b.rc }

// New allocates a zeroed 1D array of n elements with k components of type t.
func (b *Bridge) New(ctx context.Context, t dtype.Type, k, n int, opts ...array.Option) (*array.Array, error) {
	return b.make(ctx, array.Layout1D(t, k, n), opts)
}

// New2D allocates a zeroed width × height grid with k components of type t.
func (b *Bridge) New2D(ctx context.Context, t dtype.Type, k, width, height int, opts ...array.Option) (*array.Array, error) {
	return b.make(ctx, array.Layout2D(t, k, width, height), opts)
}

func (b *Bridge) make(ctx context.Context, l array.Layout, opts []array.Option) (*array.Array, error) {
	a, err := array.Make(l, b.arrayOptions(opts)...)
	b.logger.LogAlloc(ctx, l, err)
	if err != nil {
		return nil, translateError(err)
	}
	return a, nil
}

// Export returns a descriptor aliasing the storage of a.
func (b *Bridge) Export(ctx context.Context, a *array.Array) (*buffer.Descriptor, error) {
	start := time.Now()
	d, err := buffer.ArrayToBuffer(a)
	b.metrics.RecordExport(time.Since(start), err)
	b.logger.LogExport(ctx, d, err)
	return d, translateError(err)
}

// ExportComponent returns a descriptor aliasing component j of every element of a.
func (b *Bridge) ExportComponent(ctx context.Context, a *array.Array, j int) (*buffer.Descriptor, error) {
	start := time.Now()
	d, err := buffer.ComponentToBuffer(a, j)
	b.metrics.RecordExport(time.Since(start), err)
	b.logger.LogExport(ctx, d, err)
	return d, translateError(err)
}

// Import copies d into a new array charged against the memory budget.
func (b *Bridge) Import(ctx context.Context, d *buffer.Descriptor, opts ...buffer.ImportOption) (*array.Array, error) {
	start := time.Now()
	opts = append(opts[:len(opts):len(opts)], buffer.WithArrayOptions(b.arrayOptions(nil)...))
	a, err := buffer.BufferToArray(d, opts...)

	var size int64
	if err == nil {
		size = int64(len(a.Bytes()))
	}
	b.metrics.RecordImport(size, time.Since(start), err)
	b.logger.LogImport(ctx, d, err)
	if err != nil {
		return nil, translateError(err)
	}
	return a, nil
}

// Release releases a and returns its storage to the memory budget.
func (b *Bridge) Release(ctx context.Context, a *array.Array) error {
	l := a.Layout()
	err := a.Release()
	b.logger.LogRelease(ctx, l, err)
	return translateError(err)
}

// Save writes a snapshot of a to store, throttled by the bridge's controller.
func (b *Bridge) Save(ctx context.Context, store blobstore.BlobStore, name string, a *array.Array, opts ...snapshot.Option) error {
	opts = append([]snapshot.Option{snapshot.WithController(b.rc)}, opts...)
	err := snapshot.Save(ctx, store, name, a, opts...)
	b.logger.LogSnapshot(ctx, "save", name, err)
	return translateError(err)
}

// Load reads a snapshot from store into a new array charged against the memory budget.
func (b *Bridge) Load(ctx context.Context, store blobstore.BlobStore, name string, opts ...snapshot.Option) (*array.Array, error) {
	opts = append([]snapshot.Option{
		snapshot.WithController(b.rc),
		snapshot.WithArrayOptions(b.arrayOptions(nil)...),
	}, opts...)
	a, err := snapshot.Load(ctx, store, name, opts...)
	b.logger.LogSnapshot(ctx, "load", name, err)
	if err != nil {
		return nil, translateError(err)
	}
	return a, nil
}

// arrayOptions returns per-array options that charge the storage against the
// memory budget on allocation and return it on release. Each array needs its
// own set.
func (b *Bridge) arrayOptions(extra []array.Option) []array.Option {
	var charged int64
	opts := []array.Option{
		array.WithAllocator(func(size int) ([]byte, error) {
			start := time.Now()
			if !b.rc.TryAcquireMemory(int64(size)) {
				err := b.limitError(size)
				b.metrics.RecordAlloc(int64(size), time.Since(start), err)
				return nil, err
			}
			charged = int64(size)
			buf := mem.Alloc(size)
			b.metrics.RecordAlloc(charged, time.Since(start), nil)
			return buf, nil
		}),
		array.WithReleaseHook(func() error {
			b.rc.ReleaseMemory(charged)
			b.metrics.RecordRelease(charged, nil)
			charged = 0
			return nil
		}),
	}
	return append(opts, extra...)
}

func (b *Bridge) limitError(size int) error {
	return fmt.Errorf("%w: %s requested, %s of %s in use", ErrMemoryLimit,
		humanize.IBytes(uint64(size)),
		humanize.IBytes(uint64(b.rc.MemoryUsage())),
		humanize.IBytes(uint64(b.rc.Config().MemoryLimitBytes)))
}

// ArrayToBuffer exports a without copying. See buffer.ArrayToBuffer.
func ArrayToBuffer(a *array.Array) (*buffer.Descriptor, error) {
	d, err := buffer.ArrayToBuffer(a)
	return d, translateError(err)
}

// BufferToArray copies d into a new array. See buffer.BufferToArray.
func BufferToArray(d *buffer.Descriptor, opts ...buffer.ImportOption) (*array.Array, error) {
	a, err := buffer.BufferToArray(d, opts...)
	if err != nil {
		return nil, translateError(err)
	}
	return a, nil
}
