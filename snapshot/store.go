package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/hupe1980/fixedarray/array"
	"github.com/hupe1980/fixedarray/blobstore"
	"golang.org/x/sync/errgroup"
)

// Save writes a snapshot of a to store under name.
func Save(ctx context.Context, store blobstore.BlobStore, name string, a *array.Array, opts ...Option) error {
	o := applyOptions(opts)
	if err := o.controller.AcquireTransfer(ctx); err != nil {
		return err
	}
	defer o.controller.ReleaseTransfer()
	return save(ctx, store, name, a, o)
}

func save(ctx context.Context, store blobstore.BlobStore, name string, a *array.Array, o options) error {
	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(a.Bytes()))
	if _, err := write(ctx, &buf, a, o); err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", name, err)
	}
	if err := store.Put(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("snapshot: put %s: %w", name, err)
	}
	return nil
}

// Load reads the snapshot stored under name into a new array.
func Load(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*array.Array, error) {
	o := applyOptions(opts)
	if err := o.controller.AcquireTransfer(ctx); err != nil {
		return nil, err
	}
	defer o.controller.ReleaseTransfer()
	return load(ctx, store, name, o)
}

func load(ctx context.Context, store blobstore.BlobStore, name string, o options) (*array.Array, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	a, err := read(ctx, blobstore.NewReader(ctx, b), o)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load %s: %w", name, err)
	}
	return a, nil
}

// LoadMapped returns a read-only array aliasing the stored blob when the store
// exposes blob memory directly (blobstore.Mappable) and the snapshot is
// uncompressed with a suitably aligned payload. Otherwise it falls back to Load.
func LoadMapped(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*array.Array, error) {
	o := applyOptions(opts)

	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	m, ok := b.(blobstore.Mappable)
	if !ok {
		_ = b.Close()
		return Load(ctx, store, name, opts...)
	}

	data, err := m.Bytes()
	if err != nil {
		return nil, errors.Join(err, b.Close())
	}
	a, err := wrapMapped(data, o, b.Close)
	if errors.Is(err, ErrCompressed) || errors.Is(err, ErrMisaligned) {
		_ = b.Close()
		return Load(ctx, store, name, opts...)
	}
	if err != nil {
		return nil, errors.Join(fmt.Errorf("snapshot: load %s: %w", name, err), b.Close())
	}
	return a, nil
}

// SaveAll writes several arrays concurrently. Concurrency is bounded by the
// controller's MaxConcurrentTransfers (4 without a controller).
func SaveAll(ctx context.Context, store blobstore.BlobStore, arrays map[string]*array.Array, opts ...Option) error {
	o := applyOptions(opts)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency())
	for _, name := range slices.Sorted(maps.Keys(arrays)) {
		a := arrays[name]
		g.Go(func() error {
			return save(gctx, store, name, a, o)
		})
	}
	return g.Wait()
}

// LoadAll reads several snapshots concurrently. Duplicate names are loaded once.
// On error every array loaded so far is released.
func LoadAll(ctx context.Context, store blobstore.BlobStore, names []string, opts ...Option) (map[string]*array.Array, error) {
	o := applyOptions(opts)

	var mu sync.Mutex
	out := make(map[string]*array.Array, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency())
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		g.Go(func() error {
			a, err := load(gctx, store, name, o)
			if err != nil {
				return err
			}
			mu.Lock()
			out[name] = a
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, a := range out {
			_ = a.Release()
		}
		return nil, err
	}
	return out, nil
}
