package snapshot

import (
	"errors"
	"fmt"

	"github.com/hupe1980/fixedarray/array"
	"github.com/hupe1980/fixedarray/internal/hash"
	"github.com/hupe1980/fixedarray/internal/mem"
	"github.com/hupe1980/fixedarray/internal/mmap"
)

// OpenMmap maps an uncompressed snapshot file and returns a read-only array
// aliasing the mapping. Releasing the array unmaps the file; every element,
// view and buffer descriptor derived from it is invalid afterwards.
func OpenMmap(path string, opts ...Option) (*array.Array, error) {
	o := applyOptions(opts)

	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	a, err := wrapMapped(m.Bytes(), o, m.Close)
	if err != nil {
		return nil, errors.Join(err, m.Close())
	}
	_ = m.Advise(mmap.AccessRandom)
	return a, nil
}

// wrapMapped validates a whole snapshot held in data and wraps its payload.
// closeFn runs when the returned array is released.
func wrapMapped(data []byte, o options, closeFn func() error) (*array.Array, error) {
	var h Header
	if err := h.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	if h.Compression != CompressionNone {
		return nil, fmt.Errorf("%w: payload is %s", ErrCompressed, h.Compression)
	}
	if uint64(len(data)-HeaderSize) < h.RawSize {
		return nil, fmt.Errorf("%w: truncated payload", ErrCorrupted)
	}

	payload := data[HeaderSize : HeaderSize+int(h.RawSize) : HeaderSize+int(h.RawSize)]
	if !mem.IsAligned(payload, h.Layout.ItemSize()) {
		return nil, fmt.Errorf("%w: payload needs %d-byte alignment", ErrMisaligned, h.Layout.ItemSize())
	}
	if !o.skipChecksum && hash.CRC32C(payload) != h.DataCRC {
		return nil, fmt.Errorf("%w: payload checksum", ErrCorrupted)
	}

	opts := append([]array.Option{array.WithReadOnly(), array.WithReleaseHook(closeFn)}, o.arrayOpts...)
	return array.Wrap(h.Layout, payload, opts...)
}
