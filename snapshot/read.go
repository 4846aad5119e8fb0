package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/fixedarray/array"
	"github.com/hupe1980/fixedarray/internal/hash"
	"github.com/hupe1980/fixedarray/resource"
)

// ReadHeader reads and validates a snapshot header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return h, fmt.Errorf("%w: truncated header", ErrCorrupted)
		}
		return h, err
	}
	return h, h.UnmarshalBinary(buf)
}

// Read decodes a snapshot from r into a new array that shares no memory with r.
func Read(r io.Reader, opts ...Option) (*array.Array, error) {
	return read(context.Background(), r, -1, applyOptions(opts))
}

// read decodes a snapshot from r. size is the total stream length when known,
// or -1; a header claiming more payload than size is rejected before allocating.
func read(ctx context.Context, r io.Reader, size int64, o options) (*array.Array, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if size >= 0 && uint64(size-HeaderSize) < h.StoredSize {
		return nil, fmt.Errorf("%w: header claims %d payload bytes, blob holds %d",
			ErrCorrupted, h.StoredSize, size-HeaderSize)
	}

	if o.controller != nil {
		r = resource.NewRateLimitedReader(ctx, r, o.controller)
	}

	arrayOpts := o.arrayOpts
	if h.ReadOnly() {
		arrayOpts = append(arrayOpts[:len(arrayOpts):len(arrayOpts)], array.WithReadOnly())
	}
	a, err := array.Make(h.Layout, arrayOpts...)
	if err != nil {
		return nil, err
	}

	if err := readPayload(r, &h, a.Bytes()); err != nil {
		return nil, errors.Join(err, a.Release())
	}
	return a, nil
}

func readPayload(r io.Reader, h *Header, dst []byte) error {
	if h.Compression == CompressionNone {
		if _, err := io.ReadFull(r, dst); err != nil {
			return truncated(err)
		}
		if hash.CRC32C(dst) != h.DataCRC {
			return fmt.Errorf("%w: payload checksum", ErrCorrupted)
		}
		return nil
	}

	src := make([]byte, h.StoredSize)
	if _, err := io.ReadFull(r, src); err != nil {
		return truncated(err)
	}
	if hash.CRC32C(src) != h.DataCRC {
		return fmt.Errorf("%w: payload checksum", ErrCorrupted)
	}
	return decompress(dst, src, h.Compression)
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated payload", ErrCorrupted)
	}
	return err
}
