package snapshot

import (
	"context"
	"io"

	"github.com/hupe1980/fixedarray/array"
	"github.com/hupe1980/fixedarray/internal/hash"
	"github.com/hupe1980/fixedarray/resource"
)

// Write serializes a to w and returns the number of bytes written.
func Write(w io.Writer, a *array.Array, opts ...Option) (int64, error) {
	return write(context.Background(), w, a, applyOptions(opts))
}

func write(ctx context.Context, w io.Writer, a *array.Array, o options) (int64, error) {
	if a.Released() {
		return 0, array.ErrReleased
	}

	raw := a.Bytes()
	stored, used, err := compress(raw, o.compression)
	if err != nil {
		return 0, err
	}

	h := Header{
		Version:     FormatVersion,
		Compression: used,
		Flags:       hostFlags(),
		Layout:      a.Layout(),
		StoredSize:  uint64(len(stored)),
		RawSize:     uint64(len(raw)),
		DataCRC:     hash.CRC32C(stored),
	}
	if a.ReadOnly() {
		h.Flags |= FlagReadOnly
	}
	hdr, err := h.MarshalBinary()
	if err != nil {
		return 0, err
	}

	if o.controller != nil {
		w = resource.NewRateLimitedWriter(ctx, w, o.controller)
	}

	n, err := w.Write(hdr)
	total := int64(n)
	if err != nil {
		return total, err
	}
	n, err = w.Write(stored)
	total += int64(n)
	return total, err
}
