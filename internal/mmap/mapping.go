package mmap

import (
	"fmt"
	"math"
	"os"
	"sync/atomic"
)

// Mapping is a read-only memory mapping of a whole file.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	unmap  func([]byte) error
}

// Open maps the file at path read-only. Empty files yield an empty mapping.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size < 0 || size > math.MaxInt {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if size == 0 {
		return &Mapping{}, nil
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap: map %s: %w", path, err)
	}
	return &Mapping{data: data, unmap: unmap}, nil
}

// Len returns the mapped size in bytes.
func (m *Mapping) Len() int { return len(m.data) }

// Bytes returns the whole mapping, or nil once closed.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Slice returns n bytes starting at offset, capped so appends cannot reach
// past the range.
func (m *Mapping) Slice(offset, n int) ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if offset < 0 || n < 0 || offset > len(m.data)-n {
		return nil, fmt.Errorf("%w: [%d, %d+%d) of %d", ErrOutOfBounds, offset, offset, n, len(m.data))
	}
	return m.data[offset : offset+n : offset+n], nil
}

// Advise passes an access hint for the whole mapping to the kernel.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if len(m.data) == 0 {
		return nil
	}
	return osAdvise(m.data, pattern)
}

// Close unmaps the file. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.unmap == nil || m.data == nil {
		return nil
	}
	return m.unmap(m.data)
}
