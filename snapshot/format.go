package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hupe1980/fixedarray/array"
	"github.com/hupe1980/fixedarray/dtype"
	"github.com/hupe1980/fixedarray/internal/conv"
	"github.com/hupe1980/fixedarray/internal/hash"
)

const (
	// Magic identifies snapshot files.
	Magic = "FXA0"

	// FormatVersion is the current snapshot format version.
	FormatVersion uint16 = 1

	// HeaderSize is the size of the file header in bytes. It is a multiple of
	// every item size, so an mmapped payload is aligned.
	HeaderSize = 64

	// FlagBigEndian marks a payload written on a big-endian host.
	FlagBigEndian uint8 = 1 << 0
	// FlagReadOnly marks a snapshot of a read-only array.
	FlagReadOnly uint8 = 1 << 1
)

var (
	// ErrInvalidMagic is returned when the data is not a snapshot.
	ErrInvalidMagic = errors.New("snapshot: invalid magic number")

	// ErrInvalidVersion is returned for snapshots newer than this package.
	ErrInvalidVersion = errors.New("snapshot: unsupported format version")

	// ErrCorrupted is returned when a checksum or size field does not match.
	ErrCorrupted = errors.New("snapshot: corrupted (checksum or size mismatch)")

	// ErrByteOrder is returned for payloads written with the other byte order.
	ErrByteOrder = errors.New("snapshot: payload byte order differs from host")

	// ErrCompressed is returned when a compressed snapshot is memory-mapped.
	ErrCompressed = errors.New("snapshot: compressed snapshots cannot be memory-mapped")

	// ErrMisaligned is returned when mapped payload bytes are not aligned to the item size.
	ErrMisaligned = errors.New("snapshot: mapped payload not aligned to item size")
)

// Header is the decoded snapshot header.
type Header struct {
	Version     uint16
	Compression Compression
	Flags       uint8
	Layout      array.Layout
	StoredSize  uint64
	RawSize     uint64
	DataCRC     uint32
}

// ReadOnly reports whether the snapshot was taken from a read-only array.
func (h *Header) ReadOnly() bool { return h.Flags&FlagReadOnly != 0 }

func hostFlags() uint8 {
	if dtype.LittleEndian() {
		return 0
	}
	return FlagBigEndian
}

// MarshalBinary encodes the header and its checksum.
func (h *Header) MarshalBinary() ([]byte, error) {
	height := 0
	if h.Layout.Is2D() {
		height = h.Layout.Height
	}
	w, err := conv.ToUint64(h.Layout.Width)
	if err != nil {
		return nil, err
	}
	ht, err := conv.ToUint64(height)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, HeaderSize)
	copy(buf[0:4], Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	buf[6] = uint8(h.Compression)
	buf[7] = h.Flags
	buf[8] = uint8(h.Layout.Type)
	buf[9] = uint8(h.Layout.VectorLen)
	buf[10] = uint8(h.Layout.Rank)
	binary.LittleEndian.PutUint64(buf[16:24], w)
	binary.LittleEndian.PutUint64(buf[24:32], ht)
	binary.LittleEndian.PutUint64(buf[32:40], h.StoredSize)
	binary.LittleEndian.PutUint64(buf[40:48], h.RawSize)
	binary.LittleEndian.PutUint32(buf[48:52], h.DataCRC)
	binary.LittleEndian.PutUint32(buf[56:60], hash.CRC32C(buf[:56]))
	return buf, nil
}

// UnmarshalBinary decodes and validates a header.
func (h *Header) UnmarshalBinary(buf []byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("%w: header is %d bytes", ErrCorrupted, len(buf))
	}
	if string(buf[0:4]) != Magic {
		return ErrInvalidMagic
	}
	if binary.LittleEndian.Uint32(buf[56:60]) != hash.CRC32C(buf[:56]) {
		return fmt.Errorf("%w: header checksum", ErrCorrupted)
	}

	h.Version = binary.LittleEndian.Uint16(buf[4:6])
	if h.Version == 0 || h.Version > FormatVersion {
		return fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}
	h.Compression = Compression(buf[6])
	if !h.Compression.valid() {
		return fmt.Errorf("%w: compression %d", ErrCorrupted, buf[6])
	}
	h.Flags = buf[7]
	if h.Flags&FlagBigEndian != hostFlags() {
		return ErrByteOrder
	}

	width, err := conv.ToInt(binary.LittleEndian.Uint64(buf[16:24]))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	height, err := conv.ToInt(binary.LittleEndian.Uint64(buf[24:32]))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	h.Layout = array.Layout{
		Type:      dtype.Type(buf[8]),
		VectorLen: int(buf[9]),
		Rank:      int(buf[10]),
		Width:     width,
	}
	if h.Layout.Rank == 2 {
		h.Layout.Height = height
	}
	if err := h.Layout.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupted, err)
	}

	h.StoredSize = binary.LittleEndian.Uint64(buf[32:40])
	h.RawSize = binary.LittleEndian.Uint64(buf[40:48])
	h.DataCRC = binary.LittleEndian.Uint32(buf[48:52])

	if h.RawSize != uint64(h.Layout.ByteLen()) {
		return fmt.Errorf("%w: payload is %d bytes, layout %s needs %d",
			ErrCorrupted, h.RawSize, h.Layout, h.Layout.ByteLen())
	}
	switch {
	case h.Compression == CompressionNone && h.StoredSize != h.RawSize:
		return fmt.Errorf("%w: uncompressed payload stored as %d bytes", ErrCorrupted, h.StoredSize)
	case h.StoredSize > h.RawSize:
		// Incompressible payloads are stored raw, so compressed data is always smaller.
		return fmt.Errorf("%w: compressed payload larger than raw", ErrCorrupted)
	}
	return nil
}
