package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of every buffer returned by Alloc.
const Alignment = 64

// Alloc returns a zeroed byte slice of the given size starting at an address
// divisible by Alignment. It returns nil when size <= 0.
//
// The slice over-allocates by up to Alignment bytes; the hidden prefix keeps the
// underlying array alive for as long as the returned slice is referenced.
func Alloc(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)
	off := alignOffset(unsafe.Pointer(&buf[0])) //nolint:gosec // address arithmetic only

	return buf[off : off+size : off+size]
}

// IsAligned reports whether b starts at an address divisible by align.
// Empty slices are considered aligned.
func IsAligned(b []byte, align int) bool {
	if len(b) == 0 || align <= 1 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))%uintptr(align) == 0 //nolint:gosec // address arithmetic only
}

func alignOffset(p unsafe.Pointer) int {
	addr := uintptr(p)
	return int((Alignment - (addr & (Alignment - 1))) & (Alignment - 1))
}
