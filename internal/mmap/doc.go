// Package mmap maps snapshot files read-only into memory so arrays can alias
// file contents without copying them onto the heap.
//
//	m, err := mmap.Open("grid.fxa")
//	if err != nil { ... }
//	payload, err := m.Slice(headerSize, n)
//	...
//	m.Close() // payload is invalid from here on
//
// Unix platforms use mmap(2) and madvise(2). On Windows the file is mapped
// with MapViewOfFile and access hints are ignored.
//
// Bytes and Slice return memory that faults when touched after Close; callers
// tie the mapping lifetime to the owner of those slices.
package mmap
