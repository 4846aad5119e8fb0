package mmap

import "errors"

// AccessPattern is a hint to the kernel about upcoming access.
type AccessPattern int

const (
	// AccessDefault gives no specific advice.
	AccessDefault AccessPattern = iota
	// AccessSequential expects a front-to-back scan, as in a bulk import.
	AccessSequential
	// AccessRandom expects scattered element access.
	AccessRandom
	// AccessWillNeed asks for read-ahead of the whole range.
	AccessWillNeed
)

var (
	// ErrClosed is returned when the mapping has been closed.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned for files whose size cannot be mapped.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrOutOfBounds is returned for slices outside the mapping.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
)
