// Package dtype defines the closed set of primitive element types a typed array
// can hold, their byte widths and their stable buffer format tags.
//
// Format tags follow the single-letter codes of the Python struct module so that
// descriptors produced here can be consumed by any buffer-protocol implementation:
//
//	Type     Size  Format
//	Int8     1     b
//	Uint8    1     B
//	Int16    2     h
//	Uint16   2     H
//	Int32    4     i
//	Uint32   4     I
//	Float32  4     f
//	Float64  8     d
//
// The table is part of the external contract and must not change between releases.
package dtype
