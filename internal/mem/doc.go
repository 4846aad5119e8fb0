// Package mem provides memory allocation utilities for element storage.
//
// # Aligned Allocation
//
// Element storage is 64-byte aligned so that typed views of every supported
// element type ([]float64, []uint32, ...) can be taken over it without
// misaligned loads, and so that SIMD-minded consumers get cache-line starts.
package mem
