// Package array implements typed fixed arrays: contiguous, exclusively owned
// storage for 1D and 2D arrays whose elements are either a single scalar or a
// fixed-length tuple of k ∈ {1,2,3,4} scalars of one dtype.Type.
//
// # Layout
//
// Elements are stored element-major, component-minor: the k components of one
// element are contiguous, and element i starts at byte i·k·w where w is the
// component width. 2D arrays are indexed logically as (x, y) but stored row-major
// with y as the outer (slower varying) index:
//
//	offset(x, y) = (y·width + x)·k·w
//
// # Views and aliasing
//
// Element, ComponentView and Masked values, as well as buffer descriptors derived
// from an Array, alias its storage. They become invalid the moment the Array is
// released. Nothing tracks them: using a view after Release is undefined behavior
// (for memory-mapped arrays it faults). Concurrent writes through any alias while
// another goroutine reads are data races; synchronization is the caller's job.
package array
