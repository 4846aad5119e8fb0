// Package gonumbuf adapts buffer descriptors to gonum's BLAS and matrix types
// without copying.
//
// Vector32 and Vector64 accept rank-1 descriptors with a positive element
// stride, which includes component views of multi-component arrays.
// General32 and General64 accept rank-2 row-major descriptors with a unit inner
// stride, such as a 1D array of k-vectors exported as (N, k). Writes through the
// returned values land in the exporting array.
//
// The From* functions go the other way, describing gonum-owned memory so it
// can be imported with buffer.BufferToArray.
package gonumbuf
