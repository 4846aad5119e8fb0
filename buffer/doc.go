// Package buffer bridges typed arrays and foreign numeric buffers.
//
// ArrayToBuffer exports an array as a Descriptor that aliases the array
// storage: shape, byte strides and a one-letter format tag are enough for an
// external consumer to address every component in place. BufferToArray goes the
// other way and deep-copies a foreign Descriptor into a new, independent array,
// reading each component through the declared strides.
//
// Exported shapes follow the array rank and vector length k:
//
//	1D, k = 1   (N,)
//	1D, k > 1   (N, k)
//	2D, k = 1   (height, width)
//	2D, k > 1   (height, width, k)
//
// A Descriptor never owns memory. One produced by export is invalid as soon as
// the source array is released.
package buffer
