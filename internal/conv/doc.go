// Package conv provides checked integer conversions for untrusted sizes.
//
// Snapshot headers store dimensions as fixed-width unsigned integers; these
// helpers bound them before they are used for allocation or slicing.
//
// For conversions that are provably safe by construction (loop indices,
// already validated dimensions), use direct type casts instead.
package conv
