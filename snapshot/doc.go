// Package snapshot persists typed arrays as self-describing files.
//
// A snapshot is a 64-byte header followed by the element bytes exactly as the
// array stores them, optionally compressed with LZ4 or ZSTD:
//
//	offset  size  field
//	0       4     magic "FXA0"
//	4       2     format version
//	6       1     compression (0 none, 1 lz4, 2 zstd)
//	7       1     flags (bit 0 big-endian payload, bit 1 read-only)
//	8       1     element type (dtype.Type value)
//	9       1     vector length k
//	10      1     rank (1 or 2)
//	16      8     width
//	24      8     height
//	32      8     stored payload size
//	40      8     raw payload size
//	48      4     CRC32C of the stored payload
//	56      4     CRC32C of bytes [0, 56)
//
// Header integers are little-endian. The payload keeps host byte order; reading
// a snapshot written on a host of the other byte order fails with ErrByteOrder.
//
// Read and Load return independent copies. OpenMmap and LoadMapped return
// read-only arrays that alias the file mapping; releasing the array unmaps it.
package snapshot
