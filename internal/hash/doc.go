// Package hash provides the CRC32-Castagnoli checksum used by snapshot headers,
// snapshot payloads and S3 upload integrity checks.
//
//	sum := hash.CRC32C(data)
//
//	h := hash.NewCRC32C()
//	h.Write(header)
//	h.Write(payload)
//	sum = h.Sum32()
//
// Go's hash/crc32 uses SSE4.2 or the ARM CRC extension when available.
package hash
