// Package blobstore abstracts where array snapshots are kept.
//
// A BlobStore holds immutable, named blobs. Snapshots are written whole with
// Put and read back through Blob.ReadAt, so remote backends only need ranged
// reads and single-shot uploads. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and short-lived pipelines
//   - LocalStore: local filesystem with atomic writes and mmap-backed reads
//   - s3.Store: Amazon S3 via aws-sdk-go-v2
//   - minio.Store: MinIO and other S3-compatible services via minio-go
//
// Blobs returned by LocalStore also implement Mappable, which lets snapshot
// loading alias the file contents instead of copying them.
package blobstore
