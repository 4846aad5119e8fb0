package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error that satisfies errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// BlobStore stores immutable named blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names of all blobs starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a stored blob.
type Blob interface {
	// ReadAt reads len(p) bytes at off. It follows io.ReaderAt semantics.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// Size returns the size of the blob in bytes.
	Size() int64
	io.Closer
}

// Mappable is implemented by blobs whose content is directly addressable.
type Mappable interface {
	// Bytes returns the blob content without copying. The slice is valid
	// until the blob is closed and must not be written.
	Bytes() ([]byte, error)
}

// Reader reads a blob sequentially.
type Reader struct {
	ctx  context.Context
	blob Blob
	off  int64
}

// NewReader returns a sequential reader over b that issues its reads with ctx.
func NewReader(ctx context.Context, b Blob) *Reader {
	return &Reader{ctx: ctx, blob: b}
}

func (r *Reader) Read(p []byte) (int, error) {
	if r.off >= r.blob.Size() {
		return 0, io.EOF
	}
	if rem := r.blob.Size() - r.off; int64(len(p)) > rem {
		p = p[:rem]
	}
	n, err := r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}
