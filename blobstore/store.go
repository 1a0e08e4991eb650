package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore gives read access to named blobs such as player files and
// snapshots.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
}

// WritableStore is a BlobStore that can also store blobs.
type WritableStore interface {
	BlobStore

	// Create creates a blob for streaming writes. The blob becomes
	// visible once the returned WritableBlob is closed.
	Create(ctx context.Context, name string) (WritableBlob, error)

	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.Closer

	// ReadAt reads len(p) bytes starting at off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)

	// ReadRange returns a reader over length bytes starting at off.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)

	// Size returns the size of the blob in bytes.
	Size() int64
}

// WritableBlob is a blob being written.
type WritableBlob interface {
	io.WriteCloser

	// Sync flushes buffered data to durable storage where supported.
	Sync() error
}

// Abortable is implemented by writable blobs that can discard a partial
// write instead of committing it.
type Abortable interface {
	Abort() error
}

// Discard abandons w. Blobs that cannot abort are closed, which may commit
// the data written so far.
func Discard(w WritableBlob) error {
	if a, ok := w.(Abortable); ok {
		return a.Abort()
	}
	return w.Close()
}

// OpenReader opens name and returns a sequential reader over the whole blob
// together with its size. Closing the reader closes the blob.
func OpenReader(ctx context.Context, store BlobStore, name string) (io.ReadCloser, int64, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, 0, err
	}

	size := blob.Size()
	if size == 0 {
		_ = blob.Close()
		return io.NopCloser(bytes.NewReader(nil)), 0, nil
	}

	rc, err := blob.ReadRange(ctx, 0, size)
	if err != nil {
		_ = blob.Close()
		return nil, 0, err
	}
	return &blobReader{ReadCloser: rc, blob: blob}, size, nil
}

type blobReader struct {
	io.ReadCloser
	blob Blob
}

func (r *blobReader) Close() error {
	err := r.ReadCloser.Close()
	if cerr := r.blob.Close(); err == nil {
		err = cerr
	}
	return err
}
