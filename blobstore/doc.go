// Package blobstore abstracts where player files and database snapshots live.
//
// A BlobStore opens named, immutable blobs; a WritableStore can also create
// them. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, atomic writes via rename
//   - MemoryStore: in-process map, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// Most callers only need a sequential stream:
//
//	rc, size, err := blobstore.OpenReader(ctx, store, "players.txt")
//	if err != nil {
//	    return err
//	}
//	defer rc.Close()
package blobstore
