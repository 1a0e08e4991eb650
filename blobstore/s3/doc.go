// Package s3 provides an S3 implementation of blobstore.WritableStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "lottery",
//	    s3.WithPrefix("draws/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	rc, _, err := blobstore.OpenReader(ctx, store, "players.txt.zst")
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart streaming uploads with CRC32C checksums
//   - Custom endpoints and static credentials for S3-compatible servers
package s3
