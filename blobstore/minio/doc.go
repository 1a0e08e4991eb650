// Package minio provides a blobstore.WritableStore backed by the MinIO client.
//
// It works with MinIO and other S3-compatible servers without pulling in the
// AWS SDK configuration chain.
//
//	store, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	}, "lottery", "draws/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rc, _, err := blobstore.OpenReader(ctx, store, "players.txt")
package minio
