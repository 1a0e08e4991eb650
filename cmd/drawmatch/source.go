package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hupe1980/drawmatch/blobstore"
	"github.com/hupe1980/drawmatch/blobstore/minio"
	"github.com/hupe1980/drawmatch/blobstore/s3"
	"github.com/hupe1980/drawmatch/internal/config"
)

// source is a parsed player file or snapshot location.
type source struct {
	scheme string // "file", "s3" or "minio"
	bucket string
	name   string
}

func (s source) String() string {
	if s.scheme == "file" {
		return s.name
	}
	return s.scheme + "://" + s.bucket + "/" + s.name
}

// parseSource accepts a plain path, file://path, s3://bucket/key or
// minio://bucket/key.
func parseSource(raw string) (source, error) {
	if raw == "" {
		return source{}, errors.New("empty source")
	}
	if !strings.Contains(raw, "://") {
		return source{scheme: "file", name: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return source{}, fmt.Errorf("parse source %q: %w", raw, err)
	}

	switch u.Scheme {
	case "file":
		p := u.Path
		if u.Host != "" {
			p = u.Host + p
		}
		if p == "" {
			return source{}, fmt.Errorf("source %q has no path", raw)
		}
		return source{scheme: "file", name: p}, nil
	case "s3", "minio":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return source{}, fmt.Errorf("source %q must look like %s://bucket/key", raw, u.Scheme)
		}
		return source{scheme: u.Scheme, bucket: u.Host, name: key}, nil
	default:
		return source{}, fmt.Errorf("source %q: unsupported scheme %q", raw, u.Scheme)
	}
}

// openStore returns the store that holds src.
func openStore(ctx context.Context, cfg config.Config, src source) (blobstore.WritableStore, error) {
	switch src.scheme {
	case "file":
		return blobstore.NewLocalStore(""), nil
	case "s3":
		opts := []s3.Option{
			s3.WithRegion(cfg.S3.Region),
			s3.WithEndpoint(cfg.S3.Endpoint),
			s3.WithPathStyle(cfg.S3.UsePathStyle),
			s3.WithStaticCredentials(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.SessionToken),
		}
		return s3.New(ctx, src.bucket, opts...)
	case "minio":
		return minio.New(minio.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Region:    cfg.MinIO.Region,
			Secure:    cfg.MinIO.Secure,
		}, src.bucket, "")
	default:
		return nil, fmt.Errorf("unsupported scheme %q", src.scheme)
	}
}
