// Package storage holds uploaded course dataset documents.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/mind-engage/mindengage-grades/internal/config"
)

var (
	ErrEmptyKey = errors.New("empty key")
	ErrNotFound = errors.New("blob not found")
)

type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error) // returns canonical key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// Open returns the blob store selected by cfg.BlobDriver.
func Open(ctx context.Context, cfg config.Config) (BlobStore, error) {
	switch strings.ToLower(cfg.BlobDriver) {
	case "", "fs":
		return NewFSStore(cfg.BlobBasePath)
	case "s3", "minio":
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return nil, fmt.Errorf("unsupported blob driver: %s", cfg.BlobDriver)
	}
}

// cleanKey normalizes key to a relative slash path that cannot escape the
// store root.
func cleanKey(key string) (string, error) {
	k := strings.TrimLeft(path.Clean("/"+strings.ReplaceAll(key, "\\", "/")), "/")
	if k == "" || k == "." {
		return "", ErrEmptyKey
	}
	return k, nil
}
