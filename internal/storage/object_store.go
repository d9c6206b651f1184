// Package storage archives original uploads in an S3 compatible bucket.
package storage

import (
	"context"
	"fmt"

	"doctalkie/internal/config"
)

// ObjectStore keeps raw uploaded files.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

// New builds the store selected by cfg.Driver. The "none" driver returns a
// nil store and callers skip archiving.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStore, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "s3":
		store, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "minio":
		store, err := NewMinioStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
