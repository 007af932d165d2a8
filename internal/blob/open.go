// Package blob selects a blob store implementation from configuration.
package blob

import (
	"context"
	"fmt"

	"lifetrack/internal/blob/core"
	"lifetrack/internal/config"
	"lifetrack/internal/infra/blob/fs"
	"lifetrack/internal/infra/blob/memory"
	"lifetrack/internal/infra/blob/s3"
)

// Open returns the blob store for driver: fs (rooted at cfg.FSRoot), s3
// (cfg.S3), or memory.
func Open(ctx context.Context, driver core.Driver, cfg config.Storage) (core.Store, error) {
	switch driver {
	case core.DriverFilesystem:
		return store(fs.New(cfg.FSRoot))
	case core.DriverS3:
		return store(s3.New(ctx, s3.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		}))
	case core.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}

func store[S core.Store](s S, err error) (core.Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
