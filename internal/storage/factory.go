package storage

import (
	"context"
	"fmt"

	"louslist/internal/config"
)

// New builds the ObjectStore selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (ObjectStore, error) {
	switch cfg.StorageBackend {
	case config.BackendLocal, "":
		return NewFileStore(cfg.DataPath), nil
	case config.BackendS3:
		if !cfg.HasS3Config() {
			return nil, fmt.Errorf("S3 config is incomplete")
		}
		return NewS3Store(S3Options{
			KeyID:    *cfg.S3KeyID,
			Secret:   *cfg.S3Secret,
			Endpoint: *cfg.S3Endpoint,
			Region:   *cfg.S3Region,
			Bucket:   *cfg.S3Bucket,
			Key:      cfg.ObjectKey,
		}), nil
	case config.BackendGCS:
		return NewGCSStore(ctx, cfg.GCSBucket, cfg.ObjectKey, cfg.GCSKeyFile)
	case config.BackendAzure:
		return NewAzureStore(cfg.AzureAccountName, cfg.AzureAccountKey, cfg.AzureContainer, cfg.ObjectKey)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
