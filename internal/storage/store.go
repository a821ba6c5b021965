// Package storage persists the cached course listing dataset.
package storage

import (
	"context"
	"fmt"

	"louslist/internal/domain"
	"louslist/internal/table"
)

// ObjectStore stores a single opaque object. Get returns a
// *domain.NotFoundError when nothing has been stored yet; Put replaces the
// object in full.
type ObjectStore interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, data []byte) error
	Location() string
}

var _ domain.DatasetStore = (*DatasetStore)(nil)

// DatasetStore layers CSV decoding and encoding on top of an ObjectStore.
type DatasetStore struct {
	objects ObjectStore
}

// NewDatasetStore wraps objects.
func NewDatasetStore(objects ObjectStore) *DatasetStore {
	return &DatasetStore{objects: objects}
}

// Load reads and parses the cached dataset.
func (s *DatasetStore) Load(ctx context.Context) (*domain.Dataset, error) {
	raw, err := s.objects.Get(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := table.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("decode cached dataset at %s: %w", s.objects.Location(), err)
	}
	return ds, nil
}

// Save encodes ds as CSV and replaces the cached object.
func (s *DatasetStore) Save(ctx context.Context, ds *domain.Dataset) error {
	raw, err := table.Encode(ds)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := s.objects.Put(ctx, raw); err != nil {
		return fmt.Errorf("write dataset to %s: %w", s.objects.Location(), err)
	}
	return nil
}

// Raw returns the cached bytes unchanged.
func (s *DatasetStore) Raw(ctx context.Context) ([]byte, error) {
	return s.objects.Get(ctx)
}

// Location returns the path or URI of the cached object.
func (s *DatasetStore) Location() string {
	return s.objects.Location()
}

func notFound() error {
	return domain.ErrNotFound(domain.NoDatasetMessage)
}
