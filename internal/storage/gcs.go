package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

var _ ObjectStore = (*GCSStore)(nil)

// GCSStore keeps the object in a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
	key    string
}

// NewGCSStore creates a store authenticated with a service account key file.
func NewGCSStore(ctx context.Context, bucket, key, keyFile string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx, option.WithAuthCredentialsFile(option.ServiceAccount, keyFile))
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket, key: key}, nil
}

// Get downloads the object.
func (s *GCSStore) Get(ctx context.Context) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(s.key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("gcs get %s: %w", s.Location(), err)
	}
	defer r.Close() //nolint:errcheck

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gcs read %s: %w", s.Location(), err)
	}
	return data, nil
}

// Put uploads data. GCS makes the new generation visible only once Close
// succeeds, so readers see either the old or the new object.
func (s *GCSStore) Put(ctx context.Context, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(s.key).NewWriter(ctx)
	w.ContentType = "text/csv"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcs write %s: %w", s.Location(), err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs commit %s: %w", s.Location(), err)
	}
	return nil
}

// Location returns the gs:// URI of the object.
func (s *GCSStore) Location() string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, s.key)
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
