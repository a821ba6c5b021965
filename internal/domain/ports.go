package domain

import "context"

// DatasetStore persists the single cached dataset.
// Implemented by storage.DatasetStore.
type DatasetStore interface {
	Load(ctx context.Context) (*Dataset, error)
	Save(ctx context.Context, ds *Dataset) error
	Raw(ctx context.Context) ([]byte, error)
	Location() string
}

// Upstream retrieves raw CSV listings for a term from the external source.
// Implemented by upstream.Client.
type Upstream interface {
	FetchCSV(ctx context.Context, term string) ([]byte, error)
}

// FetchHistoryRepository records fetch attempts.
// Implemented by repository.FetchHistoryRepo.
type FetchHistoryRepository interface {
	Insert(ctx context.Context, rec *FetchRecord) error
	List(ctx context.Context, limit int) ([]FetchRecord, error)
}
