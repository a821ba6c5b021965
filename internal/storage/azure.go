package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

var _ ObjectStore = (*AzureStore)(nil)

// AzureStore keeps the object as a block blob in an Azure Storage container.
type AzureStore struct {
	client    *azblob.Client
	account   string
	container string
	key       string
}

// NewAzureStore creates a store authenticated with an account shared key.
func NewAzureStore(accountName, accountKey, container, key string) (*AzureStore, error) {
	cred, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("create shared key credential: %w", err)
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", accountName)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create Azure blob client: %w", err)
	}
	return &AzureStore{client: client, account: accountName, container: container, key: key}, nil
}

// Get downloads the blob.
func (s *AzureStore) Get(ctx context.Context) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, s.key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("azure get %s: %w", s.Location(), err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("azure read %s: %w", s.Location(), err)
	}
	return data, nil
}

// Put uploads data as a single block blob, replacing the previous one.
func (s *AzureStore) Put(ctx context.Context, data []byte) error {
	if _, err := s.client.UploadBuffer(ctx, s.container, s.key, data, nil); err != nil {
		return fmt.Errorf("azure put %s: %w", s.Location(), err)
	}
	return nil
}

// Location returns the blob URL.
func (s *AzureStore) Location() string {
	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", s.account, s.container, s.key)
}
