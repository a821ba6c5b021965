package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"louslist/internal/config"
	"louslist/internal/domain"
)

func TestDatasetStore_SaveLoadRoundTrip(t *testing.T) {
	s := NewDatasetStore(NewFileStore(filepath.Join(t.TempDir(), "data.csv")))
	ctx := context.Background()

	ds := &domain.Dataset{
		Columns: []string{"Title", "Enrollment", "Room1"},
		Rows: [][]domain.Value{
			{domain.StringValue("Intro to AI"), domain.IntValue(30), domain.Null},
			{domain.StringValue("Calculus"), domain.IntValue(12), domain.StringValue("Kerchof 317")},
		},
	}
	require.NoError(t, s.Save(ctx, ds))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ds, got)

	raw, err := s.Raw(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Title,Enrollment,Room1\nIntro to AI,30,\nCalculus,12,Kerchof 317\n", string(raw))
}

func TestDatasetStore_LoadMissing(t *testing.T) {
	s := NewDatasetStore(NewFileStore(filepath.Join(t.TempDir(), "data.csv")))

	_, err := s.Load(context.Background())
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDatasetStore_LoadCorrupt(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "data.csv"))
	require.NoError(t, fs.Put(context.Background(), []byte("A,B\n1,2,3\n")))

	_, err := NewDatasetStore(fs).Load(context.Background())
	require.Error(t, err)
	var notFound *domain.NotFoundError
	assert.NotErrorAs(t, err, &notFound)
}

func TestNew_Local(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	s, err := New(context.Background(), &config.Config{StorageBackend: config.BackendLocal, DataPath: path})
	require.NoError(t, err)
	assert.Equal(t, path, s.Location())
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StorageBackend: "tape"})
	require.Error(t, err)
}

func TestNew_S3RequiresConfig(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StorageBackend: config.BackendS3})
	require.Error(t, err)
}
