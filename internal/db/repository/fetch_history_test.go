package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"louslist/internal/db"
	"louslist/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestFetchHistoryRepo_InsertAndList(t *testing.T) {
	t.Parallel()

	pool := db.OpenTestPool(t)
	repo := NewFetchHistoryRepo(pool.Write, pool.Read)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, &domain.FetchRecord{
		ID: "a", Term: "1252", Location: "data/data.csv", Status: domain.FetchStatusSuccess,
		RowCount: 120, DateRange: strPtr("01/13/2025 - 05/06/2025"), DurationMs: 850, CreatedAt: base,
	}))
	require.NoError(t, repo.Insert(ctx, &domain.FetchRecord{
		ID: "b", Term: "1258", Location: "data/data.csv", Status: domain.FetchStatusError,
		ErrorMessage: strPtr("upstream returned status 503"), DurationMs: 40, CreatedAt: base.Add(time.Minute),
	}))

	got, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, domain.FetchStatusError, got[0].Status)
	assert.Nil(t, got[0].DateRange)
	require.NotNil(t, got[0].ErrorMessage)
	assert.Equal(t, "upstream returned status 503", *got[0].ErrorMessage)

	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, int64(120), got[1].RowCount)
	require.NotNil(t, got[1].DateRange)
	assert.Equal(t, "01/13/2025 - 05/06/2025", *got[1].DateRange)
	assert.True(t, base.Equal(got[1].CreatedAt))
}

func TestFetchHistoryRepo_ListLimit(t *testing.T) {
	t.Parallel()

	pool := db.OpenTestPool(t)
	repo := NewFetchHistoryRepo(pool.Write, pool.Read)
	ctx := context.Background()

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, repo.Insert(ctx, &domain.FetchRecord{
			ID: id, Term: "1252", Location: "x", Status: domain.FetchStatusSuccess,
		}))
	}

	got, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFetchHistoryRepo_ListEmpty(t *testing.T) {
	t.Parallel()

	pool := db.OpenTestPool(t)
	got, err := NewFetchHistoryRepo(pool.Write, pool.Read).List(context.Background(), 20)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFetchHistoryRepo_DuplicateID(t *testing.T) {
	t.Parallel()

	pool := db.OpenTestPool(t)
	repo := NewFetchHistoryRepo(pool.Write, pool.Read)
	rec := &domain.FetchRecord{ID: "dup", Term: "1252", Location: "x", Status: domain.FetchStatusSuccess}

	require.NoError(t, repo.Insert(context.Background(), rec))
	require.Error(t, repo.Insert(context.Background(), rec))
}
