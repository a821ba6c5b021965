package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"louslist/internal/domain"
)

var _ domain.FetchHistoryRepository = (*FetchHistoryRepo)(nil)

// FetchHistoryRepo stores fetch attempts in the fetch_history table.
type FetchHistoryRepo struct {
	writeDB *sql.DB
	readDB  *sql.DB
}

// NewFetchHistoryRepo creates a repository. Inserts go through writeDB and
// listings through readDB; the same pool may be passed for both.
func NewFetchHistoryRepo(writeDB, readDB *sql.DB) *FetchHistoryRepo {
	return &FetchHistoryRepo{writeDB: writeDB, readDB: readDB}
}

// Insert records rec. CreatedAt defaults to now when zero.
func (r *FetchHistoryRepo) Insert(ctx context.Context, rec *domain.FetchRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.writeDB.ExecContext(ctx,
		`INSERT INTO fetch_history (id, term, location, status, row_count, date_range, error_message, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Term, rec.Location, rec.Status, rec.RowCount,
		nullString(rec.DateRange), nullString(rec.ErrorMessage),
		rec.DurationMs, rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert fetch history: %w", err)
	}
	return nil
}

// List returns the most recent limit records, newest first.
func (r *FetchHistoryRepo) List(ctx context.Context, limit int) ([]domain.FetchRecord, error) {
	rows, err := r.readDB.QueryContext(ctx,
		`SELECT id, term, location, status, row_count, date_range, error_message, duration_ms, created_at
		 FROM fetch_history ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list fetch history: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	records := make([]domain.FetchRecord, 0, limit)
	for rows.Next() {
		var (
			rec       domain.FetchRecord
			dateRange sql.NullString
			errMsg    sql.NullString
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &rec.Term, &rec.Location, &rec.Status, &rec.RowCount,
			&dateRange, &errMsg, &rec.DurationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan fetch history: %w", err)
		}
		rec.DateRange = stringPtr(dateRange)
		rec.ErrorMessage = stringPtr(errMsg)
		if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
