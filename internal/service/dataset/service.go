// Package dataset fetches, caches and queries the course listing.
package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"louslist/internal/domain"
	"louslist/internal/metrics"
	"louslist/internal/search"
	"louslist/internal/table"
)

// Service ties upstream, store and history together. It keeps no dataset in
// memory between calls.
type Service struct {
	upstream    domain.Upstream
	store       domain.DatasetStore
	history     domain.FetchHistoryRepository
	metrics     *metrics.Metrics
	defaultTerm string
	logger      *slog.Logger

	flights  singleflight.Group
	inflight sync.WaitGroup
	now      func() time.Time
}

// NewService creates a Service. history and m may be nil.
func NewService(
	upstream domain.Upstream,
	store domain.DatasetStore,
	history domain.FetchHistoryRepository,
	m *metrics.Metrics,
	defaultTerm string,
	logger *slog.Logger,
) *Service {
	return &Service{
		upstream:    upstream,
		store:       store,
		history:     history,
		metrics:     m,
		defaultTerm: defaultTerm,
		logger:      logger,
		now:         time.Now,
	}
}

// Fetch downloads the listing for term (the default term when empty),
// replaces the cached dataset and returns a summary. Concurrent calls for
// the same term share a single upstream request; a caller whose context
// ends stops waiting without cancelling the shared fetch.
func (s *Service) Fetch(ctx context.Context, term string) (*domain.FetchSummary, error) {
	if term == "" {
		term = s.defaultTerm
	}

	ch := s.flights.DoChan(term, func() (interface{}, error) {
		s.inflight.Add(1)
		defer s.inflight.Done()
		return s.fetch(context.WithoutCancel(ctx), term)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		summary := *res.Val.(*domain.FetchSummary)
		return &summary, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Wait blocks until every fetch started by Fetch has stored its dataset and
// history record, including fetches whose callers stopped waiting. Call it
// after the HTTP server and scheduler have stopped and before the history
// pool is closed.
func (s *Service) Wait() {
	s.inflight.Wait()
}

func (s *Service) fetch(ctx context.Context, term string) (*domain.FetchSummary, error) {
	start := s.now()
	summary, err := s.fetchAndStore(ctx, term)
	elapsed := s.now().Sub(start)

	rec := &domain.FetchRecord{
		ID:         uuid.New().String(),
		Term:       term,
		Location:   s.store.Location(),
		DurationMs: elapsed.Milliseconds(),
		CreatedAt:  start.UTC(),
	}
	if err != nil {
		msg := err.Error()
		rec.Status = domain.FetchStatusError
		rec.ErrorMessage = &msg
		s.metrics.ObserveFetch(domain.FetchStatusError, elapsed, -1)
		s.logger.Warn("fetch failed", "term", term, "duration", elapsed, "error", err)
	} else {
		rec.Status = domain.FetchStatusSuccess
		rec.RowCount = int64(summary.RowCount)
		rec.DateRange = &summary.DateRange
		s.metrics.ObserveFetch(domain.FetchStatusSuccess, elapsed, summary.RowCount)
		s.logger.Info("dataset fetched",
			"term", term,
			"rows", summary.RowCount,
			"location", summary.FilePath,
			"duration", elapsed,
		)
	}
	s.recordHistory(ctx, rec)

	return summary, err
}

func (s *Service) fetchAndStore(ctx context.Context, term string) (*domain.FetchSummary, error) {
	body, err := s.upstream.FetchCSV(ctx, term)
	if err != nil {
		return nil, err
	}

	ds, err := table.Parse(body)
	if err != nil {
		return nil, domain.ErrParse(err, "parse upstream CSV")
	}

	if err := s.store.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("save dataset: %w", err)
	}

	location := s.store.Location()
	return &domain.FetchSummary{
		Message:   "Data fetched successfully and saved as " + location,
		FilePath:  location,
		Term:      term,
		RowCount:  ds.Len(),
		DateRange: DateRange(ds),
	}, nil
}

func (s *Service) recordHistory(ctx context.Context, rec *domain.FetchRecord) {
	if s.history == nil {
		return
	}
	if err := s.history.Insert(ctx, rec); err != nil {
		s.logger.Warn("record fetch history", "id", rec.ID, "error", err)
	}
}

// DateRange reports the first row's MeetingDates1 value, or UnknownDates
// when the column is missing, the cell is empty or there are no rows.
func DateRange(ds *domain.Dataset) string {
	if ds.Len() == 0 {
		return domain.UnknownDates
	}
	if v := ds.Cell(0, domain.MeetingDatesColumn); v.String() != "" {
		return v.String()
	}
	return domain.UnknownDates
}

// LoadAll returns every cached row.
func (s *Service) LoadAll(ctx context.Context) (*domain.Dataset, error) {
	return s.store.Load(ctx)
}

// RawCSV returns the cached bytes unchanged.
func (s *Service) RawCSV(ctx context.Context) ([]byte, error) {
	return s.store.Raw(ctx)
}

// Search filters the cached dataset. Matching always covers the full row;
// req.Columns only narrows the returned columns.
func (s *Service) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	if req.Query == "" {
		return nil, domain.ErrValidation("Query parameter is required.")
	}
	if req.Format == "" {
		req.Format = domain.FormatJSON
	}

	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveSearch(req.Preset, string(req.Format))
	return &domain.SearchResult{
		Matches: search.Filter(ds, req.Query, req.Columns),
		Format:  req.Format,
	}, nil
}

// History limits.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// History lists the most recent fetch attempts, newest first. A
// non-positive limit selects DefaultHistoryLimit; larger values are capped
// at MaxHistoryLimit.
func (s *Service) History(ctx context.Context, limit int) ([]domain.FetchRecord, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	if s.history == nil {
		return []domain.FetchRecord{}, nil
	}
	return s.history.List(ctx, limit)
}
