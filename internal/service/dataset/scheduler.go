package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"louslist/internal/domain"
)

// Fetcher is the part of Service the scheduler drives.
type Fetcher interface {
	Fetch(ctx context.Context, term string) (*domain.FetchSummary, error)
}

// Scheduler refetches the default term on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	fetcher Fetcher
	spec    string
	term    string
	logger  *slog.Logger
	entry   cron.EntryID
	ctx     context.Context
}

// NewScheduler creates a scheduler for spec, a standard five-field cron
// expression or a descriptor such as "@hourly". An empty term lets the
// service pick its default.
func NewScheduler(fetcher Fetcher, spec, term string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		fetcher: fetcher,
		spec:    spec,
		term:    term,
		logger:  logger,
		ctx:     context.Background(),
	}
}

// Start registers the job and starts the cron loop. Scheduled fetches wait
// on ctx; cancelling it stops the wait but the fetch itself runs to
// completion inside Service (see Service.Wait).
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx = ctx
	id, err := s.cron.AddFunc(s.spec, s.run)
	if err != nil {
		return fmt.Errorf("invalid fetch schedule %q: %w", s.spec, err)
	}
	s.entry = id
	s.cron.Start()
	s.logger.Info("fetch scheduler started", "schedule", s.spec, "next", s.Next())
	return nil
}

// Stop halts the cron loop and waits for a running fetch to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("fetch scheduler stopped")
}

// Next returns the next scheduled run, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	if s.entry == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entry).Next
}

func (s *Scheduler) run() {
	summary, err := s.fetcher.Fetch(s.ctx, s.term)
	if err != nil {
		s.logger.Warn("scheduled fetch failed", "term", s.term, "error", err)
		return
	}
	s.logger.Info("scheduled fetch complete", "term", summary.Term, "rows", summary.RowCount)
}
