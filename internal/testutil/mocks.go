// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase.
package testutil

import (
	"context"
	"sync"

	"louslist/internal/domain"
)

// === Upstream Mock ===

// MockUpstream implements domain.Upstream for testing.
type MockUpstream struct {
	FetchCSVFn func(ctx context.Context, term string) ([]byte, error)

	mu    sync.Mutex
	Terms []string // terms requested, in call order
}

// FetchCSV implements the interface method for testing.
func (m *MockUpstream) FetchCSV(ctx context.Context, term string) ([]byte, error) {
	m.mu.Lock()
	m.Terms = append(m.Terms, term)
	m.mu.Unlock()
	if m.FetchCSVFn != nil {
		return m.FetchCSVFn(ctx, term)
	}
	panic("unexpected call to MockUpstream.FetchCSV")
}

// Calls returns how many times FetchCSV was called.
func (m *MockUpstream) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Terms)
}

// StaticUpstream returns a MockUpstream that always answers body.
func StaticUpstream(body string) *MockUpstream {
	return &MockUpstream{
		FetchCSVFn: func(_ context.Context, _ string) ([]byte, error) {
			return []byte(body), nil
		},
	}
}

// === Fetch History Mock ===

// MockFetchHistoryRepo implements domain.FetchHistoryRepository for testing.
// Without InsertFn, inserted records are collected for assertions.
type MockFetchHistoryRepo struct {
	InsertFn func(ctx context.Context, rec *domain.FetchRecord) error
	ListFn   func(ctx context.Context, limit int) ([]domain.FetchRecord, error)

	mu      sync.Mutex
	Records []domain.FetchRecord
}

// Insert implements the interface method for testing.
func (m *MockFetchHistoryRepo) Insert(ctx context.Context, rec *domain.FetchRecord) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, rec); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Records = append(m.Records, *rec)
	m.mu.Unlock()
	return nil
}

// List implements the interface method for testing.
func (m *MockFetchHistoryRepo) List(ctx context.Context, limit int) ([]domain.FetchRecord, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, limit)
	}
	panic("unexpected call to MockFetchHistoryRepo.List")
}

// Last returns the most recent inserted record, or nil if none.
func (m *MockFetchHistoryRepo) Last() *domain.FetchRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Records) == 0 {
		return nil
	}
	rec := m.Records[len(m.Records)-1]
	return &rec
}

// === Course listing fixtures ===

// CourseCSV is a small listing with the columns the search presets use.
const CourseCSV = `ClassNumber,Mnemonic,Number,Title,Type,Days1,Room1,MeetingDates1,Enrollment,EnrollmentLimit,Status
10001,CS,4710,Intro to AI,Lecture,MoWe 2:00pm - 3:15pm,Rice Hall 130,01/13/2025 - 05/06/2025,120,150,Open
10002,APMA,1110,Calculus II,Lecture,TuTh 9:30am - 10:45am,Olsson 120,01/13/2025 - 05/06/2025,45,45,Closed
10003,CS,2100,Data Structures and Algorithms 1,Laboratory,Fr 1:00pm - 1:50pm,,01/13/2025 - 05/06/2025,30,32,Wait List
`
