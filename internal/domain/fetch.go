package domain

import "time"

// UnknownDates is reported when no meeting date range can be derived.
const UnknownDates = "Unknown dates"

// MeetingDatesColumn holds the date range of a section's first meeting pattern.
const MeetingDatesColumn = "MeetingDates1"

// FetchSummary describes the outcome of a successful fetch.
type FetchSummary struct {
	Message   string `json:"message"`
	FilePath  string `json:"file_path"`
	Term      string `json:"term"`
	RowCount  int    `json:"row_count"`
	DateRange string `json:"date_range"`
}

// Fetch statuses recorded in history.
const (
	FetchStatusSuccess = "SUCCESS"
	FetchStatusError   = "ERROR"
)

// FetchRecord is one entry of fetch history.
type FetchRecord struct {
	ID           string    `json:"id"`
	Term         string    `json:"term"`
	Location     string    `json:"location"`
	Status       string    `json:"status"`
	RowCount     int64     `json:"row_count"`
	DateRange    *string   `json:"date_range,omitempty"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}
