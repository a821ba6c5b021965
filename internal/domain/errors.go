// Package domain defines core types, interfaces, and errors for the course listing service.
package domain

import "fmt"

// NotFoundError indicates the cached dataset (or another resource) does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NetworkError indicates the upstream source was unreachable or answered
// with a non-success status.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string { return e.Message }

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError indicates the upstream payload was not valid CSV.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string { return e.Message }

func (e *ParseError) Unwrap() error { return e.Err }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrNetwork creates a NetworkError wrapping cause. The message is the
// cause's text so callers see the underlying transport error.
func ErrNetwork(cause error) *NetworkError {
	return &NetworkError{Message: cause.Error(), Err: cause}
}

// ErrParse creates a ParseError wrapping cause with a formatted prefix.
func ErrParse(cause error, format string, args ...interface{}) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...) + ": " + cause.Error(), Err: cause}
}

// NoDatasetMessage is returned whenever the dataset has not been fetched yet.
const NoDatasetMessage = "No data found. Please fetch data first!"
