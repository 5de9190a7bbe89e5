package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrInvalidRange     = errors.New("invalid_range")
	ErrDateOutOfRange   = errors.New("date_out_of_range")
	ErrInvalidThreshold = errors.New("invalid_threshold")
	ErrSchemaMismatch   = errors.New("schema_mismatch")
	ErrFetch            = errors.New("fetch_error")
	ErrDateNotFound     = errors.New("date_not_found")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RangeError reports a start date that falls after the end date.
type RangeError struct {
	Start Date
	End   Date
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("start_date %s is after end_date %s", e.Start, e.End)
}

func (e *RangeError) Is(target error) bool { return target == ErrInvalidRange }

// DateOutOfRangeError reports a date outside the window the registry serves.
// Cutoff is the earliest date accepted at validation time.
type DateOutOfRangeError struct {
	Date   Date
	Cutoff Date
	Today  Date
}

func (e *DateOutOfRangeError) Error() string {
	if !e.Date.Before(e.Today) {
		return fmt.Sprintf("date %s must be before today (%s)", e.Date, e.Today)
	}
	return fmt.Sprintf("date %s is earlier than the one year cutoff %s", e.Date, e.Cutoff)
}

func (e *DateOutOfRangeError) Is(target error) bool { return target == ErrDateOutOfRange }

// ThresholdError reports a negative (or NaN) significance threshold.
type ThresholdError struct {
	Threshold float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("threshold must be a non-negative number, got %v", e.Threshold)
}

func (e *ThresholdError) Is(target error) bool { return target == ErrInvalidThreshold }

// SchemaMismatchError reports registry output that does not fit the column map:
// an unknown label, a missing required column or a value that cannot be parsed.
type SchemaMismatchError struct {
	Label  string
	Value  string
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	if e.Label == "" {
		return "result table: " + e.Reason
	}
	if e.Value != "" {
		return fmt.Sprintf("column %q: %s: %q", e.Label, e.Reason, e.Value)
	}
	return fmt.Sprintf("column %q: %s", e.Label, e.Reason)
}

func (e *SchemaMismatchError) Is(target error) bool { return target == ErrSchemaMismatch }

// FetchError wraps a snapshot fetch failure for a single date.
type FetchError struct {
	StockCode string
	Date      Date
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s on %s: %v", e.StockCode, e.Date, e.Err)
}

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

func (e *FetchError) Unwrap() error { return e.Err }
