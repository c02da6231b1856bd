package xmnote

import (
	"errors"
	"fmt"
)

var errEmptyTimestamp = errors.New("empty timestamp")

// ParseError means a date in the source data could not be understood.
type ParseError struct {
	Field        string
	Value        string
	AnnotationID int64 // zero for book-level fields
	Err          error
}

func (e *ParseError) Error() string {
	if e.AnnotationID != 0 {
		return fmt.Sprintf("annotation %d: cannot parse %s %q: %v", e.AnnotationID, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("cannot parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NetworkError collapses every failure to complete the HTTP exchange:
// refused connections, DNS failures and timeouts alike.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusError is returned when the device answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("device responded with HTTP %d: %s", e.StatusCode, e.Body)
}
