package models

import (
	"errors"
	"fmt"
)

// TransportError covers network failures, timeouts and non-2xx HTTP
// responses from the FRED API.
type TransportError struct {
	SeriesID string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fred request for %s failed with status %d", e.SeriesID, e.Status)
	}
	return fmt.Sprintf("fred request for %s failed: %v", e.SeriesID, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError covers malformed JSON bodies or responses whose shape does
// not match the observations envelope.
type ParseError struct {
	SeriesID string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse fred response for %s: %v", e.SeriesID, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrEmptyResult signals a series with no observations, or none left
// after cleaning. It is logged and skipped, never fatal to the batch.
var ErrEmptyResult = errors.New("no observations for series")

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsParse reports whether err is a ParseError.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
