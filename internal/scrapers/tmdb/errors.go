package tmdb

import (
	"errors"
	"fmt"
)

// FetchError is returned when a GET request does not come back with a
// success status, times out or fails at the transport level.
type FetchError struct {
	URL string
	// StatusCode is 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: http %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is, or wraps, a *FetchError.
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

var (
	// ErrAPI wraps failures of the JSON API (bad status or body).
	ErrAPI = errors.New("tmdb api")
	// ErrMisaligned is returned when per-movie results do not line up with the listing.
	ErrMisaligned = errors.New("details do not line up with listing entries")
)
