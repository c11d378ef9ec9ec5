package coingecko

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the upstream API reports that an entity does
// not exist (HTTP 404). Check with errors.Is.
var ErrNotFound = errors.New("not found upstream")

// TransportError covers network failures and non-2xx responses. The caller
// decides whether to abort or skip-and-continue; the client never retries.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error: GET %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("transport error: GET %s: unexpected status %d", e.URL, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError indicates a payload that does not match the expected shape,
// e.g. an unparsable volume string. The loosely-structured upstream response
// is rejected at the ingestion boundary instead of propagating inward.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid payload: %s: %v", e.Reason, e.Err)
	}
	return "invalid payload: " + e.Reason
}

func (e *ValidationError) Unwrap() error { return e.Err }
