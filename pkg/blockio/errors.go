package blockio

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates the object (or its locator) does not exist upstream.
// Not retried.
var ErrNotFound = errors.New("blockio: object not found")

// ErrFatal indicates an unrecoverable upstream error. Not retried.
var ErrFatal = errors.New("blockio: fatal upstream error")

// RateLimitedError indicates the upstream store is throttling this caller.
// Callers must sleep for at least RetryAfter before retrying the same call.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("blockio: rate limited, retry after %s", e.RetryAfter)
}

// TransientError wraps a recoverable transport failure. Callers apply
// bounded exponential backoff (see Retrier).
type TransientError struct {
	Cause error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("blockio: transient error: %v", e.Cause)
}

func (e *TransientError) Unwrap() error { return e.Cause }

// Is implements error matching so callers can write
// errors.Is(err, &TransientError{}) style checks via errors.As, or compare
// against the sentinel ErrFatal/ErrNotFound where those apply.
func (e *TransientError) Is(target error) bool {
	_, ok := target.(*TransientError)
	return ok
}
