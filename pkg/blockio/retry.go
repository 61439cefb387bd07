package blockio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"
)

// BackoffFunc computes the sleep duration for a given retry attempt
// (0-based), mirroring the teacher's resumable transport backoff shape.
type BackoffFunc func(attempt int) time.Duration

// DefaultBackoff is jittered exponential backoff starting at 0.2s, capped
// at 5s, per spec §4.1.
func DefaultBackoff(attempt int) time.Duration {
	base := 200 * time.Millisecond
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	jitter := 0.8 + rand.Float64()*0.4 // [0.8, 1.2)
	return time.Duration(float64(d) * jitter)
}

// MaxTransientRetries is the maximum number of consecutive TRANSIENT
// failures tolerated for a single batch fetch before giving up, per §4.1.
const MaxTransientRetries = 5

// ReadAllBlocks drains a FragmentReader to completion, retrying rate-limit
// and transient failures per spec §4.1/§4.2. NOT_FOUND and FATAL errors are
// returned immediately without retry. It is the retry wrapper each C2
// worker applies around a single Client.ReadBlocks call.
func ReadAllBlocks(ctx context.Context, client Client, locator Locator, startBlock int64, blockCount int, backoff BackoffFunc) ([]byte, error) {
	if backoff == nil {
		backoff = DefaultBackoff
	}

	expected := blockCount * int(client.BlockSize())
	var transientAttempts int

	for {
		buf, err := attemptRead(ctx, client, locator, startBlock, blockCount, expected)
		if err == nil {
			return buf, nil
		}

		var rateLimited *RateLimitedError
		if errors.As(err, &rateLimited) {
			if sleepErr := sleep(ctx, rateLimited.RetryAfter); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		var transient *TransientError
		if errors.As(err, &transient) {
			transientAttempts++
			if transientAttempts > MaxTransientRetries {
				return nil, fmt.Errorf("blockio: batch [%d,+%d) failed after %d transient retries: %w",
					startBlock, blockCount, MaxTransientRetries, err)
			}
			if sleepErr := sleep(ctx, backoff(transientAttempts-1)); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		// ErrNotFound, ErrFatal, or anything else: not retried.
		return nil, err
	}
}

// attemptRead performs one ReadBlocks call to completion (no retry).
func attemptRead(ctx context.Context, client Client, locator Locator, startBlock int64, blockCount int, expected int) ([]byte, error) {
	reader, err := client.ReadBlocks(ctx, locator, startBlock, blockCount)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	buf := make([]byte, 0, expected)
	for {
		frag, err := reader.Next(ctx)
		if len(frag) > 0 {
			buf = append(buf, frag...)
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			return buf, nil
		}
		return nil, err
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
