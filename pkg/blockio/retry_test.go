package blockio_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/streamlink/streamlink/pkg/blockio"
	"github.com/streamlink/streamlink/pkg/blockio/memstore"
)

func noBackoff(int) time.Duration { return 0 }

func TestReadAllBlocks_Success(t *testing.T) {
	store := memstore.New(4)
	locator := blockio.Locator{ContainerID: 1, MessageID: 1}
	store.Put(locator, []byte("abcdefgh"), "text/plain", "a.txt")

	data, err := blockio.ReadAllBlocks(context.Background(), store, locator, 0, 2, noBackoff)
	require.NoError(t, err)
	require.Equal(t, []byte("abcdefgh"), data)
}

func TestReadAllBlocks_NotFoundNotRetried(t *testing.T) {
	store := memstore.New(4)
	locator := blockio.Locator{ContainerID: 1, MessageID: 1}

	_, err := blockio.ReadAllBlocks(context.Background(), store, locator, 0, 1, noBackoff)
	require.ErrorIs(t, err, blockio.ErrNotFound)
}

func TestReadAllBlocks_TransientRetriedThenSucceeds(t *testing.T) {
	store := memstore.New(4)
	locator := blockio.Locator{ContainerID: 1, MessageID: 1}
	store.Put(locator, []byte("abcdefgh"), "text/plain", "a.txt")

	attempts := 0
	store.InjectFault(locator, func() error {
		attempts++
		return &blockio.TransientError{Cause: errors.New("connection reset")}
	})
	store.InjectFault(locator, func() error {
		attempts++
		return &blockio.TransientError{Cause: errors.New("connection reset")}
	})

	data, err := blockio.ReadAllBlocks(context.Background(), store, locator, 0, 2, noBackoff)
	require.NoError(t, err)
	require.Equal(t, []byte("abcdefgh"), data)
	require.Equal(t, 2, attempts)
}

func TestReadAllBlocks_TransientExhaustsRetries(t *testing.T) {
	store := memstore.New(4)
	locator := blockio.Locator{ContainerID: 1, MessageID: 1}
	store.Put(locator, []byte("abcdefgh"), "text/plain", "a.txt")

	for i := 0; i <= blockio.MaxTransientRetries; i++ {
		store.InjectFault(locator, func() error {
			return &blockio.TransientError{Cause: errors.New("connection reset")}
		})
	}

	_, err := blockio.ReadAllBlocks(context.Background(), store, locator, 0, 2, noBackoff)
	require.Error(t, err)
	var transient *blockio.TransientError
	require.ErrorAs(t, err, &transient)
}

func TestReadAllBlocks_RateLimitedRetriesIndefinitely(t *testing.T) {
	store := memstore.New(4)
	locator := blockio.Locator{ContainerID: 1, MessageID: 1}
	store.Put(locator, []byte("abcdefgh"), "text/plain", "a.txt")

	for i := 0; i < 10; i++ {
		store.InjectFault(locator, func() error {
			return &blockio.RateLimitedError{RetryAfter: time.Millisecond}
		})
	}

	data, err := blockio.ReadAllBlocks(context.Background(), store, locator, 0, 2, noBackoff)
	require.NoError(t, err)
	require.Equal(t, []byte("abcdefgh"), data)
}

func TestReadAllBlocks_ContextCancellationStopsRetries(t *testing.T) {
	store := memstore.New(4)
	locator := blockio.Locator{ContainerID: 1, MessageID: 1}
	store.Put(locator, []byte("abcdefgh"), "text/plain", "a.txt")
	store.InjectFault(locator, func() error {
		return &blockio.RateLimitedError{RetryAfter: time.Hour}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := blockio.ReadAllBlocks(ctx, store, locator, 0, 2, noBackoff)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
