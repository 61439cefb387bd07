package stream_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/streamlink/streamlink/pkg/blockio"
	"github.com/streamlink/streamlink/pkg/blockio/memstore"
	"github.com/streamlink/streamlink/pkg/logging"
	"github.com/streamlink/streamlink/pkg/stream"
)

func buildObject(blocks int, blockSize int64) []byte {
	data := make([]byte, int64(blocks)*blockSize)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func TestMultiplexer_YieldsBlocksInOrder(t *testing.T) {
	const blockSize = 16
	data := buildObject(20, blockSize)
	store := memstore.New(blockSize)
	locator := blockio.Locator{ContainerID: 1, MessageID: 1}
	store.Put(locator, data, "application/octet-stream", "f.bin")

	mux := stream.NewMultiplexer(context.Background(), store, locator, 0, 19, 4, 2, 8, nil, logging.New(), nil)
	defer mux.Close()

	var got bytes.Buffer
	for {
		block, done, err := mux.Next(context.Background())
		require.NoError(t, err)
		got.Write(block)
		if done {
			break
		}
	}
	require.Equal(t, data, got.Bytes())
}

func TestMultiplexer_PropagatesNotFound(t *testing.T) {
	store := memstore.New(16)
	locator := blockio.Locator{ContainerID: 9, MessageID: 9}

	mux := stream.NewMultiplexer(context.Background(), store, locator, 0, 3, 2, 2, 8, nil, logging.New(), nil)
	defer mux.Close()

	_, _, err := mux.Next(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, blockio.ErrNotFound))
}

func TestMultiplexer_CloseStopsWorkersPromptly(t *testing.T) {
	const blockSize = 16
	data := buildObject(1000, blockSize)
	store := memstore.New(blockSize)
	locator := blockio.Locator{ContainerID: 2, MessageID: 2}
	store.Put(locator, data, "application/octet-stream", "f.bin")

	mux := stream.NewMultiplexer(context.Background(), store, locator, 0, 999, 4, 2, 8, nil, logging.New(), nil)

	_, _, err := mux.Next(context.Background())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		mux.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return within 1s, possible goroutine leak")
	}
}
