package stream_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamlink/streamlink/pkg/blockio"
	"github.com/streamlink/streamlink/pkg/blockio/memstore"
	"github.com/streamlink/streamlink/pkg/logging"
	"github.com/streamlink/streamlink/pkg/stream"
)

type bufSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *bufSink) Write(_ context.Context, p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.buf.Write(p)
	return err
}

func TestStream_WholeObject(t *testing.T) {
	const blockSize = 16
	data := buildObject(10, blockSize)
	store := memstore.New(blockSize)
	locator := blockio.Locator{ContainerID: 1, MessageID: 1}
	store.Put(locator, data, "application/octet-stream", "f.bin")

	sink := &bufSink{}
	err := stream.Stream(context.Background(), store, locator, stream.Range{Offset: 0, Length: int64(len(data))}, sink, stream.DefaultParams(), nil, logging.New())
	require.NoError(t, err)
	require.Equal(t, data, sink.buf.Bytes())
}

func TestStream_MidBlockRangeTrimsHeadAndTail(t *testing.T) {
	const blockSize = 16
	data := buildObject(10, blockSize)
	store := memstore.New(blockSize)
	locator := blockio.Locator{ContainerID: 2, MessageID: 2}
	store.Put(locator, data, "application/octet-stream", "f.bin")

	offset := int64(5)
	length := int64(37) // spans a partial first block and a partial last block
	sink := &bufSink{}
	err := stream.Stream(context.Background(), store, locator, stream.Range{Offset: offset, Length: length}, sink, stream.DefaultParams(), nil, logging.New())
	require.NoError(t, err)
	require.Equal(t, data[offset:offset+length], sink.buf.Bytes())
}

func TestStream_SingleByteRange(t *testing.T) {
	const blockSize = 16
	data := buildObject(4, blockSize)
	store := memstore.New(blockSize)
	locator := blockio.Locator{ContainerID: 3, MessageID: 3}
	store.Put(locator, data, "application/octet-stream", "f.bin")

	sink := &bufSink{}
	err := stream.Stream(context.Background(), store, locator, stream.Range{Offset: 20, Length: 1}, sink, stream.DefaultParams(), nil, logging.New())
	require.NoError(t, err)
	require.Equal(t, data[20:21], sink.buf.Bytes())
}

func TestStream_LastByteRange(t *testing.T) {
	const blockSize = 16
	data := buildObject(4, blockSize)
	store := memstore.New(blockSize)
	locator := blockio.Locator{ContainerID: 4, MessageID: 4}
	store.Put(locator, data, "application/octet-stream", "f.bin")

	sink := &bufSink{}
	lastByte := int64(len(data) - 1)
	err := stream.Stream(context.Background(), store, locator, stream.Range{Offset: lastByte, Length: 1}, sink, stream.DefaultParams(), nil, logging.New())
	require.NoError(t, err)
	require.Equal(t, data[lastByte:], sink.buf.Bytes())
}
