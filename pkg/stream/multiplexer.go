package stream

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/streamlink/streamlink/pkg/blockio"
	"github.com/streamlink/streamlink/pkg/logging"
)

// batch is one unit of work handed to a fetch worker: K consecutive blocks
// starting at Start.
type batch struct {
	start int64
	count int
}

// Multiplexer is the ordered multiplexer (C2): it drives a pool of W
// workers, each pulling batches of K blocks from an upstream blockio.Client,
// and re-serializes their results into ascending block order behind a
// bounded buffer of at most M blocks. Grounded on the fan-out-then-fan-in
// shape of _examples/leo-pony-model-runner/pkg/distribution/transport/parallel/transport.go's
// RoundTrip/stitchedBody pair, adapted from an http.RoundTripper into a
// direct blockio.Client consumer.
type Multiplexer struct {
	buffer *orderedBuffer
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMultiplexer starts workers immediately fetching blocks
// [startBlock, endBlock] inclusive (endBlock is the locator's last valid
// block index) and returns a Multiplexer ready to be drained via Next.
// Workers keep running in the background until the range is exhausted, an
// unrecoverable error occurs, or Close is called.
func NewMultiplexer(ctx context.Context, client blockio.Client, locator blockio.Locator, startBlock, endBlock int64, workers, batchBlocks, bufferBlocks int, backoff blockio.BackoffFunc, log logging.Logger, onWorkersDelta func(int64)) *Multiplexer {
	runCtx, cancel := context.WithCancel(ctx)
	buf := newOrderedBuffer(bufferBlocks, startBlock, endBlock)

	m := &Multiplexer{
		buffer: buf,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	batches := partitionBatches(startBlock, endBlock, batchBlocks)
	work := make(chan batch, len(batches))
	for _, b := range batches {
		work <- b
	}
	close(work)

	g, gctx := errgroup.WithContext(runCtx)
	for i := 0; i < workers; i++ {
		workerID := i
		g.Go(func() error {
			if onWorkersDelta != nil {
				onWorkersDelta(1)
				defer onWorkersDelta(-1)
			}
			return runFetchWorker(gctx, workerID, client, locator, work, buf, backoff, log)
		})
	}

	go func() {
		if err := g.Wait(); err != nil {
			buf.fail(err)
		}
		close(m.done)
	}()

	return m
}

// partitionBatches splits [startBlock, endBlock] into ascending,
// non-overlapping batches of at most batchBlocks blocks each.
func partitionBatches(startBlock, endBlock int64, batchBlocks int) []batch {
	if batchBlocks < 1 {
		batchBlocks = 1
	}
	var out []batch
	for s := startBlock; s <= endBlock; s += int64(batchBlocks) {
		remaining := endBlock - s + 1
		count := batchBlocks
		if int64(count) > remaining {
			count = int(remaining)
		}
		out = append(out, batch{start: s, count: count})
	}
	return out
}

// runFetchWorker drains batches from work until it's empty or the context
// is cancelled, fetching each via the retrying blockio.ReadAllBlocks and
// depositing the resulting blocks into buf.
func runFetchWorker(ctx context.Context, id int, client blockio.Client, locator blockio.Locator, work <-chan batch, buf *orderedBuffer, backoff blockio.BackoffFunc, log logging.Logger) error {
	blockSize := client.BlockSize()
	for {
		select {
		case b, ok := <-work:
			if !ok {
				return nil
			}
			data, err := blockio.ReadAllBlocks(ctx, client, locator, b.start, b.count, backoff)
			if err != nil {
				return fmt.Errorf("stream: worker %d batch [%d,+%d): %w", id, b.start, b.count, err)
			}
			if err := depositBatch(ctx, buf, b, data, blockSize); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// depositBatch splits a batch's concatenated bytes back into per-block
// fragments and deposits each at its absolute index, so the consumer side
// never needs to know the batch size a producer used.
func depositBatch(ctx context.Context, buf *orderedBuffer, b batch, data []byte, blockSize int64) error {
	for i := 0; i < b.count; i++ {
		lo := int64(i) * blockSize
		hi := lo + blockSize
		if hi > int64(len(data)) {
			hi = int64(len(data))
		}
		if lo > int64(len(data)) {
			lo = int64(len(data))
		}
		if err := buf.deposit(ctx, b.start+int64(i), data[lo:hi]); err != nil {
			return err
		}
	}
	return nil
}

// Next returns the next block in ascending order, blocking until it is
// available. done reports whether this was the last block in range.
func (m *Multiplexer) Next(ctx context.Context) (data []byte, done bool, err error) {
	return m.buffer.take(ctx)
}

// Close stops all workers and waits for them to exit. Safe to call more
// than once.
func (m *Multiplexer) Close() {
	m.cancel()
	<-m.done
}
