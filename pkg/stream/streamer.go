package stream

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/streamlink/streamlink/pkg/blockio"
	"github.com/streamlink/streamlink/pkg/logging"
)

// Range is a byte range request, already validated against the object's
// size: 0 <= Offset, 0 < Length, Offset+Length <= object size.
type Range struct {
	Offset int64
	Length int64
}

// Stream fetches byte range r of locator (whose object is objectSize bytes
// long) through a Multiplexer and writes the trimmed result to sink in
// order. It owns the multiplexer's lifecycle: workers are stopped before
// Stream returns, whether it returns nil, a sink error, or an upstream
// error.
//
// This is the range streamer (C3): it turns C2's block-granular output
// into the caller's exact byte range by trimming the partial head and tail
// blocks at the edges of the request.
func Stream(ctx context.Context, client blockio.Client, locator blockio.Locator, r Range, sink Sink, p Params, backoff blockio.BackoffFunc, log logging.Logger) error {
	blockSize := client.BlockSize()
	if blockSize <= 0 {
		return fmt.Errorf("stream: invalid block size %d", blockSize)
	}
	if r.Length <= 0 {
		return fmt.Errorf("stream: invalid range length %d", r.Length)
	}

	startBlock := r.Offset / blockSize
	lastByte := r.Offset + r.Length - 1
	endBlock := lastByte / blockSize

	headCut := r.Offset - startBlock*blockSize
	tailKeep := lastByte - endBlock*blockSize + 1 // bytes to keep from the last block

	workers, batchBlocks, bufferBlocks := Adapt(r.Length, p)
	mux := NewMultiplexer(ctx, client, locator, startBlock, endBlock, workers, batchBlocks, bufferBlocks, backoff, log, p.OnWorkersDelta)
	defer mux.Close()

	var limiter *rate.Limiter
	if p.MaxBytesPerSecond > 0 {
		burst := p.MaxBytesPerSecond
		if int64(burst) < blockSize {
			burst = int(blockSize)
		}
		limiter = rate.NewLimiter(rate.Limit(p.MaxBytesPerSecond), burst)
	}

	var written int64
	for idx := startBlock; ; idx++ {
		block, done, err := mux.Next(ctx)
		if err != nil {
			return fmt.Errorf("stream: fetching block %d: %w", idx, err)
		}

		lo := int64(0)
		hi := int64(len(block))
		if idx == startBlock {
			lo = headCut
			if lo > hi {
				lo = hi
			}
		}
		if idx == endBlock {
			if tailKeep < hi {
				hi = tailKeep
			}
		}
		if lo < 0 {
			lo = 0
		}
		if hi < lo {
			hi = lo
		}

		chunk := block[lo:hi]
		if len(chunk) > 0 {
			if limiter != nil {
				if err := limiter.WaitN(ctx, len(chunk)); err != nil {
					return fmt.Errorf("stream: rate limiter: %w", err)
				}
			}
			if err := sink.Write(ctx, chunk); err != nil {
				return err
			}
			written += int64(len(chunk))
		}

		if done {
			break
		}
	}

	if written != r.Length {
		log.Warnf("stream: wrote %d bytes, expected %d for range [%d,+%d)", written, r.Length, r.Offset, r.Length)
	}
	return nil
}
