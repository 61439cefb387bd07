// Package stream implements the ordered multiplexer (C2) and range streamer
// (C3) of the streaming pipeline: driving W concurrent block-fetch workers
// against an upstream blockio.Client and re-serializing their output into
// linear byte order under a bounded-memory buffer.
package stream

import "math"

// fiftyMiB is the request-length threshold below which a single worker is
// used, per spec §4.2: download managers issue small parallel range
// requests, so spawning many workers per request multiplies upstream load
// without improving single-request latency.
const fiftyMiB = 50 * 1024 * 1024

// Params bounds the adaptive sizing of W (workers), K (batch blocks) and M
// (buffered blocks), configurable per the spec's note that the source's
// tuning values are contradictory across revisions.
type Params struct {
	MaxWorkers        int
	MinBatchBlocks    int
	MaxBatchBlocks    int
	MaxBufferedBlocks int

	// MaxBytesPerSecond, when > 0, caps sustained output throughput for a
	// single stream via a token-bucket limiter applied at each write to the
	// sink. 0 means unlimited.
	MaxBytesPerSecond int

	// OnWorkersDelta, when set, is called with +1 each time a fetch worker
	// starts and -1 each time one exits, letting a caller track a live
	// gauge of running C2 workers across all requests.
	OnWorkersDelta func(delta int64)
}

// DefaultParams returns the spec's canonical reconciliation: W_max=4,
// K in [2,6], M=16.
func DefaultParams() Params {
	return Params{
		MaxWorkers:        4,
		MinBatchBlocks:    2,
		MaxBatchBlocks:    6,
		MaxBufferedBlocks: 16,
	}
}

// Adapt computes (workers, batchBlocks, bufferBlocks) for a request
// spanning requestLength bytes, per spec §4.2's adaptive sizing rule: W=1
// for requests under 50 MiB, otherwise scaled up to MaxWorkers; K and M
// scale inversely with W so peak memory (bufferBlocks*B) stays roughly
// constant regardless of worker count.
func Adapt(requestLength int64, p Params) (workers, batchBlocks, bufferBlocks int) {
	if requestLength <= fiftyMiB {
		workers = 1
	} else {
		workers = int(math.Ceil(float64(requestLength) / float64(fiftyMiB)))
	}
	if workers > p.MaxWorkers {
		workers = p.MaxWorkers
	}
	if workers < 1 {
		workers = 1
	}

	batchBlocks = p.MaxBatchBlocks
	if workers > 1 {
		span := p.MaxWorkers - 1
		if span < 1 {
			span = 1
		}
		batchBlocks = p.MaxBatchBlocks - (p.MaxBatchBlocks-p.MinBatchBlocks)*(workers-1)/span
	}
	if batchBlocks < p.MinBatchBlocks {
		batchBlocks = p.MinBatchBlocks
	}
	if batchBlocks > p.MaxBatchBlocks {
		batchBlocks = p.MaxBatchBlocks
	}

	bufferBlocks = p.MaxBufferedBlocks
	if need := workers * batchBlocks; bufferBlocks < need {
		// Every worker must be able to hold at least one full batch's worth
		// of deposits without starving on a full buffer.
		bufferBlocks = need
	}
	return workers, batchBlocks, bufferBlocks
}
