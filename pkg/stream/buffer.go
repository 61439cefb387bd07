package stream

import "sync"

// orderedBuffer is a bounded, index-addressed buffer that lets producers
// deposit blocks out of order while a single consumer drains them strictly
// in ascending order. It plays the role the teacher's stitchedBody plays
// over an OS FIFO (_examples/leo-pony-model-runner/pkg/distribution/transport/parallel),
// reimplemented over a plain map since the server side has no per-request
// temp directory to stage chunks in.
//
// Capacity is enforced in blocks, not bytes: callers size it via Adapt so
// that cap*B approximates the memory budget for one stream.
type orderedBuffer struct {
	mu        sync.Mutex
	cap       int
	blocks    map[int64][]byte
	nextIndex int64
	endIndex  int64
	failed    error
	notify    chan struct{}
}

func newOrderedBuffer(capBlocks int, startIndex, endIndex int64) *orderedBuffer {
	return &orderedBuffer{
		cap:       capBlocks,
		blocks:    make(map[int64][]byte, capBlocks),
		nextIndex: startIndex,
		endIndex:  endIndex,
		notify:    make(chan struct{}),
	}
}

// wake closes the current notify channel and replaces it, releasing every
// goroutine parked on a stale snapshot of it.
func (b *orderedBuffer) wake() {
	close(b.notify)
	b.notify = make(chan struct{})
}

// deposit blocks until there is room for index, the buffer has failed, or
// ctx is done. Depositing the same index twice is a caller bug and panics.
func (b *orderedBuffer) deposit(ctx doneCtx, index int64, data []byte) error {
	for {
		b.mu.Lock()
		if b.failed != nil {
			err := b.failed
			b.mu.Unlock()
			return err
		}
		if len(b.blocks) < b.cap {
			if _, dup := b.blocks[index]; dup {
				b.mu.Unlock()
				panic("stream: duplicate block deposit")
			}
			b.blocks[index] = data
			b.wake()
			b.mu.Unlock()
			return nil
		}
		ch := b.notify
		b.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// take blocks until the next-in-order block is available, the buffer has
// failed, or ctx is done. done reports whether this was the last block in
// the stream's range.
func (b *orderedBuffer) take(ctx doneCtx) (data []byte, done bool, err error) {
	for {
		b.mu.Lock()
		if b.failed != nil {
			err := b.failed
			b.mu.Unlock()
			return nil, false, err
		}
		if data, ok := b.blocks[b.nextIndex]; ok {
			delete(b.blocks, b.nextIndex)
			done := b.nextIndex == b.endIndex
			b.nextIndex++
			b.wake()
			b.mu.Unlock()
			return data, done, nil
		}
		ch := b.notify
		b.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
}

// fail latches a terminal error, waking every blocked producer/consumer.
// Subsequent calls after the first are no-ops.
func (b *orderedBuffer) fail(err error) {
	if err == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failed != nil {
		return
	}
	b.failed = err
	b.wake()
}

// doneCtx is the subset of context.Context that deposit/take need, kept
// narrow so buffer.go has no direct dependency on the context package
// beyond what's passed in.
type doneCtx interface {
	Done() <-chan struct{}
	Err() error
}
