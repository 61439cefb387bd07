// Package memstore is an in-memory fake implementing blockio.Client, used
// by tests and the demo command in place of a real chat-store transport.
package memstore

import (
	"context"
	"io"
	"sync"

	"github.com/streamlink/streamlink/pkg/blockio"
)

// object is one registered fake object.
type object struct {
	data     []byte
	mimeType string
	fileName string
}

// Store is an in-memory blockio.Client. Objects are registered with Put and
// addressed by blockio.Locator. Failure injection lets tests exercise the
// retry paths in pkg/blockio and pkg/stream without a real network.
type Store struct {
	mu        sync.Mutex
	objects   map[blockio.Locator]object
	blockSize int64

	// Fault injection, consulted once per ReadBlocks call in registration
	// order then cleared; nil/empty means no fault.
	faults map[blockio.Locator][]func() error
}

// New creates an empty Store with the given block size.
func New(blockSize int64) *Store {
	return &Store{
		objects:   make(map[blockio.Locator]object),
		blockSize: blockSize,
		faults:    make(map[blockio.Locator][]func() error),
	}
}

// Put registers an object's full content under locator.
func (s *Store) Put(locator blockio.Locator, data []byte, mimeType, fileName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[locator] = object{data: data, mimeType: mimeType, fileName: fileName}
}

// Delete removes a previously registered object, simulating the upstream
// object having vanished (e.g. the chat message was deleted) while its link
// token is still live.
func (s *Store) Delete(locator blockio.Locator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, locator)
}

// InjectFault queues a fault to be returned on the next ReadBlocks call
// against locator; faults are consumed one per call in FIFO order.
func (s *Store) InjectFault(locator blockio.Locator, fault func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[locator] = append(s.faults[locator], fault)
}

// BlockSize implements blockio.Client.
func (s *Store) BlockSize() int64 { return s.blockSize }

// LookupObject implements blockio.Client.
func (s *Store) LookupObject(_ context.Context, locator blockio.Locator) (blockio.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[locator]
	if !ok {
		return blockio.ObjectInfo{}, blockio.ErrNotFound
	}
	return blockio.ObjectInfo{
		Size:     int64(len(obj.data)),
		MimeType: obj.mimeType,
		FileName: obj.fileName,
	}, nil
}

// ReadBlocks implements blockio.Client.
func (s *Store) ReadBlocks(_ context.Context, locator blockio.Locator, startBlock int64, blockCount int) (blockio.FragmentReader, error) {
	s.mu.Lock()
	obj, ok := s.objects[locator]
	var fault func() error
	if queue := s.faults[locator]; len(queue) > 0 {
		fault = queue[0]
		s.faults[locator] = queue[1:]
	}
	s.mu.Unlock()

	if !ok {
		return nil, blockio.ErrNotFound
	}
	if fault != nil {
		if err := fault(); err != nil {
			return nil, err
		}
	}

	start := startBlock * s.blockSize
	if start > int64(len(obj.data)) {
		start = int64(len(obj.data))
	}
	end := start + int64(blockCount)*s.blockSize
	if end > int64(len(obj.data)) {
		end = int64(len(obj.data))
	}

	return &reader{data: obj.data[start:end], blockSize: s.blockSize}, nil
}

// reader yields the requested byte range one block at a time, simulating
// the fixed-size chunked reads a real chat-store transport would perform.
type reader struct {
	data      []byte
	blockSize int64
	offset    int64
}

func (r *reader) Next(_ context.Context) (blockio.Fragment, error) {
	if r.offset >= int64(len(r.data)) {
		return nil, io.EOF
	}
	end := r.offset + r.blockSize
	if end > int64(len(r.data)) {
		end = int64(len(r.data))
	}
	frag := r.data[r.offset:end]
	r.offset = end
	return frag, nil
}

func (r *reader) Close() error { return nil }
