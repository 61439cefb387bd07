// Package blockio defines the upstream fetcher contract (C1): sequential,
// block-based reads of a remote object from a chat-based object store that
// only supports fixed-size chunked reads.
package blockio

import "context"

// Locator identifies one object within the upstream store. The system never
// inspects its internals beyond passing it to Client.
type Locator struct {
	// ContainerID identifies the channel/chat/container the object lives in.
	ContainerID int64
	// MessageID identifies the specific upload within the container.
	MessageID int64
}

// ObjectInfo is the metadata returned by a successful LookupObject call.
type ObjectInfo struct {
	Size     int64
	MimeType string
	FileName string
}

// Fragment is one piece of a ReadBlocks result. Fragment boundaries are not
// significant and need not align to the block size B.
type Fragment []byte

// Client is the upstream store collaborator (§6). Implementations must
// satisfy the failure modes of spec §4.1: ErrNotFound and ErrFatal are
// terminal, *RateLimitedError and *TransientError are retried by callers
// (see Retrier).
type Client interface {
	// LookupObject resolves locator to its current size and MIME type, or
	// returns an error wrapping ErrNotFound if the object is missing.
	LookupObject(ctx context.Context, locator Locator) (ObjectInfo, error)

	// ReadBlocks reads blockCount consecutive blocks of BlockSize() bytes
	// starting at startBlock, returning their concatenation split across
	// fragments in order. The total returned length equals
	// min(blockCount*BlockSize(), size-startBlock*BlockSize()).
	ReadBlocks(ctx context.Context, locator Locator, startBlock int64, blockCount int) (FragmentReader, error)

	// BlockSize returns B, the fixed block size used by this client. It must
	// be constant for the life of any locator served by this client.
	BlockSize() int64
}

// FragmentReader is a lazy, pull-based sequence of fragments, consumed
// strictly in order. It is the "generator-like producer, re-specified as a
// pull-based iterator" called for in spec §9.
type FragmentReader interface {
	// Next returns the next fragment, or io.EOF (wrapped) once the sequence
	// is exhausted. Errors besides io.EOF follow the Client failure modes.
	Next(ctx context.Context) (Fragment, error)
	// Close releases any resources (network connections) held by the
	// reader. Safe to call multiple times and after Next has returned EOF.
	Close() error
}
