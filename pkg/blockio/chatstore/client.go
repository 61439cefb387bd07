// Package chatstore implements blockio.Client over a chat-based object
// store's HTTP file-download endpoint, the production counterpart to
// memstore's in-memory fake. Grounded on the ranged-GET and
// Content-Range/Retry-After handling of
// _examples/leo-pony-model-runner/pkg/distribution/transport/parallel/transport.go
// and .../resumable/transport.go, collapsed into a single request-response
// client since the upstream here is a plain HTTP endpoint rather than an
// OCI registry requiring chunk stitching across a RoundTripper.
package chatstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/streamlink/streamlink/pkg/blockio"
)

// ObjectLocator resolves a blockio.Locator to the upstream URL and a
// human-readable file name/MIME type, since the bot-facing container and
// message identifiers don't have a fixed URL shape across store backends.
type ObjectLocator interface {
	ObjectURL(locator blockio.Locator) (string, error)
	ObjectMeta(ctx context.Context, locator blockio.Locator) (fileName, mimeType string, err error)
}

// Client is an HTTP-backed blockio.Client.
type Client struct {
	HTTP      *http.Client
	Locator   ObjectLocator
	blockSize int64
}

func New(httpClient *http.Client, locator ObjectLocator, blockSize int64) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{HTTP: httpClient, Locator: locator, blockSize: blockSize}
}

func (c *Client) BlockSize() int64 { return c.blockSize }

func (c *Client) LookupObject(ctx context.Context, locator blockio.Locator) (blockio.ObjectInfo, error) {
	url, err := c.Locator.ObjectURL(locator)
	if err != nil {
		return blockio.ObjectInfo{}, fmt.Errorf("%w: %v", blockio.ErrNotFound, err)
	}
	fileName, mimeType, err := c.Locator.ObjectMeta(ctx, locator)
	if err != nil {
		return blockio.ObjectInfo{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return blockio.ObjectInfo{}, fmt.Errorf("chatstore: building HEAD request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return blockio.ObjectInfo{}, &blockio.TransientError{Cause: err}
	}
	defer resp.Body.Close()

	if err := statusToError(resp); err != nil {
		return blockio.ObjectInfo{}, err
	}
	return blockio.ObjectInfo{Size: resp.ContentLength, MimeType: mimeType, FileName: fileName}, nil
}

func (c *Client) ReadBlocks(ctx context.Context, locator blockio.Locator, startBlock int64, blockCount int) (blockio.FragmentReader, error) {
	url, err := c.Locator.ObjectURL(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", blockio.ErrNotFound, err)
	}

	start := startBlock * c.blockSize
	end := start + int64(blockCount)*c.blockSize - 1

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("chatstore: building GET request: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &blockio.TransientError{Cause: err}
	}
	if err := statusToError(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &blockio.TransientError{Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	return &fragmentReader{body: resp.Body, blockSize: c.blockSize}, nil
}

// statusToError maps upstream HTTP status codes onto the blockio failure
// taxonomy (spec §4.1): 429 is rate-limited with an honored Retry-After, 5xx
// and request timeouts are transient, 404 is terminal NOT_FOUND, and other
// 4xx are terminal FATAL.
func statusToError(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &blockio.RateLimitedError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode == http.StatusNotFound:
		return blockio.ErrNotFound
	case resp.StatusCode >= 500:
		return &blockio.TransientError{Cause: fmt.Errorf("upstream status %d", resp.StatusCode)}
	default:
		return fmt.Errorf("%w: upstream status %d", blockio.ErrFatal, resp.StatusCode)
	}
}

func parseRetryAfter(h string) time.Duration {
	if h == "" {
		return time.Second
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return time.Second
}

// fragmentReader adapts an io.ReadCloser HTTP body into blockio's
// pull-based FragmentReader, reading in blockSize-sized fragments.
type fragmentReader struct {
	body      io.ReadCloser
	blockSize int64
}

func (r *fragmentReader) Next(_ context.Context) (blockio.Fragment, error) {
	buf := make([]byte, r.blockSize)
	n, err := io.ReadFull(r.body, buf)
	if n > 0 {
		frag := blockio.Fragment(buf[:n])
		if err == io.ErrUnexpectedEOF {
			return frag, io.EOF
		}
		return frag, err
	}
	if err == io.ErrUnexpectedEOF {
		return nil, io.EOF
	}
	return nil, err
}

func (r *fragmentReader) Close() error { return r.body.Close() }
