package stream

import "context"

// Sink receives a stream's bytes in order. Implementations typically wrap
// an http.ResponseWriter plus http.Flusher so bytes reach the client as
// they arrive rather than buffering the whole response.
type Sink interface {
	// Write delivers the next chunk of the stream. A non-nil error aborts
	// the stream; ctx carries the request's cancellation.
	Write(ctx context.Context, p []byte) error
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(ctx context.Context, p []byte) error

func (f SinkFunc) Write(ctx context.Context, p []byte) error { return f(ctx, p) }
