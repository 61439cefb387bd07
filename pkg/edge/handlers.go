package edge

import (
	"context"
	"fmt"
	"net/http"

	"github.com/streamlink/streamlink/pkg/registry"
	"github.com/streamlink/streamlink/pkg/stream"
)

type disposition int

const (
	dispositionAttachment disposition = iota
	dispositionInline
)

// serveObject builds the shared GET/HEAD handler for /dl and /stream: both
// resolve a token, validate range/conditional headers and stream bytes the
// same way, differing only in Content-Disposition and, for /stream,
// longer-lived caching headers suited to media players that re-request
// ranges of the same resource repeatedly.
func (s *Server) serveObject(d disposition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.PathValue("token")

		entry, err := s.registry.Get(token)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		if verr := verifyLink(s.opts.HMACSecret, token, r.URL.Query().Get("sig"), r.URL.Query().Get("exp")); verr != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		// §4.5 step 2: the registry's stored size/mime are only a
		// registration-time hint (size may be 0 if unknown then); the
		// upstream object is the source of truth, and a token whose
		// locator has since vanished upstream must 404 rather than serve
		// stale metadata.
		info, err := s.client.LookupObject(r.Context(), entry.Locator)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		size := info.Size
		fileName := entry.FileName
		if fileName == "" {
			fileName = info.FileName
		}
		mimeType := resolveMimeType(firstNonEmpty(entry.MimeType, info.MimeType), fileName)
		etag := fmt.Sprintf("%q", token)

		w.Header().Set("Accept-Ranges", "bytes")
		w.Header().Set("ETag", etag)
		w.Header().Set("Content-Type", mimeType)
		w.Header().Set("Content-Disposition", contentDisposition(d, fileName))
		if d == dispositionInline {
			w.Header().Set("Cache-Control", "private, max-age=3600")
		} else {
			w.Header().Set("Cache-Control", "private, no-cache")
		}

		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		rangeHeader := r.Header.Get("Range")
		if ifRange := r.Header.Get("If-Range"); ifRange != "" && ifRange != etag {
			// Stale If-Range precondition: serve the whole resource instead
			// of honoring the (now invalid) range.
			rangeHeader = ""
		}

		offset, length, whole, perr := ParseRange(rangeHeader, size)
		if perr != nil {
			switch perr {
			case ErrMultiRange, ErrUnsatisfiableRange:
				w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
				w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
				return
			default:
				// RFC 7233: a Range header this server can't parse is
				// ignored rather than rejected; fall back to serving the
				// full resource.
				offset, length, whole = 0, size, true
			}
		}

		w.Header().Set("Content-Length", fmt.Sprintf("%d", length))
		if whole {
			w.WriteHeader(http.StatusOK)
		} else {
			w.Header().Set("Content-Range", ContentRangeHeader(offset, length, size))
			w.WriteHeader(http.StatusPartialContent)
		}

		if r.Method == http.MethodHead || length == 0 {
			return
		}

		s.streamRange(r.Context(), w, entry, offset, length)
	}
}

// serveLiveness answers the "/" liveness probe from spec §6 with a short
// plaintext body.
func (s *Server) serveLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("streamlink: ok\n"))
}

func contentDisposition(d disposition, fileName string) string {
	kind := "attachment"
	if d == dispositionInline {
		kind = "inline"
	}
	if fileName == "" {
		return kind
	}
	return fmt.Sprintf(`%s; filename=%q`, kind, fileName)
}

// streamRange drives the range streamer against the edge server's
// response writer, flushing after every write so clients see bytes as
// they're fetched rather than after the whole range is buffered.
func (s *Server) streamRange(ctx context.Context, w http.ResponseWriter, entry registry.Entry, offset, length int64) {
	flusher, _ := w.(http.Flusher)
	s.recorder.StreamStarted()
	defer s.recorder.StreamEnded()

	sink := stream.SinkFunc(func(_ context.Context, p []byte) error {
		if _, err := w.Write(p); err != nil {
			return err
		}
		s.recorder.AddBytesServed(int64(len(p)))
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	if err := stream.Stream(ctx, s.client, entry.Locator, stream.Range{Offset: offset, Length: length}, sink, s.opts.SizingParams, s.opts.Backoff, s.log); err != nil {
		s.log.Warnf("edge: streaming token %s: %v", entry.Token, err)
	}
}
