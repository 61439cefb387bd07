package edge

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrMultiRange indicates the client requested more than one byte range in
// a single Range header; per spec §6 this is rejected with 416 rather than
// served as a multipart response.
var ErrMultiRange = fmt.Errorf("edge: multiple ranges requested")

// ErrMalformedRange indicates a Range header that doesn't parse as a single
// "bytes=" range.
var ErrMalformedRange = fmt.Errorf("edge: malformed range header")

// ErrUnsatisfiableRange indicates a syntactically valid range that falls
// entirely outside the resource.
var ErrUnsatisfiableRange = fmt.Errorf("edge: range not satisfiable")

// ParseRange parses a request's Range header against a resource of the
// given total size, returning the resolved, inclusive-exclusive byte
// offset and length. An empty header means "the whole resource" and is
// reported via whole=true.
//
// Grounded on the single-range parsing in
// _examples/leo-pony-model-runner/pkg/distribution/transport/internal/common/http_utils.go's
// ParseSingleRange, adjusted to parse a server-received request header
// (which may also omit start or end) rather than a response's
// Content-Range.
func ParseRange(header string, size int64) (offset, length int64, whole bool, err error) {
	if header == "" {
		return 0, size, true, nil
	}
	if !strings.HasPrefix(header, "bytes=") {
		return 0, 0, false, ErrMalformedRange
	}
	spec := strings.TrimPrefix(header, "bytes=")
	if strings.Contains(spec, ",") {
		return 0, 0, false, ErrMultiRange
	}

	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false, ErrMalformedRange
	}
	startStr, endStr := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	var start, end int64
	switch {
	case startStr == "" && endStr == "":
		return 0, 0, false, ErrMalformedRange
	case startStr == "":
		// Suffix range: "bytes=-N" means the last N bytes.
		n, perr := strconv.ParseInt(endStr, 10, 64)
		if perr != nil || n <= 0 {
			return 0, 0, false, ErrMalformedRange
		}
		if n > size {
			n = size
		}
		start = size - n
		end = size - 1
	case endStr == "":
		n, perr := strconv.ParseInt(startStr, 10, 64)
		if perr != nil || n < 0 {
			return 0, 0, false, ErrMalformedRange
		}
		start = n
		end = size - 1
	default:
		s, perr1 := strconv.ParseInt(startStr, 10, 64)
		e, perr2 := strconv.ParseInt(endStr, 10, 64)
		if perr1 != nil || perr2 != nil || s < 0 || e < s {
			return 0, 0, false, ErrMalformedRange
		}
		start, end = s, e
	}

	if start >= size || start < 0 {
		return 0, 0, false, ErrUnsatisfiableRange
	}
	if end >= size {
		end = size - 1
	}
	return start, end - start + 1, false, nil
}

// ContentRangeHeader formats the Content-Range response header value for a
// resolved range of a resource of the given total size.
func ContentRangeHeader(offset, length, size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", offset, offset+length-1, size)
}
