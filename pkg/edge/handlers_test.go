package edge_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/streamlink/streamlink/pkg/blockio"
	"github.com/streamlink/streamlink/pkg/blockio/memstore"
	"github.com/streamlink/streamlink/pkg/edge"
	"github.com/streamlink/streamlink/pkg/logging"
	"github.com/streamlink/streamlink/pkg/metricsx"
	"github.com/streamlink/streamlink/pkg/registry"
	"github.com/streamlink/streamlink/pkg/stream"
)

func newTestServer(t *testing.T) (*edge.Server, *memstore.Store, *registry.Registry) {
	t.Helper()
	store := memstore.New(8)
	reg := registry.New(time.Hour, 10, time.Hour, logging.New())
	recorder := metricsx.NewRecorder()
	srv := edge.NewServer(store, reg, recorder, logging.New(), edge.Options{
		SizingParams: stream.DefaultParams(),
		Backoff:      blockio.DefaultBackoff,
	})
	return srv, store, reg
}

func TestServeObject_FullGet(t *testing.T) {
	srv, store, reg := newTestServer(t)
	locator := blockio.Locator{ContainerID: 1, MessageID: 1}
	data := []byte("hello, streaming world!")
	store.Put(locator, data, "text/plain", "hello.txt")
	token, err := reg.Register(locator, "hello.txt", "text/plain", int64(len(data)))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dl/"+token, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, data, w.Body.Bytes())
	require.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
}

func TestServeObject_PartialRange(t *testing.T) {
	srv, store, reg := newTestServer(t)
	locator := blockio.Locator{ContainerID: 2, MessageID: 2}
	data := []byte("0123456789abcdefghij")
	store.Put(locator, data, "text/plain", "nums.txt")
	token, err := reg.Register(locator, "nums.txt", "text/plain", int64(len(data)))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/stream/"+token, nil)
	req.Header.Set("Range", "bytes=5-9")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusPartialContent, w.Code)
	require.Equal(t, "56789", w.Body.String())
	require.Equal(t, "bytes 5-9/20", w.Header().Get("Content-Range"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "inline")
}

func TestServeObject_UnsatisfiableRange(t *testing.T) {
	srv, store, reg := newTestServer(t)
	locator := blockio.Locator{ContainerID: 3, MessageID: 3}
	data := []byte("short")
	store.Put(locator, data, "text/plain", "s.txt")
	token, err := reg.Register(locator, "s.txt", "text/plain", int64(len(data)))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dl/"+token, nil)
	req.Header.Set("Range", "bytes=1000-2000")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestedRangeNotSatisfiable, w.Code)
	require.Equal(t, "bytes */5", w.Header().Get("Content-Range"))
}

func TestServeObject_UnknownTokenIs404(t *testing.T) {
	srv, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/dl/doesnotexist", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeObject_HeadOmitsBody(t *testing.T) {
	srv, store, reg := newTestServer(t)
	locator := blockio.Locator{ContainerID: 4, MessageID: 4}
	data := []byte("headtest")
	store.Put(locator, data, "text/plain", "h.txt")
	token, err := reg.Register(locator, "h.txt", "text/plain", int64(len(data)))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodHead, "/dl/"+token, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 0, w.Body.Len())
	require.Equal(t, "8", w.Header().Get("Content-Length"))
}

func TestServeObject_IfNoneMatchReturns304(t *testing.T) {
	srv, store, reg := newTestServer(t)
	locator := blockio.Locator{ContainerID: 5, MessageID: 5}
	data := []byte("cached")
	store.Put(locator, data, "text/plain", "c.txt")
	token, err := reg.Register(locator, "c.txt", "text/plain", int64(len(data)))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dl/"+token, nil)
	req.Header.Set("If-None-Match", `"`+token+`"`)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusNotModified, w.Code)
}

func TestLiveness_ReturnsOK(t *testing.T) {
	srv, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Body.String())
}

func TestServeObject_UpstreamObjectGoneIs404(t *testing.T) {
	srv, store, reg := newTestServer(t)
	locator := blockio.Locator{ContainerID: 6, MessageID: 6}
	data := []byte("will be deleted upstream")
	store.Put(locator, data, "text/plain", "gone.txt")
	token, err := reg.Register(locator, "gone.txt", "text/plain", int64(len(data)))
	require.NoError(t, err)

	store.Delete(locator)

	req := httptest.NewRequest(http.MethodGet, "/dl/"+token, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeObject_ZeroSizeAtRegistrationUsesUpstreamSize(t *testing.T) {
	srv, store, reg := newTestServer(t)
	locator := blockio.Locator{ContainerID: 7, MessageID: 7}
	data := []byte("size unknown at registration time")
	store.Put(locator, data, "text/plain", "u.txt")
	token, err := reg.Register(locator, "u.txt", "text/plain", 0)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dl/"+token, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, data, w.Body.Bytes())
}

func TestAdminAPI_RegisterThenServe(t *testing.T) {
	store := memstore.New(8)
	reg := registry.New(time.Hour, 10, time.Hour, logging.New())
	srv := edge.NewServer(store, reg, metricsx.NewRecorder(), logging.New(), edge.Options{
		SizingParams: stream.DefaultParams(),
		Backoff:      blockio.DefaultBackoff,
		AdminEnabled: true,
	})

	body := `{"container_id":1,"message_id":2,"file_name":"x.bin","mime_type":"application/octet-stream","size":42}`
	req := httptest.NewRequest(http.MethodPost, "/admin/links", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"token"`)
}
