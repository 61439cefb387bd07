// Package edge implements the HTTP edge server (C5): it resolves
// registry tokens to locators and serves their bytes over HTTP with full
// Range support, fronting the ordered multiplexer and range streamer in
// pkg/stream.
package edge

import (
	"net/http"
	"time"

	"github.com/streamlink/streamlink/pkg/blockio"
	"github.com/streamlink/streamlink/pkg/logging"
	"github.com/streamlink/streamlink/pkg/metricsx"
	"github.com/streamlink/streamlink/pkg/registry"
	"github.com/streamlink/streamlink/pkg/stream"
)

// Options configures a Server.
type Options struct {
	AllowedOrigins []string
	HMACSecret     string
	SizingParams   stream.Params
	Backoff        blockio.BackoffFunc
	MetricsEnabled bool
	AdminEnabled   bool
}

// Server wires the link registry and upstream client into HTTP handlers
// for /dl/{token} and /stream/{token}, plus an optional /metrics endpoint.
type Server struct {
	client   blockio.Client
	registry *registry.Registry
	recorder *metricsx.Recorder
	log      logging.Logger
	opts     Options
}

func NewServer(client blockio.Client, reg *registry.Registry, recorder *metricsx.Recorder, log logging.Logger, opts Options) *Server {
	return &Server{client: client, registry: reg, recorder: recorder, log: log, opts: opts}
}

// Handler builds the complete HTTP handler: route table wrapped in CORS and
// path-normalization middleware, per the teacher's bootstrap shape in its
// root main.go.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.serveLiveness)
	mux.HandleFunc("GET /dl/{token}", s.withAccessLog(s.serveObject(dispositionAttachment)))
	mux.HandleFunc("HEAD /dl/{token}", s.withAccessLog(s.serveObject(dispositionAttachment)))
	mux.HandleFunc("GET /stream/{token}", s.withAccessLog(s.serveObject(dispositionInline)))
	mux.HandleFunc("HEAD /stream/{token}", s.withAccessLog(s.serveObject(dispositionInline)))

	if s.opts.MetricsEnabled {
		mux.Handle("GET /metrics", metricsx.Handler(s.recorder, s.log))
	}

	if s.opts.AdminEnabled {
		s.registerAdminRoutes(mux)
	}

	return normalizePath(withCORS(s.opts.AllowedOrigins, mux))
}

// SignedLink builds a time-boxed /stream URL for token, valid for ttl, when
// HMAC signing is configured. If signing is disabled the plain path is
// returned.
func (s *Server) SignedLink(path, token string, ttl time.Duration) string {
	if s.opts.HMACSecret == "" {
		return path + "/" + token
	}
	sig, exp := signLink(s.opts.HMACSecret, token, time.Now().Add(ttl))
	return path + "/" + token + "?sig=" + sig + "&exp=" + exp
}
