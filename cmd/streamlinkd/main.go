// Command streamlinkd is the edge server entrypoint: it wires the link
// registry and an upstream blockio.Client into the HTTP handlers in
// pkg/edge and serves them until a shutdown signal arrives. Bootstrap shape
// adapted from the teacher's root main.go (signal.NotifyContext + explicit
// server/worker error channels).
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/streamlink/streamlink/pkg/blockio"
	"github.com/streamlink/streamlink/pkg/blockio/memstore"
	"github.com/streamlink/streamlink/pkg/config"
	"github.com/streamlink/streamlink/pkg/edge"
	"github.com/streamlink/streamlink/pkg/logging"
	"github.com/streamlink/streamlink/pkg/metricsx"
	"github.com/streamlink/streamlink/pkg/registry"
	"github.com/streamlink/streamlink/pkg/stream"
)

var log = logrus.New()

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.FromEnv()
	appLog := logging.Wrap(log)

	// The demo/reference upstream is an in-memory store; production
	// deployments supply a chatstore.Client wired to the real chat backend
	// through the same blockio.Client interface.
	var client blockio.Client = memstore.New(cfg.BlockSizeBytes)

	reg := registry.New(cfg.LinkTTL, cfg.LinkTokenLength, cfg.EvictionSweepInterval, appLog)
	recorder := metricsx.NewRecorder()
	recorder.LiveTokens = func() int64 { return int64(reg.Count()) }
	reg.OnSweep = recorder.SweepOccurred

	params := stream.Params{
		MaxWorkers:        cfg.MaxWorkersPerRequest,
		MinBatchBlocks:    cfg.MinBatchBlocks,
		MaxBatchBlocks:    cfg.MaxBatchBlocks,
		MaxBufferedBlocks: cfg.MaxBufferedBlocks,
		MaxBytesPerSecond: cfg.MaxBytesPerSecond,
		OnWorkersDelta:    recorder.WorkersDelta,
	}

	srv := edge.NewServer(client, reg, recorder, appLog, edge.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		HMACSecret:     cfg.HMACSecret,
		SizingParams:   params,
		Backoff:        blockio.DefaultBackoff,
		MetricsEnabled: cfg.MetricsEnabled,
		AdminEnabled:   true,
	})

	httpServer := &http.Server{Addr: ":" + cfg.Port, Handler: srv.Handler()}

	serverErrors := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", httpServer.Addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	sweepErrors := make(chan error, 1)
	go func() {
		sweepErrors <- reg.Run(ctx)
	}()

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Errorf("Server error: %v", err)
		}
	case <-ctx.Done():
		log.Infoln("Shutdown signal received")
		log.Infoln("Shutting down the server")
		if err := httpServer.Close(); err != nil {
			log.Errorf("Server shutdown error: %v", err)
		}
		log.Infoln("Waiting for the eviction sweep to stop")
		<-sweepErrors
	}
	log.Infoln("streamlinkd stopped")
}
