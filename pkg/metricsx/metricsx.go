// Package metricsx exposes the edge server's operational counters in
// Prometheus text exposition format, hand-encoded with
// prometheus/client_model + prometheus/common/expfmt rather than pulling in
// the client_golang registry, mirroring the teacher's aggregated metrics
// handler
// (_examples/leo-pony-model-runner/cmd/cli/vendor/.../pkg/metrics/aggregated_handler.go),
// which builds dto.MetricFamily values by hand from data it already holds
// instead of registering prometheus.Collectors.
package metricsx

import (
	"net/http"
	"sync/atomic"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/streamlink/streamlink/pkg/logging"
)

// Recorder holds the counters and gauges the edge server updates as it
// serves requests. All fields are accessed atomically so handlers across
// goroutines can update them without a lock.
type Recorder struct {
	activeStreams    int64
	totalBytesServed int64
	activeWorkers    int64
	sweepCount       int64

	// LiveTokens, when set, is polled at scrape time rather than tracked
	// incrementally, since the registry is the source of truth for it.
	LiveTokens func() int64
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) StreamStarted()        { atomic.AddInt64(&r.activeStreams, 1) }
func (r *Recorder) StreamEnded()          { atomic.AddInt64(&r.activeStreams, -1) }
func (r *Recorder) AddBytesServed(n int64) { atomic.AddInt64(&r.totalBytesServed, n) }
func (r *Recorder) WorkersDelta(delta int64) {
	atomic.AddInt64(&r.activeWorkers, delta)
}
func (r *Recorder) SweepOccurred() { atomic.AddInt64(&r.sweepCount, 1) }

func (r *Recorder) snapshot() (active, bytesServed, workers, sweeps, tokens int64) {
	active = atomic.LoadInt64(&r.activeStreams)
	bytesServed = atomic.LoadInt64(&r.totalBytesServed)
	workers = atomic.LoadInt64(&r.activeWorkers)
	sweeps = atomic.LoadInt64(&r.sweepCount)
	if r.LiveTokens != nil {
		tokens = r.LiveTokens()
	}
	return
}

// Handler returns an http.Handler serving the current snapshot in
// Prometheus text exposition format.
func Handler(r *Recorder, log logging.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		active, bytesServed, workers, sweeps, tokens := r.snapshot()
		families := map[string]*dto.MetricFamily{
			"streamlink_active_streams":     gaugeFamily("streamlink_active_streams", "Number of streams currently being served", float64(active)),
			"streamlink_bytes_served_total": counterFamily("streamlink_bytes_served_total", "Total bytes written to clients", float64(bytesServed)),
			"streamlink_active_workers":     gaugeFamily("streamlink_active_workers", "Number of fetch workers currently running", float64(workers)),
			"streamlink_registry_sweeps_total": counterFamily("streamlink_registry_sweeps_total", "Number of background eviction sweeps performed", float64(sweeps)),
			"streamlink_live_tokens":        gaugeFamily("streamlink_live_tokens", "Number of unexpired tokens in the link registry", float64(tokens)),
		}

		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.WriteHeader(http.StatusOK)

		encoder := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
		for _, family := range families {
			if err := encoder.Encode(family); err != nil {
				log.Errorf("metricsx: encoding metric family %s: %v", family.GetName(), err)
			}
		}
	})
}

func gaugeFamily(name, help string, value float64) *dto.MetricFamily {
	t := dto.MetricType_GAUGE
	return &dto.MetricFamily{
		Name: strPtr(name),
		Help: strPtr(help),
		Type: &t,
		Metric: []*dto.Metric{
			{Gauge: &dto.Gauge{Value: &value}},
		},
	}
}

func counterFamily(name, help string, value float64) *dto.MetricFamily {
	t := dto.MetricType_COUNTER
	return &dto.MetricFamily{
		Name: strPtr(name),
		Help: strPtr(help),
		Type: &t,
		Metric: []*dto.Metric{
			{Counter: &dto.Counter{Value: &value}},
		},
	}
}

func strPtr(s string) *string { return &s }
