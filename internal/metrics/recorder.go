package metrics

import (
	"context"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/jsb/pkg/errors"
	"github.com/matzehuels/jsb/pkg/observability"
)

const namespace = "jsb"

// Recorder implements the observability hooks with Prometheus collectors.
type Recorder struct {
	reg *prom.Registry

	stageDuration    *prom.HistogramVec
	stageResults     *prom.CounterVec
	downloadDuration *prom.HistogramVec
	downloadBytes    prom.Counter
	cacheEvents      *prom.CounterVec
	httpRequests     *prom.CounterVec
	httpDuration     *prom.HistogramVec
	httpErrors       *prom.CounterVec
}

// NewRecorder creates a recorder whose collectors are registered on reg,
// or on a fresh registry when reg is nil.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		reg: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Pipeline stage outcomes by error code",
		}, []string{"stage", "result"}),
		downloadDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "download_duration_seconds",
			Help:      "Duration of dependency downloads",
			Buckets:   prom.ExponentialBuckets(0.05, 2, 10),
		}, []string{"result"}),
		downloadBytes: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "download_bytes_total",
			Help:      "Bytes written by dependency downloads",
		}),
		cacheEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Probe cache hits, misses and writes",
		}, []string{"kind", "event"}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Repository HTTP responses by method and status",
		}, []string{"method", "host", "status"}),
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time to response headers for repository requests",
			Buckets:   prom.DefBuckets,
		}, []string{"method", "host"}),
		httpErrors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Repository requests that failed without a response",
		}, []string{"method", "host"}),
	}
	reg.MustRegister(
		r.stageDuration, r.stageResults,
		r.downloadDuration, r.downloadBytes,
		r.cacheEvents,
		r.httpRequests, r.httpDuration, r.httpErrors,
	)
	return r
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prom.Registry { return r.reg }

// Register installs r as the global pipeline, cache and HTTP hooks.
func (r *Recorder) Register() {
	observability.SetPipelineHooks(r)
	observability.SetCacheHooks(r)
	observability.SetHTTPHooks(r)
}

// WriteFile writes the registry to path in the text exposition format.
func (r *Recorder) WriteFile(path string) error {
	if err := prom.WriteToTextfile(path, r.reg); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "write metrics to %s", path)
	}
	return nil
}

func (r *Recorder) OnStageStart(ctx context.Context, stage string) {}

func (r *Recorder) OnStageComplete(ctx context.Context, stage string, d time.Duration, err error) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	r.stageResults.WithLabelValues(stage, resultLabel(err)).Inc()
}

func (r *Recorder) OnDownload(ctx context.Context, coordinate string, bytes int64, d time.Duration, err error) {
	r.downloadDuration.WithLabelValues(resultLabel(err)).Observe(d.Seconds())
	if bytes > 0 {
		r.downloadBytes.Add(float64(bytes))
	}
}

func (r *Recorder) OnCacheHit(ctx context.Context, kind string) {
	r.cacheEvents.WithLabelValues(kind, "hit").Inc()
}

func (r *Recorder) OnCacheMiss(ctx context.Context, kind string) {
	r.cacheEvents.WithLabelValues(kind, "miss").Inc()
}

func (r *Recorder) OnCacheSet(ctx context.Context, kind string, size int) {
	r.cacheEvents.WithLabelValues(kind, "set").Inc()
}

func (r *Recorder) OnRequest(ctx context.Context, method, host, path string) {}

func (r *Recorder) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	r.httpRequests.WithLabelValues(method, host, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, host).Observe(d.Seconds())
}

func (r *Recorder) OnError(ctx context.Context, method, host, path string, err error) {
	r.httpErrors.WithLabelValues(method, host).Inc()
}

// resultLabel is "success", the error code, or "error" for uncoded errors.
func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

var (
	_ observability.PipelineHooks = (*Recorder)(nil)
	_ observability.CacheHooks    = (*Recorder)(nil)
	_ observability.HTTPHooks     = (*Recorder)(nil)
)
