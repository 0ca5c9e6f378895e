// Package metrics exports meshview events as Prometheus metrics.
//
// A [Registry] implements the observability hook interfaces; register it at
// startup and serve [Registry.Handler] at /metrics:
//
//	reg := metrics.NewRegistry()
//	observability.SetPipelineHooks(reg)
//	observability.SetCacheHooks(reg)
//	observability.SetHTTPHooks(reg)
//	router.Handle("/metrics", reg.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/meshview/pkg/observability"
)

const namespace = "meshview"

// Registry holds every meshview metric.
type Registry struct {
	// Pipeline
	StageTotal    *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	GridCells     prometheus.Histogram
	RenderFormats *prometheus.CounterVec

	// Cache
	CacheRequests *prometheus.CounterVec
	CacheSetBytes *prometheus.HistogramVec

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SessionsActive       prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with all metrics initialized, plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	r := &Registry{registry: reg}
	r.initPipelineMetrics()
	r.initCacheMetrics()
	r.initHTTPMetrics()
	return r
}

func (r *Registry) initPipelineMetrics() {
	f := promauto.With(r.registry)
	r.StageTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_total",
			Help:      "Pipeline stages run, by stage and status",
		},
		[]string{"stage", "status"},
	)
	r.StageDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Pipeline stage latency in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"stage"},
	)
	r.GridCells = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "grid_cells",
		Help:      "Cells per composed grid",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})
	r.RenderFormats = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_format_total",
			Help:      "Artifacts rendered, by format",
		},
		[]string{"format"},
	)
}

func (r *Registry) initCacheMetrics() {
	f := promauto.With(r.registry)
	r.CacheRequests = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups and writes, by key type and result",
		},
		[]string{"key_type", "result"},
	)
	r.CacheSetBytes = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cache_set_bytes",
			Help:      "Size of cache writes in bytes",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"key_type"},
	)
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)
	r.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	r.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	r.HTTPRequestsInFlight = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Current number of HTTP requests being processed",
	})
	r.SessionsActive = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Live visualizer sessions",
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

func (r *Registry) stage(name string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.StageTotal.WithLabelValues(name, status).Inc()
	r.StageDuration.WithLabelValues(name).Observe(d.Seconds())
}

// OnLoadStart implements [observability.PipelineHooks].
func (r *Registry) OnLoadStart(context.Context, string) {}

// OnLoadComplete implements [observability.PipelineHooks].
func (r *Registry) OnLoadComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	r.stage("load", d, err)
}

// OnComposeStart implements [observability.PipelineHooks].
func (r *Registry) OnComposeStart(context.Context, int, int) {}

// OnComposeComplete implements [observability.PipelineHooks].
func (r *Registry) OnComposeComplete(_ context.Context, cells int, d time.Duration, err error) {
	r.stage("compose", d, err)
	if err == nil {
		r.GridCells.Observe(float64(cells))
	}
}

// OnUpdateStart implements [observability.PipelineHooks].
func (r *Registry) OnUpdateStart(context.Context, int) {}

// OnUpdateComplete implements [observability.PipelineHooks].
func (r *Registry) OnUpdateComplete(_ context.Context, d time.Duration, err error) {
	r.stage("update", d, err)
}

// OnRenderStart implements [observability.PipelineHooks].
func (r *Registry) OnRenderStart(context.Context, []string) {}

// OnRenderComplete implements [observability.PipelineHooks].
func (r *Registry) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	r.stage("render", d, err)
	if err == nil {
		for _, f := range formats {
			r.RenderFormats.WithLabelValues(f).Inc()
		}
	}
}

// OnCacheHit implements [observability.CacheHooks].
func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheRequests.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements [observability.CacheHooks].
func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheRequests.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements [observability.CacheHooks].
func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheRequests.WithLabelValues(keyType, "set").Inc()
	r.CacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

// OnRequest implements [observability.HTTPHooks].
func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPRequestsInFlight.Inc()
}

// OnResponse implements [observability.HTTPHooks].
func (r *Registry) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// OnSessionsChanged implements [observability.HTTPHooks].
func (r *Registry) OnSessionsChanged(_ context.Context, active int) {
	r.SessionsActive.Set(float64(active))
}

var (
	_ observability.PipelineHooks = (*Registry)(nil)
	_ observability.CacheHooks    = (*Registry)(nil)
	_ observability.HTTPHooks     = (*Registry)(nil)
)
