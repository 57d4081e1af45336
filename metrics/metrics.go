// Package metrics records build metrics with Prometheus.
package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Build outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Recorder receives build metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string)
	SetPages(lang, layout string, n int)
	SetRenderCache(gets, hits int64)
}

// Noop is a Recorder that discards everything.
type Noop struct{}

func (Noop) ObserveStageDuration(string, time.Duration) {}
func (Noop) ObserveBuildDuration(time.Duration)         {}
func (Noop) IncBuildOutcome(string)                     {}
func (Noop) SetPages(string, string, int)               {}
func (Noop) SetRenderCache(int64, int64)                {}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	pages         *prom.GaugeVec
	cacheGets     prom.Gauge
	cacheHits     prom.Gauge
}

// NewPrometheusRecorder constructs and registers the build metrics with reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "chronicle",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "chronicle",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "chronicle",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.pages = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "chronicle",
			Name:      "pages",
			Help:      "Pages written by the last build, by language and layout",
		}, []string{"lang", "layout"})
		pr.cacheGets = prom.NewGauge(prom.GaugeOpts{
			Namespace: "chronicle",
			Name:      "render_cache_gets",
			Help:      "Markdown render cache lookups since start",
		})
		pr.cacheHits = prom.NewGauge(prom.GaugeOpts{
			Namespace: "chronicle",
			Name:      "render_cache_hits",
			Help:      "Markdown render cache hits since start",
		})
		reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.buildOutcome, pr.pages, pr.cacheGets, pr.cacheHits)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetPages(lang, layout string, n int) {
	if p == nil || p.pages == nil {
		return
	}
	p.pages.WithLabelValues(lang, layout).Set(float64(n))
}

func (p *PrometheusRecorder) SetRenderCache(gets, hits int64) {
	if p == nil || p.cacheGets == nil {
		return
	}
	p.cacheGets.Set(float64(gets))
	p.cacheHits.Set(float64(hits))
}

// HTTPHandler returns an http.Handler that serves the metrics gathered by g.
func HTTPHandler(g prom.Gatherer) http.Handler {
	if g == nil {
		g = prom.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
