package metrics

import (
	"net/http"
	"time"

	"blogd/app/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncEvents(blog, kind string)
	ObservePreloadDuration(blog string, duration time.Duration)
	SetBlogEntries(blog string, count int)
	SetTags(blog string, count int)
	Handler() http.Handler
}

type MetricsProvider struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	eventsTotal     *prometheus.CounterVec
	preloadDuration *prometheus.HistogramVec
	blogEntries     *prometheus.GaugeVec
	tags            *prometheus.GaugeVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncEvents(blog, kind string) {
	m.eventsTotal.WithLabelValues(blog, kind).Inc()
}

func (m *MetricsProvider) ObservePreloadDuration(blog string, duration time.Duration) {
	m.preloadDuration.WithLabelValues(blog).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetBlogEntries(blog string, count int) {
	m.blogEntries.WithLabelValues(blog).Set(float64(count))
}

func (m *MetricsProvider) SetTags(blog string, count int) {
	m.tags.WithLabelValues(blog).Set(float64(count))
}

func (m *MetricsProvider) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *MetricsProvider) Registry() *prometheus.Registry {
	return m.registry
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// NewMetricsProvider registers collectors on a private registry so several
// providers can coexist in one process.
func NewMetricsProvider(conf *config.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &MetricsProvider{
		registry: reg,

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blogd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blogd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "blogd_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "blogd_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blogd_events_total",
			Help: "Total number of blog events dispatched",
		}, []string{"blog", "kind"}),

		preloadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blogd_preload_duration_seconds",
			Help:    "Duration of the background calendar preload in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"blog"}),

		blogEntries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "blogd_blog_entries",
			Help: "Number of entries loaded per blog",
		}, []string{"blog"}),

		tags: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "blogd_tags",
			Help: "Number of tags in use per blog",
		}, []string{"blog"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncEvents(_, _ string)                            {}
func (n *noopMetrics) ObservePreloadDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) SetBlogEntries(_ string, _ int)                   {}
func (n *noopMetrics) SetTags(_ string, _ int)                          {}
func (n *noopMetrics) Handler() http.Handler                            { return http.NotFoundHandler() }

// NewNoopMetrics returns a provider that records nothing.
func NewNoopMetrics() MetricsProviderInterface {
	return &noopMetrics{}
}
