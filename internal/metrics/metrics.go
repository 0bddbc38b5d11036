package metrics

import (
	"net/http"
	"strconv"
	"time"

	"surveyanalytics/internal/domains"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private Prometheus registry. All Record methods are safe on
// a nil Collector.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	Computations        *prometheus.CounterVec
	ExcludedAnswers     *prometheus.CounterVec
	FormatFallbacks     prometheus.Counter
}

func New(namespace string) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_computations_total",
			Help:      "Analytics computations by kind and result status",
		}, []string{"kind", "status"}),
		ExcludedAnswers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_excluded_answers_total",
			Help:      "Malformed answers dropped from distributions",
		}, []string{"question_type"}),
		FormatFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_format_fallbacks_total",
			Help:      "Exports requested with an unsupported format",
		}),
	}

	reg.MustRegister(
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
		c.Computations,
		c.ExcludedAnswers,
		c.FormatFallbacks,
	)
	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordComputation(kind string, status domains.AnalyticsStatus) {
	if c == nil {
		return
	}
	c.Computations.WithLabelValues(kind, string(status)).Inc()
}

func (c *Collector) RecordExcluded(questionType domains.QuestionType, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.ExcludedAnswers.WithLabelValues(string(questionType)).Add(float64(n))
}

func (c *Collector) RecordFormatFallback() {
	if c == nil {
		return
	}
	c.FormatFallbacks.Inc()
}
