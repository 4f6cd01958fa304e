package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service. Helpers are nil-safe
// so components can run without metrics in tests.
type Metrics struct {
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	CircuitTransitions *prometheus.CounterVec
	CircuitRejections  prometheus.Counter
	BaseCircuitOpen    prometheus.Counter

	ProviderCallDuration *prometheus.HistogramVec
	ProviderCallErrors   *prometheus.CounterVec
	TrendedBadRequests   prometheus.Counter

	ChecksTotal    *prometheus.CounterVec
	DegradedChecks prometheus.Counter
}

// New creates and registers all metrics with the given registerer. Pass
// prometheus.DefaultRegisterer in main, a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "forecourt_cache_hits_total",
			Help: "Cache hits by data class",
		}, []string{"cache"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "forecourt_cache_misses_total",
			Help: "Cache misses by data class",
		}, []string{"cache"}),
		CircuitTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "forecourt_circuit_transitions_total",
			Help: "Circuit breaker state transitions",
		}, []string{"breaker", "to"}),
		CircuitRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "forecourt_circuit_rejections_total",
			Help: "Calls rejected while the circuit was open",
		}),
		BaseCircuitOpen: factory.NewCounter(prometheus.CounterOpts{
			Name: "forecourt_base_circuit_open_total",
			Help: "Base vehicle lookups rejected by an open circuit; repeated growth means the provider outage is degrading core results",
		}),
		ProviderCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forecourt_provider_call_seconds",
			Help:    "Upstream provider call latency by endpoint",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		ProviderCallErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "forecourt_provider_call_errors_total",
			Help: "Upstream provider call failures by endpoint",
		}, []string{"endpoint"}),
		TrendedBadRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "forecourt_provider_trended_bad_request_total",
			Help: "400 responses from the trended-valuations endpoint; treated as no data, counted as a possible client bug",
		}),
		ChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "forecourt_retail_checks_total",
			Help: "Retail checks by result source",
		}, []string{"source"}),
		DegradedChecks: factory.NewCounter(prometheus.CounterOpts{
			Name: "forecourt_retail_checks_degraded_total",
			Help: "Retail checks that returned with one or more sections missing",
		}),
	}
}

func (m *Metrics) IncCacheHit(cache string) {
	if m != nil {
		m.CacheHits.WithLabelValues(cache).Inc()
	}
}

func (m *Metrics) IncCacheMiss(cache string) {
	if m != nil {
		m.CacheMisses.WithLabelValues(cache).Inc()
	}
}

func (m *Metrics) IncCircuitTransition(breaker, to string) {
	if m != nil {
		m.CircuitTransitions.WithLabelValues(breaker, to).Inc()
	}
}

func (m *Metrics) IncCircuitRejection() {
	if m != nil {
		m.CircuitRejections.Inc()
	}
}

func (m *Metrics) IncBaseCircuitOpen() {
	if m != nil {
		m.BaseCircuitOpen.Inc()
	}
}

func (m *Metrics) ObserveProviderCall(endpoint string, d time.Duration) {
	if m != nil {
		m.ProviderCallDuration.WithLabelValues(endpoint).Observe(d.Seconds())
	}
}

func (m *Metrics) IncProviderCallError(endpoint string) {
	if m != nil {
		m.ProviderCallErrors.WithLabelValues(endpoint).Inc()
	}
}

func (m *Metrics) IncTrendedBadRequest() {
	if m != nil {
		m.TrendedBadRequests.Inc()
	}
}

func (m *Metrics) IncCheck(source string) {
	if m != nil {
		m.ChecksTotal.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) IncDegradedCheck() {
	if m != nil {
		m.DegradedChecks.Inc()
	}
}
