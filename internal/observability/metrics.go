package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider attempt outcomes besides error kinds
const (
	OutcomeSuccess         = "success"
	OutcomeSkippedCircuit  = "skipped_circuit"
	OutcomeSkippedBudget   = "skipped_budget"
	OutcomeSkippedThrottle = "skipped_throttle"
	OutcomeCancelled       = "cancelled"
)

var (
	// GenerationRequestsTotal counts Generate results by source and variant.
	GenerationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_generation_requests_total",
			Help: "Total number of review generation results by source",
		},
		[]string{"source", "variant"},
	)

	// GenerationDuration tracks end-to-end Generate latency.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "review_generation_duration_seconds",
			Help:    "Duration of review generation in seconds",
			Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"source"},
	)

	// ProviderAttemptsTotal counts provider calls and skips by outcome.
	ProviderAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_provider_attempts_total",
			Help: "Total number of provider attempts by outcome",
		},
		[]string{"provider", "outcome"},
	)

	// ProviderCircuitState is 0 closed, 1 half-open, 2 open.
	ProviderCircuitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "review_provider_circuit_state",
			Help: "Circuit breaker state per provider (0=closed, 1=half-open, 2=open)",
		},
		[]string{"provider"},
	)

	// ProviderSpendUSD is today's recorded spend per provider.
	ProviderSpendUSD = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "review_provider_spend_usd",
			Help: "Provider spend for the current UTC day in US dollars",
		},
		[]string{"provider"},
	)

	// CacheLookupsTotal counts response cache lookups by result.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_cache_lookups_total",
			Help: "Total number of response cache lookups",
		},
		[]string{"result"},
	)

	// AnalyticsEventsTotal counts analytics events by type and delivery result.
	AnalyticsEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_analytics_events_total",
			Help: "Total number of analytics events by result",
		},
		[]string{"type", "result"},
	)

	// HTTPRequestsTotal counts inbound HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks inbound HTTP latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "review_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordGeneration records one Generate result
func RecordGeneration(source, variant string, duration time.Duration) {
	GenerationRequestsTotal.WithLabelValues(source, variant).Inc()
	GenerationDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordProviderAttempt records a provider call or skip
func RecordProviderAttempt(provider, outcome string) {
	ProviderAttemptsTotal.WithLabelValues(provider, outcome).Inc()
}

// SetCircuitState records a breaker transition. Unknown states are ignored.
func SetCircuitState(provider, state string) {
	var v float64
	switch state {
	case "closed":
		v = 0
	case "half-open":
		v = 1
	case "open":
		v = 2
	default:
		return
	}
	ProviderCircuitState.WithLabelValues(provider).Set(v)
}

// SetProviderSpend records today's spend for provider
func SetProviderSpend(provider string, dollars float64) {
	ProviderSpendUSD.WithLabelValues(provider).Set(dollars)
}

// RecordCacheLookup records a cache hit or miss
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordAnalyticsEvent records an analytics event as queued, dropped, delivered or failed
func RecordAnalyticsEvent(eventType, result string) {
	AnalyticsEventsTotal.WithLabelValues(eventType, result).Inc()
}

// RecordHTTPRequest records one inbound request. route is the chi route pattern.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
