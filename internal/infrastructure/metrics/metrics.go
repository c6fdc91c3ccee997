package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

const (
	namespace = "freesearch"
	subsystem = "mcp"
)

// Freesearch metrics - using explicit registration
var (
	// Request counters (HTTP transport only)
	RequestsTotal *prometheus.CounterVec

	// Tool call counters
	ToolCallsTotal *prometheus.CounterVec

	// Tool token counters (approx payload tokens returned by tool)
	ToolTokensTotal *prometheus.CounterVec

	// Tool duration histogram
	ToolDuration *prometheus.HistogramVec

	// Final pipeline state per search
	SearchOutcomesTotal *prometheus.CounterVec

	// Searches refused by the admission gate
	AdmissionDenialsTotal *prometheus.CounterVec

	// Calls counted against the monthly ceiling
	QuotaMonthUsed  prometheus.Gauge
	QuotaMonthLimit prometheus.Gauge

	// Circuit breaker state gauge
	CircuitBreakerState *prometheus.GaugeVec

	// External provider latency
	ExternalProviderLatency *prometheus.HistogramVec
)

// init creates and registers all metrics with the default registry
func init() {
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of MCP requests",
		},
		[]string{"method", "status"},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tool_calls_total",
			Help:      "Total tool invocations",
		},
		[]string{"tool_name", "provider", "status"},
	)

	ToolTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tool_tokens_total",
			Help:      "Total estimated tokens returned by tool payloads",
		},
		[]string{"tool_name", "provider"},
	)

	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tool_duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool_name", "provider"},
	)

	SearchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "search_outcomes_total",
			Help:      "Searches by category, final pipeline state and response shape",
		},
		[]string{"category", "state", "shape"},
	)

	AdmissionDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "admission_denials_total",
			Help:      "Searches refused by the rate limiter",
		},
		[]string{"category"},
	)

	QuotaMonthUsed = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "quota_month_used",
			Help:      "Outbound calls admitted in the current calendar month",
		},
	)

	QuotaMonthLimit = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "quota_month_limit",
			Help:      "Configured monthly ceiling on outbound calls",
		},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 0.5=half-open, 1=open)",
		},
		[]string{"provider"},
	)

	ExternalProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "external_provider_latency_seconds",
			Help:      "External provider response time in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider", "status"},
	)

	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(ToolCallsTotal)
	prometheus.MustRegister(ToolTokensTotal)
	prometheus.MustRegister(ToolDuration)
	prometheus.MustRegister(SearchOutcomesTotal)
	prometheus.MustRegister(AdmissionDenialsTotal)
	prometheus.MustRegister(QuotaMonthUsed)
	prometheus.MustRegister(QuotaMonthLimit)
	prometheus.MustRegister(CircuitBreakerState)
	prometheus.MustRegister(ExternalProviderLatency)
	log.Debug().Msg("freesearch metrics registered with Prometheus")
}

// RecordRequest records an MCP request
func RecordRequest(method, status string) {
	RequestsTotal.WithLabelValues(method, status).Inc()
}

// RecordToolCall records a tool invocation
func RecordToolCall(toolName, provider, status string, durationSec float64) {
	if provider == "" {
		provider = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	ToolCallsTotal.WithLabelValues(toolName, provider, status).Inc()
	ToolDuration.WithLabelValues(toolName, provider).Observe(durationSec)
}

// RecordToolTokens records estimated output tokens for a tool invocation
func RecordToolTokens(toolName, provider string, tokens float64) {
	if provider == "" {
		provider = "unknown"
	}
	if tokens < 0 {
		return
	}
	ToolTokensTotal.WithLabelValues(toolName, provider).Add(tokens)
}

// EstimateTokens approximates the token count of a text payload.
func EstimateTokens(text string) float64 {
	return float64(len(text)) / 4
}

// RecordSearchOutcome counts the final pipeline state of one search.
func RecordSearchOutcome(category, state, shape string) {
	if shape == "" {
		shape = "none"
	}
	SearchOutcomesTotal.WithLabelValues(category, state, shape).Inc()
}

// RecordAdmissionDenial counts one search refused by the rate limiter.
func RecordAdmissionDenial(category string) {
	AdmissionDenialsTotal.WithLabelValues(category).Inc()
}

// SetQuotaUsage publishes the monthly counter and its ceiling.
func SetQuotaUsage(used, limit int) {
	QuotaMonthUsed.Set(float64(used))
	QuotaMonthLimit.Set(float64(limit))
}

// SetCircuitBreakerState sets the circuit breaker state
func SetCircuitBreakerState(provider string, state string) {
	var val float64
	switch state {
	case "closed":
		val = 0.0
	case "half-open":
		val = 0.5
	case "open":
		val = 1.0
	}
	CircuitBreakerState.WithLabelValues(provider).Set(val)
}

// RecordExternalProviderLatency records external provider response time
func RecordExternalProviderLatency(provider, status string, durationSec float64) {
	ExternalProviderLatency.WithLabelValues(provider, status).Observe(durationSec)
}
