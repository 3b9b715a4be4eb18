package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vetassist",
			Name:      "completion_requests_total",
			Help:      "Total number of chat completion requests",
		},
		[]string{"provider", "model", "status"},
	)

	CompletionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vetassist",
			Name:      "completion_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "model"},
	)

	WebSearchLegsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vetassist",
			Name:      "websearch_legs_total",
			Help:      "Web search provider calls by outcome",
		},
		[]string{"provider", "result"}, // "ok" / "empty" / "error"
	)

	KnowledgeLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vetassist",
			Name:      "knowledge_lookups_total",
			Help:      "Knowledge-base lookups by resolved source",
		},
		[]string{"source"},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vetassist",
			Name:      "sessions_active",
			Help:      "Conversation sessions currently retained",
		},
	)
)

var pipelineRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineRegistered {
		return
	}
	prometheus.MustRegister(CompletionRequestsTotal)
	prometheus.MustRegister(CompletionRequestDuration)
	prometheus.MustRegister(WebSearchLegsTotal)
	prometheus.MustRegister(KnowledgeLookupsTotal)
	prometheus.MustRegister(SessionsActive)
	pipelineRegistered = true
}

// RegisterHTTPMetrics registers HTTP middleware metrics. Must be called once from main.
func RegisterHTTPMetrics() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
}
