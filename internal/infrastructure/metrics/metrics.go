package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aibuilder_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path"},
	)
	HTTPDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aibuilder_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	HTTPErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aibuilder_http_errors_total",
			Help: "Total number of HTTP request errors.",
		},
		[]string{"method", "path", "status"},
	)

	// Chat
	ChatReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aibuilder_chat_replies_total",
			Help: "Chat replies served by matched intent",
		},
		[]string{"intent"}, // intent: greeting|build|pricing|default
	)

	// Plans
	PlansCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "aibuilder_plans_created_total",
			Help: "Total number of build plans generated",
		},
	)
	PlanPersistOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aibuilder_plan_persist_total",
			Help: "Plan persistence attempts by outcome",
		},
		[]string{"outcome"}, // outcome: stored|fallback
	)

	// DB ops
	DBOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aibuilder_db_ops_total",
			Help: "Document store operations performed",
		},
		[]string{"op"}, // op: insert|list|ping
	)

	// Errors
	Errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aibuilder_errors_total",
			Help: "Errors encountered in components",
		},
		[]string{"component", "type"},
	)
)

func init() {
	prometheus.MustRegister(
		// HTTP
		HTTPRequests,
		HTTPDurationSeconds,
		HTTPErrors,
		// Chat
		ChatReplies,
		// Plans
		PlansCreated,
		PlanPersistOutcomes,
		// DB
		DBOps,
		// Errors
		Errors,
	)
}

func StartMetricsServer() {
	http.Handle("/metrics", promhttp.Handler())
	_ = http.ListenAndServe(":2112", nil)
}

// HTTP
func ObserveHTTPRequest(method, path, status string, d time.Duration) {
	HTTPRequests.WithLabelValues(method, path).Inc()
	HTTPDurationSeconds.WithLabelValues(method, path, status).Observe(d.Seconds())
}

func IncHTTPError(method, path, status string) {
	HTTPErrors.WithLabelValues(method, path, status).Inc()
}

// Chat
func IncChatReply(intent string) {
	ChatReplies.WithLabelValues(intent).Inc()
}

// Plans
func IncPlansCreated() {
	PlansCreated.Inc()
}

func IncPlanPersist(outcome string) {
	PlanPersistOutcomes.WithLabelValues(outcome).Inc()
}

// DB / store ops
func IncDBOp(op string) {
	DBOps.WithLabelValues(op).Inc()
}

// Errors
func IncError(component, typ string) {
	Errors.WithLabelValues(component, typ).Inc()
}
