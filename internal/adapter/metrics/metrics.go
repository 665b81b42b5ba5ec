// Package metrics defines and registers the Prometheus metrics exported by the
// user account service. Metrics are registered with the default registry on
// package initialisation and served by promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "user_account"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts handled HTTP requests.
// Labels:
//   - method: HTTP method
//   - route: the matched route template (e.g. "/api/users/:id"), or "unmatched"
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures handler latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts auth flow outcomes.
// Labels:
//   - operation: "login", "register" or "forgot_password"
//   - result: "success", "invalid_credentials", "validation_error", "conflict",
//     "not_found" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of auth flow attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)

// SessionsCreatedTotal counts sessions bound on successful login.
var SessionsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_created_total",
		Help:      "Total number of sessions created.",
	},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheLookupsTotal counts user cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_cache_lookups_total",
		Help:      "Total number of user cache lookups, labelled by result.",
	},
	[]string{"result"},
)
