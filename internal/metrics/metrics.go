// Package metrics defines and registers the Prometheus metrics emitted by
// the portal client. It is the single source of truth for metric names,
// labels, and help strings; everything is registered with the default
// registry at package init via promauto.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// RequestsTotal counts API calls made through the request layer.
// Labels:
//   - path: the endpoint with numeric segments collapsed to ":id"
//   - method: the HTTP method
//   - outcome: "ok", "error" (server rejected), or "unreachable" (no response)
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of API requests, by endpoint, method, and outcome.",
	},
	[]string{"path", "method", "outcome"},
)

// RequestDuration measures one logical API call end-to-end, including a
// CSRF-triggered replay when one happens.
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests from dispatch to parsed envelope.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"path"},
)

// CSRFRetriesTotal counts writes that were replayed after a CSRF rejection.
var CSRFRetriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csrf_retries_total",
		Help:      "Total number of requests replayed after a CSRF rejection.",
	},
)

// SessionProbesTotal counts session probes, labelled by what forced them.
// Label:
//   - trigger: "get_session", "missing_token", "csrf_retry", or "logout"
var SessionProbesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_probes_total",
		Help:      "Total number of session probes issued, by trigger.",
	},
	[]string{"trigger"},
)

// SanitizePath collapses numeric path segments to ":id" so per-entity URLs
// do not explode label cardinality.
func SanitizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		numeric := true
		for _, r := range seg {
			if r < '0' || r > '9' {
				numeric = false
				break
			}
		}
		if numeric {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
