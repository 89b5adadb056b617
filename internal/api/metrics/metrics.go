// Package metrics defines and registers all custom Prometheus metrics for the
// blog API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "conflict", "invalid_credentials", "invalid", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// ── Blog metrics ──────────────────────────────────────────────────────────────

// BlogMutationsTotal counts create, update and delete requests.
// Labels:
//   - operation: "create", "update", "delete"
//   - result: "success", "replayed", "forbidden", "not_found", "invalid", "error"
var BlogMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blog_mutations_total",
		Help:      "Total number of blog mutations, by operation and outcome.",
	},
	[]string{"operation", "result"},
)

// BlogLikesTotal counts accepted likes.
var BlogLikesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blog_likes_total",
		Help:      "Total number of likes applied to blogs.",
	},
)

// ── View queue metrics ────────────────────────────────────────────────────────

// ViewsTotal counts view increments through the dispatcher.
// Label:
//   - result: "queued", "dropped", "applied", "failed"
var ViewsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "views_total",
		Help:      "Total number of blog view increments, by dispatcher outcome.",
	},
	[]string{"result"},
)

// ViewQueueDepth tracks the number of view increments waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ViewQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "view_queue_depth",
		Help:      "Current number of view increments pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ViewApplyDuration measures how long persisting a single view increment takes.
var ViewApplyDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "view_apply_duration_seconds",
		Help:      "Duration of a view increment from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)
