// Package metrics defines and registers all custom Prometheus metrics for the
// user service. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// via promauto; importing this package is enough to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthRejectionsTotal counts requests rejected before reaching a handler.
// Label:
//   - reason: short description of the rejection (e.g. "missing_token", "expired_token", "role_mismatch")
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by token or role checks.",
	},
	[]string{"reason"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditProcessedTotal counts audit events that were persisted successfully.
// Label:
//   - action: the audited action (e.g. "user.save", "access.denied")
var AuditProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_processed_total",
		Help:      "Total number of audit events successfully persisted.",
	},
	[]string{"action"},
)

// AuditErrorsTotal counts audit events that failed processing.
// Label:
//   - reason: short description of the failure (e.g. "process_failed")
var AuditErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of audit events that failed processing.",
	},
	[]string{"reason"},
)

// AuditDroppedTotal counts audit events discarded because a worker queue was full.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit events dropped on enqueue due to a full worker queue.",
	},
)

// AuditQueueDepth tracks the current number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CountsCacheTotal counts lookups against the cached gender aggregation.
// Label:
//   - result: "hit" (served from Redis) or "miss" (recomputed from Mongo)
var CountsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "counts_cache_total",
		Help:      "Total number of counts cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Download metrics ──────────────────────────────────────────────────────────

// DownloadedUsersTotal counts user records written to download streams.
var DownloadedUsersTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "downloaded_users_total",
		Help:      "Total number of user records streamed through the download endpoint.",
	},
)

// DownloadDuration measures how long a full download stream takes.
// Label:
//   - outcome: "ok" or "error"
var DownloadDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "download_duration_seconds",
		Help:      "Duration of the user download stream from first to last byte.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"outcome"},
)
