// Package metrics defines and registers the custom Prometheus metrics of the
// approval service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import via
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "approval"

// ── Transaction metrics ───────────────────────────────────────────────────────

// TransactionsCreatedTotal counts newly created transactions. Idempotent
// replays are not counted.
var TransactionsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_created_total",
		Help:      "Total number of transactions created.",
	},
)

// TransactionsResolvedTotal counts administrator decisions.
// Label:
//   - status: "DONE" or "REJECTED"
var TransactionsResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_resolved_total",
		Help:      "Total number of transactions resolved, by resulting status.",
	},
	[]string{"status"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)
