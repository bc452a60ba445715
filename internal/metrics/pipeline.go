package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "noema",
			Name:      "decisions_total",
			Help:      "Total classification decisions by action and rule",
		},
		[]string{"action", "rule_id"},
	)

	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "noema",
			Name:      "phase_transitions_total",
			Help:      "Total idea lifecycle transitions",
		},
		[]string{"from", "to"},
	)

	LedgerAppendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "noema",
			Name:      "ledger_append_failures_total",
			Help:      "Ledger appends that failed after domain writes committed (audit gaps)",
		},
	)
)

var pipelineRegistered = false

// RegisterPipelineMetrics registers pipeline metrics explicitly (no init()).
// Safe to call multiple times.
func RegisterPipelineMetrics() {
	if pipelineRegistered {
		return
	}
	prometheus.MustRegister(DecisionsTotal)
	prometheus.MustRegister(TransitionsTotal)
	prometheus.MustRegister(LedgerAppendFailures)
	pipelineRegistered = true
}

// ObserveDecision records one classification outcome.
func ObserveDecision(action, ruleID string) {
	DecisionsTotal.WithLabelValues(action, ruleID).Inc()
}

// ObserveTransition records one lifecycle transition.
func ObserveTransition(from, to string) {
	TransitionsTotal.WithLabelValues(from, to).Inc()
}
