// Package observability exposes Prometheus metrics for the dispute ledger:
// activity counts, transition and verdict counters, per-member score gauges
// and ledger refresh/failure counters. Served on /metrics when enabled.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Metrics ────────────────────────────────────────────────────────────────

var (
	ActivitiesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vikula_activities_created_total",
		Help: "Activities appended to the ledger, by kind.",
	}, []string{"kind"})

	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vikula_transitions_total",
		Help: "Successful status transitions, by target status.",
	}, []string{"target"})

	IllegalTransitions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vikula_illegal_transitions_total",
		Help: "Transition requests rejected by the legality table.",
	})

	Verdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vikula_verdicts_total",
		Help: "Court verdicts applied, by verdict kind.",
	}, []string{"verdict"})

	OracleFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vikula_oracle_failures_total",
		Help: "Oracle calls that errored, timed out or returned garbage.",
	})

	LedgerRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vikula_ledger_refreshes_total",
		Help: "Completed refreshes against the remote backend.",
	})

	LedgerFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vikula_ledger_failures_total",
		Help: "Backend reads or writes that failed.",
	})

	LedgerSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vikula_ledger_activities",
		Help: "Activities currently held in the local cache.",
	})

	Score = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vikula_score",
		Help: "Derived trust score per household member.",
	}, []string{"identity"})
)
