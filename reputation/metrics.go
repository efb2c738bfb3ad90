// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reputation

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/qnet-consensus/utils/wrappers"
)

// ledgerMetrics holds the Prometheus collectors a Ledger reports. The
// collectors are always constructed so call sites never need a nil check;
// registration with reg is skipped when reg is nil (tests, embedders that
// don't want metrics).
type ledgerMetrics struct {
	eventsTotal    prometheus.Counter
	maliciousTotal *prometheus.CounterVec
	decayRuns      prometheus.Counter
	selections     prometheus.Counter
}

func newLedgerMetrics(reg prometheus.Registerer) (*ledgerMetrics, error) {
	m := &ledgerMetrics{
		eventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reputation_events_total",
			Help: "Total number of reputation events applied.",
		}),
		maliciousTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reputation_malicious_total",
			Help: "Total malicious-behavior reports by kind.",
		}, []string{"kind"}),
		decayRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reputation_decay_runs_total",
			Help: "Total number of apply_decay invocations that changed at least one entry.",
		}),
		selections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reputation_weighted_selections_total",
			Help: "Total number of weighted_selection calls that returned a node.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	var errs wrappers.Errs
	errs.Add(reg.Register(m.eventsTotal))
	errs.Add(reg.Register(m.maliciousTotal))
	errs.Add(reg.Register(m.decayRuns))
	errs.Add(reg.Register(m.selections))
	return m, errs.Err()
}
