// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/qnet-consensus/utils/wrappers"
)

type engineMetrics struct {
	roundsStarted   prometheus.Counter
	roundsFinalized prometheus.Counter
	roundsFailed    prometheus.Counter
	doubleSigns     prometheus.Counter
}

func newEngineMetrics(reg prometheus.Registerer) (*engineMetrics, error) {
	m := &engineMetrics{
		roundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "consensus_rounds_started_total",
			Help: "Total number of rounds started.",
		}),
		roundsFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "consensus_rounds_finalized_total",
			Help: "Total number of rounds that reached Finalized.",
		}),
		roundsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "consensus_rounds_failed_total",
			Help: "Total number of rounds that reached Failed.",
		}),
		doubleSigns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "consensus_double_signs_detected_total",
			Help: "Total number of double-signing detections.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	var errs wrappers.Errs
	errs.Add(reg.Register(m.roundsStarted))
	errs.Add(reg.Register(m.roundsFinalized))
	errs.Add(reg.Register(m.roundsFailed))
	errs.Add(reg.Register(m.doubleSigns))
	return m, errs.Err()
}
