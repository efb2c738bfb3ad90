// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/qnet-consensus/utils/wrappers"
)

type poolMetrics struct {
	size     prometheus.Gauge
	admitted prometheus.Counter
	rejected *prometheus.CounterVec
	evicted  prometheus.Counter
	expired  prometheus.Counter
}

func newPoolMetrics(reg prometheus.Registerer) (*poolMetrics, error) {
	m := &poolMetrics{
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mempool_size",
			Help: "Current number of transactions held in the mempool.",
		}),
		admitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mempool_admitted_total",
			Help: "Total number of transactions successfully admitted.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mempool_rejected_total",
			Help: "Total number of transactions rejected, labeled by reason.",
		}, []string{"reason"}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mempool_evicted_total",
			Help: "Total number of transactions evicted for capacity pressure.",
		}),
		expired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mempool_expired_total",
			Help: "Total number of transactions removed by TTL expiry.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	var errs wrappers.Errs
	errs.Add(reg.Register(m.size))
	errs.Add(reg.Register(m.admitted))
	errs.Add(reg.Register(m.rejected))
	errs.Add(reg.Register(m.evicted))
	errs.Add(reg.Register(m.expired))
	return m, errs.Err()
}
