// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package timing adapts commit/reveal phase durations to observed round
// latency: a bounded FIFO of recent round durations feeds a clamped
// scaling factor applied to the next round only.
package timing

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/qnet-consensus/metrics"
)

const (
	// maxHistory bounds the round-duration FIFO.
	maxHistory = 100
	// defaultMinFactor and defaultMaxFactor are the default bounds on the
	// scaling applied to base durations; kept configurable per spec.md §9's guidance that these
	// are empirical policy, not hard constants.
	defaultMinFactor = 0.5
	defaultMaxFactor = 2.0
)

// Config holds a Controller's tunable parameters.
type Config struct {
	// BaseCommitDuration and BaseRevealDuration are the defaults used
	// when no history is present, and the unscaled durations a
	// computed factor is applied to.
	BaseCommitDuration time.Duration
	BaseRevealDuration time.Duration
	// TargetRoundDuration is the round time the controller tries to
	// converge on.
	TargetRoundDuration time.Duration
	// MinFactor and MaxFactor bound the scaling factor derived from
	// observed history.
	MinFactor float64
	MaxFactor float64
}

// DefaultConfig returns the original QNet defaults: 60s commit, 30s
// reveal, targeting a 90s round, scaled within [0.5, 2.0].
func DefaultConfig() Config {
	return Config{
		BaseCommitDuration:  60 * time.Second,
		BaseRevealDuration:  30 * time.Second,
		TargetRoundDuration: 90 * time.Second,
		MinFactor:           defaultMinFactor,
		MaxFactor:           defaultMaxFactor,
	}
}

// Controller maintains a bounded FIFO of recent round durations and
// suggests phase durations scaled to observed performance. The engine
// applies a suggestion only to the next round; it never adjusts a round
// already in flight.
type Controller struct {
	mu      sync.Mutex
	cfg     Config
	history []time.Duration

	// lifetimeAvg tracks the cumulative average round duration across the
	// controller's whole lifetime (unlike history, which is a bounded
	// window used only for the scaling suggestion), for long-run
	// dashboards that want drift over the windowed signal.
	lifetimeAvg metrics.Averager
}

// NewController constructs a Controller. reg, if non-nil, receives the
// lifetime-average round-duration collector.
func NewController(cfg Config, reg prometheus.Registerer) (*Controller, error) {
	c := &Controller{cfg: cfg}
	if reg == nil {
		return c, nil
	}
	avg, err := metrics.NewAverager("timing_round_duration_seconds", "round duration in seconds", reg)
	if err != nil {
		return nil, err
	}
	c.lifetimeAvg = avg
	return c, nil
}

// RecordRoundDuration appends an observed round duration, evicting the
// oldest entry once the FIFO exceeds maxHistory.
func (c *Controller) RecordRoundDuration(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = append(c.history, d)
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}
	if c.lifetimeAvg != nil {
		c.lifetimeAvg.Observe(d.Seconds())
	}
}

// Suggest returns (commit, reveal) phase durations derived from the
// average of recorded history, clamped to [MinFactor, MaxFactor] of the
// configured base durations. With no history it returns the configured
// defaults unscaled.
func (c *Controller) Suggest() (commit, reveal time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) == 0 {
		return c.cfg.BaseCommitDuration, c.cfg.BaseRevealDuration
	}

	var sum time.Duration
	for _, d := range c.history {
		sum += d
	}
	avg := sum / time.Duration(len(c.history))
	if avg <= 0 {
		return c.cfg.BaseCommitDuration, c.cfg.BaseRevealDuration
	}

	factor := float64(c.cfg.TargetRoundDuration) / float64(avg)
	factor = clampFactor(factor, c.cfg.MinFactor, c.cfg.MaxFactor)

	commit = time.Duration(float64(c.cfg.BaseCommitDuration) * factor)
	reveal = time.Duration(float64(c.cfg.BaseRevealDuration) * factor)
	return commit, reveal
}

// AverageRoundDuration returns the average of the recorded history, and
// false if no rounds have been recorded yet.
func (c *Controller) AverageRoundDuration() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) == 0 {
		return 0, false
	}
	var sum time.Duration
	for _, d := range c.history {
		sum += d
	}
	return sum / time.Duration(len(c.history)), true
}

func clampFactor(f, min, max float64) float64 {
	if f < min {
		return min
	}
	if f > max {
		return max
	}
	return f
}
