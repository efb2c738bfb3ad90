// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reputation

import (
	"sort"
	"sync"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
)

type nodeEntry struct {
	score          float64
	lastUpdate     time.Time
	history        []Event
	maliciousCount map[MaliciousKind]int
}

// Ledger is the per-node reputation accounting collaborator: bounded score
// updates, decay, malicious-behavior slashing, and beacon-seeded weighted
// selection. It is explicit, constructed state — no ambient singleton is
// used anywhere in this core.
type Ledger struct {
	mu      sync.Mutex
	cfg     Config
	log     log.Logger
	metrics *ledgerMetrics
	entries map[ids.NodeID]*nodeEntry
}

// NewLedger constructs a Ledger. logger and reg may be nil; a nil logger
// falls back to a no-op logger and a nil registerer skips metrics
// registration.
func NewLedger(cfg Config, logger log.Logger, reg prometheus.Registerer) (*Ledger, error) {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	m, err := newLedgerMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &Ledger{
		cfg:     cfg,
		log:     logger,
		metrics: m,
		entries: make(map[ids.NodeID]*nodeEntry),
	}, nil
}

// getOrCreate returns the entry for id, creating it at InitialReputation
// if this is the first reference. Caller must hold l.mu.
func (l *Ledger) getOrCreate(id ids.NodeID) *nodeEntry {
	e, ok := l.entries[id]
	if ok {
		return e
	}
	e = &nodeEntry{
		score:          l.cfg.InitialReputation,
		lastUpdate:     time.Time{},
		maliciousCount: make(map[MaliciousKind]int),
	}
	l.entries[id] = e
	return e
}

// Get returns the current score for id, or InitialReputation for a node
// never referenced before. Unlike every other operation, Get never
// creates an entry.
func (l *Ledger) Get(id ids.NodeID) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[id]; ok {
		return e.score
	}
	return l.cfg.InitialReputation
}

// LastSeen returns id's last-update time, and whether id has ever been
// referenced. That time is set by each event applied to id and moved
// forward by whole DecayIntervals whenever ApplyDecay decays the entry.
// Used by Unresponsive malice detection in higher layers.
func (l *Ledger) LastSeen(id ids.NodeID) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[id]
	if !ok {
		return time.Time{}, false
	}
	return e.lastUpdate, true
}

// ApplyEvent clamps the new score to [MinReputation, MaxReputation],
// records the event (capped to HistoryDepth), and returns the resulting
// score.
func (l *Ledger) ApplyEvent(id ids.NodeID, delta float64, reason string) float64 {
	return l.applyEventAt(id, delta, reason, time.Now())
}

func (l *Ledger) applyEventAt(id ids.NodeID, delta float64, reason string, now time.Time) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.getOrCreate(id)
	e.score = clamp(e.score+delta, l.cfg.MinReputation, l.cfg.MaxReputation)
	e.lastUpdate = now
	e.history = append(e.history, Event{Timestamp: now, Delta: delta, Reason: reason})
	if len(e.history) > l.cfg.HistoryDepth {
		e.history = e.history[len(e.history)-l.cfg.HistoryDepth:]
	}

	l.metrics.eventsTotal.Inc()
	l.log.Debug("reputation event applied", "node", id.String(), "delta", delta, "reason", reason, "score", e.score)
	return e.score
}

// RecordMalicious applies kind's configured penalty and increments the
// per-kind counter for id, creating the entry at InitialReputation first
// if id has never been referenced.
func (l *Ledger) RecordMalicious(id ids.NodeID, kind MaliciousKind) float64 {
	penalty := l.cfg.PenaltyFor(kind)

	l.mu.Lock()
	e := l.getOrCreate(id)
	e.maliciousCount[kind]++
	l.mu.Unlock()

	l.metrics.maliciousTotal.WithLabelValues(kind.String()).Inc()
	l.log.Warn("malicious behavior recorded", "node", id.String(), "kind", kind.String())

	return l.applyEventAt(id, penalty, "malicious:"+kind.String(), time.Now())
}

// ApplyDecay decays every entry linearly by DecayRate for each full
// DecayInterval elapsed since its LastUpdate, never crossing
// MinReputation. Idempotent for repeated calls with the same now.
func (l *Ledger) ApplyDecay(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cfg.DecayInterval <= 0 || l.cfg.DecayRate == 0 {
		return
	}

	changed := false
	for _, e := range l.entries {
		if e.lastUpdate.IsZero() {
			continue
		}
		elapsed := now.Sub(e.lastUpdate)
		if elapsed < l.cfg.DecayInterval {
			continue
		}
		periods := float64(elapsed / l.cfg.DecayInterval)
		decayed := clamp(e.score-periods*l.cfg.DecayRate, l.cfg.MinReputation, l.cfg.MaxReputation)
		if decayed == e.score {
			continue
		}
		e.score = decayed
		// Advance lastUpdate by whole elapsed periods only, so a later
		// call with the same now is a no-op (idempotence) while a call
		// with a later now picks up the remaining fraction correctly.
		e.lastUpdate = e.lastUpdate.Add(time.Duration(periods) * l.cfg.DecayInterval)
		changed = true
	}
	if changed {
		l.metrics.decayRuns.Inc()
	}
}

// Eligible reports whether id's current score meets the configured
// eligibility cutoff.
func (l *Ledger) Eligible(id ids.NodeID) bool {
	return l.Get(id) >= l.cfg.EligibilityScore()
}

// WeightedSelection returns one node from candidates selected with
// probability proportional to its reputation above SelectionFloor. Ties
// in the underlying random draw are impossible by construction; equal
// scores still resolve deterministically because candidates are sorted
// lexicographically by node_id before weights are assigned. Returns
// (zero, false) if candidates is empty or every weight is zero.
func (l *Ledger) WeightedSelection(candidates []ids.NodeID, beacon []byte) (ids.NodeID, bool) {
	if len(candidates) == 0 {
		return ids.EmptyNodeID, false
	}

	sorted := append([]ids.NodeID(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	weights := make([]uint64, len(sorted))
	l.mu.Lock()
	for i, id := range sorted {
		score := l.cfg.InitialReputation
		if e, ok := l.entries[id]; ok {
			score = e.score
		}
		w := score - l.cfg.SelectionFloor
		if w < 0 {
			w = 0
		}
		if w == 0 {
			w = epsilonWeight
		}
		weights[i] = scaleWeight(w)
	}
	l.mu.Unlock()

	idx, ok := weightedIndex(weights, beacon)
	if !ok {
		return ids.EmptyNodeID, false
	}
	l.metrics.selections.Inc()
	return sorted[idx], true
}

// epsilonWeight is the minimum weight granted to a node whose score has
// fallen to or below SelectionFloor, keeping it in the sampling space
// with a vanishingly small but nonzero probability.
const epsilonWeight = 0.01

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
