// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package leader selects a round's deterministic leader from a
// reputation-weighted population and ranks candidates for validator
// sampling.
package leader

import (
	"sort"

	"github.com/luxfi/ids"

	"github.com/luxfi/qnet-consensus/reputation"
)

// Ranked pairs a node with its score at ranking time.
type Ranked struct {
	NodeID ids.NodeID
	Score  float64
}

// Selector is a thin collaborator over a reputation.Ledger: it owns no
// state of its own, deferring all scoring and randomness to the ledger.
type Selector struct {
	ledger *reputation.Ledger
}

// NewSelector wraps ledger with leader-selection and ranking behavior.
func NewSelector(ledger *reputation.Ledger) *Selector {
	return &Selector{ledger: ledger}
}

// SelectLeader returns the deterministic reputation-weighted leader for
// eligibleNodes given beacon, or (zero, false) if eligibleNodes is empty
// or carries no selectable weight.
func (s *Selector) SelectLeader(eligibleNodes []ids.NodeID, beacon []byte) (ids.NodeID, bool) {
	if len(eligibleNodes) == 0 {
		return ids.EmptyNodeID, false
	}
	return s.ledger.WeightedSelection(eligibleNodes, beacon)
}

// Rank returns nodes sorted by descending reputation, with ties broken
// stably by ascending lexicographic node_id.
func (s *Selector) Rank(nodes []ids.NodeID) []Ranked {
	ranked := make([]Ranked, len(nodes))
	for i, n := range nodes {
		ranked[i] = Ranked{NodeID: n, Score: s.ledger.Get(n)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].NodeID.String() < ranked[j].NodeID.String()
	})
	return ranked
}

// TopK returns the first k entries of Rank(nodes), or all of them if
// fewer than k are available. Used for validator sampling when
// enable_validator_sampling is set.
func (s *Selector) TopK(nodes []ids.NodeID, k int) []Ranked {
	ranked := s.Rank(nodes)
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
