// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validators

import (
	"sync"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/qnet-consensus/reputation"
)

// staticSet is an immutable snapshot of a Manager's candidates, handed
// out by Manager.View so callers can iterate without holding the
// manager's lock.
type staticSet struct {
	candidates map[ids.NodeID]Candidate
}

func (s *staticSet) Len() int { return len(s.candidates) }

func (s *staticSet) Has(nodeID ids.NodeID) bool {
	_, ok := s.candidates[nodeID]
	return ok
}

func (s *staticSet) Get(nodeID ids.NodeID) (Candidate, bool) {
	c, ok := s.candidates[nodeID]
	return c, ok
}

func (s *staticSet) List() []Candidate {
	out := make([]Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		out = append(out, c)
	}
	return out
}

// Manager owns the live candidate pool and consults a reputation.Ledger
// for eligibility, matching the teacher's map-of-maps manager shape
// stripped of BLS keys and subnet IDs.
type Manager struct {
	mu         sync.RWMutex
	ledger     *reputation.Ledger
	log        log.Logger
	candidates map[ids.NodeID]Candidate
	callbacks  []SetCallbackListener
}

// NewManager constructs a Manager backed by ledger for eligibility
// decisions. logger may be nil.
func NewManager(ledger *reputation.Ledger, logger log.Logger) *Manager {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	return &Manager{
		ledger:     ledger,
		log:        logger,
		candidates: make(map[ids.NodeID]Candidate),
	}
}

// AddCallbackListener registers l to be notified of future candidate
// pool changes.
func (m *Manager) AddCallbackListener(l SetCallbackListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, l)
}

// Upsert adds or updates a candidate and notifies listeners.
func (m *Manager) Upsert(c Candidate) {
	m.mu.Lock()
	m.candidates[c.NodeID] = c
	callbacks := append([]SetCallbackListener(nil), m.callbacks...)
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb.OnValidatorAdded(c.NodeID, c)
	}
	m.log.Debug("validator candidate upserted", "node", c.NodeID.String(), "type", c.NodeType.String())
}

// Remove drops a candidate from the pool and notifies listeners.
func (m *Manager) Remove(nodeID ids.NodeID) {
	m.mu.Lock()
	_, existed := m.candidates[nodeID]
	delete(m.candidates, nodeID)
	callbacks := append([]SetCallbackListener(nil), m.callbacks...)
	m.mu.Unlock()

	if !existed {
		return
	}
	for _, cb := range callbacks {
		cb.OnValidatorRemoved(nodeID)
	}
}

// View returns an immutable snapshot of the current candidate pool.
func (m *Manager) View() Set {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make(map[ids.NodeID]Candidate, len(m.candidates))
	for k, v := range m.candidates {
		snapshot[k] = v
	}
	return &staticSet{candidates: snapshot}
}

// EligibleSnapshot returns the node IDs in the candidate pool whose
// current reputation clears the ledger's eligibility threshold, frozen
// at the moment of the call for use as a round's eligible_snapshot.
func (m *Manager) EligibleSnapshot() []ids.NodeID {
	m.mu.RLock()
	nodeIDs := make([]ids.NodeID, 0, len(m.candidates))
	for id := range m.candidates {
		nodeIDs = append(nodeIDs, id)
	}
	m.mu.RUnlock()

	eligible := make([]ids.NodeID, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		if m.ledger.Eligible(id) {
			eligible = append(eligible, id)
		}
	}
	return eligible
}
