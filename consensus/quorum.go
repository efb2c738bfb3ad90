// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"sync"

	"github.com/luxfi/ids"
)

// QuorumResult reports whether a round's reveal quorum has been reached.
type QuorumResult struct {
	Achieved        bool
	ValidCount      int
	RequiredMin     int
	RequiredFrac    int // ceil(2/3 * commits)
	TotalCommits    int
	ValidRevealers  []ids.NodeID
}

// quorumTracker is a mutex-guarded threshold counter for a round's valid
// reveals, re-grounded on the teacher's quorum.Static Add/Check/Reset
// idiom and adapted to this protocol's two-part reveal-quorum rule
// (absolute min_participants AND two-thirds of commits).
type quorumTracker struct {
	mu          sync.Mutex
	minRequired int
	valid       map[ids.NodeID]struct{}
	totalCommits int
}

func newQuorumTracker(minRequired int) *quorumTracker {
	return &quorumTracker{
		minRequired: minRequired,
		valid:       make(map[ids.NodeID]struct{}),
	}
}

// SetTotalCommits records the round's commit count, used to derive the
// two-thirds fraction requirement.
func (q *quorumTracker) SetTotalCommits(n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.totalCommits = n
}

// Add records a valid reveal from nodeID.
func (q *quorumTracker) Add(nodeID ids.NodeID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.valid[nodeID] = struct{}{}
}

// Check returns the current quorum status.
func (q *quorumTracker) Check() QuorumResult {
	q.mu.Lock()
	defer q.mu.Unlock()

	required := ceilTwoThirds(q.totalCommits)
	participants := make([]ids.NodeID, 0, len(q.valid))
	for id := range q.valid {
		participants = append(participants, id)
	}

	return QuorumResult{
		Achieved:       len(q.valid) >= q.minRequired && len(q.valid) >= required,
		ValidCount:     len(q.valid),
		RequiredMin:    q.minRequired,
		RequiredFrac:   required,
		TotalCommits:   q.totalCommits,
		ValidRevealers: participants,
	}
}

// Reset clears all recorded reveals, for reuse across rounds.
func (q *quorumTracker) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.valid = make(map[ids.NodeID]struct{})
	q.totalCommits = 0
}

func ceilTwoThirds(n int) int {
	return (2*n + 2) / 3
}
