// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leader

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/qnet-consensus/reputation"
)

func newTestSelector(t *testing.T) (*Selector, *reputation.Ledger) {
	t.Helper()
	l, err := reputation.NewLedger(reputation.DefaultConfig(), nil, nil)
	require.NoError(t, err)
	return NewSelector(l), l
}

func TestSelectLeaderEmptyEligible(t *testing.T) {
	s, _ := newTestSelector(t)
	_, ok := s.SelectLeader(nil, []byte("beacon"))
	require.False(t, ok)
}

func TestSelectLeaderDeterministic(t *testing.T) {
	s, l := newTestSelector(t)
	nodes := []ids.NodeID{
		ids.BuildTestNodeID([]byte{0x01}),
		ids.BuildTestNodeID([]byte{0x02}),
	}
	for _, n := range nodes {
		l.ApplyEvent(n, 5, "seed")
	}
	beacon := []byte{0x00, 0x00, 0x00, 0x01}

	a, okA := s.SelectLeader(nodes, beacon)
	b, okB := s.SelectLeader(nodes, beacon)
	require.True(t, okA)
	require.True(t, okB)
	require.Equal(t, a, b)
}

func TestRankDescendingWithLexicographicTieBreak(t *testing.T) {
	s, l := newTestSelector(t)
	low := ids.BuildTestNodeID([]byte{0x01})
	high := ids.BuildTestNodeID([]byte{0x02})
	tieA := ids.BuildTestNodeID([]byte{0x03})
	tieB := ids.BuildTestNodeID([]byte{0x04})

	l.ApplyEvent(low, -10, "seed")
	l.ApplyEvent(high, 10, "seed")
	// tieA and tieB stay at InitialReputation, tied with each other.

	ranked := s.Rank([]ids.NodeID{low, high, tieB, tieA})
	require.Equal(t, high, ranked[0].NodeID)
	require.Equal(t, tieA, ranked[1].NodeID)
	require.Equal(t, tieB, ranked[2].NodeID)
	require.Equal(t, low, ranked[3].NodeID)
}

func TestTopKTruncates(t *testing.T) {
	s, l := newTestSelector(t)
	nodes := []ids.NodeID{
		ids.BuildTestNodeID([]byte{0x01}),
		ids.BuildTestNodeID([]byte{0x02}),
		ids.BuildTestNodeID([]byte{0x03}),
	}
	for _, n := range nodes {
		l.ApplyEvent(n, 0, "touch")
	}

	top := s.TopK(nodes, 2)
	require.Len(t, top, 2)
}
