// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"sort"
	"testing"
	"time"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"

	"github.com/luxfi/qnet-consensus/leader"
	"github.com/luxfi/qnet-consensus/reputation"
	"github.com/luxfi/qnet-consensus/timing"
)

func newTestEngine(t *testing.T, minParticipants int) (*Engine, *reputation.Ledger) {
	t.Helper()
	ledger, err := reputation.NewLedger(reputation.DefaultConfig(), nil, nil)
	require.NoError(t, err)
	sel := leader.NewSelector(ledger)
	tc, err := timing.NewController(timing.DefaultConfig(), nil)
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.MinParticipants = minParticipants
	e, err := NewEngine(cfg, ledger, sel, tc, nil, nil)
	require.NoError(t, err)
	return e, ledger
}

func makeReveal(t *testing.T, roundID uint64, node ids.NodeID, value []byte, now time.Time) (Commit, Reveal) {
	t.Helper()
	var nonce [32]byte
	copy(nonce[:], node[:])
	hash := ComputeCommitHash(node, value, nonce)
	return Commit{RoundID: roundID, NodeID: node, CommitHash: hash, Timestamp: now},
		Reveal{RoundID: roundID, NodeID: node, Value: value, Nonce: nonce, Timestamp: now}
}

func TestHappyRoundFinalizes(t *testing.T) {
	e, ledger := newTestEngine(t, 4)
	now := time.Now()

	nodes := make([]ids.NodeID, 4)
	for i := range nodes {
		nodes[i] = ids.BuildTestNodeID([]byte{byte(i + 1)})
		ledger.ApplyEvent(nodes[i], 10, "seed")
	}

	beacon := []byte{0x00, 0x00, 0x00, 0x01}
	require.NoError(t, e.BeginRound(1, beacon, nodes, now))
	require.Equal(t, CommitPhase, e.CurrentPhase())

	commits := make(map[ids.NodeID]Commit)
	reveals := make(map[ids.NodeID]Reveal)
	for _, n := range nodes {
		c, r := makeReveal(t, 1, n, []byte("value-"+n.String()), now)
		commits[n] = c
		reveals[n] = r
	}

	for _, n := range nodes {
		require.NoError(t, e.SubmitCommit(commits[n], now))
	}
	// All eligible committed: early advance to Reveal already happened.
	require.Equal(t, RevealPhase, e.CurrentPhase())

	for _, n := range nodes {
		require.NoError(t, e.SubmitReveal(reveals[n], now))
	}

	transition, err := e.TryAdvance(now.Add(time.Millisecond))
	require.NoError(t, err)
	require.NotNil(t, transition)
	require.Equal(t, Finalized, transition.To)
	require.True(t, transition.Result.Success)
	require.Len(t, transition.Result.Participants, 4)

	for _, n := range nodes {
		require.Equal(t, 82.0, ledger.Get(n)) // initial 70 + seed 10 + reward 2
	}
}

func TestLaggardStillFinalizes(t *testing.T) {
	e, ledger := newTestEngine(t, 3)
	now := time.Now()

	nodes := make([]ids.NodeID, 4)
	for i := range nodes {
		nodes[i] = ids.BuildTestNodeID([]byte{byte(i + 1)})
		ledger.ApplyEvent(nodes[i], 10, "seed")
	}
	laggard := nodes[3]

	require.NoError(t, e.BeginRound(2, []byte("beacon"), nodes, now))
	for _, n := range nodes {
		c, _ := makeReveal(t, 2, n, []byte("v"), now)
		require.NoError(t, e.SubmitCommit(c, now))
	}
	require.Equal(t, RevealPhase, e.CurrentPhase())

	for _, n := range nodes {
		if n == laggard {
			continue
		}
		_, r := makeReveal(t, 2, n, []byte("v"), now)
		require.NoError(t, e.SubmitReveal(r, now))
	}

	result, err := e.Finalize()
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Participants, 3)
	require.Equal(t, 75.0, ledger.Get(laggard)) // initial 70 + seed 10 - FailedReveal penalty (5)
}

func TestDoubleSignExcludesNodeAndContinues(t *testing.T) {
	e, ledger := newTestEngine(t, 3)
	now := time.Now()

	a := ids.BuildTestNodeID([]byte{0x01})
	b := ids.BuildTestNodeID([]byte{0x02})
	c := ids.BuildTestNodeID([]byte{0x03})
	d := ids.BuildTestNodeID([]byte{0x04})
	nodes := []ids.NodeID{a, b, c, d}
	for _, n := range nodes {
		ledger.ApplyEvent(n, 10, "seed")
	}

	require.NoError(t, e.BeginRound(3, []byte("beacon"), nodes, now))

	commitA, _ := makeReveal(t, 3, a, []byte("va"), now)
	commitB1, _ := makeReveal(t, 3, b, []byte("vb1"), now)
	commitB2, _ := makeReveal(t, 3, b, []byte("vb2-different"), now)
	commitC, _ := makeReveal(t, 3, c, []byte("vc"), now)
	commitD, _ := makeReveal(t, 3, d, []byte("vd"), now)

	require.NoError(t, e.SubmitCommit(commitA, now))
	require.NoError(t, e.SubmitCommit(commitB1, now))
	err := e.SubmitCommit(commitB2, now)
	require.Error(t, err)
	var consErr *Error
	require.ErrorAs(t, err, &consErr)
	require.Equal(t, DoubleSigningDetected, consErr.Kind)
	require.NoError(t, e.SubmitCommit(commitC, now))
	require.NoError(t, e.SubmitCommit(commitD, now))

	require.False(t, ledger.Eligible(b))

	require.Equal(t, RevealPhase, e.CurrentPhase())

	_, revealA := makeReveal(t, 3, a, []byte("va"), now)
	_, revealB := makeReveal(t, 3, b, []byte("vb1"), now)
	_, revealC := makeReveal(t, 3, c, []byte("vc"), now)
	_, revealD := makeReveal(t, 3, d, []byte("vd"), now)

	require.NoError(t, e.SubmitReveal(revealA, now))
	err = e.SubmitReveal(revealB, now)
	require.Error(t, err)
	require.NoError(t, e.SubmitReveal(revealC, now))
	require.NoError(t, e.SubmitReveal(revealD, now))

	result, err := e.Finalize()
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Participants, 3)
	require.NotContains(t, result.Participants, b)
}

func TestInsufficientRevealsFails(t *testing.T) {
	e, ledger := newTestEngine(t, 4)
	now := time.Now()

	nodes := make([]ids.NodeID, 7)
	for i := range nodes {
		nodes[i] = ids.BuildTestNodeID([]byte{byte(i + 1)})
		ledger.ApplyEvent(nodes[i], 10, "seed")
	}

	require.NoError(t, e.BeginRound(4, []byte("beacon"), nodes, now))
	for _, n := range nodes {
		c, _ := makeReveal(t, 4, n, []byte("v"), now)
		require.NoError(t, e.SubmitCommit(c, now))
	}
	require.Equal(t, RevealPhase, e.CurrentPhase())

	for i := 0; i < 3; i++ {
		_, r := makeReveal(t, 4, nodes[i], []byte("v"), now)
		require.NoError(t, e.SubmitReveal(r, now))
	}

	_, deadline := e.RoundSnapshot()
	require.True(t, deadline)

	transition, err := e.TryAdvance(now.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, transition)
	require.Equal(t, Failed, transition.To)
	require.Equal(t, InsufficientReveals, transition.Result.FailureKind)
	require.False(t, transition.Result.Success)

	// Non-revealers penalized below their seeded 80, revealers untouched
	// (no reward on failure).
	for i := 3; i < 7; i++ {
		require.Less(t, ledger.Get(nodes[i]), 80.0)
	}
}

func TestBeginRoundEmptyEligibleFailsImmediately(t *testing.T) {
	e, _ := newTestEngine(t, 4)
	err := e.BeginRound(5, []byte("beacon"), nil, time.Now())
	require.Error(t, err)
	var consErr *Error
	require.ErrorAs(t, err, &consErr)
	require.Equal(t, InsufficientNodes, consErr.Kind)
	require.Equal(t, Idle, e.CurrentPhase())
}

func TestBeaconOutIsPureFunctionOfSortedReveals(t *testing.T) {
	e, ledger := newTestEngine(t, 2)
	now := time.Now()
	nodes := []ids.NodeID{
		ids.BuildTestNodeID([]byte{0x01}),
		ids.BuildTestNodeID([]byte{0x02}),
	}
	for _, n := range nodes {
		ledger.ApplyEvent(n, 10, "seed")
	}

	require.NoError(t, e.BeginRound(6, []byte("beacon"), nodes, now))
	for _, n := range nodes {
		c, _ := makeReveal(t, 6, n, []byte("v"), now)
		require.NoError(t, e.SubmitCommit(c, now))
	}
	for _, n := range nodes {
		_, r := makeReveal(t, 6, n, []byte("v"), now)
		require.NoError(t, e.SubmitReveal(r, now))
	}
	result, err := e.Finalize()
	require.NoError(t, err)
	require.NotEqual(t, [32]byte{}, result.BeaconOut)

	sorted := append([]ids.NodeID(nil), nodes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })
	var preimage []byte
	for _, n := range sorted {
		_, r := makeReveal(t, 6, n, []byte("v"), now)
		preimage = append(preimage, r.Value...)
		preimage = append(preimage, r.Nonce[:]...)
	}
	require.Equal(t, sha3.Sum256(preimage), result.BeaconOut)
}
