// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mempool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/qnet-consensus/mempool/txtypes"
	"github.com/luxfi/qnet-consensus/state"
	"github.com/luxfi/qnet-consensus/validator"
)

func testPool(t *testing.T) (*Pool, *state.MemorySource) {
	t.Helper()
	src := state.NewMemorySource()
	v := validator.NewStandardValidator(src, 1, 1_000_000)
	cfg := DefaultConfig()
	cfg.MaxSize = 100
	cfg.MaxPerSender = 50
	cfg.GapTolerance = 2
	p, err := NewPool(cfg, v, src, nil, nil)
	require.NoError(t, err)
	return p, src
}

func tx(hash, from string, nonce, gasPrice uint64, at time.Time) txtypes.Transaction {
	return txtypes.Transaction{
		Hash: hash, From: from, Nonce: nonce, GasPrice: gasPrice,
		GasLimit: 21000, Timestamp: at,
	}
}

// TestMempoolPriorityOrdering covers scenario 5: gas prices [5,10,5,20],
// top(2) returns the 20-priced then the 10-priced transaction.
func TestMempoolPriorityOrdering(t *testing.T) {
	p, src := testPool(t)
	src.SetExpectedNonce("alice", 0)
	now := time.Unix(1_700_000_000, 0)

	require.NoError(t, p.Add(context.Background(), now, tx("a", "alice", 0, 5, now)))
	require.NoError(t, p.Add(context.Background(), now, tx("b", "alice", 1, 10, now.Add(time.Second))))
	require.NoError(t, p.Add(context.Background(), now, tx("c", "alice", 2, 5, now.Add(2*time.Second))))
	require.NoError(t, p.Add(context.Background(), now, tx("d", "alice", 3, 20, now.Add(3*time.Second))))

	top := p.Top(2)
	require.Len(t, top, 2)
	require.Equal(t, "d", top[0].Hash)
	require.Equal(t, uint64(20), top[0].GasPrice)
	require.Equal(t, "b", top[1].Hash)
	require.Equal(t, uint64(10), top[1].GasPrice)
}

// TestMempoolNonceDiscipline covers scenario 6: sender S at expected
// nonce 7, admitting 7, 8, 10 — 10 rejected as a gap until 9 closes it.
func TestMempoolNonceDiscipline(t *testing.T) {
	p, src := testPool(t)
	src.SetExpectedNonce("S", 7)
	now := time.Unix(1_700_000_000, 0)

	require.NoError(t, p.Add(context.Background(), now, tx("t7", "S", 7, 5, now)))
	require.NoError(t, p.Add(context.Background(), now, tx("t8", "S", 8, 5, now)))

	err := p.Add(context.Background(), now, tx("t10", "S", 10, 5, now))
	require.Error(t, err)
	require.True(t, errors.Is(err, &Error{Kind: NonceGap}))

	require.NoError(t, p.Add(context.Background(), now, tx("t9", "S", 9, 5, now)))
	require.NoError(t, p.Add(context.Background(), now, tx("t10b", "S", 10, 5, now)))

	queued := p.ForSender("S")
	require.Len(t, queued, 4)
	for i, want := range []uint64{7, 8, 9, 10} {
		require.Equal(t, want, queued[i].Nonce)
	}
}

func TestMempoolRejectsBelowExpectedNonce(t *testing.T) {
	p, src := testPool(t)
	src.SetExpectedNonce("alice", 5)
	now := time.Unix(1_700_000_000, 0)

	err := p.Add(context.Background(), now, tx("x", "alice", 3, 5, now))
	require.Error(t, err)
}

func TestMempoolDuplicateRejected(t *testing.T) {
	p, src := testPool(t)
	src.SetExpectedNonce("alice", 0)
	now := time.Unix(1_700_000_000, 0)

	require.NoError(t, p.Add(context.Background(), now, tx("a", "alice", 0, 5, now)))
	err := p.Add(context.Background(), now, tx("a", "alice", 0, 5, now))
	require.True(t, errors.Is(err, &Error{Kind: DuplicateTransaction}))
}

func TestMempoolAccountLimitEnforced(t *testing.T) {
	p, src := testPool(t)
	src.SetExpectedNonce("alice", 0)
	now := time.Unix(1_700_000_000, 0)
	p.cfg.MaxPerSender = 2

	require.NoError(t, p.Add(context.Background(), now, tx("a", "alice", 0, 5, now)))
	require.NoError(t, p.Add(context.Background(), now, tx("b", "alice", 1, 5, now)))
	err := p.Add(context.Background(), now, tx("c", "alice", 2, 5, now))
	require.True(t, errors.Is(err, &Error{Kind: AccountLimitExceeded}))
}

func TestMempoolRejectsMalformedTransaction(t *testing.T) {
	p, src := testPool(t)
	src.SetExpectedNonce("alice", 0)
	now := time.Unix(1_700_000_000, 0)

	malformed := tx("z", "", 0, 5, now) // missing sender fails ValidateBasic's shape check
	err := p.Add(context.Background(), now, malformed)
	require.True(t, errors.Is(err, &Error{Kind: InvalidTransaction}))
}

func TestMempoolSweepExpiresOldTransactions(t *testing.T) {
	p, src := testPool(t)
	src.SetExpectedNonce("alice", 0)
	now := time.Unix(1_700_000_000, 0)
	p.cfg.TxTTL = 10 * time.Second

	require.NoError(t, p.Add(context.Background(), now, tx("a", "alice", 0, 5, now)))

	p.Sweep(now.Add(20 * time.Second))

	_, ok := p.Get("a")
	require.False(t, ok)
	stats := p.Stats(now.Add(20 * time.Second))
	require.Equal(t, 0, stats.Total)
}

func TestMempoolRejectsAfterClose(t *testing.T) {
	p, src := testPool(t)
	src.SetExpectedNonce("alice", 0)
	now := time.Unix(1_700_000_000, 0)

	require.NoError(t, p.Add(context.Background(), now, tx("a", "alice", 0, 5, now)))
	p.Close()

	err := p.Add(context.Background(), now, tx("b", "alice", 1, 5, now))
	require.Error(t, err)

	_, ok := p.Get("a")
	require.True(t, ok, "previously admitted transactions remain readable after Close")
}

func TestMempoolRemove(t *testing.T) {
	p, src := testPool(t)
	src.SetExpectedNonce("alice", 0)
	now := time.Unix(1_700_000_000, 0)

	require.NoError(t, p.Add(context.Background(), now, tx("a", "alice", 0, 5, now)))
	p.Remove("a")
	_, ok := p.Get("a")
	require.False(t, ok)
	require.Empty(t, p.ForSender("alice"))
}
